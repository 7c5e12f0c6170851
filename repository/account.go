package repository

import (
	"context"

	"github.com/motivatchi/backend/domain"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// AdjustCoins applies a delta to the balance atomically, flooring the
	// result at zero, and returns the new balance.
	AdjustCoins(ctx context.Context, id string, delta int) (int, error)

	// SpendCoins deducts amount only if the balance covers it and returns
	// the new balance, or domain.ErrNotEnoughCoins.
	SpendCoins(ctx context.Context, id string, amount int) (int, error)
}
