package repository

import (
	"context"

	"github.com/motivatchi/backend/domain"
)

type PetRepository interface {
	GetByAccount(ctx context.Context, accountID string) (*domain.Pet, error)
	Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error)
	Update(ctx context.Context, pet *domain.Pet) error
}
