package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

// UseCase assembles the logged-in user's profile view.
type UseCase struct {
	accounts repository.AccountRepository
	pets     repository.PetRepository
	logger   *zap.Logger
}

func New(accounts repository.AccountRepository, pets repository.PetRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts: accounts,
		pets:     pets,
		logger:   logger,
	}
}

// Me returns the account together with its pet.
func (uc *UseCase) Me(ctx context.Context, accountID string) (*domain.Account, *domain.Pet, error) {
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return account, pet, nil
}
