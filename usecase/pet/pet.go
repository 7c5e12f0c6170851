package pet

import (
	"context"

	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

// Health actions accepted by ApplyHealthAction.
const (
	ActionTaskCompleted = "task_completed"
	ActionTaskMissed    = "task_missed"
)

// UseCase covers tamagotchi state: health, outfits and the followed-pet view.
type UseCase struct {
	accounts repository.AccountRepository
	pets     repository.PetRepository
	follows  repository.FollowRepository
	logger   *zap.Logger
}

func New(
	accounts repository.AccountRepository,
	pets repository.PetRepository,
	follows repository.FollowRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts: accounts,
		pets:     pets,
		follows:  follows,
		logger:   logger,
	}
}

// Health returns the pet's current health.
func (uc *UseCase) Health(ctx context.Context, accountID string) (float64, error) {
	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return pet.Health, nil
}

// ApplyHealthAction adjusts health by one heart in either direction.
func (uc *UseCase) ApplyHealthAction(ctx context.Context, accountID, action string) (float64, error) {
	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	switch action {
	case ActionTaskCompleted:
		pet.IncreaseHealth(1.0)
	case ActionTaskMissed:
		pet.DecreaseHealth(1.0)
	default:
		return 0, domain.NewError(domain.ErrCodeInvalid, "invalid action")
	}

	if err := uc.pets.Update(ctx, pet); err != nil {
		return 0, err
	}
	return pet.Health, nil
}

// PurchaseOutfit unlocks an outfit, charging the authoritative price.
// Purchasing an already-unlocked outfit charges nothing.
func (uc *UseCase) PurchaseOutfit(ctx context.Context, accountID string, outfitID int) (int, []int, error) {
	price, known := domain.OutfitPrice(outfitID)
	if !known {
		return 0, nil, domain.NewError(domain.ErrCodeInvalid, "outfit_id must be 1..9")
	}

	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, nil, err
	}

	if pet.HasOutfit(outfitID) {
		account, err := uc.accounts.GetByID(ctx, accountID)
		if err != nil {
			return 0, nil, err
		}
		return account.Coins, pet.UnlockedOutfits, nil
	}

	coins, err := uc.accounts.SpendCoins(ctx, accountID, price)
	if err != nil {
		return 0, nil, err
	}

	pet.Unlock(outfitID)
	if err := uc.pets.Update(ctx, pet); err != nil {
		return 0, nil, err
	}

	uc.logger.Info("outfit purchased",
		zap.String("account_id", accountID),
		zap.Int("outfit_id", outfitID),
		zap.Int("price", price))
	return coins, pet.UnlockedOutfits, nil
}

// SetOutfit equips an unlocked outfit.
func (uc *UseCase) SetOutfit(ctx context.Context, accountID string, outfitID int) (int, error) {
	if _, known := domain.OutfitPrice(outfitID); !known {
		return 0, domain.NewError(domain.ErrCodeInvalid, "outfit_id must be 1..9")
	}

	pet, err := uc.pets.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if !pet.HasOutfit(outfitID) {
		return 0, domain.NewError(domain.ErrCodeInvalid, "outfit not unlocked")
	}

	pet.Outfit = outfitID
	if err := uc.pets.Update(ctx, pet); err != nil {
		return 0, err
	}
	return pet.Outfit, nil
}

// FollowedPet returns another user's pet, visible only to their followers.
func (uc *UseCase) FollowedPet(ctx context.Context, currentUsername, targetUsername string) (*domain.Pet, error) {
	target, err := uc.accounts.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	following, err := uc.follows.IsFollowing(ctx, currentUsername, targetUsername)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, domain.ErrNotFollowing
	}
	return uc.pets.GetByAccount(ctx, target.ID)
}
