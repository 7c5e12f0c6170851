package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

type petRepository struct {
	pool *pgxpool.Pool
}

// NewPetRepository returns a Postgres-backed implementation of PetRepository.
func NewPetRepository(pool *pgxpool.Pool) repository.PetRepository {
	return &petRepository{pool: pool}
}

func (r *petRepository) GetByAccount(ctx context.Context, accountID string) (*domain.Pet, error) {
	const query = `
	SELECT id, account_id, level, xp, health, state, outfit, unlocked_outfits, created_at, updated_at
	FROM pets
	WHERE account_id = $1
	`
	row := r.pool.QueryRow(ctx, query, accountID)

	var pet domain.Pet
	if err := row.Scan(
		&pet.ID,
		&pet.AccountID,
		&pet.Level,
		&pet.XP,
		&pet.Health,
		&pet.State,
		&pet.Outfit,
		&pet.UnlockedOutfits,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPetNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) Create(ctx context.Context, pet *domain.Pet) (*domain.Pet, error) {
	if pet == nil || pet.AccountID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if pet.ID == "" {
		pet.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO pets (id, account_id, level, xp, health, state, outfit, unlocked_outfits)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		pet.ID,
		pet.AccountID,
		pet.Level,
		pet.XP,
		pet.Health,
		pet.State,
		pet.Outfit,
		pet.UnlockedOutfits,
	).Scan(&pet.CreatedAt, &pet.UpdatedAt); err != nil {
		return nil, err
	}
	return pet, nil
}

func (r *petRepository) Update(ctx context.Context, pet *domain.Pet) error {
	if pet == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE pets
	SET level = $2,
		xp = $3,
		health = $4,
		state = $5,
		outfit = $6,
		unlocked_outfits = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		pet.ID,
		pet.Level,
		pet.XP,
		pet.Health,
		pet.State,
		pet.Outfit,
		pet.UnlockedOutfits,
	).Scan(&pet.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrPetNotFound
		}
		return err
	}
	return nil
}
