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

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
	SELECT id, username, password_hash, coins, created_at, updated_at
	FROM accounts
	WHERE id = $1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `
	SELECT id, username, password_hash, coins, created_at, updated_at
	FROM accounts
	WHERE username = $1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, username))
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil || account.Username == "" {
		return nil, domain.ErrInvalidPayload
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO accounts (id, username, password_hash, coins)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Coins,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepository) AdjustCoins(ctx context.Context, id string, delta int) (int, error) {
	const query = `
	UPDATE accounts
	SET coins = GREATEST(0, coins + $2),
		updated_at = NOW()
	WHERE id = $1
	RETURNING coins
	`
	var coins int
	if err := r.pool.QueryRow(ctx, query, id, delta).Scan(&coins); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrAccountNotFound
		}
		return 0, err
	}
	return coins, nil
}

func (r *accountRepository) SpendCoins(ctx context.Context, id string, amount int) (int, error) {
	const query = `
	UPDATE accounts
	SET coins = coins - $2,
		updated_at = NOW()
	WHERE id = $1 AND coins >= $2
	RETURNING coins
	`
	var coins int
	err := r.pool.QueryRow(ctx, query, id, amount).Scan(&coins)
	if err == nil {
		return coins, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// No row matched: either the account is gone or the balance is short.
	if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
		return 0, lookupErr
	}
	return 0, domain.ErrNotEnoughCoins
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Coins,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
