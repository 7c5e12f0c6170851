package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motivatchi/backend/repository"
)

type followRepository struct {
	pool *pgxpool.Pool
}

// NewFollowRepository returns a Postgres-backed edge store over the follows
// table. Edges reference account ids; the username-based interface resolves
// them in-query so callers never juggle both identifiers.
func NewFollowRepository(pool *pgxpool.Pool) repository.FollowRepository {
	return &followRepository{pool: pool}
}

func (r *followRepository) Follow(ctx context.Context, follower, followee string) (bool, error) {
	const query = `
	INSERT INTO follows (follower_id, followee_id)
	SELECT a.id, b.id
	FROM accounts a, accounts b
	WHERE a.username = $1 AND b.username = $2
	ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query, follower, followee)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, follower, followee string) (bool, error) {
	const query = `
	DELETE FROM follows f
	USING accounts a, accounts b
	WHERE f.follower_id = a.id AND a.username = $1
	  AND f.followee_id = b.id AND b.username = $2
	`
	tag, err := r.pool.Exec(ctx, query, follower, followee)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, follower, followee string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1
		FROM follows f
		JOIN accounts a ON a.id = f.follower_id
		JOIN accounts b ON b.id = f.followee_id
		WHERE a.username = $1 AND b.username = $2
	)
	`
	var following bool
	if err := r.pool.QueryRow(ctx, query, follower, followee).Scan(&following); err != nil {
		return false, err
	}
	return following, nil
}

func (r *followRepository) Following(ctx context.Context, username string) ([]string, error) {
	const query = `
	SELECT b.username
	FROM follows f
	JOIN accounts a ON a.id = f.follower_id
	JOIN accounts b ON b.id = f.followee_id
	WHERE a.username = $1
	ORDER BY f.created_at
	`
	return r.usernames(ctx, query, username)
}

func (r *followRepository) Followers(ctx context.Context, username string) ([]string, error) {
	const query = `
	SELECT a.username
	FROM follows f
	JOIN accounts a ON a.id = f.follower_id
	JOIN accounts b ON b.id = f.followee_id
	WHERE b.username = $1
	ORDER BY f.created_at
	`
	return r.usernames(ctx, query, username)
}

func (r *followRepository) Mutuals(ctx context.Context, username string) ([]string, error) {
	// A mutual follow is a pair of opposite edges; the self-join keeps only
	// connections recorded in both directions.
	const query = `
	SELECT b.username
	FROM follows f1
	JOIN follows f2 ON f2.follower_id = f1.followee_id AND f2.followee_id = f1.follower_id
	JOIN accounts a ON a.id = f1.follower_id
	JOIN accounts b ON b.id = f1.followee_id
	WHERE a.username = $1
	ORDER BY b.username
	`
	return r.usernames(ctx, query, username)
}

func (r *followRepository) usernames(ctx context.Context, query, username string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
