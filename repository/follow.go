package repository

import "context"

// FollowRepository maintains the directed follow-edge relation. An edge
// (follower, followee) means follower follows followee; a mutual follow is
// the pair of opposite edges, and is what team computation treats as an
// undirected connection.
type FollowRepository interface {
	// Follow inserts the edge, reporting false when it already existed.
	Follow(ctx context.Context, follower, followee string) (bool, error)
	// Unfollow removes the edge, reporting false when it was absent.
	Unfollow(ctx context.Context, follower, followee string) (bool, error)
	IsFollowing(ctx context.Context, follower, followee string) (bool, error)
	Following(ctx context.Context, username string) ([]string, error)
	Followers(ctx context.Context, username string) ([]string, error)
	// Mutuals returns usernames with follow edges in both directions.
	Mutuals(ctx context.Context, username string) ([]string, error)
}
