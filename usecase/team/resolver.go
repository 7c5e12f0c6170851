package team

import (
	"context"
	"sort"

	"github.com/motivatchi/backend/repository"
)

// Resolver computes a user's team: the transitive closure of the
// mutual-follow relation seeded from that user. A follow edge alone is not a
// connection; only pairs recorded in both directions count, so the closure is
// connected-component discovery over an undirected mutual-follow graph.
//
// Teams are recomputed per request. There is no cache to invalidate when an
// edge changes, and team sizes stay small enough that the breadth-first
// expansion is cheap.
type Resolver struct {
	follows repository.FollowRepository
}

func NewResolver(follows repository.FollowRepository) *Resolver {
	return &Resolver{follows: follows}
}

// Resolve returns the team for username, self included, sorted for stable
// output. An isolated user resolves to just themselves.
func (r *Resolver) Resolve(ctx context.Context, username string) ([]string, error) {
	seen := map[string]bool{username: true}
	queue := []string{username}

	for len(queue) > 0 {
		member := queue[0]
		queue = queue[1:]

		mutuals, err := r.follows.Mutuals(ctx, member)
		if err != nil {
			return nil, err
		}
		for _, m := range mutuals {
			if !seen[m] {
				seen[m] = true
				queue = append(queue, m)
			}
		}
	}

	members := make([]string, 0, len(seen))
	for m := range seen {
		members = append(members, m)
	}
	sort.Strings(members)
	return members, nil
}
