package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ([a-z_]+) \((.*?)\n\);`)

func migrationColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "assets", "migrations", "0001_init.up.sql"))
	require.NoError(t, err)

	tables := make(map[string]map[string]bool)
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		columns := make(map[string]bool)
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) < 2 {
				continue
			}
			switch fields[0] {
			case "PRIMARY", "UNIQUE", "CHECK", "FOREIGN":
			default:
				columns[fields[0]] = true
			}
		}
		tables[m[1]] = columns
	}
	return tables
}

// Guards against the repositories and the migration drifting apart: every
// column the queries in this package read or write must exist in the DDL.
func TestQueriesMatchMigrationSchema(t *testing.T) {
	tables := migrationColumns(t)

	queried := map[string][]string{
		"accounts":                 {"id", "username", "password_hash", "coins", "created_at", "updated_at"},
		"follows":                  {"follower_id", "followee_id", "created_at"},
		"pets":                     {"id", "account_id", "level", "xp", "health", "state", "outfit", "unlocked_outfits", "created_at", "updated_at"},
		"tasks":                    {"id", "account_id", "name", "category", "deadline", "priority", "status", "completed_at", "notify", "created_at", "updated_at"},
		"weekly_challenges":        {"id", "week_start", "deadline", "task_count", "priority", "created_at"},
		"challenge_participations": {"id", "challenge_id", "account_id", "reward_claimed", "joined_at"},
		"events":                   {"id", "name", "starts_at", "ends_at", "reward_coins", "is_active", "winner_id", "winner_count", "created_at"},
		"notifications":            {"id", "account_id", "message", "is_read", "created_at"},
	}

	for table, columns := range queried {
		defined, ok := tables[table]
		require.True(t, ok, "table %s missing from migration", table)
		for _, column := range columns {
			assert.True(t, defined[column], "%s.%s is queried but not defined", table, column)
		}
	}
}
