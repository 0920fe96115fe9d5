package repositories

import (
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// SetupTestDB initializes a temporary in-memory Badger instance for testing
func SetupTestDB(t *testing.T) *badger.DB {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestIndex opens an in-memory bluge index
func SetupTestIndex(t *testing.T) *UserIndex {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewUserIndex(writer)
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

// newUsers registers one account per username and returns their ids in order
func newUsers(t *testing.T, repo *UserRepository, usernames ...string) []string {
	ids := make([]string, 0, len(usernames))
	for _, name := range usernames {
		user, err := repo.CreateUser(name, name+"@example.com", "hash")
		require.NoError(t, err)
		ids = append(ids, user.ID)
	}
	return ids
}
