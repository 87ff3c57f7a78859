package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/store"
	"github.com/vsiao/oenology-sub000/store/storetest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vintner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.ActionLog {
		return openTestStore(t)
	})
}

func TestOpen(t *testing.T) {
	t.Run("requires a path", func(t *testing.T) {
		_, err := Open("  ")
		utils.AssertTrue(t, err != nil)
	})

	t.Run("keeps the log across reopening", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "vintner.db")

		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.CreateGame(ctx, storetest.Record("g1", time.Now())))
		require.NoError(t, s.AppendAction(ctx, "g1", storetest.Choose(1, "p1", "coins")))
		require.NoError(t, s.Close())

		s, err = Open(path)
		require.NoError(t, err)
		defer s.Close()

		actions, err := s.ListActions(ctx, "g1", 0, 0)
		require.NoError(t, err)
		require.Len(t, actions, 1)
		utils.AssertEqual(t, actions[0].Choice, "coins")
	})

	t.Run("applies its connection pragmas", func(t *testing.T) {
		s := openTestStore(t)

		var journal string
		require.NoError(t, s.sqlDB.QueryRow("PRAGMA journal_mode").Scan(&journal))
		utils.AssertEqual(t, journal, "wal")

		var foreignKeys, busyTimeout int
		require.NoError(t, s.sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
		utils.AssertEqual(t, foreignKeys, 1)
		require.NoError(t, s.sqlDB.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
		utils.AssertEqual(t, busyTimeout, 5000)

		t.Log("So an action for a game that was never created is refused by the schema too")
		_, err := s.sqlDB.Exec(`INSERT INTO actions (game_id, seq, player_id, action) VALUES ('ghost', 1, 'p1', '{}')`)
		utils.AssertTrue(t, err != nil)
	})

	t.Run("an unopened store is not configured", func(t *testing.T) {
		var s *Store
		_, err := s.GetGame(context.Background(), "g1")
		utils.AssertTrue(t, err != nil)
		utils.AssertNoError(t, s.Close())
	})
}
