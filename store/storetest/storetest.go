// Package storetest checks that an ActionLog keeps its contract. Each backend
// runs it from its own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsiao/oenology-sub000/board"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/store"
)

// Record returns a game record for tests
func Record(gameID string, created time.Time) protocol.GameRecord {
	return protocol.GameRecord{
		GameID:    gameID,
		CreatorID: "p1",
		Players: []protocol.Player{
			{PlayerID: "p1", Name: "Ada", Color: "red"},
			{PlayerID: "p2", Name: "Bo", Color: "blue"},
		},
		Variant:   board.Extended,
		Seed:      42,
		CreatedAt: created,
	}
}

// Choose returns a chooseAction action with the given sequence number
func Choose(seq uint64, playerID, key string) protocol.Action {
	return protocol.Action{
		Seq:         seq,
		Type:        protocol.ChooseAction,
		PlayerID:    playerID,
		Choice:      key,
		SequenceKey: "key-" + key,
		Timestamp:   int64(1000 + seq),
	}
}

// Run exercises an ActionLog. open must return an empty log.
func Run(t *testing.T, open func(t *testing.T) store.ActionLog) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stores and fetches a game record", func(t *testing.T) {
		log := open(t)
		want := Record("g1", created)

		require.NoError(t, log.CreateGame(ctx, want))
		got, err := log.GetGame(ctx, "g1")
		require.NoError(t, err)

		utils.AssertEqual(t, got.GameID, want.GameID)
		utils.AssertEqual(t, got.CreatorID, want.CreatorID)
		utils.AssertEqual(t, got.Variant, board.Extended)
		utils.AssertEqual(t, got.Seed, int64(42))
		utils.AssertDeepEqual(t, got.Players, want.Players)
		utils.AssertTrue(t, got.CreatedAt.Equal(created))
	})

	t.Run("rejects a duplicate or empty game", func(t *testing.T) {
		log := open(t)
		require.NoError(t, log.CreateGame(ctx, Record("g1", created)))

		utils.AssertErrorIs(t, log.CreateGame(ctx, Record("g1", created)), store.ErrGameExists)
		utils.AssertErrorIs(t, log.CreateGame(ctx, Record(" ", created)), store.ErrGameIDRequired)
	})

	t.Run("an unknown game is not found", func(t *testing.T) {
		log := open(t)

		_, err := log.GetGame(ctx, "nope")
		utils.AssertErrorIs(t, err, store.ErrNotFound)
		_, err = log.ListActions(ctx, "nope", 0, 10)
		utils.AssertErrorIs(t, err, store.ErrNotFound)
		utils.AssertErrorIs(t, log.AppendAction(ctx, "nope", Choose(1, "p1", "coins")), store.ErrNotFound)
	})

	t.Run("appends actions in sequence and pages through them", func(t *testing.T) {
		log := open(t)
		require.NoError(t, log.CreateGame(ctx, Record("g1", created)))
		require.NoError(t, log.CreateGame(ctx, Record("g2", created)))

		keys := []string{"coins", "vines", "1", "2", "3"}
		for i, key := range keys {
			require.NoError(t, log.AppendAction(ctx, "g1", Choose(uint64(i+1), "p1", key)))
		}
		require.NoError(t, log.AppendAction(ctx, "g2", Choose(1, "p2", "visitors")))

		first, err := log.ListActions(ctx, "g1", 0, 2)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, Choose(1, "p1", "coins"), first[0])
		utils.AssertEqual(t, first[1].Seq, uint64(2))

		rest, err := log.ListActions(ctx, "g1", 2, 10)
		require.NoError(t, err)
		require.Len(t, rest, 3)
		utils.AssertEqual(t, rest[0].Seq, uint64(3))
		utils.AssertEqual(t, rest[2].Choice, "3")

		none, err := log.ListActions(ctx, "g1", 5, 10)
		require.NoError(t, err)
		utils.AssertEqual(t, len(none), 0)

		other, err := log.ListActions(ctx, "g2", 0, 10)
		require.NoError(t, err)
		require.Len(t, other, 1)
		utils.AssertEqual(t, other[0].PlayerID, "p2")
	})

	t.Run("rejects an out of sequence action", func(t *testing.T) {
		log := open(t)
		require.NoError(t, log.CreateGame(ctx, Record("g1", created)))

		utils.AssertErrorIs(t, log.AppendAction(ctx, "g1", Choose(2, "p1", "coins")), store.ErrSequenceConflict)
		require.NoError(t, log.AppendAction(ctx, "g1", Choose(1, "p1", "coins")))
		utils.AssertErrorIs(t, log.AppendAction(ctx, "g1", Choose(1, "p2", "coins")), store.ErrSequenceConflict)

		actions, err := log.ListActions(ctx, "g1", 0, 10)
		require.NoError(t, err)
		utils.AssertEqual(t, len(actions), 1)
	})

	t.Run("lists games oldest first", func(t *testing.T) {
		log := open(t)
		require.NoError(t, log.CreateGame(ctx, Record("late", created.Add(time.Hour))))
		require.NoError(t, log.CreateGame(ctx, Record("early", created)))

		games, err := log.ListGames(ctx)
		require.NoError(t, err)
		require.Len(t, games, 2)
		utils.AssertEqual(t, games[0].GameID, "early")
		utils.AssertEqual(t, games[1].GameID, "late")
	})

	t.Run("honours a cancelled context", func(t *testing.T) {
		log := open(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		utils.AssertErrorIs(t, log.CreateGame(cancelled, Record("g1", created)), context.Canceled)
		_, err := log.GetGame(cancelled, "g1")
		utils.AssertErrorIs(t, err, context.Canceled)
	})
}
