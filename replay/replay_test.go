package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsiao/oenology-sub000/game"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
)

var errNoGame = errors.New("no such game")

type sliceSource struct {
	rec     protocol.GameRecord
	actions []protocol.Action
	calls   int
}

func (s *sliceSource) GetGame(_ context.Context, gameID string) (protocol.GameRecord, error) {
	if gameID != s.rec.GameID {
		return protocol.GameRecord{}, errNoGame
	}
	return s.rec, nil
}

func (s *sliceSource) ListActions(_ context.Context, _ string, afterSeq uint64, limit int) ([]protocol.Action, error) {
	s.calls++
	page := []protocol.Action{}
	for _, a := range s.actions {
		if a.Seq > afterSeq && len(page) < limit {
			page = append(page, a)
		}
	}
	return page, nil
}

func choose(seq uint64, playerID, key string) protocol.Action {
	return protocol.Action{Seq: seq, Type: protocol.ChooseAction, PlayerID: playerID, Choice: key}
}

func newSource(actions ...protocol.Action) *sliceSource {
	return &sliceSource{
		rec: protocol.GameRecord{
			GameID:  "g1",
			Players: []protocol.Player{{PlayerID: "p1", Name: "Ada"}, {PlayerID: "p2", Name: "Bo"}},
			Seed:    3,
		},
		actions: actions,
	}
}

func TestReplay(t *testing.T) {
	t.Run("rebuilds the state and skips illegal actions", func(t *testing.T) {
		t.Log("Given a log with one stale action in it")
		src := newSource(
			choose(1, "p1", "coins"),
			choose(2, "p2", "vines"),
			protocol.Action{Seq: 3, Type: protocol.Pass, PlayerID: "p1"},
			choose(4, "p1", "2"),
		)

		t.Log("When it is replayed")
		result, err := Replay(context.Background(), src, "g1", Options{Viewer: "p2"})

		t.Log("Then the legal actions are applied in order")
		require.NoError(t, err)
		utils.AssertEqual(t, result.Applied, 3)
		utils.AssertEqual(t, result.Ignored, 1)
		utils.AssertEqual(t, result.LastSeq, uint64(4))
		utils.AssertEqual(t, result.State.Year, 1)
		utils.AssertEqual(t, result.State.Players["p1"].Coins, 7)
		assert.Equal(t, game.Turn(game.WakeUpOrderTurn{PlayerID: "p2"}), result.State.CurrentTurn)
		require.Len(t, result.State.ActionPrompts, 1)
		utils.AssertEqual(t, result.State.ActionPrompts[0].PlayerID, "p2")
	})

	t.Run("matches applying the actions one at a time", func(t *testing.T) {
		src := newSource(choose(1, "p1", "visitors"), choose(2, "p2", "trellis"))
		result, err := Replay(context.Background(), src, "g1", Options{PageSize: 1})
		require.NoError(t, err)

		s, err := NewGame(src.rec, "")
		require.NoError(t, err)
		for _, a := range src.actions {
			s, err = game.Apply(s, a)
			require.NoError(t, err)
		}
		assert.Equal(t, s, result.State)
		assert.GreaterOrEqual(t, src.calls, 3)
	})

	t.Run("stops at a sequence gap", func(t *testing.T) {
		src := newSource(choose(1, "p1", "coins"), choose(3, "p2", "coins"))
		result, err := Replay(context.Background(), src, "g1", Options{})

		utils.AssertErrorIs(t, err, ErrSequenceGap)
		utils.AssertEqual(t, result.LastSeq, uint64(1))
	})

	t.Run("can stop early", func(t *testing.T) {
		src := newSource(choose(1, "p1", "coins"), choose(2, "p2", "coins"))
		result, err := Replay(context.Background(), src, "g1", Options{UntilSeq: 1})

		require.NoError(t, err)
		utils.AssertEqual(t, result.LastSeq, uint64(1))
		assert.Equal(t, game.Turn(game.MamaPapaTurn{PlayerID: "p2"}), result.State.CurrentTurn)
	})

	t.Run("reports missing inputs", func(t *testing.T) {
		_, err := Replay(context.Background(), nil, "g1", Options{})
		utils.AssertErrorIs(t, err, ErrSourceRequired)

		_, err = Replay(context.Background(), newSource(), " ", Options{})
		utils.AssertErrorIs(t, err, ErrGameIDRequired)

		_, err = Replay(context.Background(), newSource(), "g2", Options{})
		utils.AssertErrorIs(t, err, errNoGame)
	})

	t.Run("a cancelled context stops the replay", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Replay(ctx, newSource(choose(1, "p1", "coins")), "g1", Options{})
		utils.AssertErrorIs(t, err, context.Canceled)
	})
}
