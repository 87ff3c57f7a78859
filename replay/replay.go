// Package replay rebuilds game states from a persisted action log.
package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/game"
	"github.com/vsiao/oenology-sub000/protocol"
)

const defaultPageSize = 200

var (
	ErrSourceRequired = errors.New("action source is required")
	ErrGameIDRequired = errors.New("game id is required")
	ErrSequenceGap    = errors.New("action sequence gap")
)

// Source lists a game's record and its actions in sequence order
type Source interface {
	GetGame(ctx context.Context, gameID string) (protocol.GameRecord, error)
	ListActions(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]protocol.Action, error)
}

// Options configure a replay
type Options struct {
	// Viewer is whose prompts the rebuilt state queues
	Viewer string
	// UntilSeq stops the replay after this action; zero replays everything
	UntilSeq uint64
	PageSize int
}

// Result is the outcome of a replay
type Result struct {
	State   *game.GameState
	LastSeq uint64
	Applied int
	// Ignored counts logged actions that were illegal when replayed
	Ignored int
}

// NewGame builds the starting state described by rec, as seen by viewer
func NewGame(rec protocol.GameRecord, viewer string) (*game.GameState, error) {
	return game.StartGame(rec.Players, game.Options{
		Variant:   rec.Variant,
		DrawPiles: deck.SeededPiles(rec.Seed),
		PlayerID:  viewer,
	})
}

// Replay rebuilds a game from src, page by page, stopping at the first gap
// in the sequence
func Replay(ctx context.Context, src Source, gameID string, opts Options) (Result, error) {
	if src == nil {
		return Result{}, ErrSourceRequired
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return Result{}, ErrGameIDRequired
	}

	rec, err := src.GetGame(ctx, gameID)
	if err != nil {
		return Result{}, err
	}
	state, err := NewGame(rec, opts.Viewer)
	if err != nil {
		return Result{}, fmt.Errorf("start game %s: %w", gameID, err)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	result := Result{State: state}
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		actions, err := src.ListActions(ctx, gameID, result.LastSeq, pageSize)
		if err != nil {
			return result, err
		}
		if len(actions) == 0 {
			return result, nil
		}
		if opts.UntilSeq > 0 {
			for i, a := range actions {
				if a.Seq > opts.UntilSeq {
					actions = actions[:i]
					break
				}
			}
		}
		if err := result.Apply(actions...); err != nil {
			return result, err
		}
		if opts.UntilSeq > 0 && result.LastSeq >= opts.UntilSeq {
			return result, nil
		}
		if len(actions) < pageSize {
			return result, nil
		}
	}
}

// Apply folds actions onto the result's state. Each action must carry the
// next sequence number.
func (r *Result) Apply(actions ...protocol.Action) error {
	for _, a := range actions {
		expected := r.LastSeq + 1
		if a.Seq != expected {
			return fmt.Errorf("%w: expected %d got %d", ErrSequenceGap, expected, a.Seq)
		}
		next, err := game.Reduce(r.State, a)
		if err != nil {
			return fmt.Errorf("replay action %d: %w", a.Seq, err)
		}
		if next == r.State {
			r.Ignored++
		} else {
			r.Applied++
		}
		r.State = next
		r.LastSeq = a.Seq
	}
	return nil
}
