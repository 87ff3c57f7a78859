// Package store keeps games: a registry of running game engines and the
// persisted action logs they are rebuilt from.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vsiao/oenology-sub000/protocol"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrGameExists       = errors.New("game already exists")
	ErrSequenceConflict = errors.New("action sequence conflict")
	ErrGameIDRequired   = errors.New("game id is required")
)

// ActionLog persists each game's record and its actions in sequence order.
// Actions are appended with consecutive sequence numbers starting at 1.
type ActionLog interface {
	CreateGame(ctx context.Context, rec protocol.GameRecord) error
	GetGame(ctx context.Context, gameID string) (protocol.GameRecord, error)
	AppendAction(ctx context.Context, gameID string, a protocol.Action) error
	ListActions(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]protocol.Action, error)
	ListGames(ctx context.Context) ([]protocol.GameRecord, error)
	Close() error
}

// CheckRecord validates a record before it is stored and fills in its
// creation time
func CheckRecord(rec protocol.GameRecord) (protocol.GameRecord, error) {
	rec.GameID = strings.TrimSpace(rec.GameID)
	if rec.GameID == "" {
		return rec, ErrGameIDRequired
	}
	if len(rec.Players) == 0 {
		return rec, fmt.Errorf("game %s has no players", rec.GameID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec, nil
}

// CheckNext reports whether a may follow an action log whose last sequence
// number is last
func CheckNext(gameID string, last uint64, a protocol.Action) error {
	if a.Seq != last+1 {
		return fmt.Errorf("%w: game %s expected %d got %d", ErrSequenceConflict, gameID, last+1, a.Seq)
	}
	return nil
}

type memoryGame struct {
	rec     protocol.GameRecord
	actions []protocol.Action
}

// MemoryLog is an ActionLog that lives as long as the process
type MemoryLog struct {
	mu    sync.RWMutex
	games map[string]*memoryGame
}

// NewMemoryLog constructs a MemoryLog
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{games: map[string]*memoryGame{}}
}

func (l *MemoryLog) CreateGame(ctx context.Context, rec protocol.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, err := CheckRecord(rec)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.games[rec.GameID]; ok {
		return fmt.Errorf("%w: %s", ErrGameExists, rec.GameID)
	}
	l.games[rec.GameID] = &memoryGame{rec: rec}
	return nil
}

func (l *MemoryLog) GetGame(ctx context.Context, gameID string) (protocol.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return protocol.GameRecord{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.games[gameID]
	if !ok {
		return protocol.GameRecord{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g.rec, nil
}

func (l *MemoryLog) AppendAction(ctx context.Context, gameID string, a protocol.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.games[gameID]
	if !ok {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	if err := CheckNext(gameID, uint64(len(g.actions)), a); err != nil {
		return err
	}
	g.actions = append(g.actions, a)
	return nil
}

func (l *MemoryLog) ListActions(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]protocol.Action, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	g, ok := l.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	if afterSeq >= uint64(len(g.actions)) {
		return []protocol.Action{}, nil
	}
	page := g.actions[afterSeq:]
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return append([]protocol.Action{}, page...), nil
}

func (l *MemoryLog) ListGames(ctx context.Context) ([]protocol.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	recs := make([]protocol.GameRecord, 0, len(l.games))
	for _, g := range l.games {
		recs = append(recs, g.rec)
	}
	SortRecords(recs)
	return recs, nil
}

func (l *MemoryLog) Close() error {
	return nil
}

// SortRecords orders records oldest first, then by id
func SortRecords(recs []protocol.GameRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].GameID < recs[j].GameID
	})
}
