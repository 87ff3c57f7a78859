package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
)

const gameEngineTestTimeout = time.Second

var (
	errLogDown = errors.New("log is down")
	errNoGame  = errors.New("no such game")
)

// memLog is an action log for engine tests
type memLog struct {
	mu      sync.Mutex
	games   map[string]protocol.GameRecord
	actions map[string][]protocol.Action
	failing bool
}

func newMemLog() *memLog {
	return &memLog{games: map[string]protocol.GameRecord{}, actions: map[string][]protocol.Action{}}
}

func (l *memLog) CreateGame(_ context.Context, rec protocol.GameRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.games[rec.GameID] = rec
	return nil
}

func (l *memLog) AppendAction(_ context.Context, gameID string, a protocol.Action) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return errLogDown
	}
	l.actions[gameID] = append(l.actions[gameID], a)
	return nil
}

func (l *memLog) GetGame(_ context.Context, gameID string) (protocol.GameRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.games[gameID]
	if !ok {
		return rec, errNoGame
	}
	return rec, nil
}

func (l *memLog) ListActions(_ context.Context, gameID string, afterSeq uint64, limit int) ([]protocol.Action, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	page := []protocol.Action{}
	for _, a := range l.actions[gameID] {
		if a.Seq > afterSeq && len(page) < limit {
			page = append(page, a)
		}
	}
	return page, nil
}

func (l *memLog) logged(gameID string) []protocol.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]protocol.Action{}, l.actions[gameID]...)
}

func (l *memLog) fail() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failing = true
}

func namesToPlayers(names []string) Players {
	ps := Players{}
	for _, n := range names {
		ps = append(ps, NewTestPlayer(NewID(), n))
	}
	return ps
}

func playersToNames(players Players) []string {
	names := []string{}
	for _, p := range players {
		names = append(names, p.Name())
	}
	return names
}

// next waits for tp's next message with one of cmds
func next(t *testing.T, tp *TestPlayer, cmds ...protocol.Cmd) protocol.OutboundMessage {
	t.Helper()
	ch := make(chan protocol.OutboundMessage, 1)
	utils.Within(t, gameEngineTestTimeout, func() {
		ch <- tp.Next(cmds...)
	})
	select {
	case msg := <-ch:
		return msg
	default:
		return protocol.OutboundMessage{}
	}
}

// startedGame returns a started two player game between p1 and p2
func startedGame(t *testing.T, log *memLog) (*gameEngine, *TestPlayer, *TestPlayer) {
	t.Helper()
	p1, p2 := APlayer("p1", "Ada"), APlayer("p2", "Bo")
	opts := GameEngineOpts{
		GameID:    "game-id",
		CreatorID: "p1",
		Players:   NewPlayers(p1, p2),
		Seed:      7,
	}
	if log != nil {
		opts.Log = log
	}
	ge, err := NewGameEngine(opts)
	utils.AssertNoError(t, err)
	t.Cleanup(ge.Stop)

	utils.AssertNoError(t, ge.Start())
	next(t, p1, protocol.StateUpdate)
	next(t, p2, protocol.StateUpdate)
	return ge, p1, p2
}

func act(playerID string, a protocol.Action) protocol.InboundMessage {
	return protocol.InboundMessage{PlayerID: playerID, Command: protocol.Act, Action: &a}
}
