package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vsiao/oenology-sub000/engine"
	"github.com/vsiao/oenology-sub000/protocol"
)

var (
	ErrUnknownGameID           = errors.New("unknown game ID")
	ErrUnknownPlayerID         = errors.New("unknown player ID")
	ErrFnUnknownInactiveGameID = func(gameID string) error {
		return fmt.Errorf("%w: pending game with id \"%s\" does not exist", ErrUnknownGameID, gameID)
	}
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFull           = errors.New("game is full")
)

const maxPendingPlayers = 6

type GameStore interface {
	FindGame(gameID string) engine.GameEngine
	FindActiveGame(gameID string) engine.GameEngine
	FindInactiveGame(gameID string) engine.GameEngine
	FindPendingPlayer(gameID, playerID string) *protocol.Player
	PendingPlayers(gameID string) []protocol.Player
	AddInactiveGame(engine engine.GameEngine) error
	AddGame(engine engine.GameEngine) error
	AddPendingPlayer(gameID, playerID, name string) error
	AddPlayerToGame(gameID string, player engine.Player) error
	RemoveGame(gameID string)
}

// InMemoryGameStore maps game id to game engine
type InMemoryGameStore struct {
	Games          map[string]engine.GameEngine
	pendingPlayers map[string][]protocol.Player
	mu             sync.RWMutex
}

// NewInMemoryGameStore constructs an InMemoryGameStore
func NewInMemoryGameStore() *InMemoryGameStore {
	return &InMemoryGameStore{
		Games:          map[string]engine.GameEngine{},
		pendingPlayers: map[string][]protocol.Player{},
	}
}

func (s *InMemoryGameStore) FindGame(ID string) engine.GameEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.Games[ID]
	if !ok {
		return nil
	}
	return game
}

func (s *InMemoryGameStore) FindActiveGame(ID string) engine.GameEngine {
	game := s.FindGame(ID)
	if game == nil || game.PlayState() == engine.Idle {
		return nil
	}
	return game
}

func (s *InMemoryGameStore) FindInactiveGame(ID string) engine.GameEngine {
	game := s.FindGame(ID)
	if game == nil || game.PlayState() != engine.Idle {
		return nil
	}
	return game
}

// FindPendingPlayer finds someone who may connect to a game. Once a game
// has started only its seated players may.
func (s *InMemoryGameStore) FindPendingPlayer(gameID, playerID string) *protocol.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, info := range s.pendingPlayers[gameID] {
		if info.PlayerID == playerID {
			found := s.pendingPlayers[gameID][i]
			return &found
		}
	}
	return nil
}

func (s *InMemoryGameStore) PendingPlayers(gameID string) []protocol.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]protocol.Player{}, s.pendingPlayers[gameID]...)
}

func (s *InMemoryGameStore) AddInactiveGame(game engine.GameEngine) error {
	if game.PlayState() != engine.Idle {
		return ErrGameAlreadyStarted
	}
	return s.AddGame(game)
}

// AddGame adds a game in any state, such as one restored from its log. Its
// seated players become the players who may connect.
func (s *InMemoryGameStore) AddGame(game engine.GameEngine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Games[game.ID()]; exists {
		return fmt.Errorf("Game with id %s already exists", game.ID())
	}

	s.Games[game.ID()] = game
	if game.PlayState() != engine.Idle {
		s.pendingPlayers[game.ID()] = game.Seats()
	}
	return nil
}

// AddPendingPlayer adds the information from which to construct a Player in the future.
// If the target Game does not exist, it will fail.
func (s *InMemoryGameStore) AddPendingPlayer(gameID, playerID, name string) error {
	game := s.FindGame(gameID)
	if game == nil {
		return ErrFnUnknownInactiveGameID(gameID)
	}
	if game.PlayState() != engine.Idle {
		return ErrGameAlreadyStarted
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pendingPlayers[gameID]) >= maxPendingPlayers {
		return ErrGameFull
	}
	s.pendingPlayers[gameID] = append(s.pendingPlayers[gameID], protocol.Player{PlayerID: playerID, Name: name})
	return nil
}

// AddPlayerToGame connects a player to a game they are expected in
func (s *InMemoryGameStore) AddPlayerToGame(gameID string, player engine.Player) error {
	game := s.FindGame(gameID)
	if game == nil {
		return fmt.Errorf("%w: %s", ErrUnknownGameID, gameID)
	}
	if s.FindPendingPlayer(gameID, player.ID()) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayerID, player.ID())
	}
	return game.AddPlayer(player)
}

// RemoveGame stops a game and forgets it
func (s *InMemoryGameStore) RemoveGame(gameID string) {
	s.mu.Lock()
	game, ok := s.Games[gameID]
	delete(s.Games, gameID)
	delete(s.pendingPlayers, gameID)
	s.mu.Unlock()

	if ok {
		game.Stop()
	}
}
