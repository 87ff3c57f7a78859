package game

import (
	"errors"
	"fmt"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

var (
	ErrIllegalAction    = errors.New("illegal action")
	ErrInvariant        = errors.New("invariant violated")
	ErrNotStarted       = errors.New("game has not started")
	ErrTooFewPlayers    = errors.New("minimum of 1 player required")
	ErrTooManyPlayers   = errors.New("maximum of 6 players allowed")
	ErrDuplicatePlayer  = errors.New("duplicate player id")
	ErrInvalidPlayerID  = errors.New("player id must not be empty")
	ErrMissingDrawPiles = errors.New("draw piles are missing a card type")
)

const (
	minPlayers = 1
	maxPlayers = 6

	startingCoins = 3
	normalWorkers = 2
)

var startingFieldValues = [board.NumFields]int{5, 6, 7}

// Options configure a new game
type Options struct {
	Variant board.Variant
	// DrawPiles are used as given; shuffle them before starting. Nil means
	// unshuffled piles.
	DrawPiles map[deck.CardType]deck.Deck
	// PlayerID is the local viewer. Only their prompts are queued.
	PlayerID string
}

// StartGame returns the initial state of a game. It is deterministic in its
// arguments.
func StartGame(players []protocol.Player, opts Options) (*GameState, error) {
	if len(players) < minPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(players) > maxPlayers {
		return nil, ErrTooManyPlayers
	}

	piles := opts.DrawPiles
	if piles == nil {
		piles = deck.NewPiles(nil)
	}
	for _, t := range deck.CardTypes {
		if _, ok := piles[t]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingDrawPiles, t)
		}
	}

	s := &GameState{
		Players:          map[string]*PlayerState{},
		TableOrder:       []string{},
		DrawPiles:        clonePiles(piles),
		DiscardPiles:     map[deck.CardType]deck.Deck{},
		WorkerPlacements: map[board.SpotID][]Slot{},
		ActivityLog:      []LogEvent{},
		ActionPrompts:    []protocol.Prompt{},
		PlayerID:         opts.PlayerID,
		Variant:          opts.Variant,
	}
	for _, t := range deck.CardTypes {
		s.DiscardPiles[t] = deck.Deck{}
	}

	for _, info := range players {
		if info.PlayerID == "" {
			return nil, ErrInvalidPlayerID
		}
		if _, ok := s.Players[info.PlayerID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePlayer, info.PlayerID)
		}
		s.Players[info.PlayerID] = newPlayerState(info)
		s.TableOrder = append(s.TableOrder, info.PlayerID)
	}

	s.CurrentTurn = MamaPapaTurn{PlayerID: s.TableOrder[0]}
	s.promptMamaPapa(s.TableOrder[0])
	return s, nil
}

func newPlayerState(info protocol.Player) *PlayerState {
	p := &PlayerState{
		ID:          info.PlayerID,
		Name:        info.Name,
		Color:       info.Color,
		Coins:       startingCoins,
		Workers:     []Worker{{ID: info.PlayerID + "-grande", Type: Grande, Available: true}},
		CardsInHand: []deck.Card{},
		Structures:  map[string]StructureState{},
		Influence:   []InfluenceToken{},
	}
	for i := 1; i <= normalWorkers; i++ {
		p.Workers = append(p.Workers, Worker{ID: workerID(info.PlayerID, i), Type: Normal, Available: true})
	}
	for i, v := range startingFieldValues {
		p.Fields[i] = Field{ID: fmt.Sprintf("field-%d", v), Value: v, Vines: []string{}}
	}
	for _, id := range deck.StructureIDs() {
		p.Structures[id] = Unbuilt
	}
	for i := 1; i <= board.NumInfluenceTokens; i++ {
		p.Influence = append(p.Influence, InfluenceToken{ID: fmt.Sprintf("star-%d", i)})
	}
	return p
}

func workerID(playerID string, n int) string {
	return fmt.Sprintf("%s-w%d", playerID, n)
}

// Apply returns the state after a. The input state is never modified. An
// illegal or stale action returns ErrIllegalAction along with s; any other
// error means the log and the rules disagree.
func Apply(s *GameState, a protocol.Action) (*GameState, error) {
	if s == nil || s.CurrentTurn == nil {
		return s, ErrNotStarted
	}
	if !contains(s.AwaitedPlayers(), a.PlayerID) {
		return s, fmt.Errorf("%w: %s is not awaited", ErrIllegalAction, a.PlayerID)
	}

	next := s.clone()
	next.dequeue(a)
	if err := next.CurrentTurn.handle(next, a); err != nil {
		return s, err
	}
	return next, nil
}

// Reduce is Apply for log replay: illegal actions leave the state unchanged
// and only invariant or data errors are returned.
func Reduce(s *GameState, a protocol.Action) (*GameState, error) {
	next, err := Apply(s, a)
	if errors.Is(err, ErrIllegalAction) {
		return s, nil
	}
	return next, err
}

// AwaitedPlayers lists the players whose decision the game is waiting on
func (s *GameState) AwaitedPlayers() []string {
	if s.CurrentTurn == nil {
		return nil
	}
	return s.CurrentTurn.awaiting(s)
}

func illegal(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

func invariant(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
