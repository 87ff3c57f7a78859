package game

import (
	"strconv"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

// Turn is the phase of the game and whose decision is next. The set of
// variants is closed: only types in this package implement it.
type Turn interface {
	Type() string
	awaiting(s *GameState) []string
	handle(s *GameState, a protocol.Action) error
	clone() Turn
}

// MamaPapaTurn is set-up: each seat picks an inheritance in table order
type MamaPapaTurn struct {
	PlayerID string `json:"playerId"`
}

// WakeUpOrderTurn is the spring draft of the wake-up chart
type WakeUpOrderTurn struct {
	PlayerID string `json:"playerId"`
}

// WorkerPlacementTurn is a summer or winter turn. Pending is a stack whose
// top is the open action.
type WorkerPlacementTurn struct {
	PlayerID string          `json:"playerId"`
	Season   deck.Season     `json:"season"`
	Pending  []PendingAction `json:"pending,omitempty"`
}

// FallVisitorTurn is the fall visitor draw
type FallVisitorTurn struct {
	PlayerID  string `json:"playerId"`
	Remaining int    `json:"remaining"`
}

// EndOfYearDiscardTurn waits for a player above the hand limit to discard
type EndOfYearDiscardTurn struct {
	PlayerID string `json:"playerId"`
	Final    bool   `json:"final"`
}

// GameOverTurn is terminal
type GameOverTurn struct {
	Ranking []string `json:"ranking"`
}

func (MamaPapaTurn) Type() string         { return "mamaPapa" }
func (WakeUpOrderTurn) Type() string      { return "wakeUpOrder" }
func (WorkerPlacementTurn) Type() string  { return "workerPlacement" }
func (FallVisitorTurn) Type() string      { return "fallVisitor" }
func (EndOfYearDiscardTurn) Type() string { return "endOfYearDiscard" }
func (GameOverTurn) Type() string         { return "gameOver" }

func (t MamaPapaTurn) clone() Turn         { return t }
func (t WakeUpOrderTurn) clone() Turn      { return t }
func (t FallVisitorTurn) clone() Turn      { return t }
func (t EndOfYearDiscardTurn) clone() Turn { return t }

func (t WorkerPlacementTurn) clone() Turn {
	if t.Pending != nil {
		t.Pending = append([]PendingAction{}, t.Pending...)
	}
	return t
}

func (t GameOverTurn) clone() Turn {
	t.Ranking = append([]string{}, t.Ranking...)
	return t
}

func (t MamaPapaTurn) awaiting(*GameState) []string         { return []string{t.PlayerID} }
func (t WakeUpOrderTurn) awaiting(*GameState) []string      { return []string{t.PlayerID} }
func (t FallVisitorTurn) awaiting(*GameState) []string      { return []string{t.PlayerID} }
func (t EndOfYearDiscardTurn) awaiting(*GameState) []string { return []string{t.PlayerID} }
func (t GameOverTurn) awaiting(*GameState) []string         { return nil }

func (t WorkerPlacementTurn) awaiting(s *GameState) []string {
	if top, ok := t.top(); ok {
		return top.responders(s)
	}
	return []string{t.PlayerID}
}

func (t WorkerPlacementTurn) top() (PendingAction, bool) {
	if len(t.Pending) == 0 {
		return nil, false
	}
	return t.Pending[len(t.Pending)-1], true
}

func (t MamaPapaTurn) handle(s *GameState, a protocol.Action) error {
	key, err := checkChoice(mamaPapaPrompt(t.PlayerID), a)
	if err != nil {
		return err
	}
	p, err := s.player(t.PlayerID)
	if err != nil {
		return err
	}

	switch key {
	case "coins":
		p.gain(4, 0)
	case "vines":
		s.draw(p, deck.Vine, 2)
	case "visitors":
		s.draw(p, deck.SummerVisitor, 1)
		s.draw(p, deck.WinterVisitor, 1)
	case "trellis":
		p.Structures[deck.Trellis] = Built
	case "worker":
		p.Workers = append(p.Workers, Worker{ID: p.nextWorkerID(), Type: Normal, Available: true})
	default:
		return illegal("unknown inheritance %q", key)
	}
	s.log(LogMamaPapa, p.ID, "%s chose %s", p.Name, key)

	idx := s.seat(t.PlayerID)
	if idx+1 >= s.numPlayers() {
		s.startYear(1)
		return nil
	}
	next := s.TableOrder[idx+1]
	s.CurrentTurn = MamaPapaTurn{PlayerID: next}
	s.promptMamaPapa(next)
	return nil
}

func (t WakeUpOrderTurn) handle(s *GameState, a protocol.Action) error {
	key, err := checkChoice(s.wakeUpPrompt(t.PlayerID), a)
	if err != nil {
		return err
	}
	slot, err := strconv.Atoi(key)
	if err != nil {
		return illegal("invalid wake-up position %q", key)
	}
	p, err := s.player(t.PlayerID)
	if err != nil {
		return err
	}

	s.WakeUpOrder[slot] = WakeUpPosition{PlayerID: p.ID}
	bonus := board.WakeUpBonusAt(slot)
	switch bonus {
	case board.DrawVineBonus:
		s.draw(p, deck.Vine, 1)
	case board.DrawOrderBonus:
		s.draw(p, deck.Order, 1)
	case board.CoinBonus:
		p.gain(1, 0)
	case board.DrawSummerVisitorBonus:
		s.draw(p, deck.SummerVisitor, 1)
	case board.VictoryPointBonus:
		p.gain(0, 1)
	case board.TempWorkerBonus:
		p.Workers = append(p.Workers, Worker{ID: p.ID + "-temp", Type: Normal, Available: true, IsTemp: true})
	}
	s.log(LogWakeUp, p.ID, "%s wakes up at %d (%s)", p.Name, slot+1, bonus)

	next := s.TableOrder[(s.seat(t.PlayerID)+1)%s.numPlayers()]
	if next == s.TableOrder[s.GrapeIndex] {
		s.log(LogSeason, "", "Summer of year %d", s.Year)
		return s.advancePlacement(deck.Summer, "")
	}
	s.CurrentTurn = WakeUpOrderTurn{PlayerID: next}
	s.enqueue(s.wakeUpPrompt(next))
	return nil
}

func (t WorkerPlacementTurn) handle(s *GameState, a protocol.Action) error {
	if top, ok := t.top(); ok {
		return top.resolve(s, a)
	}
	switch a.Type {
	case protocol.PlaceWorker:
		return s.placeWorker(t, a)
	case protocol.Pass:
		s.markPassed(t.PlayerID)
		s.log(LogPass, t.PlayerID, "%s passes", s.Players[t.PlayerID].Name)
		return s.advancePlacement(t.Season, t.PlayerID)
	}
	return illegal("expected %s or %s, got %s", protocol.PlaceWorker, protocol.Pass, a.Type)
}

func (t FallVisitorTurn) handle(s *GameState, a protocol.Action) error {
	key, err := checkChoice(s.fallVisitorPrompt(t.PlayerID, t.Remaining), a)
	if err != nil {
		return err
	}
	var ct deck.CardType
	if err := ct.UnmarshalText([]byte(key)); err != nil {
		return illegal("%s", err)
	}
	p, err := s.player(t.PlayerID)
	if err != nil {
		return err
	}
	s.draw(p, ct, 1)

	t.Remaining--
	if t.Remaining > 0 && s.canDrawVisitor() {
		s.CurrentTurn = t
		s.enqueue(s.fallVisitorPrompt(t.PlayerID, t.Remaining))
		return nil
	}
	s.markPassed(t.PlayerID)
	return s.advanceFall(t.PlayerID)
}

func (t EndOfYearDiscardTurn) handle(s *GameState, a protocol.Action) error {
	ids, err := checkCards(s.discardPrompt(t.PlayerID), a)
	if err != nil {
		return err
	}
	p, err := s.player(t.PlayerID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		c, ok := p.removeCard(id)
		if !ok {
			return invariant("%s does not hold %s", p.ID, id)
		}
		s.discard(c)
	}
	s.log(LogDiscard, p.ID, "%s discards %s", p.Name, plural(len(ids), "card"))
	return s.advanceDiscard(s.seat(t.PlayerID)+1, t.Final)
}

func (t GameOverTurn) handle(s *GameState, a protocol.Action) error {
	return illegal("the game is over")
}
