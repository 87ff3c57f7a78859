package game

import (
	"github.com/vsiao/oenology-sub000/protocol"
)

// PendingAction is an action that is still collecting decisions. Variants
// are values; a change is made by replacing the top of the stack.
type PendingAction interface {
	Type() string
	// responders are the players whose answer the action is waiting on
	responders(s *GameState) []string
	// prompt starts or resumes the action. With nothing left to decide it
	// ends the action instead.
	prompt(s *GameState) error
	// resolve consumes one answer
	resolve(s *GameState, a protocol.Action) error
}

func (s *GameState) placementTurn() (WorkerPlacementTurn, error) {
	t, ok := s.CurrentTurn.(WorkerPlacementTurn)
	if !ok {
		return WorkerPlacementTurn{}, invariant("no worker placement turn in %s", s.CurrentTurn.Type())
	}
	return t, nil
}

// turnPlayer is the player whose worker placement turn it is
func (s *GameState) turnPlayer() (*PlayerState, error) {
	t, err := s.placementTurn()
	if err != nil {
		return nil, err
	}
	return s.player(t.PlayerID)
}

func (s *GameState) setPending(stack []PendingAction) error {
	t, err := s.placementTurn()
	if err != nil {
		return err
	}
	t.Pending = stack
	s.CurrentTurn = t
	return nil
}

// PendingAction returns the open action, if any
func (s *GameState) PendingAction() (PendingAction, bool) {
	t, ok := s.CurrentTurn.(WorkerPlacementTurn)
	if !ok {
		return nil, false
	}
	return t.top()
}

// pushPending pushes actions to run in order on top of the stack and starts
// the first
func (s *GameState) pushPending(actions ...PendingAction) error {
	if len(actions) == 0 {
		return nil
	}
	t, err := s.placementTurn()
	if err != nil {
		return err
	}
	stack := append([]PendingAction{}, t.Pending...)
	for i := len(actions) - 1; i >= 0; i-- {
		stack = append(stack, actions[i])
	}
	if err := s.setPending(stack); err != nil {
		return err
	}
	return actions[0].prompt(s)
}

// replacePending swaps the top of the stack without prompting
func (s *GameState) replacePending(p PendingAction) error {
	t, err := s.placementTurn()
	if err != nil {
		return err
	}
	if len(t.Pending) == 0 {
		return invariant("no pending action to replace with %s", p.Type())
	}
	stack := append([]PendingAction{}, t.Pending...)
	stack[len(stack)-1] = p
	return s.setPending(stack)
}

func (s *GameState) popPending() error {
	t, err := s.placementTurn()
	if err != nil {
		return err
	}
	if len(t.Pending) == 0 {
		return invariant("no pending action to end")
	}
	return s.setPending(append([]PendingAction{}, t.Pending[:len(t.Pending)-1]...))
}

// endPending closes the open action. Control returns to the action below it,
// or ends the turn when the stack is empty.
func (s *GameState) endPending() error {
	if err := s.popPending(); err != nil {
		return err
	}
	t, err := s.placementTurn()
	if err != nil {
		return err
	}
	if top, ok := t.top(); ok {
		return top.prompt(s)
	}
	return s.endTurn()
}

// delegate replaces the open action with a sequence of actions
func (s *GameState) delegate(actions ...PendingAction) error {
	if len(actions) == 0 {
		return s.endPending()
	}
	if err := s.popPending(); err != nil {
		return err
	}
	return s.pushPending(actions...)
}

// ownerOnly is the responder list of a single-player action
func ownerOnly(s *GameState) []string {
	t, err := s.placementTurn()
	if err != nil {
		return nil
	}
	return []string{t.PlayerID}
}
