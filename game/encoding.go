package game

import (
	"encoding/json"
	"strconv"
)

// tagged marshals v as a JSON object with an added "type" field naming its
// variant
func tagged(kind string, v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["type"] = json.RawMessage(strconv.Quote(kind))
	return json.Marshal(fields)
}

func (s GameState) MarshalJSON() ([]byte, error) {
	type state GameState
	var turn json.RawMessage
	if s.CurrentTurn != nil {
		var err error
		if turn, err = tagged(s.CurrentTurn.Type(), s.CurrentTurn); err != nil {
			return nil, err
		}
	}
	return json.Marshal(struct {
		state
		CurrentTurn json.RawMessage `json:"currentTurn"`
	}{state(s), turn})
}

func (t WorkerPlacementTurn) MarshalJSON() ([]byte, error) {
	type turn WorkerPlacementTurn
	pending := make([]json.RawMessage, 0, len(t.Pending))
	for _, p := range t.Pending {
		raw, err := tagged(p.Type(), p)
		if err != nil {
			return nil, err
		}
		pending = append(pending, raw)
	}
	return json.Marshal(struct {
		turn
		Pending []json.RawMessage `json:"pending,omitempty"`
	}{turn(t), pending})
}
