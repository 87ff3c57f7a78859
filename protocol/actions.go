package protocol

import (
	"fmt"

	"github.com/vsiao/oenology-sub000/tokens"
)

// ActionType identifies a single player decision
type ActionType int

const (
	Unknown ActionType = iota
	ChooseAction
	ChooseCard
	ChooseField
	ChooseWine
	ChooseGrape
	MakeWine
	PlaceWorker
	BuildStructure
	Pass
)

var ActionNames = map[ActionType]string{
	Unknown:        "unknown",
	ChooseAction:   "chooseAction",
	ChooseCard:     "chooseCard",
	ChooseField:    "chooseField",
	ChooseWine:     "chooseWine",
	ChooseGrape:    "chooseGrape",
	MakeWine:       "makeWine",
	PlaceWorker:    "placeWorker",
	BuildStructure: "buildStructure",
	Pass:           "pass",
}

var NameToAction = map[string]ActionType{
	"unknown":        Unknown,
	"chooseAction":   ChooseAction,
	"chooseCard":     ChooseCard,
	"chooseField":    ChooseField,
	"chooseWine":     ChooseWine,
	"chooseGrape":    ChooseGrape,
	"makeWine":       MakeWine,
	"placeWorker":    PlaceWorker,
	"buildStructure": BuildStructure,
	"pass":           Pass,
}

func (t ActionType) String() string {
	return ActionNames[t]
}

func (t ActionType) MarshalText() ([]byte, error) {
	name, ok := ActionNames[t]
	if !ok {
		return nil, fmt.Errorf("invalid action type %d", int(t))
	}
	return []byte(name), nil
}

func (t *ActionType) UnmarshalText(text []byte) error {
	a, ok := NameToAction[string(text)]
	if !ok {
		return fmt.Errorf("invalid action type %q", string(text))
	}
	*t = a
	return nil
}

// AnswersPrompt reports whether the action consumes the head of the
// answering player's prompt queue
func (t ActionType) AnswersPrompt() bool {
	return t != Unknown
}

// Answers reports whether the action type is a valid answer to a prompt type
func (t ActionType) Answers(p PromptType) bool {
	switch t {
	case ChooseAction:
		return p == ChooseActionPrompt
	case ChooseCard:
		return p == ChooseCardPrompt
	case ChooseField:
		return p == ChooseFieldPrompt
	case ChooseWine:
		return p == ChooseWinePrompt
	case ChooseGrape:
		return p == ChooseGrapePrompt
	case MakeWine:
		return p == MakeWinePrompt
	case PlaceWorker:
		return p == PlaceWorkerPrompt
	case BuildStructure:
		return p == BuildStructurePrompt
	case Pass:
		return p != GameOverPrompt
	}
	return false
}

// Action is a single player decision, as stored in the action log
type Action struct {
	Type     ActionType `json:"type"`
	PlayerID string     `json:"playerId"`

	Choice      string            `json:"choice,omitempty"`
	Cards       []string          `json:"cards,omitempty"`
	FieldID     string            `json:"fieldId,omitempty"`
	Wines       []tokens.Wine     `json:"wines,omitempty"`
	Grapes      []tokens.Grape    `json:"grapes,omitempty"`
	Recipes     []tokens.WineSpec `json:"recipes,omitempty"`
	SpotID      string            `json:"spotId,omitempty"`
	WorkerID    string            `json:"workerId,omitempty"`
	StructureID string            `json:"structureId,omitempty"`

	SequenceKey string `json:"_logSequenceKey,omitempty"`
	Seq         uint64 `json:"seq,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}
