package protocol

import (
	"fmt"

	"github.com/vsiao/oenology-sub000/tokens"
)

// PromptType identifies the kind of question a prompt asks
type PromptType int

const (
	ChooseActionPrompt PromptType = iota
	ChooseCardPrompt
	ChooseFieldPrompt
	ChooseWinePrompt
	ChooseGrapePrompt
	MakeWinePrompt
	PlaceWorkerPrompt
	BuildStructurePrompt
	GameOverPrompt
)

var promptNames = []string{
	"chooseAction",
	"chooseCard",
	"chooseField",
	"chooseWine",
	"chooseGrape",
	"makeWine",
	"placeWorker",
	"buildStructure",
	"gameOver",
}

func (p PromptType) String() string {
	if p < 0 || int(p) >= len(promptNames) {
		return ""
	}
	return promptNames[p]
}

func (p PromptType) MarshalText() ([]byte, error) {
	if p.String() == "" {
		return nil, fmt.Errorf("invalid prompt type %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *PromptType) UnmarshalText(text []byte) error {
	for i, name := range promptNames {
		if name == string(text) {
			*p = PromptType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid prompt type %q", string(text))
}

// Choice is one option offered by a prompt. A non-empty DisabledReason means
// the option is shown but cannot be taken.
type Choice struct {
	Key            string `json:"key"`
	Label          string `json:"label,omitempty"`
	DisabledReason string `json:"disabledReason,omitempty"`
}

// Enabled reports whether the choice can be taken
func (c Choice) Enabled() bool {
	return c.DisabledReason == ""
}

// Prompt is a question the engine needs a single player to answer
type Prompt struct {
	Type     PromptType `json:"type"`
	PlayerID string     `json:"playerId"`
	Title    string     `json:"title,omitempty"`

	Choices  []Choice       `json:"choices,omitempty"`
	Grapes   []tokens.Grape `json:"grapes,omitempty"`
	Wines    []tokens.Wine  `json:"wines,omitempty"`
	Min      int            `json:"min,omitempty"`
	Max      int            `json:"max,omitempty"`
	Optional bool           `json:"optional,omitempty"`
}

// Choice returns the prompt option with key
func (p Prompt) Choice(key string) (Choice, bool) {
	for _, c := range p.Choices {
		if c.Key == key {
			return c, true
		}
	}
	return Choice{}, false
}

// Player is a seated player
type Player struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}
