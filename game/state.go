package game

import (
	"fmt"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

// StructureState is the build state of a structure
type StructureState int

const (
	Unbuilt StructureState = iota
	Built
	Used
)

var structureStateNames = []string{"unbuilt", "built", "used"}

func (s StructureState) String() string {
	if s < 0 || int(s) >= len(structureStateNames) {
		return ""
	}
	return structureStateNames[s]
}

func (s StructureState) MarshalText() ([]byte, error) {
	if s.String() == "" {
		return nil, fmt.Errorf("invalid structure state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *StructureState) UnmarshalText(text []byte) error {
	for i, name := range structureStateNames {
		if name == string(text) {
			*s = StructureState(i)
			return nil
		}
	}
	return fmt.Errorf("invalid structure state %q", string(text))
}

// WorkerType distinguishes the grande worker
type WorkerType string

const (
	Normal WorkerType = "normal"
	Grande WorkerType = "grande"
)

type Worker struct {
	ID        string     `json:"id"`
	Type      WorkerType `json:"type"`
	Available bool       `json:"available"`
	IsTemp    bool       `json:"isTemp,omitempty"`
}

type Field struct {
	ID        string   `json:"id"`
	Value     int      `json:"value"`
	Vines     []string `json:"vines"`
	Sold      bool     `json:"sold"`
	Harvested bool     `json:"harvested"`
}

// InfluenceToken is a star; an empty Region means it is still in supply
type InfluenceToken struct {
	ID     string `json:"id"`
	Region string `json:"region,omitempty"`
}

type PlayerState struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`

	Coins         int `json:"coins"`
	VictoryPoints int `json:"victoryPoints"`
	Residuals     int `json:"residuals"`

	Workers     []Worker                  `json:"workers"`
	CardsInHand []deck.Card               `json:"cardsInHand"`
	Fields      [board.NumFields]Field    `json:"fields"`
	CrushPad    tokens.CrushPad           `json:"crushPad"`
	Cellar      tokens.Cellar             `json:"cellar"`
	Structures  map[string]StructureState `json:"structures"`
	Influence   []InfluenceToken          `json:"influence"`
}

// WakeUpPosition is a slot on the wake-up chart. An empty PlayerID is an empty slot.
type WakeUpPosition struct {
	PlayerID string `json:"playerId,omitempty"`
	Passed   bool   `json:"passed,omitempty"`
}

// Slot is a worker placed on a spot
type Slot struct {
	PlayerID string `json:"playerId"`
	WorkerID string `json:"workerId"`
}

type GameState struct {
	Players          map[string]*PlayerState              `json:"players"`
	TableOrder       []string                             `json:"tableOrder"`
	CurrentTurn      Turn                                 `json:"currentTurn"`
	WakeUpOrder      [board.NumWakeUpSlots]WakeUpPosition `json:"wakeUpOrder"`
	DrawPiles        map[deck.CardType]deck.Deck          `json:"drawPiles"`
	DiscardPiles     map[deck.CardType]deck.Deck          `json:"discardPiles"`
	WorkerPlacements map[board.SpotID][]Slot              `json:"workerPlacements"`
	ActivityLog      []LogEvent                           `json:"activityLog"`
	ActionPrompts    []protocol.Prompt                    `json:"actionPrompts"`
	Year             int                                  `json:"year"`
	GrapeIndex       int                                  `json:"grapeIndex"`
	PlayerID         string                               `json:"playerId,omitempty"`
	Variant          board.Variant                        `json:"variant"`
}

func (p *PlayerState) clone() *PlayerState {
	c := *p
	c.Workers = append([]Worker{}, p.Workers...)
	c.CardsInHand = append([]deck.Card{}, p.CardsInHand...)
	for i := range c.Fields {
		c.Fields[i].Vines = append([]string{}, p.Fields[i].Vines...)
	}
	c.Structures = make(map[string]StructureState, len(p.Structures))
	for id, st := range p.Structures {
		c.Structures[id] = st
	}
	c.Influence = append([]InfluenceToken{}, p.Influence...)
	return &c
}

func clonePiles(piles map[deck.CardType]deck.Deck) map[deck.CardType]deck.Deck {
	c := make(map[deck.CardType]deck.Deck, len(piles))
	for t, d := range piles {
		c[t] = append(deck.Deck{}, d...)
	}
	return c
}

// clone returns a copy of s that shares nothing mutable with it
func (s *GameState) clone() *GameState {
	c := *s
	c.Players = make(map[string]*PlayerState, len(s.Players))
	for id, p := range s.Players {
		c.Players[id] = p.clone()
	}
	c.DrawPiles = clonePiles(s.DrawPiles)
	c.DiscardPiles = clonePiles(s.DiscardPiles)
	c.WorkerPlacements = make(map[board.SpotID][]Slot, len(s.WorkerPlacements))
	for id, slots := range s.WorkerPlacements {
		c.WorkerPlacements[id] = append([]Slot{}, slots...)
	}
	// the log is append-only, so capping capacity is enough to keep appends apart
	c.ActivityLog = s.ActivityLog[:len(s.ActivityLog):len(s.ActivityLog)]
	c.ActionPrompts = append([]protocol.Prompt{}, s.ActionPrompts...)
	if s.CurrentTurn != nil {
		c.CurrentTurn = s.CurrentTurn.clone()
	}
	return &c
}

func (s *GameState) player(id string) (*PlayerState, error) {
	p, ok := s.Players[id]
	if !ok {
		return nil, fmt.Errorf("%w: no player %q", ErrInvariant, id)
	}
	return p, nil
}

func (s *GameState) numPlayers() int {
	return len(s.TableOrder)
}

func (p *PlayerState) structure(id string) StructureState {
	return p.Structures[id]
}

func (p *PlayerState) hasBuilt(id string) bool {
	return p.Structures[id] != Unbuilt
}

func (p *PlayerState) cellarLimit() int {
	return tokens.CellarLimit(p.hasBuilt(deck.MediumCellar), p.hasBuilt(deck.LargeCellar))
}

// availableWorker finds an available worker by id. An empty id picks a normal
// worker before the grande.
func (p *PlayerState) availableWorker(workerID string) (int, bool) {
	grande := -1
	for i, w := range p.Workers {
		if !w.Available {
			continue
		}
		if workerID != "" {
			if w.ID == workerID {
				return i, true
			}
			continue
		}
		if w.Type == Grande {
			grande = i
			continue
		}
		return i, true
	}
	return grande, grande >= 0
}

func (p *PlayerState) hasAvailableWorker() bool {
	_, ok := p.availableWorker("")
	return ok
}

func (p *PlayerState) hasAvailableGrande() bool {
	for _, w := range p.Workers {
		if w.Available && w.Type == Grande {
			return true
		}
	}
	return false
}

func (p *PlayerState) permanentWorkers() int {
	n := 0
	for _, w := range p.Workers {
		if !w.IsTemp {
			n++
		}
	}
	return n
}

func (p *PlayerState) nextWorkerID() string {
	n := 1
	for _, w := range p.Workers {
		if w.Type == Normal && !w.IsTemp {
			n++
		}
	}
	return workerID(p.ID, n)
}

func (p *PlayerState) field(id string) (*Field, bool) {
	for i := range p.Fields {
		if p.Fields[i].ID == id {
			return &p.Fields[i], true
		}
	}
	return nil, false
}

func (p *PlayerState) cardsOfType(t deck.CardType) []deck.Card {
	cards := []deck.Card{}
	for _, c := range p.CardsInHand {
		if c.Type == t {
			cards = append(cards, c)
		}
	}
	return cards
}

func (p *PlayerState) hasCard(id string) (deck.Card, bool) {
	for _, c := range p.CardsInHand {
		if c.ID == id {
			return c, true
		}
	}
	return deck.Card{}, false
}

func (p *PlayerState) removeCard(id string) (deck.Card, bool) {
	for i, c := range p.CardsInHand {
		if c.ID == id {
			p.CardsInHand = append(append([]deck.Card{}, p.CardsInHand[:i]...), p.CardsInHand[i+1:]...)
			return c, true
		}
	}
	return deck.Card{}, false
}

func (p *PlayerState) starsInSupply() int {
	n := 0
	for _, t := range p.Influence {
		if t.Region == "" {
			n++
		}
	}
	return n
}

func (p *PlayerState) gain(coins, vp int) {
	p.Coins += coins
	p.VictoryPoints += vp
}

func (p *PlayerState) gainResidual(n int) {
	p.Residuals += n
	if p.Residuals > deck.MaxResidual {
		p.Residuals = deck.MaxResidual
	}
}
