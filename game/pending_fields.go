package game

import (
	"strings"

	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

// PlantVinePending plants up to Remaining vines, one card then one field at a time
type PlantVinePending struct {
	HasBonus         bool   `json:"hasBonus,omitempty"`
	Remaining        int    `json:"remaining"`
	Planted          int    `json:"planted,omitempty"`
	VineID           string `json:"vineId,omitempty"`
	IgnoreStructures bool   `json:"ignoreStructures,omitempty"`
	IgnoreFieldLimit bool   `json:"ignoreFieldLimit,omitempty"`
}

func (PlantVinePending) Type() string { return "plantVine" }

func (v PlantVinePending) responders(s *GameState) []string { return ownerOnly(s) }

func (v PlantVinePending) fieldDisabledReason(f Field, vine deck.VineCard) string {
	if f.Sold {
		return "Sold"
	}
	if !v.IgnoreFieldLimit && fieldVineValue(f)+vine.Value() > f.Value {
		return "Not enough room"
	}
	return ""
}

func (v PlantVinePending) vineDisabledReason(p *PlayerState, c deck.Card) string {
	vine, err := deck.LookupVine(c.ID)
	if err != nil {
		return "Unknown vine"
	}
	if !v.IgnoreStructures {
		missing := []string{}
		for _, st := range vine.RequiredStructures {
			if !p.hasBuilt(st) {
				missing = append(missing, st)
			}
		}
		if len(missing) > 0 {
			return "Requires " + strings.Join(missing, " and ")
		}
	}
	for _, f := range p.Fields {
		if v.fieldDisabledReason(f, vine) == "" {
			return ""
		}
	}
	return "No field has room"
}

func (v PlantVinePending) promptFor(p *PlayerState) protocol.Prompt {
	if v.VineID == "" {
		return chooseCards(p.ID, "Choose a vine to plant", 1, 1, v.Planted > 0,
			cardChoices(p.cardsOfType(deck.Vine), func(c deck.Card) string {
				return v.vineDisabledReason(p, c)
			}))
	}
	vine, _ := deck.LookupVine(v.VineID)
	choices := []protocol.Choice{}
	for _, f := range p.Fields {
		choices = append(choices, choice(f.ID, f.ID, v.fieldDisabledReason(f, vine)))
	}
	return chooseField(p.ID, "Choose a field for "+v.VineID, false, choices)
}

func (v PlantVinePending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := v.promptFor(p)
	if v.Remaining <= 0 || !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (v PlantVinePending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := v.promptFor(p)

	if v.VineID == "" {
		ids, err := checkCards(pr, a)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return s.endPending()
		}
		v.VineID = ids[0]
		if err := s.replacePending(v); err != nil {
			return err
		}
		return v.prompt(s)
	}

	fieldID, err := checkField(pr, a)
	if err != nil {
		return err
	}
	f, ok := p.field(fieldID)
	if !ok {
		return invariant("%s has no field %s", p.ID, fieldID)
	}
	if _, ok := p.removeCard(v.VineID); !ok {
		return invariant("%s does not hold %s", p.ID, v.VineID)
	}
	f.Vines = append(f.Vines, v.VineID)
	s.log(LogPlant, p.ID, "%s plants %s in %s", p.Name, v.VineID, f.ID)
	if p.structure(deck.Windmill) == Built {
		p.gain(0, 1)
		p.Structures[deck.Windmill] = Used
	}

	v.VineID = ""
	v.Planted++
	v.Remaining--
	if err := s.replacePending(v); err != nil {
		return err
	}
	return v.prompt(s)
}

// HarvestFieldPending harvests up to Remaining fields
type HarvestFieldPending struct {
	HasBonus  bool `json:"hasBonus,omitempty"`
	Remaining int  `json:"remaining"`
	Harvested int  `json:"harvested,omitempty"`
}

func (HarvestFieldPending) Type() string { return "harvestField" }

func (h HarvestFieldPending) responders(s *GameState) []string { return ownerOnly(s) }

func (h HarvestFieldPending) promptFor(p *PlayerState) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, f := range p.Fields {
		reason := ""
		switch {
		case f.Sold:
			reason = "Sold"
		case f.Harvested:
			reason = "Already harvested"
		case len(f.Vines) == 0:
			reason = "No vines"
		}
		choices = append(choices, choice(f.ID, f.ID, reason))
	}
	return chooseField(p.ID, "Harvest a field", h.Harvested > 0, choices)
}

func (h HarvestFieldPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if h.Remaining <= 0 || !p.harvestableFields() {
		return s.endPending()
	}
	s.enqueue(h.promptFor(p))
	return nil
}

func (h HarvestFieldPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	fieldID, err := checkField(h.promptFor(p), a)
	if err != nil {
		return err
	}
	if fieldID == "" {
		return s.endPending()
	}
	f, ok := p.field(fieldID)
	if !ok {
		return invariant("%s has no field %s", p.ID, fieldID)
	}
	if err := s.harvestField(p, f); err != nil {
		return err
	}
	h.Harvested++
	h.Remaining--
	if err := s.replacePending(h); err != nil {
		return err
	}
	return h.prompt(s)
}

// UprootPending removes a planted vine, returning it to hand or discarding it
type UprootPending struct {
	HasBonus      bool `json:"hasBonus,omitempty"`
	Discard       bool `json:"discard,omitempty"`
	VictoryPoints int  `json:"victoryPoints,omitempty"`
}

func (UprootPending) Type() string { return "uproot" }

func (u UprootPending) responders(s *GameState) []string { return ownerOnly(s) }

func (u UprootPending) promptFor(p *PlayerState) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, id := range p.plantedVines() {
		choices = append(choices, choice(id, id, ""))
	}
	return chooseCards(p.ID, "Uproot a vine", 1, 1, false, choices)
}

func (u UprootPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if len(p.plantedVines()) == 0 {
		return s.endPending()
	}
	s.enqueue(u.promptFor(p))
	return nil
}

func (u UprootPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	ids, err := checkCards(u.promptFor(p), a)
	if err != nil {
		return err
	}
	vineID := ids[0]
	for i := range p.Fields {
		f := &p.Fields[i]
		for j, id := range f.Vines {
			if id != vineID {
				continue
			}
			f.Vines = append(append([]string{}, f.Vines[:j]...), f.Vines[j+1:]...)
			card := deck.Card{Type: deck.Vine, ID: vineID}
			if u.Discard {
				s.discard(card)
			} else {
				p.CardsInHand = append(p.CardsInHand, card)
			}
			p.gain(0, u.VictoryPoints)
			s.log(LogUproot, p.ID, "%s uproots %s", p.Name, vineID)
			return s.endPending()
		}
	}
	return invariant("%s has not planted %s", p.ID, vineID)
}

// BuyFieldPending buys back a sold field
type BuyFieldPending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
}

func (BuyFieldPending) Type() string { return "buyField" }

func (b BuyFieldPending) responders(s *GameState) []string { return ownerOnly(s) }

func (b BuyFieldPending) promptFor(p *PlayerState) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, f := range p.Fields {
		reason := ""
		switch {
		case !f.Sold:
			reason = "Not sold"
		case p.Coins < f.Value:
			reason = "Needs " + plural(f.Value, "coin")
		}
		choices = append(choices, choice(f.ID, f.ID, reason))
	}
	return chooseField(p.ID, "Buy a field", false, choices)
}

func (b BuyFieldPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := b.promptFor(p)
	if !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (b BuyFieldPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	fieldID, err := checkField(b.promptFor(p), a)
	if err != nil {
		return err
	}
	f, _ := p.field(fieldID)
	p.Coins -= f.Value
	f.Sold = false
	if b.HasBonus {
		p.gain(0, 1)
	}
	s.log(LogSell, p.ID, "%s buys %s", p.Name, f.ID)
	return s.endPending()
}

// SellFieldPending sells an empty field for its value
type SellFieldPending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
}

func (SellFieldPending) Type() string { return "sellField" }

func (f SellFieldPending) responders(s *GameState) []string { return ownerOnly(s) }

func (f SellFieldPending) promptFor(p *PlayerState) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, field := range p.Fields {
		reason := ""
		switch {
		case field.Sold:
			reason = "Already sold"
		case len(field.Vines) > 0:
			reason = "Has vines"
		}
		choices = append(choices, choice(field.ID, field.ID, reason))
	}
	return chooseField(p.ID, "Sell a field", false, choices)
}

func (f SellFieldPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := f.promptFor(p)
	if !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (f SellFieldPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	fieldID, err := checkField(f.promptFor(p), a)
	if err != nil {
		return err
	}
	field, _ := p.field(fieldID)
	field.Sold = true
	p.gain(field.Value, 0)
	if f.HasBonus {
		p.gain(0, 1)
	}
	s.log(LogSell, p.ID, "%s sells %s", p.Name, field.ID)
	return s.endPending()
}

// SellGrapesOrFieldPending chooses between selling grapes and trading fields
type SellGrapesOrFieldPending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
}

func (SellGrapesOrFieldPending) Type() string { return "sellGrapesOrField" }

func (o SellGrapesOrFieldPending) responders(s *GameState) []string { return ownerOnly(s) }

func (o SellGrapesOrFieldPending) promptFor(p *PlayerState) protocol.Prompt {
	grapes, buy, sell := "", "", ""
	if p.CrushPad.Count() == 0 {
		grapes = "No grapes"
	}
	if !anyEnabled(BuyFieldPending{}.promptFor(p).Choices) {
		buy = "No field to buy"
	}
	if !anyEnabled(SellFieldPending{}.promptFor(p).Choices) {
		sell = "No field to sell"
	}
	return chooseAction(p.ID, "Sell grapes or trade a field", false,
		choice("sellGrapes", "Sell grapes", grapes),
		choice("buyField", "Buy a field", buy),
		choice("sellField", "Sell a field", sell),
	)
}

func (o SellGrapesOrFieldPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := o.promptFor(p)
	if !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (o SellGrapesOrFieldPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	key, err := checkChoice(o.promptFor(p), a)
	if err != nil {
		return err
	}
	switch key {
	case "sellGrapes":
		return s.delegate(SellGrapesPending{HasBonus: o.HasBonus})
	case "buyField":
		return s.delegate(BuyFieldPending{HasBonus: o.HasBonus})
	case "sellField":
		return s.delegate(SellFieldPending{HasBonus: o.HasBonus})
	}
	return illegal("unknown choice %q", key)
}

// YokePending harvests a field or uproots a vine with the yoke
type YokePending struct{}

func (YokePending) Type() string { return "yoke" }

func (y YokePending) responders(s *GameState) []string { return ownerOnly(s) }

func (y YokePending) promptFor(p *PlayerState) protocol.Prompt {
	harvest, uproot := "", ""
	if !p.harvestableFields() {
		harvest = "No field to harvest"
	}
	if len(p.plantedVines()) == 0 {
		uproot = "No vines planted"
	}
	return chooseAction(p.ID, "Use the yoke", false,
		choice("harvest", "Harvest 1 field", harvest),
		choice("uproot", "Uproot 1 vine", uproot),
	)
}

func (y YokePending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := y.promptFor(p)
	if !anyEnabled(pr.Choices) {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (y YokePending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	key, err := checkChoice(y.promptFor(p), a)
	if err != nil {
		return err
	}
	if key == "harvest" {
		return s.delegate(HarvestFieldPending{Remaining: 1})
	}
	return s.delegate(UprootPending{})
}
