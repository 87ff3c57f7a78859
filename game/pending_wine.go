package game

import (
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

// MakeWinePending turns crush pad grapes into up to Remaining wines in one
// answer
type MakeWinePending struct {
	HasBonus  bool `json:"hasBonus,omitempty"`
	Remaining int  `json:"remaining"`
	Optional  bool `json:"optional,omitempty"`
}

func (MakeWinePending) Type() string { return "makeWine" }

func (m MakeWinePending) responders(s *GameState) []string { return ownerOnly(s) }

func makeWinePrompt(p *PlayerState, max int, optional bool) protocol.Prompt {
	return protocol.Prompt{
		Type:     protocol.MakeWinePrompt,
		PlayerID: p.ID,
		Title:    "Make up to " + plural(max, "wine"),
		Grapes:   p.CrushPad.Grapes(),
		Min:      1,
		Max:      max,
		Optional: optional,
	}
}

func (m MakeWinePending) promptFor(p *PlayerState) protocol.Prompt {
	return makeWinePrompt(p, m.Remaining, m.Optional)
}

func (m MakeWinePending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if m.Remaining <= 0 || !canMakeWine(p) {
		return s.endPending()
	}
	s.enqueue(m.promptFor(p))
	return nil
}

func (m MakeWinePending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if _, err := s.makeWines(p, m.promptFor(p), a); err != nil {
		return err
	}
	return s.endPending()
}

// wineDisabledReason explains why p may not make a wine of this colour and value
func wineDisabledReason(p *PlayerState, w tokens.Wine) string {
	switch {
	case w.Color == tokens.Blush && !p.hasBuilt(deck.MediumCellar):
		return "Blush wine needs a medium cellar"
	case w.Color == tokens.Sparkling && !p.hasBuilt(deck.LargeCellar):
		return "Sparkling wine needs a large cellar"
	case w.Value > p.cellarLimit():
		return "Worth more than your cellar holds"
	}
	return ""
}

// canMakeWine reports whether any recipe is possible from p's crush pad
func canMakeWine(p *PlayerState) bool {
	reds := p.CrushPad.Red.Values()
	whites := p.CrushPad.White.Values()

	candidates := []tokens.Wine{}
	if len(reds) > 0 {
		candidates = append(candidates, tokens.Wine{Color: tokens.Red, Value: reds[0]})
	}
	if len(whites) > 0 {
		candidates = append(candidates, tokens.Wine{Color: tokens.White, Value: whites[0]})
	}
	if len(reds) > 0 && len(whites) > 0 {
		candidates = append(candidates, tokens.Wine{Color: tokens.Blush, Value: reds[0] + whites[0]})
	}
	if len(reds) > 1 && len(whites) > 0 {
		candidates = append(candidates, tokens.Wine{Color: tokens.Sparkling, Value: reds[0] + reds[1] + whites[0]})
	}
	for _, w := range candidates {
		if wineDisabledReason(p, w) == "" {
			return true
		}
	}
	return false
}

// makeWines validates a MakeWine answer against pr and cellars the wines.
// It returns how many wines were made; a pass makes none.
func (s *GameState) makeWines(p *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
	if passed, err := checkAnswer(pr, a); passed || err != nil {
		return 0, err
	}
	if len(a.Recipes) < pr.Min || len(a.Recipes) > pr.Max {
		return 0, illegal("make between %d and %d wines", pr.Min, pr.Max)
	}

	pad := p.CrushPad
	wines := make([]tokens.Wine, 0, len(a.Recipes))
	for _, recipe := range a.Recipes {
		w, err := recipe.Wine()
		if err != nil {
			return 0, illegal("%s", err)
		}
		if reason := wineDisabledReason(p, w); reason != "" {
			return 0, illegal("cannot make %s %d: %s", w.Color, w.Value, reason)
		}
		for _, g := range recipe.Grapes {
			var ok bool
			if pad, ok = pad.Remove(g); !ok {
				return 0, illegal("%s has no %s grape worth %d", p.ID, g.Color, g.Value)
			}
		}
		wines = append(wines, w)
	}

	p.CrushPad = pad
	for _, w := range wines {
		p.Cellar = p.Cellar.Place(w)
		s.log(LogMakeWine, p.ID, "%s makes a %s wine worth %d", p.Name, w.Color, w.Value)
	}
	return len(wines), nil
}

// FillOrderPending fills one order from hand
type FillOrderPending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
	BonusVP  int  `json:"bonusVP,omitempty"`
	// Discount lowers every wine requirement
	Discount int `json:"discount,omitempty"`
}

func (FillOrderPending) Type() string { return "fillOrder" }

func (f FillOrderPending) responders(s *GameState) []string { return ownerOnly(s) }

func (f FillOrderPending) promptFor(p *PlayerState) protocol.Prompt {
	wines := p.Cellar.Wines()
	return chooseCards(p.ID, "Fill an order", 1, 1, false,
		cardChoices(p.cardsOfType(deck.Order), func(c deck.Card) string {
			o, err := deck.LookupOrder(c.ID)
			if err != nil {
				return "Unknown order"
			}
			if _, ok := tokens.MatchOrder(wines, o.Wines, f.Discount); !ok {
				return "Not enough wine"
			}
			return ""
		}))
}

func (f FillOrderPending) prompt(s *GameState) error {
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

func (f FillOrderPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	ids, err := checkCards(f.promptFor(p), a)
	if err != nil {
		return err
	}
	o, err := deck.LookupOrder(ids[0])
	if err != nil {
		return err
	}
	used, ok := tokens.MatchOrder(p.Cellar.Wines(), o.Wines, f.Discount)
	if !ok {
		return invariant("%s cannot fill %s", p.ID, o.ID)
	}
	for _, w := range used {
		if p.Cellar, ok = p.Cellar.Remove(w); !ok {
			return invariant("%s has no %s wine worth %d", p.ID, w.Color, w.Value)
		}
	}
	if err := s.discardFromHand(p, ids); err != nil {
		return err
	}
	p.gain(0, o.VictoryPoints+f.BonusVP)
	p.gainResidual(o.ResidualIncome)
	s.log(LogFillOrder, p.ID, "%s fills %s for %d VP", p.Name, o.ID, o.VictoryPoints+f.BonusVP)
	return s.endPending()
}

// SellGrapesPending sells any number of grapes from the crush pad
type SellGrapesPending struct {
	HasBonus bool `json:"hasBonus,omitempty"`
}

func (SellGrapesPending) Type() string { return "sellGrapes" }

func (g SellGrapesPending) responders(s *GameState) []string { return ownerOnly(s) }

func (g SellGrapesPending) promptFor(p *PlayerState) protocol.Prompt {
	grapes := p.CrushPad.Grapes()
	return protocol.Prompt{
		Type:     protocol.ChooseGrapePrompt,
		PlayerID: p.ID,
		Title:    "Sell grapes",
		Grapes:   grapes,
		Min:      1,
		Max:      len(grapes),
	}
}

func (g SellGrapesPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if p.CrushPad.Count() == 0 {
		return s.endPending()
	}
	s.enqueue(g.promptFor(p))
	return nil
}

func (g SellGrapesPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	grapes, err := checkGrapes(g.promptFor(p), p, a)
	if err != nil {
		return err
	}
	coins := 0
	for _, grape := range grapes {
		p.CrushPad, _ = p.CrushPad.Remove(grape)
		coins += tokens.GrapePrice(grape.Value)
	}
	p.gain(coins, 0)
	if g.HasBonus {
		p.gain(0, 1)
	}
	s.log(LogSell, p.ID, "%s sells %s for %s", p.Name, plural(len(grapes), "grape"), plural(coins, "coin"))
	return s.endPending()
}

// DiscardTokenPending gives up one grape or wine worth at least MinValue for
// a reward
type DiscardTokenPending struct {
	Wine          bool `json:"wine,omitempty"`
	MinValue      int  `json:"minValue,omitempty"`
	Coins         int  `json:"coins,omitempty"`
	VictoryPoints int  `json:"victoryPoints,omitempty"`
	Residual      int  `json:"residual,omitempty"`
}

func (DiscardTokenPending) Type() string { return "discardToken" }

func (d DiscardTokenPending) responders(s *GameState) []string { return ownerOnly(s) }

func (d DiscardTokenPending) promptFor(p *PlayerState) protocol.Prompt {
	if d.Wine {
		wines := []tokens.Wine{}
		for _, w := range p.Cellar.Wines() {
			if w.Value >= d.MinValue {
				wines = append(wines, w)
			}
		}
		return protocol.Prompt{Type: protocol.ChooseWinePrompt, PlayerID: p.ID, Title: "Discard a wine", Wines: wines, Min: 1, Max: 1}
	}
	grapes := []tokens.Grape{}
	for _, g := range p.CrushPad.Grapes() {
		if g.Value >= d.MinValue {
			grapes = append(grapes, g)
		}
	}
	return protocol.Prompt{Type: protocol.ChooseGrapePrompt, PlayerID: p.ID, Title: "Discard a grape", Grapes: grapes, Min: 1, Max: 1}
}

func (d DiscardTokenPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := d.promptFor(p)
	if len(pr.Wines) == 0 && len(pr.Grapes) == 0 {
		return s.endPending()
	}
	s.enqueue(pr)
	return nil
}

func (d DiscardTokenPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	pr := d.promptFor(p)
	if d.Wine {
		if a.Type != protocol.ChooseWine {
			return illegal("expected %s, got %s", protocol.ChooseWine, a.Type)
		}
		if len(a.Wines) != 1 || a.Wines[0].Value < d.MinValue {
			return illegal("choose one wine worth at least %d", d.MinValue)
		}
		cellar, ok := p.Cellar.Remove(a.Wines[0])
		if !ok {
			return illegal("%s has no %s wine worth %d", p.ID, a.Wines[0].Color, a.Wines[0].Value)
		}
		p.Cellar = cellar
	} else {
		grapes, err := checkGrapes(pr, p, a)
		if err != nil {
			return err
		}
		if grapes[0].Value < d.MinValue {
			return illegal("choose a grape worth at least %d", d.MinValue)
		}
		p.CrushPad, _ = p.CrushPad.Remove(grapes[0])
	}
	p.gain(d.Coins, d.VictoryPoints)
	p.gainResidual(d.Residual)
	s.log(LogDiscard, p.ID, "%s discards a token", p.Name)
	return s.endPending()
}
