package game

import (
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/tokens"
)

func (s *GameState) canDraw(t deck.CardType) bool {
	return len(s.DrawPiles[t]) > 0 || len(s.DiscardPiles[t]) > 0
}

// draw deals n cards of a type into p's hand. An empty draw pile is refilled
// from its discard pile, oldest discard on top. Drawing stops when both are
// empty.
func (s *GameState) draw(p *PlayerState, t deck.CardType, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		pile := s.DrawPiles[t]
		if len(pile) == 0 {
			discards := s.DiscardPiles[t]
			if len(discards) == 0 {
				break
			}
			pile = make(deck.Deck, 0, len(discards))
			for j := len(discards) - 1; j >= 0; j-- {
				pile = append(pile, discards[j])
			}
			s.DiscardPiles[t] = deck.Deck{}
		}
		cards := pile.Deal(1)
		s.DrawPiles[t] = pile
		p.CardsInHand = append(p.CardsInHand, cards...)
		drawn += len(cards)
	}
	if drawn > 0 {
		s.log(LogDraw, p.ID, "%s draws %s", p.Name, plural(drawn, t.String()))
	}
	return drawn
}

func (s *GameState) discard(c deck.Card) {
	s.DiscardPiles[c.Type] = append(s.DiscardPiles[c.Type], c)
}

// discardFromHand moves cards from p's hand to their discard piles
func (s *GameState) discardFromHand(p *PlayerState, ids []string) error {
	for _, id := range ids {
		c, ok := p.removeCard(id)
		if !ok {
			return invariant("%s does not hold %s", p.ID, id)
		}
		s.discard(c)
	}
	return nil
}

// harvest returns the grapes a field yields
func harvestYield(f Field) ([]tokens.Grape, error) {
	red, white := 0, 0
	for _, id := range f.Vines {
		v, err := deck.LookupVine(id)
		if err != nil {
			return nil, err
		}
		red += v.Red
		white += v.White
	}
	grapes := []tokens.Grape{}
	if red > 0 {
		grapes = append(grapes, tokens.Grape{Color: tokens.Red, Value: red})
	}
	if white > 0 {
		grapes = append(grapes, tokens.Grape{Color: tokens.White, Value: white})
	}
	return grapes, nil
}

func fieldVineValue(f Field) int {
	total := 0
	for _, id := range f.Vines {
		if v, err := deck.LookupVine(id); err == nil {
			total += v.Value()
		}
	}
	return total
}

func (p *PlayerState) canHarvest(f Field) bool {
	return !f.Sold && !f.Harvested && len(f.Vines) > 0
}

func (p *PlayerState) harvestableFields() bool {
	for _, f := range p.Fields {
		if p.canHarvest(f) {
			return true
		}
	}
	return false
}

func (p *PlayerState) plantedVines() []string {
	vines := []string{}
	for _, f := range p.Fields {
		vines = append(vines, f.Vines...)
	}
	return vines
}

// harvestField places the field's grapes on p's crush pad
func (s *GameState) harvestField(p *PlayerState, f *Field) error {
	grapes, err := harvestYield(*f)
	if err != nil {
		return err
	}
	for _, g := range grapes {
		p.CrushPad = p.CrushPad.Place(g)
	}
	f.Harvested = true
	s.log(LogHarvest, p.ID, "%s harvests %s", p.Name, f.ID)
	return nil
}

func (s *GameState) trainWorker(p *PlayerState, cost int) {
	p.Coins -= cost
	p.Workers = append(p.Workers, Worker{ID: p.nextWorkerID(), Type: Normal})
	s.log(LogTrainWorker, p.ID, "%s trains a worker", p.Name)
}
