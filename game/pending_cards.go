package game

import (
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

// DiscardCardsPending discards Count cards of the given types for a reward.
// No types means any card.
type DiscardCardsPending struct {
	Count         int             `json:"count"`
	Types         []deck.CardType `json:"types,omitempty"`
	Coins         int             `json:"coins,omitempty"`
	VictoryPoints int             `json:"victoryPoints,omitempty"`
}

func (DiscardCardsPending) Type() string { return "discardCards" }

func (d DiscardCardsPending) responders(s *GameState) []string { return ownerOnly(s) }

func (d DiscardCardsPending) promptFor(p *PlayerState) protocol.Prompt {
	return chooseCards(p.ID, "Discard "+plural(d.Count, "card"), d.Count, d.Count, false,
		cardChoices(cardsOfTypes(p, d.Types), nil))
}

func (d DiscardCardsPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if d.Count <= 0 || len(cardsOfTypes(p, d.Types)) < d.Count {
		return s.endPending()
	}
	s.enqueue(d.promptFor(p))
	return nil
}

func (d DiscardCardsPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	ids, err := checkCards(d.promptFor(p), a)
	if err != nil {
		return err
	}
	if err := s.discardFromHand(p, ids); err != nil {
		return err
	}
	p.gain(d.Coins, d.VictoryPoints)
	s.log(LogDiscard, p.ID, "%s discards %s", p.Name, plural(len(ids), "card"))
	return s.endPending()
}

// PayPlayersPending pays up to Remaining opponents Coins each, one at a time,
// for 1 VP per payment
type PayPlayersPending struct {
	Remaining int      `json:"remaining"`
	Coins     int      `json:"coins"`
	Paid      []string `json:"paid,omitempty"`
}

func (PayPlayersPending) Type() string { return "payPlayers" }

func (pp PayPlayersPending) responders(s *GameState) []string { return ownerOnly(s) }

func (pp PayPlayersPending) promptFor(s *GameState, p *PlayerState) protocol.Prompt {
	choices := []protocol.Choice{}
	for _, id := range opponents(s, p.ID) {
		reason := ""
		switch {
		case contains(pp.Paid, id):
			reason = "Already paid"
		case p.Coins < pp.Coins:
			reason = "Needs " + plural(pp.Coins, "coin")
		}
		choices = append(choices, choice(id, "Pay "+s.Players[id].Name, reason))
	}
	return chooseAction(p.ID, "Pay an opponent "+plural(pp.Coins, "coin"), true, choices...)
}

func (pp PayPlayersPending) prompt(s *GameState) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	if pp.Remaining <= 0 || !anyEnabled(pp.promptFor(s, p).Choices) {
		return s.endPending()
	}
	s.enqueue(pp.promptFor(s, p))
	return nil
}

func (pp PayPlayersPending) resolve(s *GameState, a protocol.Action) error {
	p, err := s.turnPlayer()
	if err != nil {
		return err
	}
	id, err := checkChoice(pp.promptFor(s, p), a)
	if err != nil {
		return err
	}
	if id == "" {
		return s.endPending()
	}
	other, err := s.player(id)
	if err != nil {
		return err
	}
	p.Coins -= pp.Coins
	other.gain(pp.Coins, 0)
	p.gain(0, 1)
	s.log(LogGain, p.ID, "%s pays %s %s", p.Name, other.Name, plural(pp.Coins, "coin"))

	pp.Paid = with(pp.Paid, id)
	pp.Remaining--
	if err := s.replacePending(pp); err != nil {
		return err
	}
	return pp.prompt(s)
}
