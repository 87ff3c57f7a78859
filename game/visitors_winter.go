package game

import (
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

// upgradeCellar builds the next cellar for a fixed price
func upgradeCellar(p *PlayerState, price int) BuildStructurePending {
	id := deck.MediumCellar
	if p.hasBuilt(deck.MediumCellar) {
		id = deck.LargeCellar
	}
	b := BuildStructurePending{Only: []string{id}}
	if st, err := deck.LookupStructure(id); err == nil {
		b.Discount = st.Cost - price
	}
	if price == 0 {
		b.Free = true
	}
	return b
}

func needsCellarUpgrade(price int) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		if p.hasBuilt(deck.LargeCellar) {
			return "Cellar is already large"
		}
		if !anyEnabled(upgradeCellar(p, price).promptFor(p).Choices) {
			return "Needs " + plural(price, "coin")
		}
		return ""
	}
}

func cellarUpgrade(price int) effect {
	return func(s *GameState, p *PlayerState) ([]PendingAction, error) {
		return []PendingAction{upgradeCellar(p, price)}, nil
	}
}

func ageCellar(times int) effect {
	return func(s *GameState, p *PlayerState) ([]PendingAction, error) {
		p.Cellar = p.Cellar.Age(p.cellarLimit(), times)
		return nil, nil
	}
}

func needsTrainable(cost int) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		return trainDisabledReason(p, cost)
	}
}

func needsWineWorth(v int) func(*GameState, *PlayerState) string {
	return func(_ *GameState, p *PlayerState) string {
		if p.Cellar.Max() < v {
			return "No wine worth " + itoa(v) + " or more"
		}
		return ""
	}
}

func needsGrape(_ *GameState, p *PlayerState) string {
	if p.CrushPad.Count() == 0 {
		return "No grapes"
	}
	return ""
}

func takeDiscard(t deck.CardType) visitorOption {
	return opt(t.String(), "Take the top "+t.String()+" discard",
		func(s *GameState, _ *PlayerState) string {
			if len(s.DiscardPiles[t]) == 0 {
				return "Discard pile is empty"
			}
			return ""
		},
		func(s *GameState, p *PlayerState) ([]PendingAction, error) {
			pile := s.DiscardPiles[t]
			top := pile[len(pile)-1]
			s.DiscardPiles[t] = pile[:len(pile)-1:len(pile)-1]
			p.CardsInHand = append(p.CardsInHand, top)
			s.log(LogDraw, p.ID, "%s takes %s from the discards", p.Name, top.ID)
			return nil, nil
		})
}

func opponentsWithWorkers(s *GameState, p *PlayerState, n int) int {
	count := 0
	for _, id := range opponents(s, p.ID) {
		if s.Players[id].permanentWorkers() >= n {
			count++
		}
	}
	return count
}

func winterVisitors() map[string]visitorProc {
	return map[string]visitorProc{
		"merchant": {options: []visitorOption{
			opt("grapes", "Pay 3 coins for a red and a white grape worth 1", needsCoins(3),
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					p.Coins -= 3
					p.CrushPad = p.CrushPad.Place(tokens.Grape{Color: tokens.Red, Value: 1})
					p.CrushPad = p.CrushPad.Place(tokens.Grape{Color: tokens.White, Value: 1})
					return nil, nil
				}),
			opt("fillOrder", "Fill an order and gain 1 extra VP", needsFillable(FillOrderPending{}),
				then(FillOrderPending{BonusVP: 1})),
		}},

		"crusher": {options: []visitorOption{
			opt("coins", "Gain 3 coins and draw a summer visitor", nil,
				seq(gainEffect(3, 0), drawEffect(deck.SummerVisitor))),
			opt("makeWine", "Draw an order and make up to 1 wine", nil,
				seq(drawEffect(deck.Order), then(MakeWinePending{Remaining: 1, Optional: true}))),
		}},

		"judge": {options: []visitorOption{
			opt("draw", "Draw 2 summer visitors", nil, drawEffect(deck.SummerVisitor, deck.SummerVisitor)),
			opt("discardWine", "Discard a wine worth 4 or more to gain 3 VP", needsWineWorth(4),
				then(DiscardTokenPending{Wine: true, MinValue: 4, VictoryPoints: 3})),
		}},

		"oenologist": {options: []visitorOption{
			opt("age", "Age your wines twice", nil, ageCellar(2)),
			opt("upgrade", "Pay 3 coins to upgrade your cellar", needsCellarUpgrade(3), cellarUpgrade(3)),
		}},

		"marketer": {options: []visitorOption{
			opt("draw", "Gain 2 coins and draw an order", nil, seq(gainEffect(2, 0), drawEffect(deck.Order))),
			opt("fillOrder", "Fill an order with wines up to 2 below its values",
				needsFillable(FillOrderPending{Discount: tokens.PremiumDiscount}),
				then(FillOrderPending{Discount: tokens.PremiumDiscount})),
		}},

		"crushExpert": {options: []visitorOption{
			opt("draw", "Gain 3 coins and draw an order", nil, seq(gainEffect(3, 0), drawEffect(deck.Order))),
			opt("makeWine", "Make up to 3 wines", needsWine, then(MakeWinePending{Remaining: 3, Optional: true})),
		}},

		"uncertifiedTeacher": {options: []visitorOption{
			opt("train", "Lose 1 VP to train a worker", needsTrainable(0),
				seq(gainEffect(0, -1), then(TrainWorkerPending{}))),
			opt("vp", "Gain 1 VP for each opponent with 6 workers",
				func(s *GameState, p *PlayerState) string {
					if opponentsWithWorkers(s, p, 6) == 0 {
						return "No opponent has 6 workers"
					}
					return ""
				},
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					p.gain(0, opponentsWithWorkers(s, p, 6))
					return nil, nil
				}),
		}},

		"teacher": {options: []visitorOption{
			opt("makeWine", "Make up to 2 wines", needsWine, then(MakeWinePending{Remaining: 2, Optional: true})),
			opt("train", "Pay 2 coins to train a worker", needsTrainable(2), then(TrainWorkerPending{Cost: 2})),
		}},

		"benefactor": {options: []visitorOption{
			opt("draw", "Draw a vine and a summer visitor", nil, drawEffect(deck.Vine, deck.SummerVisitor)),
			opt("discard", "Discard 2 visitors to gain 2 VP", needsCards(2, deck.SummerVisitor, deck.WinterVisitor),
				then(DiscardCardsPending{Count: 2, Types: []deck.CardType{deck.SummerVisitor, deck.WinterVisitor}, VictoryPoints: 2})),
		}},

		"assessor": {options: []visitorOption{
			opt("coins", "Gain 1 coin for each card in your hand", nil,
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					p.gain(len(p.CardsInHand), 0)
					return nil, nil
				}),
			opt("discardHand", "Discard your hand to gain 2 VP", needsCards(1),
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					ids := []string{}
					for _, c := range p.CardsInHand {
						ids = append(ids, c.ID)
					}
					if err := s.discardFromHand(p, ids); err != nil {
						return nil, err
					}
					p.gain(0, 2)
					return nil, nil
				}),
		}},

		"queen": {
			react: &reaction{
				responders: func(s *GameState, owner *PlayerState) []string {
					if s.numPlayers() < 2 {
						return nil
					}
					right := (s.seat(owner.ID) + s.numPlayers() - 1) % s.numPlayers()
					return []string{s.TableOrder[right]}
				},
				prompt: func(s *GameState, owner, r *PlayerState) (protocol.Prompt, bool) {
					pay := ""
					if r.Coins < 3 {
						pay = "Needs 3 coins"
					}
					return chooseAction(r.ID, "queen", false,
						choice("loseVP", "Lose 1 VP", ""),
						choice("pay", "Pay "+owner.Name+" 3 coins", pay),
					), true
				},
				resolve: func(s *GameState, owner, r *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
					key, err := checkChoice(pr, a)
					if err != nil {
						return 0, err
					}
					if key == "pay" {
						r.Coins -= 3
						owner.gain(3, 0)
					} else {
						r.gain(0, -1)
					}
					return 1, nil
				},
			},
		},

		"harvester": {
			effect: then(HarvestFieldPending{Remaining: 2}),
			options: []visitorOption{
				opt("coin", "Gain 1 coin", nil, gainEffect(1, 0)),
				opt("vp", "Gain 1 VP", nil, gainEffect(0, 1)),
			},
		},

		"professor": {options: []visitorOption{
			opt("train", "Pay 2 coins to train a worker", needsTrainable(2), then(TrainWorkerPending{Cost: 2})),
			opt("vp", "Gain 2 VP if you have 6 workers",
				func(_ *GameState, p *PlayerState) string {
					if p.permanentWorkers() < 6 {
						return "Needs 6 workers"
					}
					return ""
				}, gainEffect(0, 2)),
		}},

		"masterVintner": {options: []visitorOption{
			opt("upgrade", "Upgrade your cellar at a 2 coin discount",
				func(s *GameState, p *PlayerState) string {
					if p.hasBuilt(deck.LargeCellar) {
						return "Cellar is already large"
					}
					b := upgradeCellar(p, 0)
					b.Free, b.Discount = false, 2
					if !anyEnabled(b.promptFor(p).Choices) {
						return "Cannot afford the upgrade"
					}
					return ""
				},
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					b := upgradeCellar(p, 0)
					b.Free, b.Discount = false, 2
					return []PendingAction{b}, nil
				}),
			opt("ageAndFill", "Age your wines and fill an order", nil,
				seq(ageCellar(1), then(FillOrderPending{}))),
		}},

		"uncertifiedOenologist": {options: []visitorOption{
			opt("age", "Age your wines twice", nil, ageCellar(2)),
			opt("upgrade", "Lose 1 VP to upgrade your cellar", needsCellarUpgrade(0),
				seq(gainEffect(0, -1), cellarUpgrade(0))),
		}},

		"promoter": {options: []visitorOption{
			opt("grape", "Discard a grape to gain 1 VP and 1 residual", needsGrape,
				then(DiscardTokenPending{VictoryPoints: 1, Residual: 1})),
			opt("wine", "Discard a wine to gain 1 VP and 1 residual", needsWineWorth(1),
				then(DiscardTokenPending{Wine: true, VictoryPoints: 1, Residual: 1})),
		}},

		"mentor": {
			effect: then(MakeWinePending{Remaining: 2, Optional: true}),
			react: &reaction{
				prompt: func(s *GameState, owner, r *PlayerState) (protocol.Prompt, bool) {
					return makeWinePrompt(r, 2, true), canMakeWine(r)
				},
				resolve: func(s *GameState, owner, r *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
					n, err := s.makeWines(r, pr, a)
					if err != nil || n == 0 {
						return 0, err
					}
					return 1, nil
				},
				finish: func(s *GameState, owner *PlayerState, count int) ([]PendingAction, error) {
					s.draw(owner, deck.Vine, count)
					return nil, nil
				},
			},
		},

		"innkeeper": {picks: 2, options: []visitorOption{
			takeDiscard(deck.Vine),
			takeDiscard(deck.SummerVisitor),
			takeDiscard(deck.WinterVisitor),
			takeDiscard(deck.Order),
		}},

		"jackOfAllTrades": {picks: 2, options: []visitorOption{
			opt("harvest", "Harvest a field", needsHarvestable, then(HarvestFieldPending{Remaining: 1})),
			opt("makeWine", "Make up to 2 wines", needsWine, then(MakeWinePending{Remaining: 2, Optional: true})),
			opt("fillOrder", "Fill an order", needsFillable(FillOrderPending{}), then(FillOrderPending{})),
		}},

		"politician": {effect: func(s *GameState, p *PlayerState) ([]PendingAction, error) {
			if p.VictoryPoints < 0 {
				p.gain(6, 0)
				return nil, nil
			}
			return drawEffect(deck.Vine, deck.SummerVisitor, deck.Order)(s, p)
		}},
	}
}
