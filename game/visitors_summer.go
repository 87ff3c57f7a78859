package game

import (
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

func emptyFields(p *PlayerState) int {
	n := 0
	for _, f := range p.Fields {
		if !f.Sold && len(f.Vines) == 0 {
			n++
		}
	}
	return n
}

func plantedFields(p *PlayerState) int {
	n := 0
	for _, f := range p.Fields {
		if len(f.Vines) > 0 {
			n++
		}
	}
	return n
}

func builtWithCost(p *PlayerState, cost int) int {
	n := 0
	for _, id := range deck.StructureIDs() {
		st, _ := deck.LookupStructure(id)
		if st.Cost == cost && p.hasBuilt(id) {
			n++
		}
	}
	return n
}

func summerVisitors() map[string]visitorProc {
	return map[string]visitorProc{
		"surveyor": {options: []visitorOption{
			opt("emptyFields", "Gain 2 coins for each empty field", nil,
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					p.gain(2*emptyFields(p), 0)
					return nil, nil
				}),
			opt("plantedFields", "Gain 1 VP for each planted field", nil,
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					p.gain(0, plantedFields(p))
					return nil, nil
				}),
		}},

		"broker": {options: []visitorOption{
			opt("buyVP", "Pay 9 coins to gain 3 VP", needsCoins(9), gainEffect(-9, 3)),
			opt("sellVP", "Lose 2 VP to gain 6 coins", nil, gainEffect(6, -2)),
		}},

		"wineCritic": {options: []visitorOption{
			opt("draw", "Draw 2 visitors", nil, drawEffect(deck.SummerVisitor, deck.WinterVisitor)),
			opt("vp", "Gain 4 VP if you have a wine worth 7 or more",
				func(_ *GameState, p *PlayerState) string {
					if p.Cellar.Max() < 7 {
						return "No wine worth 7 or more"
					}
					return ""
				}, gainEffect(0, 4)),
		}},

		"blacksmith": {effect: then(BuildStructurePending{Discount: 2, VPIfCostAtLeast: 5})},

		"contractor": {picks: 2, options: []visitorOption{
			opt("vp", "Gain 1 VP", nil, gainEffect(0, 1)),
			opt("build", "Build a structure", needsBuildable(BuildStructurePending{}), then(BuildStructurePending{})),
			opt("plant", "Plant a vine", needsPlantable, then(PlantVinePending{Remaining: 1})),
		}},

		"tourGuide": {options: []visitorOption{
			opt("coins", "Gain 4 coins", nil, gainEffect(4, 0)),
			opt("harvest", "Harvest a field", needsHarvestable, then(HarvestFieldPending{Remaining: 1})),
		}},

		"noviceGuide": {options: []visitorOption{
			opt("coins", "Gain 3 coins", nil, gainEffect(3, 0)),
			opt("makeWine", "Make up to 2 wines", needsWine, then(MakeWinePending{Remaining: 2, Optional: true})),
		}},

		"uncertifiedBroker": {options: []visitorOption{
			opt("sellVP", "Lose 3 VP to gain 9 coins", nil, gainEffect(9, -3)),
			opt("buyVP", "Pay 6 coins to gain 2 VP", needsCoins(6), gainEffect(-6, 2)),
		}},

		"planter": {options: []visitorOption{
			opt("plant", "Plant up to 2 vines and gain 1 coin", nil,
				seq(gainEffect(1, 0), then(PlantVinePending{Remaining: 2}))),
			opt("uproot", "Uproot and discard a vine to gain 2 VP",
				func(_ *GameState, p *PlayerState) string {
					if len(p.plantedVines()) == 0 {
						return "No vines planted"
					}
					return ""
				}, then(UprootPending{Discard: true, VictoryPoints: 2})),
		}},

		"buyer": {options: []visitorOption{
			opt("buyRed", "Pay 2 coins for a red grape worth 1", needsCoins(2), buyGrape(tokens.Red)),
			opt("buyWhite", "Pay 2 coins for a white grape worth 1", needsCoins(2), buyGrape(tokens.White)),
			opt("discardGrape", "Discard a grape to gain 2 coins and 1 VP",
				func(_ *GameState, p *PlayerState) string {
					if p.CrushPad.Count() == 0 {
						return "No grapes"
					}
					return ""
				}, then(DiscardTokenPending{Coins: 2, VictoryPoints: 1})),
		}},

		"landscaper": {effect: seq(drawEffect(deck.Vine), then(PlantVinePending{Remaining: 1}))},

		"architect": {options: []visitorOption{
			opt("build", "Build a structure at a 3 coin discount",
				needsBuildable(BuildStructurePending{Discount: 3}), then(BuildStructurePending{Discount: 3})),
			opt("vp", "Gain 1 VP for each 4 coin structure you have",
				func(_ *GameState, p *PlayerState) string {
					if builtWithCost(p, 4) == 0 {
						return "No 4 coin structures"
					}
					return ""
				},
				func(s *GameState, p *PlayerState) ([]PendingAction, error) {
					p.gain(0, builtWithCost(p, 4))
					return nil, nil
				}),
		}},

		"uncertifiedArchitect": {options: []visitorOption{
			opt("two", "Lose 1 VP to build a 2 coin structure",
				needsBuildable(BuildStructurePending{Free: true, MaxCost: 2}),
				seq(gainEffect(0, -1), then(BuildStructurePending{Free: true, MaxCost: 2}))),
			opt("three", "Lose 2 VP to build a 3 coin structure",
				needsBuildable(BuildStructurePending{Free: true, MaxCost: 3}),
				seq(gainEffect(0, -2), then(BuildStructurePending{Free: true, MaxCost: 3}))),
		}},

		"patron": {options: []visitorOption{
			opt("coins", "Gain 4 coins", nil, gainEffect(4, 0)),
			opt("draw", "Draw an order and a winter visitor", nil, drawEffect(deck.Order, deck.WinterVisitor)),
		}},

		"auctioneer": {options: []visitorOption{
			opt("two", "Discard 2 cards to gain 4 coins", needsCards(2), then(DiscardCardsPending{Count: 2, Coins: 4})),
			opt("four", "Discard 4 cards to gain 3 VP", needsCards(4), then(DiscardCardsPending{Count: 4, VictoryPoints: 3})),
		}},

		"vendor": {
			effect: drawEffect(deck.Vine, deck.Order, deck.WinterVisitor),
			react: &reaction{
				prompt: func(s *GameState, owner, r *PlayerState) (protocol.Prompt, bool) {
					return yesNo(r.ID, "vendor", "draw", "Draw a summer visitor", ""), s.canDraw(deck.SummerVisitor)
				},
				resolve: func(s *GameState, owner, r *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
					key, err := checkChoice(pr, a)
					if err != nil || key == "" {
						return 0, err
					}
					s.draw(r, deck.SummerVisitor, 1)
					return 1, nil
				},
			},
		},

		"handyman": {
			effect: then(BuildStructurePending{Discount: 2, Optional: true}),
			react: &reaction{
				prompt: func(s *GameState, owner, r *PlayerState) (protocol.Prompt, bool) {
					pr := BuildStructurePending{Discount: 2, Optional: true}.promptFor(r)
					return pr, anyEnabled(pr.Choices)
				},
				resolve: func(s *GameState, owner, r *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
					built, err := s.buildFromAction(r, BuildStructurePending{Discount: 2, Optional: true}, a)
					if err != nil || !built {
						return 0, err
					}
					return 1, nil
				},
				finish: func(s *GameState, owner *PlayerState, count int) ([]PendingAction, error) {
					owner.gain(0, count)
					return nil, nil
				},
			},
		},

		"banker": {
			effect: gainEffect(5, 0),
			react: &reaction{
				prompt: func(s *GameState, owner, r *PlayerState) (protocol.Prompt, bool) {
					return yesNo(r.ID, "banker", "trade", "Lose 1 VP to gain 3 coins", ""), true
				},
				resolve: func(s *GameState, owner, r *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
					key, err := checkChoice(pr, a)
					if err != nil || key == "" {
						return 0, err
					}
					r.gain(3, -1)
					return 1, nil
				},
			},
		},

		"swindler": {
			react: &reaction{
				prompt: func(s *GameState, owner, r *PlayerState) (protocol.Prompt, bool) {
					give := ""
					if r.Coins < 2 {
						give = "Needs 2 coins"
					}
					return chooseAction(r.ID, "swindler", false,
						choice("give", "Give "+owner.Name+" 2 coins", give),
						choice("decline", "Let "+owner.Name+" gain 1 VP", ""),
					), true
				},
				resolve: func(s *GameState, owner, r *PlayerState, pr protocol.Prompt, a protocol.Action) (int, error) {
					key, err := checkChoice(pr, a)
					if err != nil {
						return 0, err
					}
					if key == "give" {
						r.Coins -= 2
						owner.gain(2, 0)
						return 0, nil
					}
					owner.gain(0, 1)
					return 1, nil
				},
			},
		},

		"weddingParty": {effect: then(PayPlayersPending{Remaining: 3, Coins: 2})},
	}
}

func buyGrape(color tokens.Color) effect {
	return func(s *GameState, p *PlayerState) ([]PendingAction, error) {
		p.Coins -= 2
		p.CrushPad = p.CrushPad.Place(tokens.Grape{Color: color, Value: 1})
		return nil, nil
	}
}
