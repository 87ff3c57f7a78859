package game

import (
	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/protocol"
)

// SpotDisabledReason explains why playerID may not place a worker on a spot
// right now. An empty string means the placement is legal.
func SpotDisabledReason(s *GameState, playerID string, id board.SpotID) string {
	spot, ok := board.LookupSpot(id)
	if !ok {
		return "Unknown spot"
	}
	p, ok := s.Players[playerID]
	if !ok {
		return "Not in this game"
	}
	t, ok := s.CurrentTurn.(WorkerPlacementTurn)
	if !ok {
		return "Workers cannot be placed now"
	}
	if !spot.Personal {
		if spot.Season != t.Season {
			return "Only in " + spot.Season.String()
		}
		if spot.Extended && s.Variant != board.Extended {
			return "Not on this board"
		}
	}
	if !p.hasAvailableWorker() {
		return "No workers available"
	}

	slots := s.WorkerPlacements[id]
	if !spot.Unbounded {
		for _, slot := range slots {
			if slot.PlayerID == playerID {
				return "You already have a worker here"
			}
		}
		if !spot.Personal && len(slots) >= spot.Capacity(s.numPlayers()) && !p.hasAvailableGrande() {
			return "All spaces are taken"
		}
	}
	bonus := s.slotBonus(spot)

	switch id {
	case board.DrawVine:
		if !s.canDraw(deck.Vine) {
			return "No vines left"
		}
	case board.DrawOrder:
		if !s.canDraw(deck.Order) {
			return "No orders left"
		}
	case board.GiveTour, board.SummerCoin, board.WinterCoin:
	case board.BuildStructure:
		b := BuildStructurePending{Discount: buildDiscount(bonus)}
		if !anyEnabled(b.promptFor(p).Choices) {
			return "You can't afford any structure"
		}
	case board.PlaySummerVisitor:
		if len(p.cardsOfType(deck.SummerVisitor)) == 0 {
			return "No summer visitors in hand"
		}
	case board.PlayWinterVisitor:
		if len(p.cardsOfType(deck.WinterVisitor)) == 0 {
			return "No winter visitors in hand"
		}
	case board.SellGrapes:
		if !anyEnabled(SellGrapesOrFieldPending{}.promptFor(p).Choices) {
			return "Nothing to sell or buy"
		}
	case board.PlantVine:
		if !anyEnabled(PlantVinePending{Remaining: 1}.promptFor(p).Choices) {
			return "No vine can be planted"
		}
	case board.Trade:
		if !anyEnabled(TradePending{}.givePrompt(p).Choices) {
			return "Nothing to trade"
		}
	case board.HarvestField:
		if !p.harvestableFields() {
			return "No field to harvest"
		}
	case board.TrainWorker:
		if reason := trainDisabledReason(p, trainCost(bonus)); reason != "" {
			return reason
		}
	case board.MakeWine:
		if !canMakeWine(p) {
			return "No wine can be made"
		}
	case board.FillOrder:
		if !anyEnabled(FillOrderPending{}.promptFor(p).Choices) {
			return "No order can be filled"
		}
	case board.Influence:
		if p.starsInSupply() == 0 {
			return "No stars left"
		}
	case board.Yoke:
		switch p.structure(deck.Yoke) {
		case Unbuilt:
			return "Build a yoke first"
		case Used:
			return "Yoke already used this year"
		}
		if !p.harvestableFields() && len(p.plantedVines()) == 0 {
			return "Nothing to harvest or uproot"
		}
	default:
		return "Unknown spot"
	}
	return ""
}

// slotBonus reports whether the next worker on spot gets the first-in-line bonus
func (s *GameState) slotBonus(spot board.Spot) bool {
	if spot.Personal || spot.Unbounded {
		return false
	}
	return board.BonusActive(len(s.WorkerPlacements[spot.ID]), s.numPlayers())
}

func buildDiscount(bonus bool) int {
	if bonus {
		return 1
	}
	return 0
}

func trainCost(bonus bool) int {
	if bonus {
		return board.TrainWorkerCost - 1
	}
	return board.TrainWorkerCost
}

func bonusCount(bonus bool, base, withBonus int) int {
	if bonus {
		return withBonus
	}
	return base
}

func (s *GameState) placeWorker(t WorkerPlacementTurn, a protocol.Action) error {
	id := board.SpotID(a.SpotID)
	if reason := SpotDisabledReason(s, t.PlayerID, id); reason != "" {
		return illegal("%s cannot place on %s: %s", t.PlayerID, id, reason)
	}
	spot, _ := board.LookupSpot(id)
	p, err := s.player(t.PlayerID)
	if err != nil {
		return err
	}

	slots := s.WorkerPlacements[id]
	full := !spot.Unbounded && !spot.Personal && len(slots) >= spot.Capacity(s.numPlayers())
	wi, ok := p.availableWorker(a.WorkerID)
	if !ok {
		return illegal("worker %q is not available", a.WorkerID)
	}
	if full && p.Workers[wi].Type != Grande {
		if a.WorkerID != "" {
			return illegal("only the grande worker may join a full spot")
		}
		wi = -1
		for i, w := range p.Workers {
			if w.Available && w.Type == Grande {
				wi = i
			}
		}
		if wi < 0 {
			return invariant("%s has no grande worker for a full spot", p.ID)
		}
	}

	bonus := s.slotBonus(spot)
	p.Workers[wi].Available = false
	s.WorkerPlacements[id] = append(slots, Slot{PlayerID: p.ID, WorkerID: p.Workers[wi].ID})
	s.log(LogPlaceWorker, p.ID, "%s places a worker on %s", p.Name, id)

	return s.resolveSpot(p, id, bonus)
}

func (s *GameState) resolveSpot(p *PlayerState, id board.SpotID, bonus bool) error {
	switch id {
	case board.DrawVine:
		s.draw(p, deck.Vine, bonusCount(bonus, 1, 2))
		return s.endTurn()
	case board.DrawOrder:
		s.draw(p, deck.Order, bonusCount(bonus, 1, 2))
		return s.endTurn()
	case board.GiveTour:
		coins := bonusCount(bonus, 2, 3)
		p.gain(coins, 0)
		s.log(LogGain, p.ID, "%s gives a tour for %s", p.Name, plural(coins, "coin"))
		if p.structure(deck.TastingRoom) == Built && p.Cellar.Count() > 0 {
			p.gain(0, 1)
			p.Structures[deck.TastingRoom] = Used
			s.log(LogGain, p.ID, "%s gains 1 VP from the tasting room", p.Name)
		}
		return s.endTurn()
	case board.SummerCoin, board.WinterCoin:
		p.gain(1, 0)
		return s.endTurn()
	case board.BuildStructure:
		return s.pushPending(BuildStructurePending{HasBonus: bonus, Discount: buildDiscount(bonus)})
	case board.PlaySummerVisitor:
		return s.pushPending(PlayVisitorPending{HasBonus: bonus, Season: deck.Summer, Remaining: bonusCount(bonus, 1, 2)})
	case board.PlayWinterVisitor:
		return s.pushPending(PlayVisitorPending{HasBonus: bonus, Season: deck.Winter, Remaining: bonusCount(bonus, 1, 2)})
	case board.SellGrapes:
		return s.pushPending(SellGrapesOrFieldPending{HasBonus: bonus})
	case board.PlantVine:
		return s.pushPending(PlantVinePending{HasBonus: bonus, Remaining: bonusCount(bonus, 1, 2)})
	case board.Trade:
		if bonus {
			p.gain(1, 0)
		}
		return s.pushPending(TradePending{HasBonus: bonus})
	case board.HarvestField:
		return s.pushPending(HarvestFieldPending{HasBonus: bonus, Remaining: bonusCount(bonus, 1, 2)})
	case board.TrainWorker:
		return s.pushPending(TrainWorkerPending{HasBonus: bonus, Cost: trainCost(bonus)})
	case board.MakeWine:
		return s.pushPending(MakeWinePending{HasBonus: bonus, Remaining: bonusCount(bonus, 2, 3)})
	case board.FillOrder:
		return s.pushPending(FillOrderPending{HasBonus: bonus, BonusVP: bonusCount(bonus, 0, 1)})
	case board.Influence:
		if bonus {
			p.gain(1, 0)
		}
		return s.pushPending(InfluencePending{HasBonus: bonus})
	case board.Yoke:
		p.Structures[deck.Yoke] = Used
		return s.pushPending(YokePending{})
	}
	return invariant("no resolution for spot %s", id)
}
