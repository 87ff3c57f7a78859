package game

import (
	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
)

func (s *GameState) seat(playerID string) int {
	for i, id := range s.TableOrder {
		if id == playerID {
			return i
		}
	}
	return -1
}

func (s *GameState) wakeUpSlot(playerID string) int {
	for i, pos := range s.WakeUpOrder {
		if pos.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// nextActivePlayer returns the first occupied, unpassed wake-up slot after
// current's, wrapping around. current itself comes last. An empty current
// starts from the top of the chart.
func (s *GameState) nextActivePlayer(current string) (string, bool) {
	start := -1
	if current != "" {
		start = s.wakeUpSlot(current)
	}
	for k := 1; k <= board.NumWakeUpSlots; k++ {
		i := (start + k + board.NumWakeUpSlots) % board.NumWakeUpSlots
		pos := s.WakeUpOrder[i]
		if pos.PlayerID != "" && !pos.Passed {
			return pos.PlayerID, true
		}
	}
	return "", false
}

func (s *GameState) markPassed(playerID string) {
	if i := s.wakeUpSlot(playerID); i >= 0 {
		s.WakeUpOrder[i].Passed = true
	}
}

func (s *GameState) resetPassed() {
	for i := range s.WakeUpOrder {
		s.WakeUpOrder[i].Passed = false
	}
}

func (s *GameState) startYear(year int) {
	s.Year = year
	s.WakeUpOrder = [board.NumWakeUpSlots]WakeUpPosition{}
	first := s.TableOrder[s.GrapeIndex]
	s.log(LogSeason, "", "Spring of year %d", year)
	s.CurrentTurn = WakeUpOrderTurn{PlayerID: first}
	s.enqueue(s.wakeUpPrompt(first))
}

// advancePlacement hands the season to the next active player after from.
// Players without an available worker pass automatically.
func (s *GameState) advancePlacement(season deck.Season, from string) error {
	current := from
	for {
		next, ok := s.nextActivePlayer(current)
		if !ok {
			return s.endSeason(season)
		}
		p, err := s.player(next)
		if err != nil {
			return err
		}
		if !p.hasAvailableWorker() {
			s.markPassed(next)
			s.log(LogPass, next, "%s has no workers left", p.Name)
			current = next
			continue
		}
		s.CurrentTurn = WorkerPlacementTurn{PlayerID: next, Season: season}
		s.enqueue(s.placeWorkerPrompt(next, season))
		return nil
	}
}

// endTurn closes the current worker placement turn
func (s *GameState) endTurn() error {
	t, ok := s.CurrentTurn.(WorkerPlacementTurn)
	if !ok {
		return invariant("no worker placement turn to end")
	}
	return s.advancePlacement(t.Season, t.PlayerID)
}

func (s *GameState) endSeason(season deck.Season) error {
	if season == deck.Winter {
		return s.endOfYear(s.thresholdReached())
	}
	s.resetPassed()
	s.log(LogSeason, "", "Fall of year %d", s.Year)
	return s.advanceFall("")
}

func (s *GameState) fallVisitors(p *PlayerState) int {
	if p.hasBuilt(deck.Cottage) {
		return 2
	}
	return 1
}

// advanceFall hands the fall draw to the next active player after from
func (s *GameState) advanceFall(from string) error {
	current := from
	for {
		next, ok := s.nextActivePlayer(current)
		if !ok {
			s.resetPassed()
			s.log(LogSeason, "", "Winter of year %d", s.Year)
			return s.advancePlacement(deck.Winter, "")
		}
		if !s.canDrawVisitor() {
			s.markPassed(next)
			current = next
			continue
		}
		remaining := s.fallVisitors(s.Players[next])
		s.CurrentTurn = FallVisitorTurn{PlayerID: next, Remaining: remaining}
		s.enqueue(s.fallVisitorPrompt(next, remaining))
		return nil
	}
}

func (s *GameState) canDrawVisitor() bool {
	return s.canDraw(deck.SummerVisitor) || s.canDraw(deck.WinterVisitor)
}
