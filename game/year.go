package game

import (
	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
)

// IsGameOver reports whether the game has ended, or is about to: it is winter,
// someone has reached the threshold and nobody is left to act this season.
func (s *GameState) IsGameOver() bool {
	switch t := s.CurrentTurn.(type) {
	case GameOverTurn:
		return true
	case WorkerPlacementTurn:
		if t.Season != deck.Winter || !s.thresholdReached() {
			return false
		}
		_, active := s.nextActivePlayer("")
		return !active
	}
	return false
}

func (s *GameState) thresholdReached() bool {
	threshold := s.Variant.GameOverThreshold()
	for _, p := range s.Players {
		if p.VictoryPoints >= threshold {
			return true
		}
	}
	return false
}

// endOfYear pays income, resets workers and structures, ages tokens and
// clears the board. final marks the last year of the game.
func (s *GameState) endOfYear(final bool) error {
	for _, id := range s.TableOrder {
		p := s.Players[id]

		p.Coins += p.Residuals
		if p.Coins < 0 {
			p.Coins = 0
		}

		workers := []Worker{}
		for _, w := range p.Workers {
			if w.IsTemp {
				continue
			}
			w.Available = true
			workers = append(workers, w)
		}
		p.Workers = workers

		p.CrushPad = p.CrushPad.Age(1)
		p.Cellar = p.Cellar.Age(p.cellarLimit(), 1)

		for i := range p.Fields {
			p.Fields[i].Harvested = false
		}
		for sid, st := range p.Structures {
			if st == Used {
				p.Structures[sid] = Built
			}
		}
	}

	s.WorkerPlacements = map[board.SpotID][]Slot{}
	s.GrapeIndex = (s.GrapeIndex + 1) % s.numPlayers()
	s.log(LogEndOfYear, "", "End of year %d", s.Year)

	return s.advanceDiscard(0, final)
}

// advanceDiscard waits on the first player from seat onward who holds more
// than the hand limit
func (s *GameState) advanceDiscard(seat int, final bool) error {
	for i := seat; i < s.numPlayers(); i++ {
		id := s.TableOrder[i]
		if len(s.Players[id].CardsInHand) > board.HandLimit {
			s.CurrentTurn = EndOfYearDiscardTurn{PlayerID: id, Final: final}
			s.enqueue(s.discardPrompt(id))
			return nil
		}
	}
	if final {
		s.gameOver()
		return nil
	}
	s.startYear(s.Year + 1)
	return nil
}

func (s *GameState) gameOver() {
	standings := Standings(s)
	ranking := make([]string, 0, len(standings))
	for _, st := range standings {
		ranking = append(ranking, st.PlayerID)
	}
	s.CurrentTurn = GameOverTurn{Ranking: ranking}
	s.log(LogGameOver, ranking[0], "%s wins", s.Players[ranking[0]].Name)
	for _, id := range s.TableOrder {
		s.enqueue(gameOverPrompt(id))
	}
}
