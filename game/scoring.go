package game

import (
	"sort"
)

// Standing is a player's final placement. The statistics come from the
// activity log and are for display only.
type Standing struct {
	PlayerID      string `json:"playerId"`
	Rank          int    `json:"rank"`
	VictoryPoints int    `json:"victoryPoints"`
	Coins         int    `json:"coins"`
	CellarValue   int    `json:"cellarValue"`
	CrushPadValue int    `json:"crushPadValue"`

	VisitorsPlayed int `json:"visitorsPlayed"`
	OrdersFilled   int `json:"ordersFilled"`
	WorkersPlaced  int `json:"workersPlaced"`
}

// Standings ranks players by victory points, then coins, then the value of
// their cellar and then their crush pad. Remaining ties keep table order and
// share a rank.
func Standings(s *GameState) []Standing {
	standings := make([]Standing, 0, s.numPlayers())
	byID := map[string]int{}
	for _, id := range s.TableOrder {
		p := s.Players[id]
		byID[id] = len(standings)
		standings = append(standings, Standing{
			PlayerID:      id,
			VictoryPoints: p.VictoryPoints,
			Coins:         p.Coins,
			CellarValue:   p.Cellar.Sum(),
			CrushPadValue: p.CrushPad.Sum(),
		})
	}

	for _, e := range s.ActivityLog {
		i, ok := byID[e.PlayerID]
		if !ok {
			continue
		}
		switch e.Kind {
		case LogPlaceWorker:
			standings[i].WorkersPlaced++
		case LogFillOrder:
			standings[i].OrdersFilled++
		case LogVisitor:
			standings[i].VisitorsPlayed++
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return beats(standings[i], standings[j])
	})
	for i := range standings {
		if i > 0 && !beats(standings[i-1], standings[i]) {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}

func beats(a, b Standing) bool {
	if a.VictoryPoints != b.VictoryPoints {
		return a.VictoryPoints > b.VictoryPoints
	}
	if a.Coins != b.Coins {
		return a.Coins > b.Coins
	}
	if a.CellarValue != b.CellarValue {
		return a.CellarValue > b.CellarValue
	}
	return a.CrushPadValue > b.CrushPadValue
}
