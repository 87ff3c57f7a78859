package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	utils "github.com/vsiao/oenology-sub000/internal"
)

// chart builds a wake-up chart from a base-3 code: 0 is empty, 1 active and
// 2 passed
func chart(code int) [board.NumWakeUpSlots]WakeUpPosition {
	var order [board.NumWakeUpSlots]WakeUpPosition
	for i := range order {
		switch code % 3 {
		case 1:
			order[i] = WakeUpPosition{PlayerID: fmt.Sprintf("s%d", i)}
		case 2:
			order[i] = WakeUpPosition{PlayerID: fmt.Sprintf("s%d", i), Passed: true}
		}
		code /= 3
	}
	return order
}

func TestNextActivePlayer(t *testing.T) {
	configs := 1
	for i := 0; i < board.NumWakeUpSlots; i++ {
		configs *= 3
	}

	for code := 0; code < configs; code++ {
		s := &GameState{WakeUpOrder: chart(code)}
		active := 0
		currents := []string{""}
		for _, pos := range s.WakeUpOrder {
			if pos.PlayerID == "" {
				continue
			}
			currents = append(currents, pos.PlayerID)
			if !pos.Passed {
				active++
			}
		}

		for _, current := range currents {
			next, ok := s.nextActivePlayer(current)
			if active == 0 {
				require.False(t, ok, "chart %d from %q", code, current)
				continue
			}
			require.True(t, ok, "chart %d from %q", code, current)

			slot := s.wakeUpSlot(next)
			require.GreaterOrEqual(t, slot, 0)
			require.False(t, s.WakeUpOrder[slot].Passed, "chart %d from %q picked a passed player", code, current)

			start := -1
			if current != "" {
				start = s.wakeUpSlot(current)
			}
			for i := start + 1; ; i++ {
				k := (i + board.NumWakeUpSlots) % board.NumWakeUpSlots
				if k == slot {
					break
				}
				pos := s.WakeUpOrder[k]
				require.False(t, pos.PlayerID != "" && !pos.Passed,
					"chart %d from %q skipped active slot %d for %d", code, current, k, slot)
			}
		}
	}
}

func TestSeasonOrder(t *testing.T) {
	t.Run("players without workers pass automatically", func(t *testing.T) {
		s := placementTurn(t, deck.Summer, "", "p1", "p2", "p3")
		for i := range s.Players["p2"].Workers {
			s.Players["p2"].Workers[i].Available = false
		}

		s = mustApply(t, s, place("p1", board.SummerCoin))

		utils.AssertDeepEqual(t, s.AwaitedPlayers(), []string{"p3"})
		assert.True(t, s.WakeUpOrder[1].Passed)
	})

	t.Run("fall visitors are drawn in wake-up order before winter", func(t *testing.T) {
		s := placementTurn(t, deck.Summer, "p2", "p1", "p2")
		s.Players["p2"].Structures[deck.Cottage] = Built

		s = mustApply(t, s, pass("p1"))
		s = mustApply(t, s, pass("p2"))

		assert.Equal(t, Turn(FallVisitorTurn{PlayerID: "p1", Remaining: 1}), s.CurrentTurn)
		s = mustApply(t, s, choose("p1", deck.SummerVisitor.String()))

		t.Log("A cottage draws a second visitor")
		assert.Equal(t, Turn(FallVisitorTurn{PlayerID: "p2", Remaining: 2}), s.CurrentTurn)
		require.Len(t, s.ActionPrompts, 1)
		s = mustApply(t, s, choose("p2", deck.WinterVisitor.String()))
		s = mustApply(t, s, choose("p2", deck.WinterVisitor.String()))

		utils.AssertEqual(t, len(s.Players["p2"].cardsOfType(deck.WinterVisitor)), 2)
		assert.Equal(t, Turn(WorkerPlacementTurn{PlayerID: "p1", Season: deck.Winter}), s.CurrentTurn)
		for _, pos := range s.WakeUpOrder {
			assert.False(t, pos.Passed)
		}
	})
}
