package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsiao/oenology-sub000/board"
	"github.com/vsiao/oenology-sub000/deck"
	utils "github.com/vsiao/oenology-sub000/internal"
)

func TestStateJSON(t *testing.T) {
	t.Run("tags the turn and its pending actions with their type", func(t *testing.T) {
		s := placementTurn(t, deck.Summer, "p1", "p1", "p2")
		s.Players["p1"].Coins = 5
		s = mustApply(t, s, place("p1", board.BuildStructure))

		raw, err := json.Marshal(s)
		require.NoError(t, err)

		var decoded struct {
			Year        int `json:"year"`
			CurrentTurn struct {
				Type     string `json:"type"`
				PlayerID string `json:"playerId"`
				Pending  []struct {
					Type string `json:"type"`
				} `json:"pending"`
			} `json:"currentTurn"`
			Players map[string]struct {
				Structures map[string]string `json:"structures"`
			} `json:"players"`
		}
		require.NoError(t, json.Unmarshal(raw, &decoded))

		utils.AssertEqual(t, decoded.Year, 1)
		utils.AssertEqual(t, decoded.CurrentTurn.Type, "workerPlacement")
		utils.AssertEqual(t, decoded.CurrentTurn.PlayerID, "p1")
		require.Len(t, decoded.CurrentTurn.Pending, 1)
		utils.AssertEqual(t, decoded.CurrentTurn.Pending[0].Type, "buildStructure")
		utils.AssertEqual(t, decoded.Players["p1"].Structures[deck.Trellis], "unbuilt")
	})
}
