package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsiao/oenology-sub000/deck"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

func TestParseAnswer(t *testing.T) {
	choices := []protocol.Choice{{Key: "coins"}, {Key: "vines"}, {Key: "visitors"}}

	t.Run("picks a choice by number or by key", func(t *testing.T) {
		p := protocol.Prompt{Type: protocol.ChooseActionPrompt, PlayerID: "p1", Choices: choices}

		a, err := ParseAnswer(p, " 2 ")
		require.NoError(t, err)
		assert.Equal(t, protocol.Action{Type: protocol.ChooseAction, PlayerID: "p1", Choice: "vines"}, a)

		a, err = ParseAnswer(p, "visitors")
		require.NoError(t, err)
		utils.AssertEqual(t, a.Choice, "visitors")
	})

	t.Run("suggests a close key", func(t *testing.T) {
		p := protocol.Prompt{Type: protocol.ChooseActionPrompt, Choices: choices}

		_, err := ParseAnswer(p, "vsitors")
		utils.AssertErrorIs(t, err, ErrInvalidAnswer)
		utils.AssertTrue(t, strings.Contains(err.Error(), `did you mean "visitors"`))

		_, err = ParseAnswer(p, "4")
		utils.AssertErrorIs(t, err, ErrInvalidAnswer)
	})

	t.Run("maps the prompt type to the action type", func(t *testing.T) {
		tests := []struct {
			prompt protocol.PromptType
			want   protocol.Action
		}{
			{protocol.PlaceWorkerPrompt, protocol.Action{Type: protocol.PlaceWorker, SpotID: "coins"}},
			{protocol.BuildStructurePrompt, protocol.Action{Type: protocol.BuildStructure, StructureID: "coins"}},
			{protocol.ChooseFieldPrompt, protocol.Action{Type: protocol.ChooseField, FieldID: "coins"}},
		}
		for _, tt := range tests {
			a, err := ParseAnswer(protocol.Prompt{Type: tt.prompt, Choices: choices}, "1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		}
	})

	t.Run("passes only when the prompt allows it", func(t *testing.T) {
		a, err := ParseAnswer(protocol.Prompt{Type: protocol.PlaceWorkerPrompt, Optional: true}, "p")
		require.NoError(t, err)
		utils.AssertEqual(t, a.Type, protocol.Pass)

		_, err = ParseAnswer(protocol.Prompt{Type: protocol.ChooseActionPrompt}, "pass")
		utils.AssertErrorIs(t, err, ErrInvalidAnswer)
	})

	t.Run("picks several cards", func(t *testing.T) {
		p := protocol.Prompt{
			Type:    protocol.ChooseCardPrompt,
			Choices: []protocol.Choice{{Key: "a"}, {Key: "b"}, {Key: "c"}},
		}

		a, err := ParseAnswer(p, "3, 1")
		require.NoError(t, err)
		utils.AssertDeepEqual(t, a.Cards, []string{"c", "a"})

		_, err = ParseAnswer(p, "1 1")
		utils.AssertErrorIs(t, err, ErrInvalidAnswer)
		_, err = ParseAnswer(p, "")
		utils.AssertErrorIs(t, err, ErrInvalidAnswer)
	})

	t.Run("picks grapes and wines", func(t *testing.T) {
		grapes := []tokens.Grape{{Color: tokens.Red, Value: 2}, {Color: tokens.White, Value: 5}}
		a, err := ParseAnswer(protocol.Prompt{Type: protocol.ChooseGrapePrompt, Grapes: grapes}, "2")
		require.NoError(t, err)
		utils.AssertDeepEqual(t, a.Grapes, []tokens.Grape{{Color: tokens.White, Value: 5}})

		wines := []tokens.Wine{{Color: tokens.Blush, Value: 6}}
		a, err = ParseAnswer(protocol.Prompt{Type: protocol.ChooseWinePrompt, Wines: wines}, "1")
		require.NoError(t, err)
		utils.AssertDeepEqual(t, a.Wines, wines)
	})

	t.Run("groups grapes into wines", func(t *testing.T) {
		red1, red2 := tokens.Grape{Color: tokens.Red, Value: 1}, tokens.Grape{Color: tokens.Red, Value: 4}
		white := tokens.Grape{Color: tokens.White, Value: 3}
		p := protocol.Prompt{Type: protocol.MakeWinePrompt, Grapes: []tokens.Grape{red1, red2, white}}

		a, err := ParseAnswer(p, "2; 1 3")
		require.NoError(t, err)
		utils.AssertEqual(t, a.Type, protocol.MakeWine)
		assert.Equal(t, []tokens.WineSpec{
			{Color: tokens.Red, Grapes: []tokens.Grape{red2}},
			{Color: tokens.Blush, Grapes: []tokens.Grape{red1, white}},
		}, a.Recipes)

		a, err = ParseAnswer(p, "1 2 3")
		require.NoError(t, err)
		utils.AssertEqual(t, a.Recipes[0].Color, tokens.Sparkling)
	})
}

func TestCLIPlayer(t *testing.T) {
	t.Run("players at one terminal answer their own prompts", func(t *testing.T) {
		t.Log("Given two players sharing a terminal")
		ge, err := NewGameEngine(GameEngineOpts{GameID: "hot-seat", CreatorID: "p1", Seed: 3})
		require.NoError(t, err)
		defer ge.Stop()

		out := NewTestBuffer()
		term := NewTerminal(strings.NewReader("coins\n2\n"), out)
		ada := NewCLIPlayer("p1", "Ada", term, ge)
		bo := NewCLIPlayer("p2", "Bo", term, ge)
		require.NoError(t, ge.AddPlayer(ada))
		require.NoError(t, ge.AddPlayer(bo))

		t.Log("When the game starts")
		ge.Receive(protocol.InboundMessage{PlayerID: "p1", Command: protocol.Start})

		t.Log("Then each typed line answers the prompt in turn")
		utils.Within(t, gameEngineTestTimeout, func() {
			for {
				if _, seq, err := ge.View(""); err == nil && seq == 2 {
					return
				}
				time.Sleep(5 * time.Millisecond)
			}
		})
		state, _, err := ge.View("")
		require.NoError(t, err)
		utils.AssertEqual(t, state.Players["p1"].Coins, 7)
		vines := 0
		for _, c := range state.Players["p2"].CardsInHand {
			if c.Type == deck.Vine {
				vines++
			}
		}
		utils.AssertEqual(t, vines, 2)

		t.Log("And the terminal runs dry at the next prompt")
		utils.Within(t, gameEngineTestTimeout, func() {
			<-ada.Done()
		})
		utils.AssertTrue(t, strings.Contains(out.String(), "Ada, choose your inheritance"))
		utils.AssertTrue(t, strings.Contains(out.String(), "Bo, choose your inheritance"))
	})
}
