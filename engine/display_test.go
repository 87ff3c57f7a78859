package engine

import (
	"strings"
	"testing"

	"github.com/vsiao/oenology-sub000/deck"
	"github.com/vsiao/oenology-sub000/game"
	utils "github.com/vsiao/oenology-sub000/internal"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

func TestSendText(t *testing.T) {
	t.Run("send simple text", func(t *testing.T) {
		buffer := NewTestBuffer()
		want := "Hello"
		SendText(buffer, want)

		got := buffer.String()

		utils.AssertStringEquality(t, got, want)
	})

	t.Run("send formatted text", func(t *testing.T) {
		buffer := NewTestBuffer()
		want := "Hello, human"
		format := "Hello, %s"
		SendText(buffer, format, "human")

		got := buffer.String()

		utils.AssertStringEquality(t, got, want)
	})
}

func TestBuildPromptText(t *testing.T) {
	t.Run("numbers the choices and shows why some are disabled", func(t *testing.T) {
		p := protocol.Prompt{
			Type:  protocol.PlaceWorkerPrompt,
			Title: "Place a worker",
			Choices: []protocol.Choice{
				{Key: "drawVine", Label: "Draw a vine"},
				{Key: "plantVine", Label: "Plant a vine", DisabledReason: "No vines in hand"},
			},
			Optional: true,
		}

		got := buildPromptText("Ada", p)

		want := "\nAda, place a worker\n" +
			"1 - Draw a vine\n" +
			"2 - Plant a vine (No vines in hand)\n" +
			passText
		utils.AssertStringEquality(t, got, want)
	})

	t.Run("lists grapes to make wine from", func(t *testing.T) {
		p := protocol.Prompt{
			Type:   protocol.MakeWinePrompt,
			Title:  "Make up to 2 wines",
			Grapes: []tokens.Grape{{Color: tokens.Red, Value: 3}, {Color: tokens.White, Value: 2}},
			Max:    2,
		}

		got := buildPromptText("Bo", p)

		utils.AssertTrue(t, strings.Contains(got, "(choose 0 to 2)"))
		utils.AssertTrue(t, strings.Contains(got, makeWineText))
		utils.AssertTrue(t, strings.Contains(got, "1 - red grape 3\n2 - white grape 2\n"))
		utils.AssertTrue(t, !strings.Contains(got, passText))
	})
}

func TestBuildPlayerText(t *testing.T) {
	s, err := game.StartGame([]protocol.Player{{PlayerID: "p1", Name: "Ada"}}, game.Options{})
	utils.AssertNoError(t, err)
	p := s.Players["p1"]
	p.Cellar = p.Cellar.Place(tokens.Wine{Color: tokens.Red, Value: 4})
	p.CardsInHand = append(p.CardsInHand, deck.Card{Type: deck.Vine, ID: "sangiovese-1"})

	got := buildPlayerText(p)

	utils.AssertTrue(t, strings.HasPrefix(got, "Ada: 0 VP, 3 coins, 0 residual\n"))
	utils.AssertTrue(t, strings.Contains(got, "cellar: red 4\n"))
	utils.AssertTrue(t, strings.Contains(got, "crush pad: none\n"))
	utils.AssertTrue(t, strings.Contains(got, "sangiovese-1"))
}

func TestStandingsText(t *testing.T) {
	s, err := game.StartGame([]protocol.Player{{PlayerID: "p1", Name: "Ada"}, {PlayerID: "p2", Name: "Bo"}}, game.Options{})
	utils.AssertNoError(t, err)
	s.Players["p2"].VictoryPoints = 4

	got := StandingsText(s)

	lines := strings.Split(strings.TrimSpace(got), "\n")
	utils.AssertEqual(t, len(lines), 2)
	utils.AssertTrue(t, strings.HasPrefix(lines[0], "1. Bo - 4 VP, 3 coins"))
	utils.AssertTrue(t, strings.HasPrefix(lines[1], "2. Ada - 0 VP, 3 coins"))
}
