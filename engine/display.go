package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/vsiao/oenology-sub000/game"
	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

const (
	passText         = "p - pass\n"
	answerText       = "> "
	retryText        = "%s. Try again.\n"
	makeWineText     = "Choose grapes for each wine, one wine per group (e.g. 1 3; 2)\n"
	gameOverText     = "\nThe game is over!\n"
	tooManyTriesText = "Too many tries, passing.\n"
)

func SendText(w io.Writer, text string, a ...interface{}) {
	fmt.Fprintf(w, text, a...)
}

func buildPromptText(name string, p protocol.Prompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s, %s\n", name, strings.ToLower(p.Title))
	if p.Max > 1 {
		fmt.Fprintf(&b, "(choose %d to %d)\n", p.Min, p.Max)
	}

	for i, c := range p.Choices {
		label := c.Label
		if label == "" {
			label = c.Key
		}
		if c.Enabled() {
			fmt.Fprintf(&b, "%d - %s\n", i+1, label)
		} else {
			fmt.Fprintf(&b, "%d - %s (%s)\n", i+1, label, c.DisabledReason)
		}
	}
	if p.Type == protocol.MakeWinePrompt {
		b.WriteString(makeWineText)
	}
	for i, g := range p.Grapes {
		fmt.Fprintf(&b, "%d - %s grape %d\n", i+1, g.Color, g.Value)
	}
	for i, w := range p.Wines {
		fmt.Fprintf(&b, "%d - %s wine %d\n", i+1, w.Color, w.Value)
	}
	if p.Optional {
		b.WriteString(passText)
	}
	return b.String()
}

func buildPlayerText(p *game.PlayerState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d VP, %d coins, %d residual\n", p.Name, p.VictoryPoints, p.Coins, p.Residuals)

	cards := []string{}
	for _, c := range p.CardsInHand {
		cards = append(cards, c.String())
	}
	fmt.Fprintf(&b, "  hand: %s\n", orNone(cards))

	fields := []string{}
	for _, f := range p.Fields {
		if f.Sold {
			continue
		}
		fields = append(fields, fmt.Sprintf("%s [%s]", f.ID, strings.Join(f.Vines, " ")))
	}
	fmt.Fprintf(&b, "  fields: %s\n", orNone(fields))

	grapes := []string{}
	for _, g := range p.CrushPad.Grapes() {
		grapes = append(grapes, tokenText(g.Color, g.Value))
	}
	fmt.Fprintf(&b, "  crush pad: %s\n", orNone(grapes))

	wines := []string{}
	for _, w := range p.Cellar.Wines() {
		wines = append(wines, tokenText(w.Color, w.Value))
	}
	fmt.Fprintf(&b, "  cellar: %s\n", orNone(wines))
	return b.String()
}

func buildStandingsText(s *game.GameState) string {
	var b strings.Builder
	for _, st := range game.Standings(s) {
		fmt.Fprintf(&b, "%d. %s - %d VP, %d coins", st.Rank, s.Players[st.PlayerID].Name, st.VictoryPoints, st.Coins)
		fmt.Fprintf(&b, " (%d workers placed, %d visitors, %d orders)\n", st.WorkersPlaced, st.VisitorsPlayed, st.OrdersFilled)
	}
	return b.String()
}

func buildLogText(s *game.GameState, events []game.LogEvent) string {
	var b strings.Builder
	for _, e := range events {
		who := ""
		if p, ok := s.Players[e.PlayerID]; ok {
			who = p.Name + ": "
		}
		fmt.Fprintf(&b, "[year %d] %s%s\n", e.Year, who, e.Text)
	}
	return b.String()
}

// StandingsText renders the current ranking of a game
func StandingsText(s *game.GameState) string {
	return buildStandingsText(s)
}

// LogText renders a game's whole activity log
func LogText(s *game.GameState) string {
	return buildLogText(s, s.ActivityLog)
}

func tokenText(c tokens.Color, value int) string {
	return fmt.Sprintf("%s %d", c, value)
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
