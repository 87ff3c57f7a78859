package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/vsiao/oenology-sub000/protocol"
	"github.com/vsiao/oenology-sub000/tokens"
)

var ErrInvalidAnswer = errors.New("invalid answer")

// ParseAnswer turns a line typed at a terminal into the action answering p.
// Options are picked by their number, or by key for prompts with choices;
// "p" passes an optional prompt. Wines are made from groups of grape
// numbers separated by ";".
func ParseAnswer(p protocol.Prompt, line string) (protocol.Action, error) {
	line = strings.TrimSpace(line)
	a := protocol.Action{PlayerID: p.PlayerID}

	if line == "p" || line == "pass" {
		if !p.Optional {
			return a, fmt.Errorf("%w: this cannot be skipped", ErrInvalidAnswer)
		}
		a.Type = protocol.Pass
		return a, nil
	}

	switch p.Type {
	case protocol.ChooseActionPrompt, protocol.PlaceWorkerPrompt, protocol.BuildStructurePrompt, protocol.ChooseFieldPrompt:
		key, err := pickChoice(p, line)
		if err != nil {
			return a, err
		}
		switch p.Type {
		case protocol.ChooseActionPrompt:
			a.Type, a.Choice = protocol.ChooseAction, key
		case protocol.PlaceWorkerPrompt:
			a.Type, a.SpotID = protocol.PlaceWorker, key
		case protocol.BuildStructurePrompt:
			a.Type, a.StructureID = protocol.BuildStructure, key
		case protocol.ChooseFieldPrompt:
			a.Type, a.FieldID = protocol.ChooseField, key
		}

	case protocol.ChooseCardPrompt:
		picked, err := pickNumbers(line, len(p.Choices))
		if err != nil {
			return a, err
		}
		a.Type = protocol.ChooseCard
		for _, i := range picked {
			a.Cards = append(a.Cards, p.Choices[i].Key)
		}

	case protocol.ChooseGrapePrompt:
		picked, err := pickNumbers(line, len(p.Grapes))
		if err != nil {
			return a, err
		}
		a.Type = protocol.ChooseGrape
		for _, i := range picked {
			a.Grapes = append(a.Grapes, p.Grapes[i])
		}

	case protocol.ChooseWinePrompt:
		picked, err := pickNumbers(line, len(p.Wines))
		if err != nil {
			return a, err
		}
		a.Type = protocol.ChooseWine
		for _, i := range picked {
			a.Wines = append(a.Wines, p.Wines[i])
		}

	case protocol.MakeWinePrompt:
		a.Type = protocol.MakeWine
		for _, group := range strings.Split(line, ";") {
			picked, err := pickNumbers(group, len(p.Grapes))
			if err != nil {
				return a, err
			}
			grapes := []tokens.Grape{}
			for _, i := range picked {
				grapes = append(grapes, p.Grapes[i])
			}
			a.Recipes = append(a.Recipes, tokens.WineSpec{Color: recipeColor(grapes), Grapes: grapes})
		}

	default:
		return a, fmt.Errorf("%w: nothing to answer", ErrInvalidAnswer)
	}
	return a, nil
}

// recipeColor is the wine a set of grapes makes
func recipeColor(grapes []tokens.Grape) tokens.Color {
	reds, whites := 0, 0
	for _, g := range grapes {
		if g.Color == tokens.Red {
			reds++
		} else {
			whites++
		}
	}
	switch {
	case reds == 2 && whites == 1:
		return tokens.Sparkling
	case reds == 1 && whites == 1:
		return tokens.Blush
	case whites > 0:
		return tokens.White
	}
	return tokens.Red
}

func pickChoice(p protocol.Prompt, line string) (string, error) {
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(p.Choices) {
			return "", fmt.Errorf("%w: choose between 1 and %d", ErrInvalidAnswer, len(p.Choices))
		}
		return p.Choices[n-1].Key, nil
	}

	best, bestDist := "", -1
	for _, c := range p.Choices {
		if c.Key == line {
			return c.Key, nil
		}
		if dist := levenshtein.ComputeDistance(line, c.Key); bestDist < 0 || dist < bestDist {
			best, bestDist = c.Key, dist
		}
	}
	if best != "" && bestDist <= len(best)/3+1 {
		return "", fmt.Errorf("%w: unknown option %q (did you mean %q?)", ErrInvalidAnswer, line, best)
	}
	return "", fmt.Errorf("%w: unknown option %q", ErrInvalidAnswer, line)
}

// pickNumbers parses 1-based option numbers into indexes
func pickNumbers(line string, count int) ([]int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: choose at least one option", ErrInvalidAnswer)
	}
	picked := []int{}
	seen := map[int]bool{}
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > count {
			return nil, fmt.Errorf("%w: %q is not an option between 1 and %d", ErrInvalidAnswer, f, count)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: %d chosen twice", ErrInvalidAnswer, n)
		}
		seen[n] = true
		picked = append(picked, n-1)
	}
	return picked, nil
}
