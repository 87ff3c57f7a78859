package tokens

import (
	"fmt"
	"sort"
)

// PremiumDiscount is how far below an order's required value a wine may be
// when the order is filled with a premium bonus.
const PremiumDiscount = 2

// WineSpec names the grapes consumed to make a single wine.
type WineSpec struct {
	Color  Color   `json:"color"`
	Grapes []Grape `json:"grapes"`
}

// Wine returns the wine the recipe produces, or ErrInvalidRecipe if the grapes
// do not match the colour's recipe.
func (s WineSpec) Wine() (Wine, error) {
	reds, whites, value := 0, 0, 0
	for _, g := range s.Grapes {
		switch g.Color {
		case Red:
			reds++
		case White:
			whites++
		default:
			return Wine{}, fmt.Errorf("%w: %s grape", ErrInvalidRecipe, g.Color)
		}
		value += g.Value
	}

	var want [2]int
	switch s.Color {
	case Red:
		want = [2]int{1, 0}
	case White:
		want = [2]int{0, 1}
	case Blush:
		want = [2]int{1, 1}
	case Sparkling:
		want = [2]int{2, 1}
	default:
		return Wine{}, fmt.Errorf("%w: colour %d", ErrUnknownColor, int(s.Color))
	}
	if reds != want[0] || whites != want[1] {
		return Wine{}, fmt.Errorf("%w: %s needs %d red and %d white", ErrInvalidRecipe, s.Color, want[0], want[1])
	}
	return Wine{Color: s.Color, Value: value}, nil
}

// Requirement is a single wine an order asks for.
type Requirement struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// MatchOrder picks the wines used to fill reqs. Requirements are taken in
// ascending order of value, each consuming the lowest remaining wine of its
// colour worth at least the requirement minus discount. ok is false when any
// requirement cannot be met.
func MatchOrder(wines []Wine, reqs []Requirement, discount int) ([]Wine, bool) {
	remaining := append([]Wine{}, wines...)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Value < remaining[j].Value
	})
	sorted := append([]Requirement{}, reqs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})

	used := []Wine{}
	for _, r := range sorted {
		found := -1
		for i, w := range remaining {
			if w.Color == r.Color && w.Value >= r.Value-discount {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		used = append(used, remaining[found])
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return used, true
}
