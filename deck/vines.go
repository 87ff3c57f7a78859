package deck

import (
	"fmt"
	"strings"
)

// VineCard describes a vine variety
type VineCard struct {
	ID                 string
	Red                int
	White              int
	RequiredStructures []string
	Copies             int
}

// Value is the total field value the vine occupies
func (v VineCard) Value() int {
	return v.Red + v.White
}

var vineTable = []VineCard{
	{ID: "sangiovese", Red: 1, Copies: 4},
	{ID: "malvasia", White: 1, Copies: 4},
	{ID: "pinot", Red: 1, White: 1, RequiredStructures: []string{Trellis}, Copies: 4},
	{ID: "syrah", Red: 2, RequiredStructures: []string{Trellis}, Copies: 4},
	{ID: "trebbiano", White: 2, RequiredStructures: []string{Trellis}, Copies: 4},
	{ID: "merlot", Red: 3, RequiredStructures: []string{Irrigation}, Copies: 4},
	{ID: "sauvignonBlanc", White: 3, RequiredStructures: []string{Irrigation}, Copies: 4},
	{ID: "cabernetSauvignon", Red: 4, RequiredStructures: []string{Trellis, Irrigation}, Copies: 3},
	{ID: "chardonnay", White: 4, RequiredStructures: []string{Trellis, Irrigation}, Copies: 3},
}

var vinesByID = func() map[string]VineCard {
	m := make(map[string]VineCard, len(vineTable))
	for _, v := range vineTable {
		m[v.ID] = v
	}
	return m
}()

func vineCardID(variety string, copy int) string {
	return fmt.Sprintf("%s-%d", variety, copy)
}

// LookupVine returns the variety of a vine card, accepting either a card id
// ("syrah-2") or a bare variety id ("syrah")
func LookupVine(id string) (VineCard, error) {
	if v, ok := vinesByID[id]; ok {
		return v, nil
	}
	if i := strings.LastIndex(id, "-"); i > 0 {
		if v, ok := vinesByID[id[:i]]; ok {
			return v, nil
		}
	}
	return VineCard{}, unknownCard("vine", id, vineIDs())
}

func vineIDs() []string {
	ids := make([]string, 0, len(vineTable))
	for _, v := range vineTable {
		ids = append(ids, v.ID)
	}
	return ids
}
