package board

import (
	"github.com/vsiao/oenology-sub000/deck"
)

// NumInfluenceTokens is the number of stars each player starts with
const NumInfluenceTokens = 6

// Region is an influence map region and the bonus for placing a star there
type Region struct {
	ID            string
	Coins         int
	VictoryPoints int
	Draw          []deck.CardType
}

var regionTable = []Region{
	{ID: "lucca", Draw: []deck.CardType{deck.Vine}},
	{ID: "pistoia", Coins: 2},
	{ID: "firenze", Draw: []deck.CardType{deck.SummerVisitor}},
	{ID: "pisa", VictoryPoints: 1},
	{ID: "livorno", Draw: []deck.CardType{deck.Order}},
	{ID: "siena", Coins: 3},
	{ID: "grosseto", Draw: []deck.CardType{deck.WinterVisitor}},
}

// Regions lists every influence region
func Regions() []Region {
	return append([]Region{}, regionTable...)
}

// LookupRegion returns a region by id
func LookupRegion(id string) (Region, bool) {
	for _, r := range regionTable {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}
