package board

import (
	"fmt"

	"github.com/vsiao/oenology-sub000/deck"
)

const (
	HandLimit       = 7
	MaxWorkers      = 6
	TrainWorkerCost = 4
	NumFields       = 3
)

// Variant is the board a game is played on
type Variant int

const (
	Base Variant = iota
	Extended
)

var variantNames = []string{"base", "extended"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return ""
	}
	return variantNames[v]
}

func (v Variant) MarshalText() ([]byte, error) {
	if v.String() == "" {
		return nil, fmt.Errorf("invalid board variant %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

// Set parses a variant name, so a Variant can be used as a flag value
func (v *Variant) Set(name string) error {
	for i, n := range variantNames {
		if n == name {
			*v = Variant(i)
			return nil
		}
	}
	return fmt.Errorf("invalid board variant %q", name)
}

// GameOverThreshold is the victory point total that ends the game
func (v Variant) GameOverThreshold() int {
	if v == Extended {
		return 25
	}
	return 20
}

// SpotID identifies a worker placement spot
type SpotID string

const (
	DrawVine          SpotID = "drawVine"
	GiveTour          SpotID = "giveTour"
	BuildStructure    SpotID = "buildStructure"
	PlaySummerVisitor SpotID = "playSummerVisitor"
	SellGrapes        SpotID = "sellGrapes"
	PlantVine         SpotID = "plantVine"
	Trade             SpotID = "trade"
	SummerCoin        SpotID = "summerCoin"

	DrawOrder         SpotID = "drawOrder"
	HarvestField      SpotID = "harvestField"
	TrainWorker       SpotID = "trainWorker"
	PlayWinterVisitor SpotID = "playWinterVisitor"
	MakeWine          SpotID = "makeWine"
	FillOrder         SpotID = "fillOrder"
	Influence         SpotID = "influence"
	WinterCoin        SpotID = "winterCoin"

	Yoke SpotID = "yoke"
)

// Spot describes a placement spot
type Spot struct {
	ID        SpotID
	Season    deck.Season
	Unbounded bool
	Personal  bool
	Extended  bool
	Bonus     string
}

var spotTable = []Spot{
	{ID: DrawVine, Season: deck.Summer, Bonus: "draw 2 vines"},
	{ID: GiveTour, Season: deck.Summer, Bonus: "+1 coin"},
	{ID: BuildStructure, Season: deck.Summer, Bonus: "1 coin discount"},
	{ID: PlaySummerVisitor, Season: deck.Summer, Bonus: "play up to 2 visitors"},
	{ID: SellGrapes, Season: deck.Summer, Bonus: "+1 VP"},
	{ID: PlantVine, Season: deck.Summer, Bonus: "plant up to 2 vines"},
	{ID: Trade, Season: deck.Summer, Extended: true, Bonus: "+1 coin"},
	{ID: SummerCoin, Season: deck.Summer, Unbounded: true},

	{ID: DrawOrder, Season: deck.Winter, Bonus: "draw 2 orders"},
	{ID: HarvestField, Season: deck.Winter, Bonus: "harvest up to 2 fields"},
	{ID: TrainWorker, Season: deck.Winter, Bonus: "costs 3"},
	{ID: PlayWinterVisitor, Season: deck.Winter, Bonus: "play up to 2 visitors"},
	{ID: MakeWine, Season: deck.Winter, Bonus: "make up to 3 wines"},
	{ID: FillOrder, Season: deck.Winter, Bonus: "+1 VP"},
	{ID: Influence, Season: deck.Winter, Extended: true, Bonus: "+1 coin"},
	{ID: WinterCoin, Season: deck.Winter, Unbounded: true},

	{ID: Yoke, Personal: true},
}

// Spots returns the shared spots of a season on the given board
func Spots(v Variant, season deck.Season) []Spot {
	spots := []Spot{}
	for _, s := range spotTable {
		if s.Personal || s.Season != season {
			continue
		}
		if s.Extended && v != Extended {
			continue
		}
		spots = append(spots, s)
	}
	return spots
}

// LookupSpot returns a spot by id
func LookupSpot(id SpotID) (Spot, bool) {
	for _, s := range spotTable {
		if s.ID == id {
			return s, true
		}
	}
	return Spot{}, false
}

// Capacity is the number of workers a spot holds, -1 when unbounded
func (s Spot) Capacity(numPlayers int) int {
	if s.Unbounded {
		return -1
	}
	if s.Personal {
		return 1
	}
	return (numPlayers + 1) / 2
}

// BonusActive reports whether slot index grants the first-in-line bonus
func BonusActive(slot, numPlayers int) bool {
	return slot == 0 && numPlayers >= 3
}
