package tokens

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRecipe = errors.New("invalid wine recipe")
	ErrUnknownColor  = errors.New("unknown colour")
)

// Color is the colour of a grape or wine token.
type Color int

const (
	Red Color = iota
	White
	Blush
	Sparkling
)

var colorNames = []string{"red", "white", "blush", "sparkling"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return ""
	}
	return colorNames[c]
}

func (c Color) MarshalText() ([]byte, error) {
	if c.String() == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	for i, name := range colorNames {
		if name == string(text) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownColor, string(text))
}

// Grape is a grape token on a crush pad.
type Grape struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// Wine is a wine token in a cellar.
type Wine struct {
	Color Color `json:"color"`
	Value int   `json:"value"`
}

// GrapePrice is the coin price of selling a single grape.
func GrapePrice(value int) int {
	switch {
	case value >= 7:
		return 3
	case value >= 4:
		return 2
	default:
		return 1
	}
}

// CrushPad holds harvested grapes. Crush pads are never capacity gated.
type CrushPad struct {
	Red   Ladder `json:"red"`
	White Ladder `json:"white"`
}

func (c CrushPad) ladder(color Color) (*Ladder, bool) {
	switch color {
	case Red:
		return &c.Red, true
	case White:
		return &c.White, true
	}
	return nil, false
}

// Place puts a grape on the crush pad, devaluing it if its slot is taken.
func (c CrushPad) Place(g Grape) CrushPad {
	switch g.Color {
	case Red:
		c.Red = c.Red.Place(g.Value)
	case White:
		c.White = c.White.Place(g.Value)
	}
	return c
}

// Has reports whether the given grape is on the crush pad.
func (c CrushPad) Has(g Grape) bool {
	l, ok := c.ladder(g.Color)
	return ok && l.Has(g.Value)
}

// Remove takes a grape off the crush pad.
func (c CrushPad) Remove(g Grape) (CrushPad, bool) {
	var ok bool
	switch g.Color {
	case Red:
		c.Red, ok = c.Red.Remove(g.Value)
	case White:
		c.White, ok = c.White.Remove(g.Value)
	}
	return c, ok
}

// Age ages every grape n times.
func (c CrushPad) Age(n int) CrushPad {
	c.Red = c.Red.AgeTimes(NumValues, n)
	c.White = c.White.AgeTimes(NumValues, n)
	return c
}

// Grapes lists every grape, red first, each colour ascending.
func (c CrushPad) Grapes() []Grape {
	grapes := []Grape{}
	for _, v := range c.Red.Values() {
		grapes = append(grapes, Grape{Color: Red, Value: v})
	}
	for _, v := range c.White.Values() {
		grapes = append(grapes, Grape{Color: White, Value: v})
	}
	return grapes
}

// Count returns the number of grapes on the crush pad.
func (c CrushPad) Count() int {
	return c.Red.Count() + c.White.Count()
}

// Sum returns the total value of the crush pad.
func (c CrushPad) Sum() int {
	return c.Red.Sum() + c.White.Sum()
}

// Cellar holds wine tokens.
type Cellar struct {
	Red       Ladder `json:"red"`
	White     Ladder `json:"white"`
	Blush     Ladder `json:"blush"`
	Sparkling Ladder `json:"sparkling"`
}

// CellarLimit returns the highest wine value a cellar can hold.
func CellarLimit(medium, large bool) int {
	switch {
	case large:
		return 9
	case medium:
		return 6
	default:
		return 3
	}
}

func (c *Cellar) ladder(color Color) *Ladder {
	switch color {
	case Red:
		return &c.Red
	case White:
		return &c.White
	case Blush:
		return &c.Blush
	case Sparkling:
		return &c.Sparkling
	}
	return nil
}

// Place puts a wine into the cellar, devaluing it if its slot is taken.
func (c Cellar) Place(w Wine) Cellar {
	if l := c.ladder(w.Color); l != nil {
		*l = l.Place(w.Value)
	}
	return c
}

// Has reports whether the given wine is in the cellar.
func (c Cellar) Has(w Wine) bool {
	l := c.ladder(w.Color)
	return l != nil && l.Has(w.Value)
}

// Remove takes a wine out of the cellar.
func (c Cellar) Remove(w Wine) (Cellar, bool) {
	l := c.ladder(w.Color)
	if l == nil {
		return c, false
	}
	var ok bool
	*l, ok = l.Remove(w.Value)
	return c, ok
}

// Age ages every wine n times without crossing limit.
func (c Cellar) Age(limit, n int) Cellar {
	c.Red = c.Red.AgeTimes(limit, n)
	c.White = c.White.AgeTimes(limit, n)
	c.Blush = c.Blush.AgeTimes(limit, n)
	c.Sparkling = c.Sparkling.AgeTimes(limit, n)
	return c
}

// Wines lists every wine grouped by colour, each colour ascending.
func (c Cellar) Wines() []Wine {
	wines := []Wine{}
	for _, color := range []Color{Red, White, Blush, Sparkling} {
		for _, v := range c.ladder(color).Values() {
			wines = append(wines, Wine{Color: color, Value: v})
		}
	}
	return wines
}

// Count returns the number of wines in the cellar.
func (c Cellar) Count() int {
	return c.Red.Count() + c.White.Count() + c.Blush.Count() + c.Sparkling.Count()
}

// Sum returns the total value of the cellar.
func (c Cellar) Sum() int {
	return c.Red.Sum() + c.White.Sum() + c.Blush.Sum() + c.Sparkling.Sum()
}

// Max returns the most valuable wine value in the cellar.
func (c Cellar) Max() int {
	max := 0
	for _, color := range []Color{Red, White, Blush, Sparkling} {
		if v := c.ladder(color).Max(); v > max {
			max = v
		}
	}
	return max
}
