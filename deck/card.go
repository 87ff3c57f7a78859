package deck

import (
	"fmt"
)

// CardType identifies one of the four draw piles
type CardType int

const (
	Vine CardType = iota
	SummerVisitor
	WinterVisitor
	Order
)

var cardTypeNames = []string{"vine", "summerVisitor", "winterVisitor", "order"}

// CardTypes lists every card type in draw pile order
var CardTypes = []CardType{Vine, SummerVisitor, WinterVisitor, Order}

func (t CardType) String() string {
	if t < 0 || int(t) >= len(cardTypeNames) {
		return ""
	}
	return cardTypeNames[t]
}

// MarshalText lets a CardType key a JSON object
func (t CardType) MarshalText() ([]byte, error) {
	if t.String() == "" {
		return nil, fmt.Errorf("invalid card type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *CardType) UnmarshalText(text []byte) error {
	for i, name := range cardTypeNames {
		if name == string(text) {
			*t = CardType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid card type %q", string(text))
}

// Season is the half of the year a visitor may be played in
type Season int

const (
	Summer Season = iota
	Winter
)

var seasonNames = []string{"summer", "winter"}

func (s Season) String() string {
	if s < 0 || int(s) >= len(seasonNames) {
		return ""
	}
	return seasonNames[s]
}

func (s Season) MarshalText() ([]byte, error) {
	if s.String() == "" {
		return nil, fmt.Errorf("invalid season %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Season) UnmarshalText(text []byte) error {
	for i, name := range seasonNames {
		if name == string(text) {
			*s = Season(i)
			return nil
		}
	}
	return fmt.Errorf("invalid season %q", string(text))
}

// VisitorType returns the visitor card type played in the season
func (s Season) VisitorType() CardType {
	if s == Winter {
		return WinterVisitor
	}
	return SummerVisitor
}

// Card is a single card. IDs are unique across every copy in the game.
type Card struct {
	Type CardType `json:"type"`
	ID   string   `json:"id"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s:%s", c.Type, c.ID)
}
