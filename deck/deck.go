package deck

import (
	"math/rand"
)

// Deck represents a pile of cards. The top of the pile is the end of the slice.
type Deck []Card

// New creates the full pile for a card type, in reference table order
func New(t CardType) Deck {
	cards := Deck{}
	switch t {
	case Vine:
		for _, v := range vineTable {
			for i := 1; i <= v.Copies; i++ {
				cards = append(cards, Card{Type: Vine, ID: vineCardID(v.ID, i)})
			}
		}
	case SummerVisitor, WinterVisitor:
		for _, v := range visitorTable {
			if v.Season.VisitorType() == t {
				cards = append(cards, Card{Type: t, ID: v.ID})
			}
		}
	case Order:
		for _, o := range orderTable {
			cards = append(cards, Card{Type: Order, ID: o.ID})
		}
	}
	return cards
}

// NewPiles builds every draw pile, shuffled with rng. A nil rng leaves the
// piles in table order.
func NewPiles(rng *rand.Rand) map[CardType]Deck {
	piles := make(map[CardType]Deck, len(CardTypes))
	for _, t := range CardTypes {
		d := New(t)
		if rng != nil {
			d.Shuffle(rng)
		}
		piles[t] = d
	}
	return piles
}

// Shuffle shuffles the deck with the supplied source of randomness
func (d *Deck) Shuffle(rng *rand.Rand) {
	actualDeck := (*d)
	for i := len(actualDeck) - 1; i > 0; i-- {
		randomNumber := rng.Intn(i + 1)
		actualDeck[i], actualDeck[randomNumber] = actualDeck[randomNumber], actualDeck[i]
	}
}

// Deal deals n number of cards from the top of the deck, until it is empty
func (d *Deck) Deal(n int) []Card {
	numCardsInDeck := len(*d)
	if n < 0 || n > numCardsInDeck {
		return []Card{}
	}
	startingIndex := numCardsInDeck - n
	subSlice := append([]Card{}, (*d)[startingIndex:numCardsInDeck]...)
	*d = (*d)[:startingIndex]
	return subSlice
}

// SeededPiles builds every draw pile shuffled from seed. The same seed always
// gives the same piles.
func SeededPiles(seed int64) map[CardType]Deck {
	return NewPiles(rand.New(rand.NewSource(seed)))
}
