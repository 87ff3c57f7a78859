package tokens

// NumValues is the number of slots on a grape or wine ladder.
const NumValues = 9

// Ladder represents value-1..9 tokens of a single colour.
// Index 0 holds the value-1 token.
type Ladder [NumValues]bool

func validValue(value int) bool {
	return value >= 1 && value <= NumValues
}

// Has reports whether a token sits at value.
func (l Ladder) Has(value int) bool {
	if !validValue(value) {
		return false
	}
	return l[value-1]
}

// Place puts a token at value. If the slot is taken the token devalues to the
// highest empty slot below it; with no empty slot below, the token is lost.
func (l Ladder) Place(value int) Ladder {
	if value > NumValues {
		value = NumValues
	}
	for v := value; v >= 1; v-- {
		if !l[v-1] {
			l[v-1] = true
			return l
		}
	}
	return l
}

// Remove takes the token at value off the ladder.
func (l Ladder) Remove(value int) (Ladder, bool) {
	if !l.Has(value) {
		return l, false
	}
	l[value-1] = false
	return l, true
}

// Age moves every token up one slot, highest first. A token stays put when the
// next slot is occupied or lies above limit.
func (l Ladder) Age(limit int) Ladder {
	if limit > NumValues {
		limit = NumValues
	}
	for v := NumValues - 1; v >= 1; v-- {
		if !l[v-1] {
			continue
		}
		next := v + 1
		if next > limit || l[next-1] {
			continue
		}
		l[v-1] = false
		l[next-1] = true
	}
	return l
}

// AgeTimes ages the ladder n times.
func (l Ladder) AgeTimes(limit, n int) Ladder {
	for i := 0; i < n; i++ {
		l = l.Age(limit)
	}
	return l
}

// Count returns the number of tokens on the ladder.
func (l Ladder) Count() int {
	n := 0
	for _, occupied := range l {
		if occupied {
			n++
		}
	}
	return n
}

// Values returns the occupied values in ascending order.
func (l Ladder) Values() []int {
	values := []int{}
	for i, occupied := range l {
		if occupied {
			values = append(values, i+1)
		}
	}
	return values
}

// Sum returns the total value of every token on the ladder.
func (l Ladder) Sum() int {
	sum := 0
	for i, occupied := range l {
		if occupied {
			sum += i + 1
		}
	}
	return sum
}

// Max returns the highest occupied value, or 0 for an empty ladder.
func (l Ladder) Max() int {
	for v := NumValues; v >= 1; v-- {
		if l[v-1] {
			return v
		}
	}
	return 0
}
