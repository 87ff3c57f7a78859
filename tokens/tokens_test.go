package tokens

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ladderOf(values ...int) Ladder {
	var l Ladder
	for _, v := range values {
		l[v-1] = true
	}
	return l
}

func TestLadderPlace(t *testing.T) {
	t.Run("places a token in an empty slot", func(t *testing.T) {
		l := Ladder{}.Place(4)
		assert.Equal(t, []int{4}, l.Values())
	})

	t.Run("devalues to the highest empty slot below", func(t *testing.T) {
		t.Log("Given a ladder with 5, 4 and 3 occupied")
		l := ladderOf(3, 4, 5)

		t.Log("When a 5 is placed")
		l = l.Place(5)

		t.Log("Then it lands on 2")
		assert.Equal(t, []int{2, 3, 4, 5}, l.Values())
	})

	t.Run("drops the token when nothing below is free", func(t *testing.T) {
		l := ladderOf(1, 2, 3, 4, 5)
		assert.Equal(t, l, l.Place(5))
	})

	t.Run("never removes tokens", func(t *testing.T) {
		l := Ladder{}
		for _, v := range []int{9, 9, 3, 1, 1, 5, 7, 2, 9, 4} {
			before := l.Count()
			l = l.Place(v)
			assert.GreaterOrEqual(t, l.Count(), before)
			assert.LessOrEqual(t, l.Count(), before+1)
		}
	})
}

func TestLadderAge(t *testing.T) {
	t.Run("moves every token up one slot", func(t *testing.T) {
		l := ladderOf(1, 4).Age(NumValues)
		assert.Equal(t, []int{2, 5}, l.Values())
	})

	t.Run("blocks on an occupied slot", func(t *testing.T) {
		l := ladderOf(4, 5, 9).Age(NumValues)
		assert.Equal(t, []int{5, 6, 9}, l.Values())
	})

	t.Run("conserves token count", func(t *testing.T) {
		l := ladderOf(1, 2, 3, 6, 8, 9)
		for _, limit := range []int{3, 6, 9} {
			assert.Equal(t, 6, l.AgeTimes(limit, 4).Count())
		}
	})

	t.Run("a basic cellar caps at 3 and a medium cellar at 6", func(t *testing.T) {
		t.Log("Given a wine at 2 in a cellar without structures")
		l := ladderOf(2)

		t.Log("When it ages repeatedly")
		l = l.AgeTimes(CellarLimit(false, false), 5)

		t.Log("Then it stops at 3")
		assert.Equal(t, []int{3}, l.Values())

		t.Log("When the medium cellar is built and it ages again")
		l = l.AgeTimes(CellarLimit(true, false), 5)

		t.Log("Then it stops at 6")
		assert.Equal(t, []int{6}, l.Values())
	})
}

func TestWineSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    WineSpec
		want    Wine
		wantErr error
	}{
		{"red", WineSpec{Red, []Grape{{Red, 4}}}, Wine{Red, 4}, nil},
		{"white", WineSpec{White, []Grape{{White, 2}}}, Wine{White, 2}, nil},
		{"blush", WineSpec{Blush, []Grape{{Red, 2}, {White, 3}}}, Wine{Blush, 5}, nil},
		{"sparkling", WineSpec{Sparkling, []Grape{{Red, 2}, {Red, 1}, {White, 4}}}, Wine{Sparkling, 7}, nil},
		{"red from white", WineSpec{Red, []Grape{{White, 4}}}, Wine{}, ErrInvalidRecipe},
		{"blush from one grape", WineSpec{Blush, []Grape{{Red, 4}}}, Wine{}, ErrInvalidRecipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Wine()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchOrder(t *testing.T) {
	t.Run("takes the lowest sufficient wine", func(t *testing.T) {
		wines := []Wine{{Red, 3}, {Red, 5}}
		used, ok := MatchOrder(wines, []Requirement{{Red, 4}}, 0)
		require.True(t, ok)
		assert.Equal(t, []Wine{{Red, 5}}, used)
	})

	t.Run("keeps higher wines for later requirements", func(t *testing.T) {
		wines := []Wine{{Red, 7}, {Red, 4}, {White, 2}}
		used, ok := MatchOrder(wines, []Requirement{{Red, 6}, {Red, 3}, {White, 1}}, 0)
		require.True(t, ok)
		assert.ElementsMatch(t, []Wine{{Red, 4}, {Red, 7}, {White, 2}}, used)
	})

	t.Run("fails when a requirement is unmet", func(t *testing.T) {
		_, ok := MatchOrder([]Wine{{Red, 3}}, []Requirement{{Red, 4}}, 0)
		assert.False(t, ok)
	})

	t.Run("applies the premium discount", func(t *testing.T) {
		used, ok := MatchOrder([]Wine{{Blush, 4}}, []Requirement{{Blush, 6}}, PremiumDiscount)
		require.True(t, ok)
		assert.Equal(t, []Wine{{Blush, 4}}, used)
	})
}

func TestCellar(t *testing.T) {
	t.Run("ages each colour within the limit", func(t *testing.T) {
		var c Cellar
		c = c.Place(Wine{Red, 3}).Place(Wine{Blush, 5})
		c = c.Age(CellarLimit(true, false), 2)
		assert.Equal(t, []Wine{{Red, 5}, {Blush, 6}}, c.Wines())
		assert.Equal(t, 11, c.Sum())
	})

	t.Run("removes a wine", func(t *testing.T) {
		c := Cellar{}.Place(Wine{White, 2})
		c, ok := c.Remove(Wine{White, 2})
		assert.True(t, ok)
		assert.Equal(t, 0, c.Count())

		_, ok = c.Remove(Wine{White, 2})
		assert.False(t, ok)
	})
}

func TestCrushPad(t *testing.T) {
	c := CrushPad{}.Place(Grape{Red, 4}).Place(Grape{Red, 4}).Place(Grape{White, 9})
	assert.Equal(t, []Grape{{Red, 3}, {Red, 4}, {White, 9}}, c.Grapes())

	c = c.Age(1)
	assert.Equal(t, []Grape{{Red, 4}, {Red, 5}, {White, 9}}, c.Grapes())
	assert.True(t, c.Has(Grape{Red, 5}))
}
