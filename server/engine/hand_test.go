package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hand(t *testing.T, cards ...string) Hand {
	t.Helper()
	rs, err := ParseRanks(cards)
	require.NoError(t, err)
	return Hand(rs)
}

func TestHandValue(t *testing.T) {
	cases := []struct {
		cards []string
		want  int
	}{
		{nil, 0},
		{[]string{"A", "A"}, 12},
		{[]string{"K", "Q"}, 20},
		{[]string{"A", "9"}, 20},
		{[]string{"A", "A", "9"}, 21},
		{[]string{"A", "A", "A", "A"}, 14},
		{[]string{"9", "9", "5"}, 23},
		{[]string{"A", "K"}, 21},
		{[]string{"A", "6", "K"}, 17},
		{[]string{"j", "q", "k"}, 30},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, hand(t, c.cards...).Value(), "%v", c.cards)
	}
}

func TestHandIsSoft(t *testing.T) {
	assert.True(t, hand(t, "A", "9").IsSoft())
	assert.True(t, hand(t, "A", "A", "9").IsSoft())
	assert.True(t, hand(t, "A", "A").IsSoft())
	assert.False(t, hand(t, "A", "6", "K").IsSoft())
	assert.False(t, hand(t, "10", "6").IsSoft())
	assert.False(t, Hand{}.IsSoft())
}

func TestHandShapePairBeatsSoft(t *testing.T) {
	for _, r := range Ranks {
		h := Hand{r, r}
		assert.Equal(t, Pair, h.Shape(), "pair of %s", r)
	}
	// same value, different rank: not a pair
	assert.Equal(t, Hard, hand(t, "10", "K").Shape())
	assert.Equal(t, Soft, hand(t, "A", "7").Shape())
	assert.Equal(t, Hard, hand(t, "8", "8", "2").Shape())
}

func TestHandAddKeepsOrder(t *testing.T) {
	h := hand(t, "5", "6")
	h.Add(Two)
	assert.Equal(t, "5,6,2", h.String())
	assert.Equal(t, 13, h.Value())
}

func TestParseRank(t *testing.T) {
	r, err := ParseRank(" q ")
	require.NoError(t, err)
	assert.Equal(t, Queen, r)

	_, err = ParseRank("11")
	var ice *InvalidCardError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "11", ice.Token)

	_, err = ParseRank("T")
	assert.Error(t, err)
}

func TestNormalizeCards(t *testing.T) {
	assert.Equal(t, []string{"A", "10", "K"}, NormalizeCards(" a, 10,,k , "))
	assert.Empty(t, NormalizeCards(" , "))

	_, err := ParseCards("A, 2, Z")
	var ice *InvalidCardError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "Z", ice.Token)
}

func TestHiLoWeights(t *testing.T) {
	sum := 0
	for _, r := range Ranks {
		sum += r.HiLo()
	}
	// a full deck is balanced
	assert.Equal(t, 0, sum)
	assert.Equal(t, 0, Eight.HiLo())
	assert.Equal(t, -1, Ace.HiLo())
	assert.Equal(t, 1, Six.HiLo())
}
