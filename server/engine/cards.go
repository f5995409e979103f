package engine

import "strings"

// Rank is a canonical upper-case card rank: A,2..10,J,Q,K. Suits don't matter here.
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Ranks in shoe order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// base value, ace low
var baseValues = map[Rank]int{
	Ace: 1, Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7,
	Eight: 8, Nine: 9, Ten: 10, Jack: 10, Queen: 10, King: 10,
}

func (r Rank) String() string { return string(r) }

// Valid reports whether r is one of the 13 known ranks.
func (r Rank) Valid() bool {
	_, ok := baseValues[r]
	return ok
}

// BaseValue counts an ace as 1 and every face card as 10.
func (r Rank) BaseValue() int { return baseValues[r] }

// HiLo is the High-Low counting weight of the rank.
func (r Rank) HiLo() int {
	switch r {
	case Two, Three, Four, Five, Six:
		return 1
	case Ten, Jack, Queen, King, Ace:
		return -1
	}
	return 0
}

// DealerValue is the strategy lookup value of an upcard: A=1, tens=10.
func (r Rank) DealerValue() int { return baseValues[r] }

// ParseRank trims and upper-cases s and checks it against the known ranks.
func ParseRank(s string) (Rank, error) {
	r := Rank(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", &InvalidCardError{Token: strings.TrimSpace(s)}
	}
	return r, nil
}

// ParseRanks parses every token, failing on the first unknown one.
func ParseRanks(tokens []string) ([]Rank, error) {
	out := make([]Rank, 0, len(tokens))
	for _, t := range tokens {
		r, err := ParseRank(t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// NormalizeCards splits a comma separated list, trims and upper-cases each
// token and drops the empty ones. No validation happens here.
func NormalizeCards(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseCards is NormalizeCards followed by ParseRanks.
func ParseCards(s string) ([]Rank, error) {
	return ParseRanks(NormalizeCards(s))
}
