package engine

import "strings"

// Hand keeps ranks in the order they were dealt.
type Hand []Rank

// Add appends a drawn card.
func (h *Hand) Add(r Rank) { *h = append(*h, r) }

// Value is the best total: aces start at 11 and drop to 1 while the hand is over 21.
// It may exceed 21; callers treat that as a bust.
func (h Hand) Value() int {
	total, aces := 0, 0
	for _, r := range h {
		if r == Ace {
			aces++
			total += 11
			continue
		}
		total += r.BaseValue()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func (h Hand) baseSum() int {
	sum := 0
	for _, r := range h {
		sum += r.BaseValue()
	}
	return sum
}

func (h Hand) hasAce() bool {
	for _, r := range h {
		if r == Ace {
			return true
		}
	}
	return false
}

// IsSoft reports whether the best total still counts an ace as 11.
func (h Hand) IsSoft() bool {
	return h.hasAce() && h.Value() != h.baseSum()
}

// IsPair is two cards of the same rank.
func (h Hand) IsPair() bool {
	return len(h) == 2 && h[0] == h[1]
}

// Shape checks pair before soft, so A,A is a pair.
func (h Hand) Shape() Shape {
	switch {
	case h.IsPair():
		return Pair
	case h.IsSoft():
		return Soft
	}
	return Hard
}

func (h Hand) IsBust() bool { return h.Value() > 21 }

func (h Hand) String() string {
	s := make([]string, len(h))
	for i, r := range h {
		s[i] = string(r)
	}
	return strings.Join(s, ",")
}
