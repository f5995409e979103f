package engine

// Recommend returns the basic strategy action for hand against the dealer upcard.
func Recommend(hand Hand, upcard Rank) Action {
	return Strategy.Recommend(hand, upcard)
}

func (t *Table) Recommend(hand Hand, upcard Rank) Action {
	value := hand.Value()
	if value > 21 {
		return Bust
	}
	shape := hand.Shape()

	// aces are always split, whatever the table holds
	if shape == Pair && hand[0] == Ace {
		return Split
	}

	if a, ok := t.Lookup(Key{shape, value, upcard.DealerValue()}); ok {
		// doubling is only allowed on the first two cards
		if a == Double && len(hand) > 2 {
			return Hit
		}
		return a
	}

	switch shape {
	case Soft:
		if value < 18 {
			return Hit
		}
		return Stand
	default:
		if value < 12 {
			return Hit
		}
		return Stand
	}
}
