package engine

// RecommendBet spreads the wager on the true count and caps it at balance.
//
// Only exact counts of 1 and 2 get the 2x and 4x steps. Any other positive
// count, including fractions such as 0.5 or 1.5, gets the 8x step. This
// matches the advisor this was built from and is kept until someone signs
// off on a different spread.
func RecommendBet(balance, minBet, maxBet, trueCount float64) float64 {
	var bet float64
	switch {
	case trueCount <= 0:
		bet = minBet
	case trueCount == 1:
		bet = min(2*minBet, maxBet)
	case trueCount == 2:
		bet = min(4*minBet, maxBet)
	default:
		bet = min(8*minBet, maxBet)
	}
	return min(bet, balance)
}
