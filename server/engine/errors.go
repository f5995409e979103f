package engine

import (
	"errors"
	"fmt"
)

// ErrMissingCards is returned when advice is asked for without a hand or upcard.
var ErrMissingCards = errors.New("enter both your cards and the dealer card")

// InvalidCardError carries the token that is not a known rank.
type InvalidCardError struct {
	Token string
}

func (e *InvalidCardError) Error() string {
	return fmt.Sprintf("invalid card: %q", e.Token)
}

// InvalidNumberError is returned when a bet input doesn't parse as a number.
type InvalidNumberError struct {
	Field string
	Input string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number for %s: %q", e.Field, e.Input)
}

// ShoeExhaustedError names a rank with no cards left in the shoe.
type ShoeExhaustedError struct {
	Rank Rank
}

func (e *ShoeExhaustedError) Error() string {
	return fmt.Sprintf("card %s not available in shoe", e.Rank)
}
