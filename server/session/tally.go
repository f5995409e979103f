package session

import "blackjack-advisor/server/engine"

// Tally counts the advice handed out in a session.
type Tally struct {
	Hit    int `json:"hit"`
	Stand  int `json:"stand"`
	Double int `json:"double"`
	Split  int `json:"split"`
	Bust   int `json:"bust"`
}

func (t *Tally) add(a engine.Action) {
	switch a {
	case engine.Hit:
		t.Hit++
	case engine.Stand:
		t.Stand++
	case engine.Double:
		t.Double++
	case engine.Split:
		t.Split++
	case engine.Bust:
		t.Bust++
	}
}

func (t Tally) Total() int { return t.Hit + t.Stand + t.Double + t.Split + t.Bust }

// Pct is the share of a in percent, rounded down.
func (t Tally) Pct(a engine.Action) int {
	n := t.Total()
	if n == 0 {
		return 0
	}
	var c int
	switch a {
	case engine.Hit:
		c = t.Hit
	case engine.Stand:
		c = t.Stand
	case engine.Double:
		c = t.Double
	case engine.Split:
		c = t.Split
	case engine.Bust:
		c = t.Bust
	}
	return c * 100 / n
}
