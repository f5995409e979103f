package engine

type Shape string

const (
	Hard Shape = "hard"
	Soft Shape = "soft"
	Pair Shape = "pair"
)

type Action string

const (
	Hit    Action = "H"
	Stand  Action = "S"
	Double Action = "D"
	Split  Action = "P"
	Bust   Action = "BUST"
)

// Name is the display form of an action, e.g. "Double Down".
func (a Action) Name() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double Down"
	case Split:
		return "Split"
	case Bust:
		return "Bust"
	}
	return string(a)
}

// Actions lists every advice outcome in display order.
var Actions = []Action{Hit, Stand, Double, Split, Bust}
