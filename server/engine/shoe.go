package engine

const (
	DefaultDecks = 6
	MaxDecks     = 8
	CardsPerDeck = 52
)

// Tracker is the shoe plus the High-Low running count for one table.
// It is not safe for concurrent use; give each session its own.
type Tracker struct {
	decks   int
	shoe    map[Rank]int
	running float64
}

// NewTracker returns a full shoe of decks decks (DefaultDecks when decks is out of 1..MaxDecks).
func NewTracker(decks int) *Tracker {
	if decks < 1 || decks > MaxDecks {
		decks = DefaultDecks
	}
	t := &Tracker{decks: decks}
	t.Reset()
	return t
}

// Reset refills the shoe and zeroes the running count.
func (t *Tracker) Reset() {
	t.shoe = make(map[Rank]int, len(Ranks))
	for _, r := range Ranks {
		t.shoe[r] = 4 * t.decks
	}
	t.running = 0
}

func (t *Tracker) Decks() int { return t.decks }

func (t *Tracker) CardsRemaining() int {
	n := 0
	for _, c := range t.shoe {
		n += c
	}
	return n
}

func (t *Tracker) DecksRemaining() float64 {
	return float64(t.CardsRemaining()) / CardsPerDeck
}

func (t *Tracker) RunningCount() float64 { return t.running }

// TrueCount is the running count per remaining deck, or the running count
// itself once the shoe is empty.
func (t *Tracker) TrueCount() float64 {
	return TrueCount(t.running, t.DecksRemaining())
}

func TrueCount(running, decksRemaining float64) float64 {
	if decksRemaining <= 0 {
		return running
	}
	return running / decksRemaining
}

// Remaining is how many cards of r are left.
func (t *Tracker) Remaining(r Rank) int { return t.shoe[r] }

// Counts is a copy of the per-rank shoe.
func (t *Tracker) Counts() map[Rank]int {
	out := make(map[Rank]int, len(t.shoe))
	for r, c := range t.shoe {
		out[r] = c
	}
	return out
}

// Record removes cards from the shoe and adds their High-Low weights to the
// running count. Either every card is recorded or, on error, none is: the
// whole batch is checked against the shoe before anything is removed.
func (t *Tracker) Record(cards []Rank) error {
	need := make(map[Rank]int, len(cards))
	for _, r := range cards {
		if !r.Valid() {
			return &InvalidCardError{Token: string(r)}
		}
		need[r]++
		if need[r] > t.shoe[r] {
			return &ShoeExhaustedError{Rank: r}
		}
	}
	delta := 0
	for _, r := range cards {
		t.shoe[r]--
		delta += r.HiLo()
	}
	t.running += float64(delta)
	return nil
}

// Status is a point-in-time readout of the tracker.
type Status struct {
	RunningCount   float64      `json:"running_count"`
	TrueCount      float64      `json:"true_count"`
	DecksRemaining float64      `json:"decks_remaining"`
	CardsRemaining int          `json:"cards_remaining"`
	Shoe           map[Rank]int `json:"shoe,omitempty"`
}

func (t *Tracker) Status() Status {
	return Status{
		RunningCount:   t.running,
		TrueCount:      t.TrueCount(),
		DecksRemaining: t.DecksRemaining(),
		CardsRemaining: t.CardsRemaining(),
	}
}
