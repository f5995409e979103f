package session

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"blackjack-advisor/server/engine"
)

// Recorder receives a copy of what a session did. The store implements it;
// failures are the recorder's problem and never reach the caller.
type Recorder interface {
	LogAdvice(ctx context.Context, sessionID string, player engine.Hand, dealer engine.Rank, action engine.Action)
	LogRound(ctx context.Context, sessionID string, cards []engine.Rank, st engine.Status)
	LogReset(ctx context.Context, sessionID string, st engine.Status)
}

type nopRecorder struct{}

func (nopRecorder) LogAdvice(context.Context, string, engine.Hand, engine.Rank, engine.Action) {}
func (nopRecorder) LogRound(context.Context, string, []engine.Rank, engine.Status)             {}
func (nopRecorder) LogReset(context.Context, string, engine.Status)                            {}

// BetLimits are the values used when a bet request leaves a field blank.
type BetLimits struct {
	Balance float64
	MinBet  float64
	MaxBet  float64
}

var DefaultBetLimits = BetLimits{Balance: 1000, MinBet: 10, MaxBet: 100}

// Session is one player's shoe. Every method takes the session lock, so a
// session has a single writer at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	tracker  *engine.Tracker
	tally    Tally
	limits   BetLimits
	lastUsed time.Time
	rec      Recorder
}

func newSession(id string, decks int, limits BetLimits, rec Recorder) *Session {
	now := time.Now()
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Session{
		ID:        id,
		CreatedAt: now,
		tracker:   engine.NewTracker(decks),
		limits:    limits,
		lastUsed:  now,
		rec:       rec,
	}
}

// New returns a standalone session that isn't registered with any manager.
func New(decks int, limits BetLimits) *Session {
	return newSession("local", decks, limits, nil)
}

func (s *Session) touch() { s.lastUsed = time.Now() }

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Advice is a recommended action for a hand.
type Advice struct {
	Player engine.Hand   `json:"player"`
	Dealer engine.Rank   `json:"dealer"`
	Value  int           `json:"value"`
	Shape  engine.Shape  `json:"shape"`
	Action engine.Action `json:"action"`
	Name   string        `json:"name"`
}

// RecommendAction validates the cards and returns the basic strategy play.
// The shoe isn't touched.
func (s *Session) RecommendAction(ctx context.Context, player []string, dealer string) (Advice, error) {
	if len(player) == 0 || strings.TrimSpace(dealer) == "" {
		return Advice{}, engine.ErrMissingCards
	}
	ranks, err := engine.ParseRanks(player)
	if err != nil {
		return Advice{}, err
	}
	up, err := engine.ParseRank(dealer)
	if err != nil {
		return Advice{}, err
	}
	h := engine.Hand(ranks)
	a := engine.Recommend(h, up)

	s.mu.Lock()
	s.tally.add(a)
	s.touch()
	s.mu.Unlock()

	s.rec.LogAdvice(ctx, s.ID, h, up, a)
	return Advice{Player: h, Dealer: up, Value: h.Value(), Shape: h.Shape(), Action: a, Name: a.Name()}, nil
}

// BetAdvice is a wager together with the count it was based on.
type BetAdvice struct {
	Bet float64 `json:"bet"`
	engine.Status
}

// RecommendBet parses the three amounts (blank means the session default)
// and sizes a bet from the current true count.
func (s *Session) RecommendBet(balance, minBet, maxBet string) (BetAdvice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := parseAmount("balance", balance, s.limits.Balance)
	if err != nil {
		return BetAdvice{}, err
	}
	lo, err := parseAmount("min_bet", minBet, s.limits.MinBet)
	if err != nil {
		return BetAdvice{}, err
	}
	hi, err := parseAmount("max_bet", maxBet, s.limits.MaxBet)
	if err != nil {
		return BetAdvice{}, err
	}
	s.touch()
	st := s.tracker.Status()
	return BetAdvice{Bet: engine.RecommendBet(b, lo, hi, st.TrueCount), Status: st}, nil
}

func parseAmount(field, in string, def float64) (float64, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(in, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &engine.InvalidNumberError{Field: field, Input: in}
	}
	return v, nil
}

// RecordCards records everything seen in a round: the player's cards, the
// dealer's upcard (skipped when blank) and any other cards on the table.
// Nothing is recorded unless every card is valid and still in the shoe.
func (s *Session) RecordCards(ctx context.Context, player []string, dealer string, extra []string) (engine.Status, error) {
	seen := make([]string, 0, len(player)+1+len(extra))
	seen = append(seen, player...)
	if strings.TrimSpace(dealer) != "" {
		seen = append(seen, dealer)
	}
	seen = append(seen, extra...)
	ranks, err := engine.ParseRanks(seen)
	if err != nil {
		return engine.Status{}, err
	}

	s.mu.Lock()
	if err := s.tracker.Record(ranks); err != nil {
		s.mu.Unlock()
		return engine.Status{}, err
	}
	s.touch()
	st := s.tracker.Status()
	s.mu.Unlock()

	s.rec.LogRound(ctx, s.ID, ranks, st)
	return st, nil
}

// Reset refills the shoe and clears the count. The advice tally is kept.
func (s *Session) Reset(ctx context.Context) engine.Status {
	s.mu.Lock()
	s.tracker.Reset()
	s.touch()
	st := s.tracker.Status()
	s.mu.Unlock()

	s.rec.LogReset(ctx, s.ID, st)
	return st
}

// Status includes the per-rank shoe breakdown.
func (s *Session) Status() engine.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.tracker.Status()
	st.Shoe = s.tracker.Counts()
	return st
}

func (s *Session) Decks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Decks()
}

func (s *Session) Tally() Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally
}

func (s *Session) Limits() BetLimits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limits
}
