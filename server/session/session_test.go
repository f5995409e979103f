package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackjack-advisor/server/engine"
)

type memRecorder struct {
	mu     sync.Mutex
	advice []engine.Action
	rounds int
	resets int
}

func (r *memRecorder) LogAdvice(_ context.Context, _ string, _ engine.Hand, _ engine.Rank, a engine.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advice = append(r.advice, a)
}

func (r *memRecorder) LogRound(context.Context, string, []engine.Rank, engine.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds++
}

func (r *memRecorder) LogReset(context.Context, string, engine.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestRecommendAction(t *testing.T) {
	rec := &memRecorder{}
	m := NewManager(Options{Decks: 6, Limits: DefaultBetLimits}, rec, quietLogger())
	s := m.Create(0)
	ctx := context.Background()

	adv, err := s.RecommendAction(ctx, []string{"5", "6"}, "5")
	require.NoError(t, err)
	assert.Equal(t, engine.Double, adv.Action)
	assert.Equal(t, "Double Down", adv.Name)
	assert.Equal(t, 11, adv.Value)
	assert.Equal(t, engine.Hard, adv.Shape)

	adv, err = s.RecommendAction(ctx, []string{"a", "a"}, "6")
	require.NoError(t, err)
	assert.Equal(t, engine.Split, adv.Action)

	_, err = s.RecommendAction(ctx, []string{"5", "X"}, "5")
	var ice *engine.InvalidCardError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "X", ice.Token)

	_, err = s.RecommendAction(ctx, nil, "5")
	assert.ErrorIs(t, err, engine.ErrMissingCards)
	_, err = s.RecommendAction(ctx, []string{"5"}, " ")
	assert.ErrorIs(t, err, engine.ErrMissingCards)

	// advice never touches the shoe
	assert.Equal(t, 312, s.Status().CardsRemaining)
	assert.Equal(t, Tally{Double: 1, Split: 1}, s.Tally())
	assert.Equal(t, []engine.Action{engine.Double, engine.Split}, rec.advice)
}

func TestRecommendBet(t *testing.T) {
	s := New(6, DefaultBetLimits)
	b, err := s.RecommendBet("1000", "10", "100")
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Bet)
	assert.Equal(t, 312, b.CardsRemaining)

	// blanks fall back to the session limits
	b, err = s.RecommendBet("", " ", "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Bet)

	for _, bad := range [][3]string{{"lots", "10", "100"}, {"1000", "ten", "100"}, {"1000", "10", "NaN"}, {"1000", "10", "inf"}} {
		_, err := s.RecommendBet(bad[0], bad[1], bad[2])
		var ine *engine.InvalidNumberError
		require.True(t, errors.As(err, &ine), "%v", bad)
	}
}

func TestRecommendBetFollowsCount(t *testing.T) {
	s := New(1, DefaultBetLimits)
	ctx := context.Background()
	// +13 running over 39 cards left: true count 13/0.75
	_, err := s.RecordCards(ctx, []string{"2", "3", "4", "5"}, "6", []string{"2", "3", "4", "5", "6", "2", "3", "4"})
	require.NoError(t, err)
	b, err := s.RecommendBet("1000", "10", "100")
	require.NoError(t, err)
	assert.Equal(t, 13.0, b.RunningCount)
	assert.Equal(t, 80.0, b.Bet)
}

func TestRecordCards(t *testing.T) {
	rec := &memRecorder{}
	s := newSession("x", 6, DefaultBetLimits, rec)
	ctx := context.Background()

	st, err := s.RecordCards(ctx, []string{"10", "6"}, "K", []string{"2", "9"})
	require.NoError(t, err)
	assert.Equal(t, 307, st.CardsRemaining)
	assert.Equal(t, 0.0, st.RunningCount)

	// blank dealer card is skipped
	st, err = s.RecordCards(ctx, []string{"2"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 306, st.CardsRemaining)

	// an invalid card rejects the whole round
	_, err = s.RecordCards(ctx, []string{"2", "3"}, "Z", nil)
	require.Error(t, err)
	assert.Equal(t, 306, s.Status().CardsRemaining)
	assert.Equal(t, 2, rec.rounds)
}

func TestRecordCardsExhaustedKeepsInvariant(t *testing.T) {
	s := New(1, DefaultBetLimits)
	ctx := context.Background()
	recorded := 0
	_, err := s.RecordCards(ctx, []string{"A", "A"}, "A", nil)
	require.NoError(t, err)
	recorded += 3

	_, err = s.RecordCards(ctx, []string{"5", "A"}, "A", nil)
	var se *engine.ShoeExhaustedError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, engine.Ace, se.Rank)
	st := s.Status()
	assert.Equal(t, 52-recorded, st.CardsRemaining)
	assert.Equal(t, 4, st.Shoe[engine.Five])
}

func TestConcurrentRecordKeepsCardSum(t *testing.T) {
	s := New(6, DefaultBetLimits)
	ctx := context.Background()
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.RecordCards(ctx, []string{"A", "7"}, "", nil); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	// 24 aces in the shoe: exactly 24 rounds land
	assert.Equal(t, 24, ok)
	st := s.Status()
	assert.Equal(t, 312-2*ok, st.CardsRemaining)
	assert.Equal(t, 0, st.Shoe[engine.Ace])
	assert.Equal(t, -24.0, st.RunningCount)
}

func TestReset(t *testing.T) {
	rec := &memRecorder{}
	s := newSession("x", 6, DefaultBetLimits, rec)
	ctx := context.Background()
	_, err := s.RecordCards(ctx, []string{"2", "3"}, "4", nil)
	require.NoError(t, err)
	_, err = s.RecommendAction(ctx, []string{"2", "3"}, "4")
	require.NoError(t, err)

	st := s.Reset(ctx)
	assert.Equal(t, 312, st.CardsRemaining)
	assert.Equal(t, 0.0, st.RunningCount)
	assert.Equal(t, 6.0, st.DecksRemaining)
	assert.Equal(t, 1, s.Tally().Total())
	assert.Equal(t, 1, rec.resets)
}

func TestManager(t *testing.T) {
	m := NewManager(Options{Decks: 2, Limits: DefaultBetLimits, TTL: time.Minute}, nil, quietLogger())
	a := m.Create(0)
	b := m.Create(4)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 32)
	assert.Equal(t, 2, a.Decks())
	assert.Equal(t, 4, b.Decks())
	assert.Equal(t, 2, m.Len())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, m.Delete(a.ID))
	_, err = m.Get(a.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(a.ID), ErrSessionNotFound)
}

func TestManagerSweep(t *testing.T) {
	m := NewManager(Options{Decks: 6, TTL: time.Minute}, nil, quietLogger())
	m.Create(0)
	m.Create(0)
	assert.Equal(t, 0, m.Sweep(time.Now()))
	assert.Equal(t, 2, m.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, m.Len())

	off := NewManager(Options{Decks: 6}, nil, quietLogger())
	off.Create(0)
	assert.Equal(t, 0, off.Sweep(time.Now().Add(24*time.Hour)))
}

func TestTallyPct(t *testing.T) {
	tl := Tally{Hit: 3, Stand: 1}
	assert.Equal(t, 75, tl.Pct(engine.Hit))
	assert.Equal(t, 0, Tally{}.Pct(engine.Hit))
}
