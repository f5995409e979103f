package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var ErrSessionNotFound = errors.New("session not found")

type Options struct {
	Decks  int
	Limits BetLimits
	TTL    time.Duration
}

// Manager hands out sessions by id.
type Manager struct {
	opts   Options
	rec    Recorder
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(opts Options, rec Recorder, logger *log.Logger) *Manager {
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		opts:     opts,
		rec:      rec,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// Create opens a session with a full shoe. decks <= 0 uses the manager default.
func (m *Manager) Create(decks int) *Session {
	if decks <= 0 {
		decks = m.opts.Decks
	}
	s := newSession(newID(), decks, m.opts.Limits, m.rec)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.logger.Info("session created", "id", s.ID, "decks", s.Decks())
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.logger.Info("session closed", "id", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle since before now-TTL and returns how many went.
func (m *Manager) Sweep(now time.Time) int {
	if m.opts.TTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.opts.TTL)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.logger.Debug("swept idle sessions", "count", n)
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Sweep(now)
		}
	}
}
