package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blackjack-advisor/server/engine"
	"blackjack-advisor/server/session"
	"blackjack-advisor/server/store"
)

// History lists the round log of a session. Nil when no database is configured.
type History interface {
	Rounds(ctx context.Context, sessionID string, limit int) ([]store.Round, error)
	Ping(ctx context.Context) error
}

func Router(mgr *session.Manager, hist History, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		out := map[string]any{"ok": true, "sessions": mgr.Len()}
		if hist != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			out["db"] = hist.Ping(ctx) == nil
		}
		writeJSON(w, out)
	})

	r.Get("/api/strategy", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"dealers": engine.ChartDealers,
			"rows":    engine.Strategy.Chart(),
		})
	})

	r.Post("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Decks int `json:"decks"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		s := mgr.Create(req.Decks)
		writeJSONStatus(w, http.StatusCreated, sessionView(s))
	})

	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Use(withSession(mgr))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, sessionView(sessionFrom(r)))
		})

		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			if err := mgr.Delete(sessionFrom(r).ID); err != nil {
				writeError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/action", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Player cardList `json:"player"`
				Dealer string   `json:"dealer"`
				Draw   cardList `json:"draw"`
			}
			if !readJSON(w, r, &req) {
				return
			}
			player := append([]string(req.Player), req.Draw...)
			adv, err := sessionFrom(r).RecommendAction(r.Context(), player, req.Dealer)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, adv)
		})

		r.Post("/bet", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Balance amount `json:"balance"`
				MinBet  amount `json:"min_bet"`
				MaxBet  amount `json:"max_bet"`
			}
			if !readJSON(w, r, &req) {
				return
			}
			bet, err := sessionFrom(r).RecommendBet(string(req.Balance), string(req.MinBet), string(req.MaxBet))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, bet)
		})

		r.Post("/rounds", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Player cardList `json:"player"`
				Dealer string   `json:"dealer"`
				Extra  cardList `json:"extra"`
			}
			if !readJSON(w, r, &req) {
				return
			}
			st, err := sessionFrom(r).RecordCards(r.Context(), req.Player, req.Dealer, req.Extra)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, st)
		})

		r.Get("/rounds", func(w http.ResponseWriter, r *http.Request) {
			if hist == nil {
				http.Error(w, "round history needs DATABASE_URL", http.StatusNotImplemented)
				return
			}
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			rows, err := hist.Rounds(r.Context(), sessionFrom(r).ID, limit)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, map[string]any{"rows": rows})
		})

		r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, sessionFrom(r).Reset(r.Context()))
		})

		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			t := sessionFrom(r).Tally()
			pct := make(map[engine.Action]int, len(engine.Actions))
			for _, a := range engine.Actions {
				pct[a] = t.Pct(a)
			}
			writeJSON(w, map[string]any{"tally": t, "total": t.Total(), "pct": pct})
		})
	})

	return r
}

type ctxKey struct{}

func withSession(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := mgr.Get(chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
		})
	}
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

type sessionPayload struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Decks     int               `json:"decks"`
	Limits    session.BetLimits `json:"limits"`
	engine.Status
}

func sessionView(s *session.Session) sessionPayload {
	return sessionPayload{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Decks:     s.Decks(),
		Limits:    s.Limits(),
		Status:    s.Status(),
	}
}

// cardList accepts either "A, 10" or ["A","10"].
type cardList []string

func (c *cardList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*c = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = engine.NormalizeCards(s)
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, engine.NormalizeCards(s)...)
	}
	*c = out
	return nil
}

// amount keeps the raw text of a number or string so parse errors surface
// as InvalidNumberError instead of a JSON decode failure.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}
	*a = amount(b)
	return nil
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(v); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"error": "bad request body: " + err.Error(), "kind": "bad_request"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": err.Error()}
	status := http.StatusInternalServerError
	var (
		ice *engine.InvalidCardError
		ine *engine.InvalidNumberError
		se  *engine.ShoeExhaustedError
	)
	switch {
	case errors.As(err, &ice):
		status, body["kind"], body["token"] = http.StatusBadRequest, "invalid_card", ice.Token
	case errors.As(err, &ine):
		status, body["kind"], body["field"] = http.StatusBadRequest, "invalid_number", ine.Field
	case errors.As(err, &se):
		status, body["kind"], body["token"] = http.StatusConflict, "shoe_exhausted", string(se.Rank)
	case errors.Is(err, engine.ErrMissingCards):
		status, body["kind"] = http.StatusBadRequest, "missing_cards"
	case errors.Is(err, session.ErrSessionNotFound):
		status, body["kind"] = http.StatusNotFound, "not_found"
	}
	writeJSONStatus(w, status, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"dur", time.Since(start),
				"req", middleware.GetReqID(r.Context()),
			)
		})
	}
}
