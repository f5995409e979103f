package store

import (
	"context"
	"embed"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blackjack-advisor/server/engine"
)

//go:embed schema.sql
var schema embed.FS

// writeTimeout bounds each log write so a slow database can't stall advice.
const writeTimeout = 2 * time.Second

type DB struct {
	*pgxpool.Pool
	Log *log.Logger
}

func Open(dsn string, logger *log.Logger) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DB{Pool: p, Log: logger}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Round log
------------------------------*/

// upsertSession creates the session row on first use and bumps last_seen after.
const upsertSession = `
        INSERT INTO sessions(id) VALUES ($1)
        ON CONFLICT (id) DO UPDATE SET last_seen = now()
    `

func (db *DB) InsertAdvice(ctx context.Context, sessionID string, player engine.Hand, dealer engine.Rank, action engine.Action) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe if already committed

	if _, err := tx.Exec(ctx, upsertSession, sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
        INSERT INTO advice(session_id, player, dealer, player_value, shape, action)
        VALUES ($1,$2,$3,$4,$5,$6)
    `, sessionID, rankStrings(player), string(dealer), player.Value(), string(player.Shape()), string(action)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (db *DB) InsertRound(ctx context.Context, sessionID, kind string, cards []engine.Rank, st engine.Status) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertSession, sessionID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
        INSERT INTO rounds(session_id, kind, cards, running_count, true_count, decks_remaining, cards_remaining)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
    `, sessionID, kind, rankStrings(cards), st.RunningCount, st.TrueCount, st.DecksRemaining, st.CardsRemaining); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type Round struct {
	ID             int64     `json:"id"`
	Kind           string    `json:"kind"`
	Cards          []string  `json:"cards"`
	RunningCount   float64   `json:"running_count"`
	TrueCount      float64   `json:"true_count"`
	DecksRemaining float64   `json:"decks_remaining"`
	CardsRemaining int       `json:"cards_remaining"`
	CreatedAt      time.Time `json:"created_at"`
}

// Rounds lists a session's log, oldest first.
func (db *DB) Rounds(ctx context.Context, sessionID string, limit int) ([]Round, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	rows, err := db.Query(ctx, `
        SELECT id, kind, cards, running_count, true_count, decks_remaining, cards_remaining, created_at
          FROM rounds
         WHERE session_id = $1
         ORDER BY id
         LIMIT $2
    `, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Round{}
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.ID, &r.Kind, &r.Cards, &r.RunningCount, &r.TrueCount,
			&r.DecksRemaining, &r.CardsRemaining, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func rankStrings(rs []engine.Rank) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

/* -----------------------------
   session.Recorder
------------------------------*/

func (db *DB) LogAdvice(ctx context.Context, sessionID string, player engine.Hand, dealer engine.Rank, action engine.Action) {
	ctx, cancel := detached(ctx)
	defer cancel()
	if err := db.InsertAdvice(ctx, sessionID, player, dealer, action); err != nil {
		db.Log.Warn("advice log write failed", "session", sessionID, "err", err)
	}
}

func (db *DB) LogRound(ctx context.Context, sessionID string, cards []engine.Rank, st engine.Status) {
	ctx, cancel := detached(ctx)
	defer cancel()
	if err := db.InsertRound(ctx, sessionID, "record", cards, st); err != nil {
		db.Log.Warn("round log write failed", "session", sessionID, "err", err)
	}
}

func (db *DB) LogReset(ctx context.Context, sessionID string, st engine.Status) {
	ctx, cancel := detached(ctx)
	defer cancel()
	if err := db.InsertRound(ctx, sessionID, "reset", nil, st); err != nil {
		db.Log.Warn("reset log write failed", "session", sessionID, "err", err)
	}
}

// detached keeps request values but not the request's cancellation, so a
// client hanging up doesn't lose the log row.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
}
