package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"blackjack-advisor/server/engine"
	"blackjack-advisor/server/session"
)

type Config struct {
	Port        string
	DatabaseURL string
	AutoMigrate bool
	Decks       int
	Limits      session.BetLimits
	SessionTTL  time.Duration
	LogLevel    log.Level
	LogJSON     bool
}

// loadConfig reads the environment; call godotenv.Load first for .env support.
func loadConfig() Config {
	decks := atoiDef(os.Getenv("DECKS"), engine.DefaultDecks)
	if decks < 1 || decks > engine.MaxDecks {
		decks = engine.DefaultDecks
	}
	lvl, err := log.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = log.InfoLevel
	}
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate: asBool(os.Getenv("AUTO_MIGRATE")),
		Decks:       decks,
		Limits: session.BetLimits{
			Balance: atofDef(os.Getenv("DEFAULT_BALANCE"), session.DefaultBetLimits.Balance),
			MinBet:  atofDef(os.Getenv("DEFAULT_MIN_BET"), session.DefaultBetLimits.MinBet),
			MaxBet:  atofDef(os.Getenv("DEFAULT_MAX_BET"), session.DefaultBetLimits.MaxBet),
		},
		SessionTTL: time.Duration(atoiDef(os.Getenv("SESSION_TTL_SECONDS"), 3600)) * time.Second,
		LogLevel:   lvl,
		LogJSON:    strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json"),
	}
}

func newLogger(cfg Config) *log.Logger {
	opts := log.Options{ReportTimestamp: true, Level: cfg.LogLevel}
	if cfg.LogJSON {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
func atofDef(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
