package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"blackjack-advisor/server/session"
	"blackjack-advisor/server/store"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	logger := newLogger(cfg)

	var migrate, repl bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--repl":
			repl = true
		}
	}

	if repl {
		if err := runREPL(cfg, os.Stdin); err != nil {
			logger.Fatal("repl", "err", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	// the round log is optional: without a database the advisor still works
	var db *store.DB
	if cfg.DatabaseURL != "" {
		p, err := store.Open(cfg.DatabaseURL, logger.WithPrefix("store"))
		if err != nil {
			if migrate {
				logger.Fatal("open database", "err", err)
			}
			logger.Warn("DB disabled (open failed)", "err", err)
		} else {
			db = p
			defer db.Close(context.Background())
			if cfg.AutoMigrate || migrate {
				if err := store.Migrate(ctx, db); err != nil {
					if migrate {
						logger.Fatal("migrate", "err", err)
					}
					logger.Warn("migrate failed (continuing without DB)", "err", err)
					db = nil
				} else {
					logger.Info("migrated")
				}
			}
		}
	} else if migrate {
		logger.Fatal("Missing required env var DATABASE_URL. Put it in .env (dev) or set it on the host (prod).")
	}
	if migrate {
		return
	}

	var rec session.Recorder
	var hist History
	if db != nil {
		rec, hist = db, db
	}
	mgr := session.NewManager(session.Options{
		Decks:  cfg.Decks,
		Limits: cfg.Limits,
		TTL:    cfg.SessionTTL,
	}, rec, logger.WithPrefix("session"))
	go mgr.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      Router(mgr, hist, logger.WithPrefix("http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("listening", "addr", "http://localhost:"+cfg.Port, "decks", cfg.Decks, "db", db != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", "err", err)
	}
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	cancel()
}
