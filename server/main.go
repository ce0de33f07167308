package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/izaksullivan/Blackjack-Trainer/server/drill"
	"github.com/izaksullivan/Blackjack-Trainer/server/store"
)

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
		Prefix:          "trainer",
	})
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("bad configuration", "err", err)
	}
	logger := newLogger(cfg.LogLevel)

	var migrate, chart bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--chart":
			chart = true
		}
	}

	if chart {
		if err := printChart(cfg.Rules); err != nil {
			logger.Fatal("chart", "err", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	if migrate {
		if cfg.DatabaseURL == "" {
			logger.Fatal("Missing required env var DATABASE_URL. Put it in .env (dev) or set it on the host (prod).")
		}
		db, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open db", "err", err)
		}
		defer db.Close(context.Background())
		if err := store.Migrate(ctx, db); err != nil {
			logger.Fatal("migrate", "err", err)
		}
		logger.Info("migrated")
		return
	}

	db := openStore(ctx, cfg, logger)
	if db != nil {
		defer db.Close(context.Background())
	}

	sessions := drill.NewManager(logger.WithPrefix("drill"), cfg.DeckSeed)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      Router(db, sessions, cfg.Rules, logger.WithPrefix("http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "url", "http://localhost:"+cfg.Port, "decks", cfg.Rules.Decks, "dealer", cfg.Rules.Dealer, "db", db != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("serve", "err", err)
	}
	logger.Info("stopped")
}

// openStore returns nil when no database is configured or it cannot be
// reached; the trainer then keeps sessions in memory only.
func openStore(ctx context.Context, cfg Config, logger *log.Logger) *store.DB {
	if cfg.DatabaseURL == "" {
		logger.Info("DB disabled (DATABASE_URL not set)")
		return nil
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Warn("DB disabled (open failed)", "err", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		logger.Warn("DB disabled (ping failed)", "err", err)
		db.Close(ctx)
		return nil
	}
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			logger.Warn("migrate failed (continuing without DB)", "err", err)
			db.Close(ctx)
			return nil
		}
		logger.Info("migrated")
	}
	return db
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	cancel()
}
