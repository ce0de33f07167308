package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

// Config is everything the binary reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	AutoMigrate bool
	LogLevel    log.Level
	DeckSeed    int64
	Rules       engine.Rules
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	return configFrom(os.Getenv)
}

func configFrom(env func(string) string) (Config, error) {
	get := func(k, def string) string {
		if v := strings.TrimSpace(env(k)); v != "" {
			return v
		}
		return def
	}
	boolDef := func(k string, def bool) bool {
		if v := strings.TrimSpace(env(k)); v != "" {
			return asBool(v)
		}
		return def
	}

	cfg := Config{
		Port:        get("PORT", "8080"),
		DatabaseURL: get("DATABASE_URL", ""),
		AutoMigrate: asBool(env("AUTO_MIGRATE")),
	}

	lvl, err := log.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	if s := get("DECK_SEED", ""); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("DECK_SEED: %w", err)
		}
		cfg.DeckSeed = seed
	}

	def := engine.DefaultRules()
	decks := def.Decks
	if s := get("DECKS", ""); s != "" {
		if decks, err = strconv.Atoi(s); err != nil {
			return Config{}, fmt.Errorf("DECKS: %w", err)
		}
	}
	dealer, err := engine.ParseDealerRule(get("DEALER_RULE", string(def.Dealer)))
	if err != nil {
		return Config{}, err
	}
	cfg.Rules = engine.Rules{
		Decks:         decks,
		Dealer:        dealer,
		DAS:           boolDef("DAS", def.DAS),
		LateSurrender: boolDef("LATE_SURRENDER", def.LateSurrender),
		Peek:          boolDef("PEEK", def.Peek),
	}
	if err := cfg.Rules.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
