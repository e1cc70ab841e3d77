package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type config struct {
	Addr     string
	LogLevel string
	// Seed fixes every engine's random source when non-zero.
	Seed uint64
}

func loadConfig() (config, error) {
	if os.Getenv("STAGE") != "prod" {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config{}, err
		}
	}
	cfg := config{
		Addr:     envOr("BROADSIDE_ADDR", ":3000"),
		LogLevel: envOr("BROADSIDE_LOG_LEVEL", "info"),
	}
	if s := os.Getenv("BROADSIDE_SEED"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return config{}, fmt.Errorf("BROADSIDE_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newLogger writes to stderr; stdout belongs to the line protocol.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}
