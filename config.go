package main

import (
	"github.com/xyproto/env/v2"
)

const defaultMaxSteps = 1_000_000

// Config holds driver defaults read from the environment. Command-line flags
// override every field.
type Config struct {
	KeepGoing bool
	Verbose   int
	MaxSteps  int
	OutDir    string
	History   string
}

// LoadConfig reads JACKC_* variables. env caches the environment, so the
// cache is refreshed first.
func LoadConfig() Config {
	env.Load()
	return Config{
		KeepGoing: env.Bool("JACKC_KEEP_GOING"),
		Verbose:   env.Int("JACKC_VERBOSE", 0),
		MaxSteps:  env.Int("JACKC_MAX_STEPS", defaultMaxSteps),
		OutDir:    env.Str("JACKC_OUT_DIR"),
		History:   env.Str("JACKC_HISTORY", ".jackc_history"),
	}
}
