package traitgen

import (
	"log/slog"

	"github.com/setanarut/traitgen/utils"
)

// Strategy selects how unique combinations are planned.
type Strategy int

const (
	// StrategyShuffle draws combinations with a sparse Fisher-Yates shuffle
	// over the whole combination index space. It never retries.
	StrategyShuffle Strategy = iota
	// StrategyRejection samples every layer independently and retries on
	// duplicate fingerprints.
	StrategyRejection
)

func (s Strategy) String() string {
	switch s {
	case StrategyRejection:
		return "rejection"
	default:
		return "shuffle"
	}
}

// ParseStrategy maps "shuffle" or "rejection" to a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "shuffle", "":
		return StrategyShuffle, true
	case "rejection":
		return StrategyRejection, true
	}
	return StrategyShuffle, false
}

// Progress receives one Inc per completed token. It is called from worker
// goroutines.
type Progress interface {
	Inc()
}

type Options struct {
	Strategy Strategy
	// Workers bounds how many tokens are rendered and written at once.
	// 1 keeps output strictly sequential.
	Workers int
	// Seed makes a run reproducible for a given catalog. 0 picks a random seed.
	Seed int64
	// MaxAttempts caps rejection sampling draws per token.
	MaxAttempts int
	// PaletteSize > 0 extracts a palette from each token image and records
	// its darkest colour as the metadata background_color.
	PaletteSize   int
	PaletteMethod utils.PaletteMethod

	Progress Progress
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Strategy:    StrategyShuffle,
		Workers:     1,
		MaxAttempts: 1000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
