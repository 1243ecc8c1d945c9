package dpgmm

import (
	"fmt"
	"math/rand/v2"
	"runtime"
)

// Config controls sampler behavior. Start with [DefaultConfig] and override
// the fields you need.
type Config struct {
	// Shrinkage is the prior shrinkage κ0 on the component means: how
	// strongly a component mean is pulled toward the prior mean. Small
	// values make the prior weakly informative. Must be > 0. Default: 0.01.
	Shrinkage float64

	// Workers controls the number of goroutines used for the per-point
	// prior-predictive density, the only parallelizable stage of the
	// sampler. 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Src is the random source driving every stochastic step (indicator
	// draws, posterior parameter draws, fold permutations). Supply a seeded
	// source for reproducible chains. Default: a randomly seeded PCG.
	Src rand.Source
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Shrinkage: 0.01,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Shrinkage == 0 {
		cfg.Shrinkage = 0.01
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Src == nil {
		cfg.Src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Shrinkage <= 0 {
		return fmt.Errorf("dpgmm: Shrinkage must be > 0, got %g", cfg.Shrinkage)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("dpgmm: Workers must be >= 0 (0 means NumCPU), got %d", cfg.Workers)
	}
	return nil
}
