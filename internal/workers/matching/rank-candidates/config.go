// internal/workers/matching/rank-candidates/config.go
package rankcandidates

import "time"

type Config struct {
	CacheTTL        time.Duration
	Timeout         time.Duration
	DefaultLimit    int
	DefaultMinScore int
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:        10 * time.Minute,
		Timeout:         15 * time.Second,
		DefaultLimit:    5,
		DefaultMinScore: 0,
	}
}
