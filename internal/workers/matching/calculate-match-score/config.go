// internal/workers/matching/calculate-match-score/config.go
package calculatematchscore

import (
	"time"

	"carematch-workers/internal/matching"
)

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
	// MinSchedulePercent gates the meetsSchedule flag in the output.
	MinSchedulePercent int
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL:           10 * time.Minute,
		Timeout:            10 * time.Second,
		MinSchedulePercent: matching.DefaultSchedulePercent,
	}
}
