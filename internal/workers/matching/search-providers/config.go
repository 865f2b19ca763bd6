// internal/workers/matching/search-providers/config.go
package searchproviders

import "time"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:   "providers",
		Timeout: 30 * time.Second,
	}
}
