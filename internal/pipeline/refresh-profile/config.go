// internal/pipeline/refresh-profile/config.go
package refreshprofile

import "time"

type Config struct {
	// MinScore gates persistence: candidates scoring below it are discarded.
	MinScore int
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MinScore: 30,
		Timeout:  30 * time.Second,
	}
}
