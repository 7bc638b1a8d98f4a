package loader

import (
	"time"

	"github.com/mediamingle/mingle/internal/config"
)

// Policy bounds the trending retry loop
type Policy struct {
	AttemptTimeout time.Duration
	MaxRetries     int
	Delay          time.Duration
}

// DefaultPolicy allows a cold backend about a minute and a half to wake up
func DefaultPolicy() Policy {
	return Policy{
		AttemptTimeout: 30 * time.Second,
		MaxRetries:     2,
		Delay:          3 * time.Second,
	}
}

// PolicyFromConfig reads the loader section, falling back to defaults
func PolicyFromConfig(cfg config.LoaderConfig) Policy {
	p := DefaultPolicy()
	if cfg.TrendingTimeout > 0 {
		p.AttemptTimeout = cfg.TrendingTimeout
	}
	if cfg.TrendingRetries >= 0 {
		p.MaxRetries = cfg.TrendingRetries
	}
	if cfg.RetryDelay > 0 {
		p.Delay = cfg.RetryDelay
	}
	return p
}

// Clock schedules the delay between attempts
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
