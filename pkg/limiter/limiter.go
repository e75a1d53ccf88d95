package limiter

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter is a token bucket that reports whether a call must be rejected.
type Limiter struct {
	logger *zap.Logger
	l      *rate.Limiter
}

// New creates a limiter allowing limit events per second with the given burst.
func New(logger *zap.Logger, limit float64, burst int) *Limiter {
	return &Limiter{logger: logger, l: rate.NewLimiter(rate.Limit(limit), burst)}
}

// Limit reports true when the call exceeds the budget and must be dropped.
func (l *Limiter) Limit() bool {
	allowed := l.l.Allow()
	if !allowed {
		l.logger.Debug("Rate limit exceeded",
			zap.Float64("limit", float64(l.l.Limit())),
			zap.Int("burst", l.l.Burst()),
		)
	}
	return !allowed
}
