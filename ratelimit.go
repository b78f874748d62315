package trovochat

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRateMessages = 20
	defaultRateWindow   = 30 * time.Second
)

// chatLimiter is the rolling chat-flood budget shared by every chat-class
// line on the connection. Control lines never consume from it.
type chatLimiter struct {
	lim *rate.Limiter
}

// newChatLimiter allows messages sends per window. A non-positive value
// on either side disables limiting.
func newChatLimiter(messages int, window time.Duration) *chatLimiter {
	if messages <= 0 || window <= 0 {
		return &chatLimiter{}
	}
	perSecond := rate.Limit(float64(messages) / window.Seconds())
	return &chatLimiter{lim: rate.NewLimiter(perSecond, messages)}
}

// reserve consumes one permit and returns how long the caller must wait
// before acting on it. A full budget yields zero. Excess submissions are
// delayed, never dropped.
func (l *chatLimiter) reserve() time.Duration {
	if l.lim == nil {
		return 0
	}
	return l.lim.Reserve().Delay()
}
