package rate

import (
	"context"
	"fmt"
	"time"
)

const (
	loginMinuteWindow = time.Minute
	login10SecWindow  = 10 * time.Second
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Limiter throttles login attempts per client IP over two fixed
// windows. A zero limit disables its window.
type Limiter struct {
	store     WindowStore
	perMinute int
	per10Sec  int
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	if perMinute < 0 {
		perMinute = 0
	}
	if per10Sec < 0 {
		per10Sec = 0
	}

	return &Limiter{
		store:     store,
		perMinute: perMinute,
		per10Sec:  per10Sec,
	}
}

func (l *Limiter) AllowLogin(ctx context.Context, clientIP string) (bool, error) {
	if clientIP == "" {
		return true, nil
	}
	if l.store == nil {
		return false, fmt.Errorf("rate limiter store is nil")
	}

	if l.perMinute > 0 {
		count, _, err := l.store.IncrementWindow(ctx, minuteKey(clientIP), loginMinuteWindow)
		if err != nil {
			return false, err
		}
		if count > int64(l.perMinute) {
			return false, nil
		}
	}

	if l.per10Sec > 0 {
		count, _, err := l.store.IncrementWindow(ctx, tenSecKey(clientIP), login10SecWindow)
		if err != nil {
			return false, err
		}
		if count > int64(l.per10Sec) {
			return false, nil
		}
	}

	return true, nil
}

func minuteKey(clientIP string) string {
	return "rate:login:min:" + clientIP
}

func tenSecKey(clientIP string) string {
	return "rate:login:10s:" + clientIP
}
