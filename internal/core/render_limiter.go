package core

// render_limiter.go bounds the number of card batches rendered at once.
//
// Rendering holds a font and a PDF per card in memory, so the HTTP server
// lets at most a fixed number of batches run in parallel. Further requests
// wait up to maxWait for a slot and then fail with ErrTooManyRenders.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyRenders is returned when no render slot frees up in time.
var ErrTooManyRenders = errors.New("too many concurrent renders, please try again later")

const (
	// DefaultMaxConcurrentRenders is used when the configured limit is not positive.
	DefaultMaxConcurrentRenders = 2

	// DefaultRenderWait is used when the configured wait is not positive.
	DefaultRenderWait = 30 * time.Second
)

// RenderLimiter is a counting semaphore with a bounded wait.
type RenderLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.Mutex
	active int
}

// NewRenderLimiter allows at most maxConcurrent batches at once.
func NewRenderLimiter(maxConcurrent int, maxWait time.Duration) *RenderLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRenders
	}
	if maxWait <= 0 {
		maxWait = DefaultRenderWait
	}
	return &RenderLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release
// after a nil return. A cancelled ctx wins over the timeout.
func (l *RenderLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.TryAcquire() {
		return nil
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.track(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyRenders
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *RenderLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.track(1)
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *RenderLimiter) Release() {
	l.track(-1)
	<-l.semaphore
}

func (l *RenderLimiter) track(delta int) {
	l.mu.Lock()
	l.active += delta
	l.mu.Unlock()
}

// WaitForDrain blocks until no batch is active or ctx is done. The server
// calls it during shutdown.
func (l *RenderLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Status().Active == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RenderLimiterStatus is a point-in-time view of the limiter.
type RenderLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status reports current usage for the health endpoint.
func (l *RenderLimiter) Status() RenderLimiterStatus {
	l.mu.Lock()
	active := l.active
	l.mu.Unlock()

	return RenderLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
