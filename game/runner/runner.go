package runner

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/powergrid/game/service"
)

// DefaultInterval is how often running sessions are advanced
const DefaultInterval = 100 * time.Millisecond

// Advancer moves every active session forward. GameService satisfies it.
type Advancer interface {
	AdvanceAll(ctx context.Context, seconds float64) ([]*service.AdvanceResult, error)
}

// Listener is notified with the results of each step
type Listener interface {
	OnAdvance(results []*service.AdvanceResult)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(results []*service.AdvanceResult)

// OnAdvance calls f(results)
func (f ListenerFunc) OnAdvance(results []*service.AdvanceResult) { f(results) }

// Runner is the wall-clock scheduler for all sessions. Each tick advances
// every running session by interval × speed seconds of game time.
type Runner struct {
	advancer Advancer
	interval time.Duration

	mu        sync.RWMutex
	speed     float64
	listeners []Listener
	steps     int64
}

// New creates a runner. A non-positive interval uses DefaultInterval.
func New(advancer Advancer, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{
		advancer: advancer,
		interval: interval,
		speed:    1,
	}
}

// Interval returns the wall-clock tick period
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// AddListener registers l for every subsequent step
func (r *Runner) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// SetSpeed changes the game-time multiplier. Zero stops time without
// stopping the loop; negative values are ignored.
func (r *Runner) SetSpeed(speed float64) {
	if speed < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.speed = speed
}

// Speed returns the game-time multiplier
func (r *Runner) Speed() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.speed
}

// Steps returns how many steps have advanced at least one session
func (r *Runner) Steps() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.steps
}

// Run advances sessions on every tick until ctx is done
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Printf("[RUNNER] started (interval %s, speed %.2f)", r.interval, r.Speed())
	for {
		select {
		case <-ctx.Done():
			log.Printf("[RUNNER] stopped after %d steps", r.Steps())
			return
		case <-ticker.C:
			if err := r.Step(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[RUNNER] step failed: %v", err)
			}
		}
	}
}

// Step advances every session by one interval of game time and notifies
// listeners. It is what Run calls on each tick.
func (r *Runner) Step(ctx context.Context) error {
	seconds := r.interval.Seconds() * r.Speed()
	if seconds <= 0 {
		return nil
	}

	results, err := r.advancer.AdvanceAll(ctx, seconds)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	r.mu.Lock()
	r.steps++
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, l := range listeners {
		l.OnAdvance(results)
	}
	return nil
}
