package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/powergrid/game/service"
)

// MockAdvancer records the seconds it was asked to advance
type MockAdvancer struct {
	mu       sync.Mutex
	calls    []float64
	AdvanceF func(ctx context.Context, seconds float64) ([]*service.AdvanceResult, error)
}

func (m *MockAdvancer) AdvanceAll(ctx context.Context, seconds float64) ([]*service.AdvanceResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, seconds)
	m.mu.Unlock()
	if m.AdvanceF != nil {
		return m.AdvanceF(ctx, seconds)
	}
	return []*service.AdvanceResult{{SessionID: "a1b2", RequestedSeconds: seconds}}, nil
}

func (m *MockAdvancer) Calls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.calls...)
}

func TestNew_DefaultInterval(t *testing.T) {
	r := New(&MockAdvancer{}, 0)
	if r.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", r.Interval(), DefaultInterval)
	}
	if r.Speed() != 1 {
		t.Errorf("Speed() = %v, want 1", r.Speed())
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		name        string
		speed       float64
		wantSeconds float64
		wantCalls   int
	}{
		{name: "normal speed", speed: 1, wantSeconds: 0.5, wantCalls: 1},
		{name: "double speed", speed: 2, wantSeconds: 1.0, wantCalls: 1},
		{name: "stopped", speed: 0, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv := &MockAdvancer{}
			r := New(adv, 500*time.Millisecond)
			r.SetSpeed(tt.speed)

			var got []*service.AdvanceResult
			r.AddListener(ListenerFunc(func(results []*service.AdvanceResult) {
				got = results
			}))

			if err := r.Step(context.Background()); err != nil {
				t.Fatalf("Step() error = %v", err)
			}

			calls := adv.Calls()
			if len(calls) != tt.wantCalls {
				t.Fatalf("AdvanceAll called %d times, want %d", len(calls), tt.wantCalls)
			}
			if tt.wantCalls == 0 {
				if got != nil {
					t.Error("listener should not be called when time is stopped")
				}
				return
			}
			if calls[0] != tt.wantSeconds {
				t.Errorf("advanced %v seconds, want %v", calls[0], tt.wantSeconds)
			}
			if len(got) != 1 || got[0].SessionID != "a1b2" {
				t.Errorf("listener got %+v", got)
			}
			if r.Steps() != 1 {
				t.Errorf("Steps() = %d, want 1", r.Steps())
			}
		})
	}
}

func TestSetSpeed_IgnoresNegative(t *testing.T) {
	r := New(&MockAdvancer{}, time.Second)
	r.SetSpeed(3)
	r.SetSpeed(-1)
	if r.Speed() != 3 {
		t.Errorf("Speed() = %v, want 3", r.Speed())
	}
}

func TestStep_NoSessions(t *testing.T) {
	adv := &MockAdvancer{
		AdvanceF: func(ctx context.Context, seconds float64) ([]*service.AdvanceResult, error) {
			return nil, nil
		},
	}
	r := New(adv, time.Second)
	called := false
	r.AddListener(ListenerFunc(func([]*service.AdvanceResult) { called = true }))

	if err := r.Step(context.Background()); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if called {
		t.Error("listener should not be called without results")
	}
	if r.Steps() != 0 {
		t.Errorf("Steps() = %d, want 0", r.Steps())
	}
}

func TestStep_Error(t *testing.T) {
	wantErr := errors.New("boom")
	adv := &MockAdvancer{
		AdvanceF: func(ctx context.Context, seconds float64) ([]*service.AdvanceResult, error) {
			return nil, wantErr
		},
	}
	r := New(adv, time.Second)

	if err := r.Step(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Step() error = %v, want %v", err, wantErr)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	adv := &MockAdvancer{}
	r := New(adv, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for len(adv.Calls()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if len(adv.Calls()) < 2 {
		t.Errorf("expected at least 2 steps, got %d", len(adv.Calls()))
	}
}
