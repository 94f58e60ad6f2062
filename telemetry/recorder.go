package telemetry

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
	"github.com/wricardo/mcp-training/powergrid/game/service"
)

// YearRecord is one CSV row: a session's state when it enters a new year.
type YearRecord struct {
	SessionID    string  `csv:"session"`
	Year         int     `csv:"year"` // 1-indexed, as displayed
	Elapsed      float64 `csv:"elapsed_seconds"`
	Finances     float64 `csv:"finances"`
	Reputation   float64 `csv:"reputation"`
	Satisfaction float64 `csv:"satisfaction"`
	ChargeRate   int     `csv:"charge_rate"`
	Population   float64 `csv:"population"`
	DemandRate   float64 `csv:"demand_rate"`
	SupplyRate   float64 `csv:"supply_rate"`
	Inflation    float64 `csv:"inflation"`
	LandSize     int     `csv:"land_size"`
	Generators   int     `csv:"generators"`
	Upkeep       float64 `csv:"upkeep"`
	GameOver     bool    `csv:"game_over"`
}

// NewYearRecord builds a row from a state snapshot
func NewYearRecord(sessionID string, state *engine.GameState) YearRecord {
	occupied := 0
	for _, slot := range state.Slots {
		if !slot.Empty {
			occupied++
		}
	}
	return YearRecord{
		SessionID:    sessionID,
		Year:         state.DisplayYear,
		Elapsed:      state.ElapsedSeconds,
		Finances:     state.Finances,
		Reputation:   state.Reputation,
		Satisfaction: state.Satisfaction,
		ChargeRate:   state.ChargeRate,
		Population:   state.Population,
		DemandRate:   state.DemandRate,
		SupplyRate:   state.SupplyRate,
		Inflation:    state.Inflation,
		LandSize:     state.LandSize,
		Generators:   occupied,
		Upkeep:       state.Upkeep,
		GameOver:     state.GameOver,
	}
}

// Recorder writes a YearRecord each time a session reaches a new year. It
// keeps the rows in memory as well so a run can be summarized.
type Recorder struct {
	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	lastYear      map[string]int
	records       []YearRecord
}

// NewRecorder writes CSV rows to w. A nil w keeps records in memory only.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		w:        w,
		lastYear: make(map[string]int),
	}
}

// NewFileRecorder creates dir and writes rows to dir/telemetry.csv.
// Returns nil if dir is empty (recording disabled).
func NewFileRecorder(dir string) (*Recorder, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	r := NewRecorder(f)
	r.closer = f
	return r, nil
}

// Write appends one row
func (r *Recorder) Write(rec YearRecord) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeLocked(rec)
}

func (r *Recorder) writeLocked(rec YearRecord) error {
	r.records = append(r.records, rec)
	if r.w == nil {
		return nil
	}

	rows := []YearRecord{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(rows, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, r.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Observe records state if the session has moved into a year it has not
// been recorded in. A reset moves the session back and starts over.
func (r *Recorder) Observe(sessionID string, state *engine.GameState) error {
	if r == nil || state == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	last, seen := r.lastYear[sessionID]
	if seen && state.Year < last {
		// Session was reset
		r.lastYear[sessionID] = state.Year
		return nil
	}
	if seen && state.Year == last {
		return nil
	}
	r.lastYear[sessionID] = state.Year
	return r.writeLocked(NewYearRecord(sessionID, state))
}

// OnAdvance records every result that crossed into a new year, so a
// Recorder can listen to the runner directly.
func (r *Recorder) OnAdvance(results []*service.AdvanceResult) {
	for _, res := range results {
		if res == nil || res.Report.YearsCrossed == 0 {
			continue
		}
		if err := r.Observe(res.SessionID, res.GameState); err != nil {
			log.Printf("[TELEMETRY] %v", err)
		}
	}
}

// Records returns a copy of everything written so far
func (r *Recorder) Records() []YearRecord {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]YearRecord(nil), r.records...)
}

// Close closes the underlying file, if the recorder opened one. Later rows
// are kept in memory only.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = nil
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
