// Package profiler - Stage timing for the slicing pipeline.
package profiler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Stage names recorded by the predictor.
const (
	StageSlice = "slice"
	StageCrop  = "crop"
	StageInfer = "infer"
	StageMap   = "map"
	StageMerge = "merge"
)

// DefaultMaxSamples bounds the durations kept per operation.
const DefaultMaxSamples = 600

// Tracker records operation timings. It is safe for concurrent use, so tiles
// inferred in parallel can report into the same tracker.
type Tracker struct {
	mu         sync.RWMutex
	maxSamples int
	operations map[string]*timeTracker
}

// timeTracker tracks operation timing statistics over a sliding window.
type timeTracker struct {
	durations []time.Duration
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Stat is a snapshot of one operation's timings.
//
// Count, Min and Max cover every recorded sample since the last Reset. Samples,
// Total and Average cover only the retained window of the most recent samples.
type Stat struct {
	Name    string
	Count   int64
	Samples int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// NewTracker creates a tracker keeping the last maxSamples durations per operation.
//
// Arguments:
//   - maxSamples: The window size; zero or less uses DefaultMaxSamples.
//
// Returns:
//   - *Tracker: An empty tracker.
func NewTracker(maxSamples int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Tracker{
		maxSamples: maxSamples,
		operations: make(map[string]*timeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track.
//
// Returns:
//   - func(): Call when the operation completes. A nil tracker returns a no-op.
func (t *Tracker) StartOperation(name string) func() {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		t.Record(name, time.Since(start))
	}
}

// Record adds one completed operation of the given duration.
func (t *Tracker) Record(name string, duration time.Duration) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tracker, exists := t.operations[name]
	if !exists {
		tracker = &timeTracker{
			durations: make([]time.Duration, 0, 16),
			minTime:   duration,
			maxTime:   duration,
		}
		t.operations[name] = tracker
	}

	tracker.durations = append(tracker.durations, duration)
	tracker.totalTime += duration
	if len(tracker.durations) > t.maxSamples {
		// Remove oldest sample
		tracker.totalTime -= tracker.durations[0]
		tracker.durations = tracker.durations[1:]
	}
	tracker.count++

	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

func (tt *timeTracker) stat(name string) Stat {
	s := Stat{
		Name:    name,
		Count:   tt.count,
		Samples: len(tt.durations),
		Total:   tt.totalTime,
		Min:     tt.minTime,
		Max:     tt.maxTime,
	}
	if s.Samples > 0 {
		s.Average = tt.totalTime / time.Duration(s.Samples)
	}
	return s
}

// Stats returns the timings of one operation.
//
// Returns:
//   - Stat: The snapshot; Average covers only the retained window.
//   - bool: False if the operation was never recorded.
func (t *Tracker) Stats(name string) (Stat, bool) {
	if t == nil {
		return Stat{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	tracker, ok := t.operations[name]
	if !ok {
		return Stat{}, false
	}
	return tracker.stat(name), true
}

// Report returns a snapshot of every operation sorted by name.
func (t *Tracker) Report() []Stat {
	if t == nil {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make([]Stat, 0, len(t.operations))
	for name, tracker := range t.operations {
		stats = append(stats, tracker.stat(name))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// Log writes one structured line per operation. A nil logger discards them.
func (t *Tracker) Log(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, s := range t.Report() {
		logger.Info("operation timings",
			zap.String("operation", s.Name),
			zap.Int64("count", s.Count),
			zap.Duration("avg", s.Average.Truncate(time.Microsecond)),
			zap.Duration("min", s.Min.Truncate(time.Microsecond)),
			zap.Duration("max", s.Max.Truncate(time.Microsecond)),
		)
	}
}

// Reset discards all recorded timings.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.operations = make(map[string]*timeTracker)
}
