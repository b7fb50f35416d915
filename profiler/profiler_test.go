package profiler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTracker_Record(t *testing.T) {
	tr := NewTracker(0)

	tr.Record(StageInfer, 30*time.Millisecond)
	tr.Record(StageInfer, 10*time.Millisecond)
	tr.Record(StageInfer, 20*time.Millisecond)

	s, ok := tr.Stats(StageInfer)
	require.True(t, ok)
	assert.Equal(t, StageInfer, s.Name)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 3, s.Samples)
	assert.Equal(t, 60*time.Millisecond, s.Total)
	assert.Equal(t, 20*time.Millisecond, s.Average)
	assert.Equal(t, 10*time.Millisecond, s.Min)
	assert.Equal(t, 30*time.Millisecond, s.Max)

	_, ok = tr.Stats(StageMerge)
	assert.False(t, ok)
}

func TestTracker_Window(t *testing.T) {
	tr := NewTracker(2)

	tr.Record("op", 100*time.Millisecond)
	tr.Record("op", 2*time.Millisecond)
	tr.Record("op", 4*time.Millisecond)

	s, ok := tr.Stats("op")
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 2, s.Samples)
	assert.Equal(t, 6*time.Millisecond, s.Total)
	assert.Equal(t, 3*time.Millisecond, s.Average)
	assert.Equal(t, 100*time.Millisecond, s.Max, "extremes cover every sample")
}

func TestTracker_StartOperation(t *testing.T) {
	tr := NewTracker(10)

	done := tr.StartOperation(StageCrop)
	time.Sleep(time.Millisecond)
	done()

	s, ok := tr.Stats(StageCrop)
	require.True(t, ok)
	assert.Equal(t, int64(1), s.Count)
	assert.GreaterOrEqual(t, s.Total, time.Millisecond)
}

func TestTracker_ReportSortedAndReset(t *testing.T) {
	tr := NewTracker(10)
	for _, name := range []string{StageMerge, StageSlice, StageInfer, StageMap} {
		tr.Record(name, time.Millisecond)
	}

	report := tr.Report()
	require.Len(t, report, 4)
	names := make([]string, len(report))
	for i, s := range report {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"infer", "map", "merge", "slice"}, names)

	tr.Reset()
	assert.Empty(t, tr.Report())
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker(1000)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tr.Record(StageInfer, time.Microsecond)
			}
		}()
	}
	wg.Wait()

	s, ok := tr.Stats(StageInfer)
	require.True(t, ok)
	assert.Equal(t, int64(400), s.Count)
}

func TestTracker_Nil(t *testing.T) {
	var tr *Tracker

	tr.StartOperation(StageSlice)()
	tr.Record(StageSlice, time.Second)
	tr.Reset()

	_, ok := tr.Stats(StageSlice)
	assert.False(t, ok)
	assert.Nil(t, tr.Report())
}

func TestTracker_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tr := NewTracker(10)
	tr.Record(StageSlice, time.Millisecond)
	tr.Record(StageMerge, time.Millisecond)

	tr.Log(zap.New(core))

	entries := logs.FilterMessage("operation timings").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "merge", entries[0].ContextMap()["operation"])

	assert.NotPanics(t, func() { tr.Log(nil) })
}

func TestTracker_WindowedAndLifetimeStats(t *testing.T) {
	tr := NewTracker(2)
	tr.Record(StageInfer, 10*time.Millisecond)
	tr.Record(StageInfer, 2*time.Millisecond)
	tr.Record(StageInfer, 4*time.Millisecond)

	s, ok := tr.Stats(StageInfer)
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 2, s.Samples)
	assert.Equal(t, 6*time.Millisecond, s.Total)
	assert.Equal(t, 3*time.Millisecond, s.Average)
	assert.Equal(t, 2*time.Millisecond, s.Min)
	assert.Equal(t, 10*time.Millisecond, s.Max, "max outlives the window")
}
