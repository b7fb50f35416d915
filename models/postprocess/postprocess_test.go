package postprocess

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-sahi/images"
)

func TestBox_Geometry(t *testing.T) {
	b := Box{Left: 10, Top: 20, Right: 50, Bottom: 30}

	assert.Equal(t, float32(40), b.Width())
	assert.Equal(t, float32(10), b.Height())
	assert.Equal(t, float32(400), b.Area())
	assert.Equal(t, Box{Left: 15, Top: 25, Right: 55, Bottom: 35}, b.Offset(5, 5))
	assert.Equal(t, float32(0), Box{Left: 5, Top: 5, Right: 1, Bottom: 9}.Area())

	assert.Equal(t, Box{Left: 0, Top: 0, Right: 100, Bottom: 80},
		Box{Left: -5, Top: -1, Right: 120, Bottom: 80}.Clip(100, 80))

	assert.Equal(t, images.Rect{X1: 10, Y1: 21, X2: 50, Y2: 30},
		Box{Left: 10.2, Top: 20.5, Right: 49.6, Bottom: 30.4}.Rect())
	assert.Equal(t, b, BoxFromRect(b.Rect()))
}

func TestBox_IoUMatchesRect(t *testing.T) {
	pairs := [][2]images.Rect{
		{{X1: 0, Y1: 0, X2: 100, Y2: 100}, {X1: 50, Y1: 50, X2: 150, Y2: 150}},
		{{X1: 0, Y1: 0, X2: 100, Y2: 100}, {X1: 25, Y1: 25, X2: 75, Y2: 75}},
		{{X1: 0, Y1: 0, X2: 100, Y2: 100}, {X1: 100, Y1: 0, X2: 200, Y2: 100}},
		{{X1: 0, Y1: 0, X2: 0, Y2: 0}, {X1: 0, Y1: 0, X2: 10, Y2: 10}},
		{{X1: 10, Y1: 10, X2: 20, Y2: 20}, {X1: 10, Y1: 10, X2: 20, Y2: 20}},
	}

	for _, p := range pairs {
		a, b := BoxFromRect(p[0]), BoxFromRect(p[1])
		assert.InDelta(t, images.CalculateIoU(p[0], p[1]), a.IoU(b), 1e-6)
		assert.InDelta(t, images.CalculateOverlap(p[0], p[1]), a.Overlap(b), 1e-6)
	}
}

func TestToGlobal(t *testing.T) {
	local := Result{Box: Box{Left: 10, Top: 20, Right: 30, Bottom: 40}, Score: 0.8, Class: 3}

	global := ToGlobal(image.Pt(360, 512), local)

	assert.Equal(t, Box{Left: 370, Top: 532, Right: 390, Bottom: 552}, global.Box)
	assert.Equal(t, local.Score, global.Score)
	assert.Equal(t, local.Class, global.Class)
	assert.Equal(t, float32(10), local.Box.Left, "input must not change")
}

func TestMapTile(t *testing.T) {
	assert.Nil(t, MapTile(image.Pt(5, 5), nil))

	local := []Result{
		{Box: Box{Left: 0, Top: 0, Right: 10, Bottom: 10}, Score: 0.5},
		{Box: Box{Left: 1, Top: 2, Right: 3, Bottom: 4}, Score: 0.6, Class: 1},
	}

	global := MapTile(image.Pt(100, 0), local)
	require.Len(t, global, 2)
	assert.Equal(t, Box{Left: 100, Top: 0, Right: 110, Bottom: 10}, global[0].Box)
	assert.Equal(t, Box{Left: 101, Top: 2, Right: 103, Bottom: 4}, global[1].Box)
	assert.Equal(t, float32(0), local[0].Box.Left)
}

func TestApplyGreedyNMS(t *testing.T) {
	detections := []Result{
		{Box: Box{Left: 0, Top: 0, Right: 100, Bottom: 100}, Score: 0.9, Class: 0},
		{Box: Box{Left: 5, Top: 5, Right: 105, Bottom: 105}, Score: 0.8, Class: 0},
		{Box: Box{Left: 5, Top: 5, Right: 105, Bottom: 105}, Score: 0.7, Class: 1},
		{Box: Box{Left: 300, Top: 300, Right: 400, Bottom: 400}, Score: 0.6, Class: 0},
	}

	aware := ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45, ClassAware: true})
	require.Len(t, aware, 3)
	assert.Equal(t, float32(0.9), aware[0].Score)
	assert.Equal(t, 1, aware[1].Class)
	assert.Equal(t, float32(0.6), aware[2].Score)

	agnostic := ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45})
	require.Len(t, agnostic, 2)
	assert.Equal(t, float32(0.6), agnostic[1].Score)

	assert.Nil(t, ApplyGreedyNMS(nil, &NMSConfig{}))

	defaults := ApplyGreedyNMS(detections, nil)
	assert.Equal(t, aware, defaults, "nil config is class-aware at 0.45")
}

func TestSortByScore_Stable(t *testing.T) {
	detections := []Result{
		{Score: 0.5, Class: 0},
		{Score: 0.9, Class: 1},
		{Score: 0.5, Class: 2},
		{Score: 0.7, Class: 3},
	}

	SortByScore(detections)

	classes := []int{detections[0].Class, detections[1].Class, detections[2].Class, detections[3].Class}
	assert.Equal(t, []int{1, 3, 0, 2}, classes)
}

func TestMergeTiles(t *testing.T) {
	full := Result{Box: Box{Left: 300, Top: 100, Right: 400, Bottom: 200}, Score: 0.9}
	// The same object cut by the right edge of the left tile.
	cut := Result{Box: Box{Left: 300, Top: 100, Right: 340, Bottom: 200}, Score: 0.6}
	twin := Result{Box: Box{Left: 302, Top: 101, Right: 401, Bottom: 199}, Score: 0.85}
	other := Result{Box: Box{Left: 300, Top: 100, Right: 400, Bottom: 200}, Score: 0.5, Class: 2}
	far := Result{Box: Box{Left: 0, Top: 0, Right: 20, Bottom: 20}, Score: 0.3}

	tests := []struct {
		name     string
		input    []Result
		config   MergeConfig
		expected []Result
	}{
		{"Empty", nil, DefaultMergeConfig(), nil},
		{"Duplicate from overlapping tile", []Result{twin, full}, DefaultMergeConfig(), []Result{full}},
		{"Cut box suppressed by its complete twin", []Result{cut, full}, DefaultMergeConfig(), []Result{full}},
		{
			"Cut box kept when small box check disabled",
			[]Result{cut, full},
			MergeConfig{IoUThreshold: 0.45, ClassAware: true},
			[]Result{full, cut},
		},
		{"Different class survives", []Result{full, other}, DefaultMergeConfig(), []Result{full, other}},
		{
			"Class agnostic suppresses other classes",
			[]Result{full, other},
			MergeConfig{IoUThreshold: 0.45, SmallBoxOverlap: 0.7},
			[]Result{full},
		},
		{"Unrelated boxes kept in score order", []Result{far, full}, DefaultMergeConfig(), []Result{full, far}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]Result(nil), tt.input...)
			assert.Equal(t, tt.expected, MergeTiles(tt.input, tt.config))
			assert.Equal(t, input, tt.input, "input must not be reordered")
		})
	}
}

func TestFilters(t *testing.T) {
	results := []Result{
		{Score: 0.2, Class: 0},
		{Score: 0.6, Class: 1},
		{Score: 0.9, Class: 2},
	}

	assert.Len(t, NewScoreFilter(0.5)(results), 2)
	assert.Equal(t, []Result{results[2]}, NewClassFilter(2, 7)(results))
	assert.Equal(t, results, NewClassFilter()(results))

	chained := Chain(NewScoreFilter(0.5), NewClassFilter(1))(results)
	assert.Equal(t, []Result{results[1]}, chained)
}
