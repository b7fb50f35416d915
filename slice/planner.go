// Package slice - Tile geometry for slice-assisted inference.
//
// A large frame is covered by overlapping tiles sized to the detector's native
// input so that small objects keep enough pixels to be found. The planner
// decides how many tiles are needed along one axis and where each one starts;
// the Grid combines both axes and the Buffer holds the cropped tile pixels.
package slice

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned for slice geometry that cannot be planned.
var ErrInvalidArgument = errors.New("invalid slice argument")

// snapTolerance is the largest float error, in pixels, absorbed when a stride
// computed from a ratio such as 0.2 lands just off a whole pixel.
const snapTolerance = 1e-3

func validate(dimension, subDimension int, overlapRatio float32) error {
	if dimension <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "dimension must be positive, got %d", dimension)
	}
	if subDimension <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "slice size must be positive, got %d", subDimension)
	}
	if overlapRatio < 0 || overlapRatio >= 1 || math.IsNaN(float64(overlapRatio)) {
		return errors.Wrapf(ErrInvalidArgument, "overlap ratio must be in [0, 1), got %v", overlapRatio)
	}
	return nil
}

// NumCuts returns the minimum number of tiles of length subDimension, spaced by
// subDimension*(1-overlapRatio), whose union covers [0, dimension).
//
// A tile longer than the dimension is clamped to the dimension, so the result
// is 1 in that case.
//
// Arguments:
//   - dimension: The image width or height in pixels.
//   - subDimension: The tile width or height in pixels.
//   - overlapRatio: The fraction of subDimension shared by consecutive tiles, in [0, 1).
//
// Returns:
//   - int: The number of tiles, always >= 1 when err is nil.
//   - error: ErrInvalidArgument for a non-positive size or an overlap ratio outside [0, 1).
//
// @example
// n, _ := NumCuts(1000, 640, 0.2) // stride 512, n = 2
func NumCuts(dimension, subDimension int, overlapRatio float32) (int, error) {
	if err := validate(dimension, subDimension, overlapRatio); err != nil {
		return 0, err
	}
	if subDimension >= dimension {
		return 1, nil
	}

	stride := float64(subDimension) * (1 - float64(overlapRatio))
	cuts := snap(float64(dimension-subDimension)/stride, stride)
	return int(math.Ceil(cuts)) + 1, nil
}

// snap rounds v to the nearest integer when the difference, measured in pixels
// by scaling with unit, is within snapTolerance.
func snap(v, unit float64) float64 {
	if rounded := math.Round(v); math.Abs(v-rounded)*unit < snapTolerance {
		return rounded
	}
	return v
}

// Starts returns the start offset of every tile along one axis.
//
// Offsets advance by the stride and are clamped to dimension-subDimension; the
// last tile always ends exactly at dimension, so only the final tile may overlap
// its neighbour by more than the configured ratio.
//
// Arguments:
//   - dimension: The image width or height in pixels.
//   - subDimension: The tile width or height in pixels.
//   - overlapRatio: The fraction of subDimension shared by consecutive tiles, in [0, 1).
//
// Returns:
//   - []int: Tile start offsets in increasing order.
//   - error: ErrInvalidArgument for invalid geometry.
//
// @example
// starts, _ := Starts(1000, 640, 0.2) // [0 360]
func Starts(dimension, subDimension int, overlapRatio float32) ([]int, error) {
	n, err := NumCuts(dimension, subDimension, overlapRatio)
	if err != nil {
		return nil, err
	}

	length := min(subDimension, dimension)
	last := dimension - length
	stride := float64(subDimension) * (1 - float64(overlapRatio))

	starts := make([]int, n)
	for i := 0; i < n-1; i++ {
		starts[i] = min(int(math.Floor(snap(float64(i)*stride, 1))), last)
	}
	starts[n-1] = last

	return starts, nil
}
