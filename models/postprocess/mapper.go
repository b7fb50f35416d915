package postprocess

import "image"

// ToGlobal translates a tile-local result into full-image coordinates.
//
// Arguments:
//   - origin: The top-left corner of the tile in the full image.
//   - r: A result relative to the tile origin.
//
// Returns:
//   - Result: The same result offset by origin; score and class are unchanged.
func ToGlobal(origin image.Point, r Result) Result {
	r.Box = r.Box.Offset(float32(origin.X), float32(origin.Y))
	return r
}

// MapTile translates every result of one tile into full-image coordinates.
// The input slice is not modified.
func MapTile(origin image.Point, results []Result) []Result {
	if len(results) == 0 {
		return nil
	}
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = ToGlobal(origin, r)
	}
	return out
}
