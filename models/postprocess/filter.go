package postprocess

import "github.com/samber/lo"

// Postprocessor transforms a set of full-image detections.
type Postprocessor func(results []Result) []Result

// NewScoreFilter drops detections scoring below minScore.
func NewScoreFilter(minScore float32) Postprocessor {
	return func(results []Result) []Result {
		return lo.Filter(results, func(r Result, _ int) bool {
			return r.Score >= minScore
		})
	}
}

// NewClassFilter keeps only detections of the given classes. With no classes
// every detection is kept.
func NewClassFilter(classes ...int) Postprocessor {
	if len(classes) == 0 {
		return func(results []Result) []Result { return results }
	}

	allowed := lo.Associate(classes, func(c int) (int, struct{}) {
		return c, struct{}{}
	})

	return func(results []Result) []Result {
		return lo.Filter(results, func(r Result, _ int) bool {
			_, ok := allowed[r.Class]
			return ok
		})
	}
}

// Chain applies each postprocessor in order.
func Chain(steps ...Postprocessor) Postprocessor {
	return func(results []Result) []Result {
		for _, step := range steps {
			results = step(results)
		}
		return results
	}
}
