package search

import "github.com/hyperjump/vulgata/internal/keyword"

// NormalizeScores scales hit scores to [0,1] by the maximum score. The result is
// parallel to hits.
func NormalizeScores(hits []*keyword.VerseHit) []float64 {
	out := make([]float64, len(hits))
	if len(hits) == 0 {
		return out
	}
	maxScore := hits[0].Score
	for _, h := range hits {
		if h.Score > maxScore {
			maxScore = h.Score
		}
	}
	if maxScore <= 0 {
		return out
	}
	for i, h := range hits {
		out[i] = h.Score / maxScore
	}
	return out
}
