// Package suggest finds the closest match to a misspelled path or unit name
// among a known set of candidates, for "did you mean" hints on not-found
// errors. Grounded on the teacher's internal/semantic fuzzy matcher, pared
// down to the single Jaro-Winkler comparison gprdeps needs.
package suggest

import (
	"github.com/hbollon/go-edlib"
)

// Threshold is the minimum similarity score (0..1) a candidate must reach
// before Closest will suggest it — below this, a suggestion is more likely
// to confuse than help.
const Threshold = 0.6

// Closest returns the candidate most similar to target by Jaro-Winkler
// distance, and whether any candidate cleared Threshold.
func Closest(target string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(target, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = c
		}
	}
	return best, bestScore >= Threshold
}
