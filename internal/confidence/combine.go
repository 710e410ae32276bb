// Package confidence blends deterministic rule confidence with the
// relevance of retrieved evidence into one final score per flag.
package confidence

import (
	"math"

	"github.com/gyeh/billaudit/internal/model"
)

// The deterministic rule is the primary signal; retrieved evidence
// quality is secondary. Fixed weights, not configurable.
const (
	ruleWeight      = 0.6
	retrievalWeight = 0.4
)

// Combine fills in RetrievalScore and FinalConfidence on every flag.
// The best (maximum) relevance score across all retrieved evidence is
// broadcast to the whole batch: retrieval runs once per batch with a
// query built from all flag messages, not per finding. No evidence
// means a best score of 0.
func Combine(flags []model.ValidationFlag, evidence []model.Evidence) []model.ValidationFlag {
	best := 0.0
	for _, ev := range evidence {
		if ev.Score > best {
			best = ev.Score
		}
	}

	out := make([]model.ValidationFlag, len(flags))
	for i, f := range flags {
		score := round4(best)
		final := round4(f.RuleConfidence*ruleWeight + best*retrievalWeight)
		f.RetrievalScore = &score
		f.FinalConfidence = &final
		out[i] = f
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
