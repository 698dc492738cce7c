package scoring

import (
	"fmt"
	"sort"

	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

const (
	rationaleMin = 3
	rationaleMax = 5
)

// Finalize combines sub-scores into a 0–100 fit score using the supplied
// weights and renders a short rationale. The numeric score is always
// produced; rationale generation failures degrade to a placeholder.
func Finalize(candidateID string, subs types.SubScores, ev Evidence, weights types.Weights) types.ScoreResult {
	sum := weights.Sum()
	var weighted float64
	for _, name := range types.SignalNames {
		weighted += weights.Get(name) * subs.Get(name)
	}

	fit := 0.0
	if sum > 0 {
		fit = 100 * weighted / sum
	}
	if fit < 0 {
		fit = 0
	}
	if fit > 100 {
		fit = 100
	}

	return types.ScoreResult{
		CandidateID: candidateID,
		FitScore:    fit,
		SubScores:   subs,
		Rationale:   buildRationale(subs, ev, weights),
		Degraded:    len(subs.Degraded) > 0,
	}
}

// buildRationale renders one sentence per top contributor: the 3–5 signals
// whose weighted distance from neutral is largest, positive or negative.
// It never panics outward; any rendering failure yields a generic placeholder
// so the numeric score is still returned.
func buildRationale(subs types.SubScores, ev Evidence, weights types.Weights) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			out = []string{"rationale unavailable; see sub-scores"}
		}
	}()

	type contribution struct {
		name   string
		score  float64
		impact float64 // weighted distance from neutral, signed
	}

	contribs := make([]contribution, 0, len(types.SignalNames))
	for _, name := range types.SignalNames {
		w := weights.Get(name)
		if w <= 0 {
			continue
		}
		s := subs.Get(name)
		contribs = append(contribs, contribution{name: name, score: s, impact: w * (s - 0.5)})
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return abs(contribs[i].impact) > abs(contribs[j].impact)
	})

	count := min(len(contribs), rationaleMax)
	if count < rationaleMin {
		count = min(len(contribs), rationaleMin)
	}

	for _, c := range contribs[:count] {
		out = append(out, renderSignal(c.name, c.score, c.impact >= 0, ev, subs))
	}
	if len(out) == 0 {
		out = []string{"rationale unavailable; see sub-scores"}
	}
	return out
}

func renderSignal(name string, score float64, positive bool, ev Evidence, subs types.SubScores) string {
	direction := "weighs against fit"
	if positive {
		direction = "supports fit"
	}

	var label string
	switch name {
	case types.SignalTitle:
		label = "Title alignment"
	case types.SignalIndustry:
		label = "Industry relevance"
	case types.SignalTenure:
		label = "Tenure"
	case types.SignalSkills:
		label = "Skills similarity"
	case types.SignalContext:
		label = "Role context"
	case types.SignalRecency:
		label = "Recency"
	case types.SignalBonus:
		label = "Bonus signals"
	default:
		label = name
	}

	sentence := fmt.Sprintf("%s %.2f %s", label, score, direction)
	if detail, ok := ev[name]; ok && detail != "" {
		sentence += ": " + detail
	}
	if subs.IsDegraded(name) {
		sentence += " (low confidence)"
	}
	return sentence + "."
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
