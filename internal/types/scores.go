//nolint:revive // types is a standard Go package name pattern
package types

// Signal names used throughout scoring, weights, and rationale generation.
const (
	SignalTitle    = "title"
	SignalIndustry = "industry"
	SignalTenure   = "tenure"
	SignalSkills   = "skills"
	SignalContext  = "context"
	SignalRecency  = "recency"
	SignalBonus    = "bonus"
)

// SignalNames lists all sub-score signals in canonical order.
var SignalNames = []string{
	SignalTitle, SignalIndustry, SignalTenure, SignalSkills,
	SignalContext, SignalRecency, SignalBonus,
}

// SubScores holds the independent [0,1] signals computed for one candidate.
// Produced fresh per candidate and never mutated after creation.
type SubScores struct {
	Title    float64 `json:"title"`
	Industry float64 `json:"industry"`
	Tenure   float64 `json:"tenure"`
	Skills   float64 `json:"skills"`
	Context  float64 `json:"context"`
	Recency  float64 `json:"recency"`
	Bonus    float64 `json:"bonus"`

	// Degraded lists signals computed from fallback or missing data, so
	// consumers can distinguish a low score from a low-confidence one.
	Degraded []string `json:"degraded,omitempty"`
}

// Get returns the sub-score for a signal name, or 0 for unknown names.
func (s SubScores) Get(name string) float64 {
	switch name {
	case SignalTitle:
		return s.Title
	case SignalIndustry:
		return s.Industry
	case SignalTenure:
		return s.Tenure
	case SignalSkills:
		return s.Skills
	case SignalContext:
		return s.Context
	case SignalRecency:
		return s.Recency
	case SignalBonus:
		return s.Bonus
	}
	return 0
}

// IsDegraded reports whether the named signal was computed from fallback data.
func (s SubScores) IsDegraded(name string) bool {
	for _, d := range s.Degraded {
		if d == name {
			return true
		}
	}
	return false
}

// ScoreResult is the final scoring record for one candidate. Written once,
// append-only to the output collection.
type ScoreResult struct {
	CandidateID string    `json:"candidate_id"`
	FitScore    float64   `json:"fit_score"`
	SubScores   SubScores `json:"sub_scores"`
	Rationale   []string  `json:"rationale"`
	Degraded    bool      `json:"degraded,omitempty"`
}
