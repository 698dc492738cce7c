//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Weights maps each sub-score signal to its non-negative contribution weight.
// The final fit score normalizes by the weight sum, so only relative
// magnitudes matter.
type Weights struct {
	Title    float64 `json:"title" yaml:"title"`
	Industry float64 `json:"industry" yaml:"industry"`
	Tenure   float64 `json:"tenure" yaml:"tenure"`
	Skills   float64 `json:"skills" yaml:"skills"`
	Context  float64 `json:"context" yaml:"context"`
	Recency  float64 `json:"recency" yaml:"recency"`
	Bonus    float64 `json:"bonus" yaml:"bonus"`
}

// DefaultWeights returns the documented default weighting.
func DefaultWeights() Weights {
	return Weights{
		Title:    0.25,
		Industry: 0.20,
		Tenure:   0.20,
		Skills:   0.25,
		Context:  0.05,
		Recency:  0.03,
		Bonus:    0.02,
	}
}

// Get returns the weight for a signal name, or 0 for unknown names.
func (w Weights) Get(name string) float64 {
	switch name {
	case SignalTitle:
		return w.Title
	case SignalIndustry:
		return w.Industry
	case SignalTenure:
		return w.Tenure
	case SignalSkills:
		return w.Skills
	case SignalContext:
		return w.Context
	case SignalRecency:
		return w.Recency
	case SignalBonus:
		return w.Bonus
	}
	return 0
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Title + w.Industry + w.Tenure + w.Skills + w.Context + w.Recency + w.Bonus
}

// Validate rejects negative weights and all-zero configurations, both of
// which would make the normalized fit score meaningless.
func (w Weights) Validate() error {
	for _, name := range SignalNames {
		if w.Get(name) < 0 {
			return fmt.Errorf("invalid weights: %s is negative", name)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("invalid weights: sum must be positive")
	}
	return nil
}
