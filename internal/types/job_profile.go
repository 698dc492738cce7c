//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// JobProfile represents the target role a candidate pool is scored against.
// It is loaded once per run and read-only afterward.
type JobProfile struct {
	Name                 string        `json:"name,omitempty" yaml:"name"`
	Titles               []string      `json:"titles" yaml:"titles" validate:"required,min=1"` // most-preferred first
	Level                string        `json:"level,omitempty" yaml:"level"`                   // junior, mid, senior, lead, ...
	Industries           []string      `json:"industries,omitempty" yaml:"industries"`
	MustHaveSkills       []string      `json:"must_have_skills,omitempty" yaml:"must_have_skills"`
	NiceToHaveSkills     []string      `json:"nice_to_have_skills,omitempty" yaml:"nice_to_have_skills"`
	MinAvgTenureMonths   int           `json:"min_avg_tenure_months,omitempty" yaml:"min_avg_tenure_months" validate:"gte=0"`
	MinLastTenureMonths  int           `json:"min_last_tenure_months,omitempty" yaml:"min_last_tenure_months" validate:"gte=0"`
	SkillsTextBlob       string        `json:"skills_text_blob,omitempty" yaml:"skills_text_blob"`
	RecencyHorizonMonths int           `json:"recency_horizon_months,omitempty" yaml:"recency_horizon_months" validate:"gte=0"`
	BonusSignals         []BonusSignal `json:"bonus_signals,omitempty" yaml:"bonus_signals"`
	Weights              *Weights      `json:"weights,omitempty" yaml:"weights"`
}

// BonusSignal is one configurable positive signal (a certification, a named
// company, a niche keyword) that adds to the bonus sub-score when any of its
// keywords appears in the candidate's text.
type BonusSignal struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   float64  `json:"weight" yaml:"weight"`
}

// Validate checks that the profile is usable for scoring. A profile that
// fails validation is a run-level error: nothing should be scored against it.
func (p *JobProfile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid job profile: %w", err)
	}
	if p.Weights != nil {
		if err := p.Weights.Validate(); err != nil {
			return err
		}
	}
	for _, sig := range p.BonusSignals {
		if sig.Weight < 0 {
			return fmt.Errorf("invalid job profile: bonus signal %q has negative weight", sig.Name)
		}
	}
	return nil
}

// MinAvgTenureOrDefault returns the configured average-tenure floor, or the
// historical default of 18 months when unset.
func (p *JobProfile) MinAvgTenureOrDefault() int {
	if p.MinAvgTenureMonths > 0 {
		return p.MinAvgTenureMonths
	}
	return 18
}

// MinLastTenureOrDefault returns the configured last-stint-tenure floor, or
// the historical default of 12 months when unset.
func (p *JobProfile) MinLastTenureOrDefault() int {
	if p.MinLastTenureMonths > 0 {
		return p.MinLastTenureMonths
	}
	return 12
}

// RecencyHorizonOrDefault returns the recency decay horizon, defaulting to
// five years.
func (p *JobProfile) RecencyHorizonOrDefault() int {
	if p.RecencyHorizonMonths > 0 {
		return p.RecencyHorizonMonths
	}
	return 60
}
