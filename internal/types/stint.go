// Package types provides type definitions for structured data used throughout the jd-fit-evaluator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Stint represents one normalized employment period for a candidate.
// Stints are created once during normalization and immutable afterward.
type Stint struct {
	Company        string     `json:"company"`
	Title          string     `json:"title"`
	CanonicalTitle string     `json:"canonical_title,omitempty"`
	Level          int        `json:"level"`
	IndustryTags   []string   `json:"industry_tags,omitempty"`
	Start          *time.Time `json:"start,omitempty"`
	End            *time.Time `json:"end,omitempty"` // nil means ongoing
	IsCurrent      bool       `json:"is_current"`
	Synthesized    bool       `json:"synthesized,omitempty"` // derived from free text, not manifest data
}

// Months returns the stint duration in whole months, measured against now
// for ongoing stints. The second return value is false when the start date
// is unknown and no duration can be computed.
func (s Stint) Months(now time.Time) (int, bool) {
	if s.Start == nil {
		return 0, false
	}
	end := now
	if s.End != nil {
		end = *s.End
	}
	months := (end.Year()-s.Start.Year())*12 + int(end.Month()) - int(s.Start.Month())
	if months < 0 {
		return 0, false
	}
	return months, true
}

// MatchesIndustry reports whether any of the stint's industry tags appears
// in the given target set. Comparison is exact on tag strings.
func (s Stint) MatchesIndustry(targets []string) bool {
	for _, tag := range s.IndustryTags {
		for _, want := range targets {
			if tag == want {
				return true
			}
		}
	}
	return false
}
