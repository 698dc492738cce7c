//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// RawStint is one employment entry as supplied by a manifest, before any
// normalization. All fields are optional; dates are free-form strings.
type RawStint struct {
	Company      string   `json:"company,omitempty"`
	Title        string   `json:"title,omitempty"`
	IndustryTags []string `json:"industry_tags,omitempty"`
	Start        string   `json:"start,omitempty"`
	End          string   `json:"end,omitempty"`
}

// CandidateRecord is one manifest row describing a candidate. Structured
// stints, when present, take precedence over anything derived from the
// free-text resume content.
type CandidateRecord struct {
	CandidateID string     `json:"candidate_id"`
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Stints      []RawStint `json:"stints,omitempty"`
	ResumeText  string     `json:"resume_text,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// Validate checks the structural requirements of a candidate record.
// Missing optional fields are fine; a missing candidate ID is not, since
// every score record must be keyed by it.
func (c *CandidateRecord) Validate() error {
	if c.CandidateID == "" {
		return fmt.Errorf("candidate record missing candidate_id")
	}
	return nil
}
