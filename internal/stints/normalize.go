package stints

import (
	"sort"
	"strings"

	"github.com/jonathan/jd-fit-evaluator/internal/logger"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

// Taxonomy supplies industry enrichment rules: known companies mapped to
// their industry tags, and keywords that imply a tag when found in a stint's
// title or company text. Passed in explicitly; there is no ambient global
// taxonomy.
type Taxonomy struct {
	Companies map[string][]string `json:"companies,omitempty" yaml:"companies"`
	Keywords  map[string][]string `json:"keywords,omitempty" yaml:"keywords"`
}

// Normalizer converts raw candidate records into canonical stint sequences.
type Normalizer struct {
	taxonomy Taxonomy
}

// NewNormalizer creates a Normalizer with the given taxonomy. An empty
// taxonomy is valid; enrichment then only preserves manifest-supplied tags.
func NewNormalizer(taxonomy Taxonomy) *Normalizer {
	return &Normalizer{taxonomy: taxonomy}
}

// Normalize converts a candidate record into a non-empty, most-recent-first
// sequence of canonical stints. Manifest-supplied stints take precedence
// verbatim (after date coercion); otherwise a minimal stint is synthesized
// from whatever text is available. The result is never empty, so downstream
// code never special-cases "no stints".
func (n *Normalizer) Normalize(rec types.CandidateRecord) []types.Stint {
	var out []types.Stint

	for _, raw := range rec.Stints {
		out = append(out, n.fromRaw(raw))
	}

	if len(out) == 0 {
		out = append(out, n.synthesize(rec))
	}

	sortStints(out)
	markCurrent(out)
	return out
}

// fromRaw builds one canonical stint from a manifest entry.
func (n *Normalizer) fromRaw(raw types.RawStint) types.Stint {
	start, _ := CoerceDate(raw.Start)
	end, endIsCurrent := CoerceDate(raw.End)

	s := types.Stint{
		Company:        strings.TrimSpace(raw.Company),
		Title:          strings.TrimSpace(raw.Title),
		CanonicalTitle: CanonicalTitle(strings.TrimSpace(raw.Title)),
		Level:          TitleLevel(raw.Title),
		Start:          start,
		End:            end,
		IsCurrent:      endIsCurrent,
	}
	s.IndustryTags = n.enrichTags(raw.IndustryTags, s.Title, s.Company)
	return s
}

// synthesize derives a minimal stint when no structured stints exist.
// Falls back to a placeholder stint with empty fields when the record holds
// nothing usable.
func (n *Normalizer) synthesize(rec types.CandidateRecord) types.Stint {
	title := firstLine(rec.ResumeText)
	s := types.Stint{
		Title:          title,
		CanonicalTitle: CanonicalTitle(title),
		Level:          TitleLevel(title),
		Synthesized:    true,
	}
	s.IndustryTags = n.enrichTags(nil, s.Title, "")
	return s
}

// enrichTags merges manifest tags with taxonomy-derived ones, deduplicated
// and sorted.
func (n *Normalizer) enrichTags(existing []string, title, company string) []string {
	tags := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t = strings.TrimSpace(t); t != "" {
			tags[t] = true
		}
	}
	if company != "" {
		for _, t := range n.taxonomy.Companies[company] {
			tags[t] = true
		}
	}
	blob := strings.ToLower(title + " " + company)
	for tag, keywords := range n.taxonomy.Keywords {
		for _, kw := range keywords {
			if kw != "" && strings.Contains(blob, strings.ToLower(kw)) {
				tags[tag] = true
				break
			}
		}
	}
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// sortStints orders stints most recent first: ongoing stints ahead of ended
// ones, then by start date descending, undated stints last.
func sortStints(stints []types.Stint) {
	sort.SliceStable(stints, func(i, j int) bool {
		a, b := stints[i], stints[j]
		aOngoing := a.End == nil && (a.Start != nil || a.IsCurrent)
		bOngoing := b.End == nil && (b.Start != nil || b.IsCurrent)
		if aOngoing != bOngoing {
			return aOngoing
		}
		switch {
		case a.Start == nil && b.Start == nil:
			return false
		case a.Start == nil:
			return false
		case b.Start == nil:
			return true
		}
		return a.Start.After(*b.Start)
	})
}

// markCurrent sets IsCurrent on the most recent stint when it has no end
// date, per the "missing end means still employed" convention.
func markCurrent(stints []types.Stint) {
	if len(stints) == 0 {
		return
	}
	if stints[0].End == nil && (stints[0].Start != nil || stints[0].IsCurrent) {
		stints[0].IsCurrent = true
	}
}

// firstLine extracts a short title guess from free text: the first non-empty
// line, truncated to a sane length.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Truncate on runes so multi-byte resume text is never split mid-character.
		return logger.TruncateForLog(line, 80)
	}
	return ""
}
