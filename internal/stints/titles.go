// Package stints normalizes raw employment history into canonical stint sequences.
package stints

import "strings"

// canonicalTitles maps known title variants (lowercased, punctuation
// stripped) to their canonical form for matching. Variants carrying a level
// prefix are reduced separately; see CanonicalTitle.
var canonicalTitles = map[string]string{
	"product designer":          "Product Designer",
	"ux designer":               "Product Designer",
	"ux ui designer":            "Product Designer",
	"ui ux designer":            "Product Designer",
	"ui designer":               "Product Designer",
	"interaction designer":      "Product Designer",
	"experience designer":       "Product Designer",
	"visual designer":           "Product Designer",
	"design lead":               "Product Designer",
	"ux researcher":             "UX Researcher",
	"product manager":           "Product Manager",
	"product management":        "Product Manager",
	"software engineer":         "Software Engineer",
	"software developer":        "Software Engineer",
	"full stack engineer":       "Software Engineer",
	"frontend engineer":         "Software Engineer",
	"front end engineer":        "Software Engineer",
	"backend engineer":          "Software Engineer",
	"back end engineer":         "Software Engineer",
	"data scientist":            "Data Scientist",
	"machine learning engineer": "Machine Learning Engineer",
	"recruiter":                 "Recruiter",
	"technical recruiter":       "Recruiter",
	"talent acquisition":        "Recruiter",
}

// levelLadder maps seniority markers found in titles to a numeric level.
// Unmarked titles default to mid level (2).
var levelLadder = map[string]int{
	"intern":    0,
	"junior":    1,
	"jr":        1,
	"associate": 1,
	"senior":    2,
	"sr":        2,
	"staff":     3,
	"lead":      3,
	"manager":   3,
	"principal": 4,
	"director":  4,
	"head":      4,
	"vp":        5,
}

// defaultLevel is assumed when a title carries no seniority marker.
const defaultLevel = 2

// levelPrefixes are stripped before canonical lookup so "Senior UX Designer"
// resolves the same as "UX Designer".
var levelPrefixes = []string{
	"intern", "junior", "jr", "associate", "senior", "sr", "staff",
	"lead", "principal",
}

// titleKey lowercases a title and replaces punctuation with spaces, yielding
// the lookup key used against canonicalTitles.
func titleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CanonicalTitle maps a raw title to its canonical form. Titles with no
// known mapping pass through unchanged.
func CanonicalTitle(title string) string {
	key := titleKey(title)
	if key == "" {
		return title
	}
	if canon, ok := canonicalTitles[key]; ok {
		return canon
	}
	// Retry with leading seniority markers stripped.
	fields := strings.Fields(key)
	for len(fields) > 1 {
		stripped := false
		for _, prefix := range levelPrefixes {
			if fields[0] == prefix {
				fields = fields[1:]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	if canon, ok := canonicalTitles[strings.Join(fields, " ")]; ok {
		return canon
	}
	return title
}

// TitleLevel extracts the seniority level encoded in a title string.
func TitleLevel(title string) int {
	level := -1
	for _, field := range strings.Fields(titleKey(title)) {
		if lvl, ok := levelLadder[field]; ok && lvl > level {
			level = lvl
		}
	}
	if level < 0 {
		return defaultLevel
	}
	return level
}

// ProfileLevel maps a job profile's level string to the same ladder used for
// candidate titles.
func ProfileLevel(level string) int {
	if lvl, ok := levelLadder[strings.ToLower(strings.TrimSpace(level))]; ok {
		return lvl
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "mid", "ic":
		return 2
	}
	return defaultLevel
}
