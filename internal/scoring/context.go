package scoring

import "strings"

// Context disambiguation: phrases like "recruiting clients" (doing the work)
// and "was recruited by" (being a job applicant) share keywords. The score
// checks the lexical window around each ambiguous keyword occurrence and
// tallies which reading the surrounding words support.

const contextWindow = 60 // characters inspected on each side of a keyword hit

var ambiguousKeywords = []string{"recruit"}

var hiringSideCues = []string{
	"hiring", "sourcing", "interview", "offers", "requisition",
	"pipeline", "clients", "candidates", "placements", "screening",
}

var recruitedSideCues = []string{
	"was recruited", "recruited by", "recruited to join", "being recruited",
	"got recruited", "headhunted",
}

const (
	contextNeutral = 0.5
	contextAligned = 0.9
	contextOpposed = 0.25
)

// ContextScore scores role-context alignment from free text. It defaults to
// neutral when the text carries no ambiguous keyword or the evidence is
// balanced.
func ContextScore(text string) float64 {
	lower := strings.ToLower(text)
	if lower == "" {
		return contextNeutral
	}

	var hiring, recruited int
	for _, kw := range ambiguousKeywords {
		for idx := strings.Index(lower, kw); idx >= 0; {
			window := windowAround(lower, idx, len(kw))
			for _, cue := range recruitedSideCues {
				if strings.Contains(window, cue) {
					recruited++
				}
			}
			for _, cue := range hiringSideCues {
				if strings.Contains(window, cue) {
					hiring++
				}
			}
			next := strings.Index(lower[idx+len(kw):], kw)
			if next < 0 {
				break
			}
			idx += len(kw) + next
		}
	}

	switch {
	case hiring == 0 && recruited == 0:
		return contextNeutral
	case hiring > recruited:
		return contextAligned
	case recruited > hiring:
		return contextOpposed
	}
	return contextNeutral
}

func windowAround(s string, idx, width int) string {
	lo := idx - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := idx + width + contextWindow
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}
