package scoring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jd-fit-evaluator/internal/stints"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

const (
	// Title score blends role match and level closeness.
	titleRoleWeight  = 0.7
	titleLevelWeight = 0.3
	// Title matches found in older stints earn slightly less credit.
	titleRecencyStep  = 0.1
	titleStintsWindow = 3

	// Tenure blends average and last-stint duration.
	tenureAvgWeight  = 0.6
	tenureLastWeight = 0.4

	// Industry weighting decays per stint position, most recent first.
	industryPositionDecay = 0.85
	// Undated stints count with a nominal one-month weight.
	industryNominalMonths = 1

	// Skills bonuses/penalties for verbatim must-have hits and misses.
	mustHaveHitBonus    = 0.05
	mustHaveBonusCap    = 0.15
	mustHaveMissPenalty = 0.2

	// Recency holds near the maximum inside this window.
	recencyFullMonths = 12
)

// Embedder is the slice of the embedding cache the extractor needs.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, bool, error)
}

// Evidence carries the concrete facts behind each sub-score, keyed by signal
// name, for rationale rendering.
type Evidence map[string]string

// Extractor computes the per-candidate sub-score vector. It is deterministic
// given identical cache state: the reference time is fixed at construction.
type Extractor struct {
	embedder Embedder
	now      time.Time
	log      *zap.Logger
}

// NewExtractor creates an extractor that measures durations and recency
// against now.
func NewExtractor(embedder Embedder, now time.Time, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{embedder: embedder, now: now, log: log}
}

// Extract computes all sub-scores for one candidate. It never fails: missing
// inputs produce the lowest-information valid score, and embedding trouble
// degrades the skills signal instead of aborting.
func (e *Extractor) Extract(ctx context.Context, candStints []types.Stint, rec types.CandidateRecord, profile *types.JobProfile) (types.SubScores, Evidence) {
	subs := types.SubScores{}
	ev := Evidence{}

	subs.Title = e.titleScore(candStints, profile, ev)
	subs.Industry = e.industryScore(candStints, profile, ev)

	var tenureDegraded bool
	subs.Tenure, tenureDegraded = e.tenureScore(candStints, profile, ev)
	if tenureDegraded {
		subs.Degraded = append(subs.Degraded, types.SignalTenure)
	}

	var skillsDegraded bool
	subs.Skills, skillsDegraded = e.skillsScore(ctx, rec, profile, ev)
	if skillsDegraded {
		subs.Degraded = append(subs.Degraded, types.SignalSkills)
	}

	subs.Context = ContextScore(rec.ResumeText + "\n" + rec.Notes)
	subs.Recency = e.recencyScore(candStints, profile, ev)
	subs.Bonus = e.bonusScore(rec, profile, ev)

	return subs, ev
}

// titleScore rewards canonical title matches against the profile's ordered
// title list, weighted toward the most recent stints, with a soft penalty
// for level distance. A single mismatch never produces a hard zero as long
// as any title text exists.
func (e *Extractor) titleScore(candStints []types.Stint, profile *types.JobProfile, ev Evidence) float64 {
	if len(candStints) == 0 {
		return 0
	}

	targets := make([]string, 0, len(profile.Titles))
	for _, t := range profile.Titles {
		targets = append(targets, stints.CanonicalTitle(t))
	}

	roleMatch := 0.0
	window := min(titleStintsWindow, len(candStints))
	for i := 0; i < window; i++ {
		s := candStints[i]
		if s.CanonicalTitle == "" {
			continue
		}
		for _, target := range targets {
			if s.CanonicalTitle == target {
				credit := 1.0 - titleRecencyStep*float64(i)
				if credit > roleMatch {
					roleMatch = credit
					ev[types.SignalTitle] = fmt.Sprintf("title %q maps to target %q", s.Title, target)
				}
			}
		}
	}

	targetLevel := stints.ProfileLevel(profile.Level)
	gap := candStints[0].Level - targetLevel
	if gap < 0 {
		gap = -gap
	}
	levelScore := 0.3
	switch {
	case gap <= 1:
		levelScore = 1.0
	case gap == 2:
		levelScore = 0.6
	}

	if _, ok := ev[types.SignalTitle]; !ok && candStints[0].Title != "" {
		ev[types.SignalTitle] = fmt.Sprintf("most recent title %q does not map to any target title", candStints[0].Title)
	}
	return clamp01(titleRoleWeight*roleMatch + titleLevelWeight*levelScore)
}

// industryScore is the duration-weighted fraction of stints whose industry
// tags intersect the profile's, weighted toward more recent stints.
func (e *Extractor) industryScore(candStints []types.Stint, profile *types.JobProfile, ev Evidence) float64 {
	if len(candStints) == 0 || len(profile.Industries) == 0 {
		return 0
	}

	var matched, total float64
	decay := 1.0
	for _, s := range candStints {
		months, known := s.Months(e.now)
		if !known || months <= 0 {
			months = industryNominalMonths
		}
		weight := float64(months) * decay
		total += weight
		if s.MatchesIndustry(profile.Industries) {
			matched += weight
			if _, ok := ev[types.SignalIndustry]; !ok {
				ev[types.SignalIndustry] = fmt.Sprintf("stint at %q tagged %s", s.Company, strings.Join(s.IndustryTags, ", "))
			}
		}
		decay *= industryPositionDecay
	}
	if total == 0 {
		return 0
	}
	return clamp01(matched / total)
}

// tenureScore compares average and most-recent stint durations against the
// profile's floors. Undated stints are excluded; when nothing is dated the
// score degrades to neutral instead of punishing missing data.
func (e *Extractor) tenureScore(candStints []types.Stint, profile *types.JobProfile, ev Evidence) (float64, bool) {
	var months []int
	lastMonths := -1
	for _, s := range candStints {
		m, known := s.Months(e.now)
		if !known {
			continue
		}
		months = append(months, m)
		if lastMonths < 0 {
			lastMonths = m
		}
	}
	if len(months) == 0 {
		return 0.5, true
	}

	sum := 0
	for _, m := range months {
		sum += m
	}
	avg := float64(sum) / float64(len(months))

	avgScore := math1(avg / float64(profile.MinAvgTenureOrDefault()))
	lastScore := math1(float64(lastMonths) / float64(profile.MinLastTenureOrDefault()))

	ev[types.SignalTenure] = fmt.Sprintf("avg %.0f mo over %d dated stints, last %d mo", avg, len(months), lastMonths)
	return clamp01(tenureAvgWeight*avgScore + tenureLastWeight*lastScore), false
}

// skillsScore combines embedding similarity between the candidate's skills
// text and the profile's skills blob with verbatim must-have checks.
func (e *Extractor) skillsScore(ctx context.Context, rec types.CandidateRecord, profile *types.JobProfile, ev Evidence) (float64, bool) {
	candBlob := strings.TrimSpace(strings.Join(rec.Skills, ", ") + "\n" + rec.ResumeText)
	jdBlob := strings.TrimSpace(profile.SkillsTextBlob)
	if candBlob == "" || jdBlob == "" {
		return 0, true
	}

	degraded := false
	sim := 0.0
	vectors, fellBack, err := e.embedder.Embed(ctx, []string{candBlob, jdBlob})
	switch {
	case err != nil:
		e.log.Warn("skills embedding unavailable", zap.Error(err), zap.String("candidate", rec.CandidateID))
		degraded = true
	case fellBack:
		degraded = true
		fallthrough
	default:
		sim = clamp01(Cosine(vectors[0], vectors[1]))
	}

	score := sim
	lowerCand := strings.ToLower(candBlob)
	if len(profile.MustHaveSkills) > 0 {
		bonus := 0.0
		hits := 0
		var firstHit string
		for _, skill := range profile.MustHaveSkills {
			if skill != "" && strings.Contains(lowerCand, strings.ToLower(skill)) {
				hits++
				if firstHit == "" {
					firstHit = skill
				}
				bonus += mustHaveHitBonus
			}
		}
		if bonus > mustHaveBonusCap {
			bonus = mustHaveBonusCap
		}
		if hits == 0 {
			score -= mustHaveMissPenalty
			ev[types.SignalSkills] = fmt.Sprintf("none of %d must-have skills found verbatim", len(profile.MustHaveSkills))
		} else {
			score += bonus
			ev[types.SignalSkills] = fmt.Sprintf("%d/%d must-have skills present (e.g. %q)", hits, len(profile.MustHaveSkills), firstHit)
		}
	} else {
		ev[types.SignalSkills] = fmt.Sprintf("semantic similarity %.2f", sim)
	}
	return clamp01(score), degraded
}

// recencyScore decays with time since the most recent stint matching the
// target industry or a target title.
func (e *Extractor) recencyScore(candStints []types.Stint, profile *types.JobProfile, ev Evidence) float64 {
	targets := make([]string, 0, len(profile.Titles))
	for _, t := range profile.Titles {
		targets = append(targets, stints.CanonicalTitle(t))
	}

	for _, s := range candStints {
		matchesTitle := false
		for _, target := range targets {
			if s.CanonicalTitle != "" && s.CanonicalTitle == target {
				matchesTitle = true
				break
			}
		}
		if !matchesTitle && !s.MatchesIndustry(profile.Industries) {
			continue
		}

		if s.IsCurrent || s.End == nil && s.Start != nil {
			ev[types.SignalRecency] = fmt.Sprintf("current stint %q matches the target role", s.Title)
			return 1.0
		}
		if s.End == nil {
			// Matching stint but no usable dates at all.
			return 0.5
		}
		monthsAgo := (e.now.Year()-s.End.Year())*12 + int(e.now.Month()) - int(s.End.Month())
		horizon := profile.RecencyHorizonOrDefault()
		ev[types.SignalRecency] = fmt.Sprintf("last matching stint ended %d months ago", monthsAgo)
		if monthsAgo <= recencyFullMonths {
			return 1.0
		}
		if monthsAgo >= horizon {
			return 0
		}
		return clamp01(1.0 - float64(monthsAgo-recencyFullMonths)/float64(horizon-recencyFullMonths))
	}
	return 0
}

// bonusScore adds configured positive signals found in the candidate's text,
// capped at 1.0.
func (e *Extractor) bonusScore(rec types.CandidateRecord, profile *types.JobProfile, ev Evidence) float64 {
	if len(profile.BonusSignals) == 0 {
		return 0
	}
	blob := strings.ToLower(rec.ResumeText + "\n" + strings.Join(rec.Skills, "\n") + "\n" + rec.Notes)
	total := 0.0
	var names []string
	for _, sig := range profile.BonusSignals {
		for _, kw := range sig.Keywords {
			if kw != "" && strings.Contains(blob, strings.ToLower(kw)) {
				total += sig.Weight
				names = append(names, sig.Name)
				break
			}
		}
	}
	if len(names) > 0 {
		ev[types.SignalBonus] = "signals: " + strings.Join(names, ", ")
	}
	return clamp01(total)
}

// math1 caps a ratio at 1.0.
func math1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
