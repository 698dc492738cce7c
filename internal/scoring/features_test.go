package scoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

// stubEmbedder returns the same vector for every text, so cosine similarity
// between any pair is 1.0.
type stubEmbedder struct {
	fellBack bool
	err      error
}

func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.6, 0.8}
	}
	return out, s.fellBack, nil
}

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func date(year int, month time.Month) *time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func designerProfile() *types.JobProfile {
	return &types.JobProfile{
		Titles:         []string{"Product Designer"},
		Level:          "senior",
		Industries:     []string{"saas"},
		MustHaveSkills: []string{"Figma"},
		SkillsTextBlob: "Product design, Figma, prototyping, design systems",
	}
}

func TestExtract_StrongDesignerCandidate(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)

	candStints := []types.Stint{
		{
			Company: "Globex", Title: "Senior UX Designer",
			CanonicalTitle: "Product Designer", Level: 2,
			IndustryTags: []string{"saas"},
			Start:        date(2022, time.January), IsCurrent: true,
		},
		{
			Company: "Acme", Title: "UX Designer",
			CanonicalTitle: "Product Designer", Level: 2,
			IndustryTags: []string{"saas"},
			Start:        date(2018, time.January), End: date(2021, time.December),
		},
	}
	rec := types.CandidateRecord{
		CandidateID: "c1",
		Skills:      []string{"Figma", "Prototyping"},
		ResumeText:  "Design systems work across two SaaS products.",
	}

	subs, ev := e.Extract(context.Background(), candStints, rec, designerProfile())

	// Exact canonical match on the current stint with a zero level gap.
	assert.InDelta(t, 1.0, subs.Title, 1e-9)
	assert.InDelta(t, 1.0, subs.Industry, 1e-9)
	assert.InDelta(t, 1.0, subs.Tenure, 1e-9)
	assert.InDelta(t, 1.0, subs.Recency, 1e-9)
	// Identical vectors plus a must-have hit, clamped at 1.
	assert.InDelta(t, 1.0, subs.Skills, 1e-9)
	assert.InDelta(t, 0.5, subs.Context, 1e-9)
	assert.Empty(t, subs.Degraded)

	assert.Contains(t, ev[types.SignalTitle], "Product Designer")
	assert.Contains(t, ev[types.SignalTenure], "dated stints")
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		{Title: "UX Designer", CanonicalTitle: "Product Designer", Level: 2,
			IndustryTags: []string{"saas"}, Start: date(2020, time.March), End: date(2023, time.June)},
	}
	rec := types.CandidateRecord{CandidateID: "c1", Skills: []string{"Figma"}}

	first, _ := e.Extract(context.Background(), candStints, rec, designerProfile())
	second, _ := e.Extract(context.Background(), candStints, rec, designerProfile())
	assert.Equal(t, first, second)
}

func TestTitleScore_NoHardZeroOnMismatch(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		{Title: "Accountant", CanonicalTitle: "Accountant", Level: 2},
	}

	subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())

	// No role match, but the level component keeps the score above zero.
	assert.Greater(t, subs.Title, 0.0)
	assert.InDelta(t, 0.3, subs.Title, 1e-9)
}

func TestTitleScore_OlderMatchEarnsLessCredit(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		{Title: "Accountant", CanonicalTitle: "Accountant", Level: 2},
		{Title: "UX Designer", CanonicalTitle: "Product Designer", Level: 2},
	}

	subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())

	// Match at position 1: role credit 0.9, level gap 0 keeps level at 1.0.
	assert.InDelta(t, 0.7*0.9+0.3*1.0, subs.Title, 1e-9)
}

func TestTenureScore_UndatedDegradesToNeutral(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		{Title: "UX Designer", CanonicalTitle: "Product Designer", Level: 2},
	}

	subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())

	assert.InDelta(t, 0.5, subs.Tenure, 1e-9)
	assert.True(t, subs.IsDegraded(types.SignalTenure))
}

func TestTenureScore_ShortStintsScoreLow(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		// 6-month stints against 18/12 floors.
		{Title: "UX Designer", Start: date(2025, time.June), End: date(2025, time.December)},
		{Title: "UX Designer", Start: date(2024, time.June), End: date(2024, time.December)},
	}

	subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())

	want := 0.6*(6.0/18.0) + 0.4*(6.0/12.0)
	assert.InDelta(t, want, subs.Tenure, 1e-9)
	assert.False(t, subs.IsDegraded(types.SignalTenure))
}

func TestSkillsScore_EmbedderErrorDegrades(t *testing.T) {
	e := NewExtractor(stubEmbedder{err: fmt.Errorf("provider down")}, testNow, nil)
	rec := types.CandidateRecord{CandidateID: "c1", Skills: []string{"Figma"}}

	subs, _ := e.Extract(context.Background(), nil, rec, designerProfile())

	assert.True(t, subs.IsDegraded(types.SignalSkills))
	// Similarity is lost but the verbatim must-have hit still counts.
	assert.InDelta(t, 0.05, subs.Skills, 1e-9)
}

func TestSkillsScore_FallbackVectorsDegrade(t *testing.T) {
	e := NewExtractor(stubEmbedder{fellBack: true}, testNow, nil)
	rec := types.CandidateRecord{CandidateID: "c1", Skills: []string{"Figma"}}

	subs, _ := e.Extract(context.Background(), nil, rec, designerProfile())

	assert.True(t, subs.IsDegraded(types.SignalSkills))
	assert.Greater(t, subs.Skills, 0.0)
}

func TestSkillsScore_MissingMustHavesPenalized(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	rec := types.CandidateRecord{CandidateID: "c1", Skills: []string{"Photoshop"}}

	subs, ev := e.Extract(context.Background(), nil, rec, designerProfile())

	// Cosine 1.0 minus the miss penalty.
	assert.InDelta(t, 0.8, subs.Skills, 1e-9)
	assert.Contains(t, ev[types.SignalSkills], "must-have")
}

func TestRecencyScore_DecaysWithAge(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)

	tests := []struct {
		name string
		end  *time.Time
		want float64
	}{
		{"recent end holds full score", date(2026, time.February), 1.0}, // 6 months ago
		{"midway through horizon", date(2023, time.August), 1.0 - 24.0/48.0},
		{"beyond horizon", date(2020, time.January), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candStints := []types.Stint{
				{Title: "UX Designer", CanonicalTitle: "Product Designer", Level: 2,
					Start: date(2015, time.January), End: tt.end},
			}
			subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())
			assert.InDelta(t, tt.want, subs.Recency, 1e-9)
		})
	}
}

func TestRecencyScore_NoMatchingStint(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		{Title: "Accountant", CanonicalTitle: "Accountant", Level: 2,
			Start: date(2024, time.January), IsCurrent: true},
	}

	subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())
	assert.Zero(t, subs.Recency)
}

func TestIndustryScore_DurationWeighted(t *testing.T) {
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	candStints := []types.Stint{
		// 24 months in target industry, then 24 months outside it.
		{Title: "UX Designer", IndustryTags: []string{"saas"},
			Start: date(2024, time.July), End: date(2026, time.July)},
		{Title: "UX Designer", IndustryTags: []string{"agency"},
			Start: date(2022, time.July), End: date(2024, time.July)},
	}

	subs, _ := e.Extract(context.Background(), candStints, types.CandidateRecord{}, designerProfile())

	// Equal durations, but positional decay favors the matching recent stint.
	want := 24.0 / (24.0 + 24.0*0.85)
	assert.InDelta(t, want, subs.Industry, 1e-9)
}

func TestBonusScore_CappedSignals(t *testing.T) {
	profile := designerProfile()
	profile.BonusSignals = []types.BonusSignal{
		{Name: "nngroup cert", Keywords: []string{"NN/g"}, Weight: 0.6},
		{Name: "faang", Keywords: []string{"google", "meta"}, Weight: 0.7},
	}
	e := NewExtractor(stubEmbedder{}, testNow, nil)
	rec := types.CandidateRecord{
		CandidateID: "c1",
		ResumeText:  "NN/g certified, previously at Google.",
	}

	subs, ev := e.Extract(context.Background(), nil, rec, profile)

	// 0.6 + 0.7 capped at 1.0.
	assert.InDelta(t, 1.0, subs.Bonus, 1e-9)
	assert.Contains(t, ev[types.SignalBonus], "nngroup cert")
}
