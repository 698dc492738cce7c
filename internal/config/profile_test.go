package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfile_JSON(t *testing.T) {
	path := writeProfile(t, "profile.json", `{
		"name": "Senior Product Designer",
		"titles": ["Product Designer", "UX Designer"],
		"level": "senior",
		"industries": ["saas"],
		"must_have_skills": ["Figma"],
		"min_avg_tenure_months": 24,
		"skills_text_blob": "figma prototyping design systems"
	}`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Product Designer", profile.Name)
	assert.Equal(t, []string{"Product Designer", "UX Designer"}, profile.Titles)
	assert.Equal(t, 24, profile.MinAvgTenureOrDefault())
	assert.Equal(t, 12, profile.MinLastTenureOrDefault())
}

func TestLoadProfile_YAML(t *testing.T) {
	path := writeProfile(t, "profile.yaml", `
name: Senior Product Designer
titles:
  - Product Designer
level: senior
industries:
  - saas
weights:
  title: 0.3
  skills: 0.3
  tenure: 0.2
  industry: 0.2
`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product Designer"}, profile.Titles)
	require.NotNil(t, profile.Weights)
	assert.InDelta(t, 0.3, profile.Weights.Title, 1e-9)
	assert.InDelta(t, 1.0, profile.Weights.Sum(), 1e-9)
}

func TestLoadProfile_MissingTitles(t *testing.T) {
	path := writeProfile(t, "profile.json", `{"name": "No titles"}`)
	_, err := LoadProfile(path)
	require.Error(t, err)
}

func TestLoadProfile_InvalidJSON(t *testing.T) {
	path := writeProfile(t, "profile.json", `{not json`)
	_, err := LoadProfile(path)
	require.Error(t, err)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile("/nonexistent/profile.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile file")
}

func TestLoadTaxonomy(t *testing.T) {
	path := writeProfile(t, "taxonomy.json", `{
		"companies": {"Epic Systems": ["healthcare"]},
		"keywords": {"fintech": ["payments"]}
	}`)

	tax, err := LoadTaxonomy(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"healthcare"}, tax.Companies["Epic Systems"])
	assert.Equal(t, []string{"payments"}, tax.Keywords["fintech"])
}

func TestLoadTaxonomy_EmptyPath(t *testing.T) {
	tax, err := LoadTaxonomy("")
	require.NoError(t, err)
	assert.Empty(t, tax.Companies)
	assert.Empty(t, tax.Keywords)
}
