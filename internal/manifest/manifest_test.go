package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeTemp(t, "manifest.csv", `candidate_id,name,email,title,company,start,end,skills,resume_text
c1,Ada,ada@example.com,Senior UX Designer,Globex,2020-07,Present,Figma;Prototyping,Led design for two products
c2,Bob,bob@example.com,,,,,,"Product Manager resume text"
`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "c1", records[0].CandidateID)
	assert.Equal(t, "Ada", records[0].Name)
	assert.Equal(t, []string{"Figma", "Prototyping"}, records[0].Skills)
	require.Len(t, records[0].Stints, 1)
	assert.Equal(t, "Senior UX Designer", records[0].Stints[0].Title)
	assert.Equal(t, "Present", records[0].Stints[0].End)

	// No structured stint columns filled: no stint, resume text preserved.
	assert.Empty(t, records[1].Stints)
	assert.Equal(t, "Product Manager resume text", records[1].ResumeText)
}

func TestLoad_CSVIDAliases(t *testing.T) {
	for _, header := range []string{"candidate_id", "candidateId", "ID"} {
		path := writeTemp(t, "m.csv", header+",name\nc9,Ada\n")
		records, err := Load(path)
		require.NoError(t, err, "header %q", header)
		require.Len(t, records, 1)
		assert.Equal(t, "c9", records[0].CandidateID)
	}
}

func TestLoad_CSVMissingIDColumn(t *testing.T) {
	path := writeTemp(t, "m.csv", "name,email\nAda,ada@example.com\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate_id")
}

func TestLoad_CSVEmpty(t *testing.T) {
	path := writeTemp(t, "m.csv", "candidate_id,name\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidate rows")
}

func TestLoad_JSONL(t *testing.T) {
	path := writeTemp(t, "m.jsonl", `{"candidate_id":"c1","skills":["Figma"],"stints":[{"company":"Acme","title":"UX Designer","start":"2019-02","end":"2021-06"}]}

{"candidate_id":"c2","resume_text":"Recruiter turned sourcer"}
`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c1", records[0].CandidateID)
	require.Len(t, records[0].Stints, 1)
	assert.Equal(t, "Acme", records[0].Stints[0].Company)
	assert.Equal(t, "c2", records[1].CandidateID)
}

func TestLoad_JSONLSchemaViolation(t *testing.T) {
	path := writeTemp(t, "m.jsonl", `{"name":"no id"}`+"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoad_JSONLMalformed(t *testing.T) {
	path := writeTemp(t, "m.jsonl", "{not json}\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "m.txt", "whatever")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/manifest.csv")
	require.Error(t, err)
}
