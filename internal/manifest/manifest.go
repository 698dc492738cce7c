// Package manifest loads candidate records from CSV or JSONL manifests.
package manifest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/jd-fit-evaluator/internal/schemas"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

// candidateIDKeys are the accepted header spellings for the candidate
// identifier column.
var candidateIDKeys = []string{"candidate_id", "candidateid", "id"}

// Load reads a manifest file, dispatching on extension: .csv for flat rows,
// .jsonl (or .ndjson) for one JSON candidate record per line. A manifest
// that cannot be read or parsed at all is a run-level error; field-level
// problems inside a row degrade to empty values instead.
func Load(path string) ([]types.CandidateRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".jsonl", ".ndjson":
		return loadJSONL(path)
	}
	return nil, fmt.Errorf("unsupported manifest format: %s", path)
}

func loadCSV(path string) ([]types.CandidateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol := -1
	for _, key := range candidateIDKeys {
		if col, ok := header[key]; ok {
			idCol = col
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("manifest %s missing a candidate_id column", path)
	}

	field := func(row []string, name string) string {
		col, ok := header[name]
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	records := make([]types.CandidateRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		id := ""
		if idCol < len(row) {
			id = strings.TrimSpace(row[idCol])
		}
		rec := types.CandidateRecord{
			CandidateID: id,
			Name:        field(row, "name"),
			Email:       field(row, "email"),
			ResumeText:  field(row, "resume_text"),
			Notes:       field(row, "notes"),
		}
		if skills := field(row, "skills"); skills != "" {
			for _, s := range strings.Split(skills, ";") {
				if s = strings.TrimSpace(s); s != "" {
					rec.Skills = append(rec.Skills, s)
				}
			}
		}
		// A flat CSV row can carry at most one structured stint.
		if title, company := field(row, "title"), field(row, "company"); title != "" || company != "" {
			stint := types.RawStint{
				Title:   title,
				Company: company,
				Start:   field(row, "start"),
				End:     field(row, "end"),
			}
			if tags := field(row, "industry_tags"); tags != "" {
				for _, t := range strings.Split(tags, ";") {
					if t = strings.TrimSpace(t); t != "" {
						stint.IndustryTags = append(stint.IndustryTags, t)
					}
				}
			}
			rec.Stints = []types.RawStint{stint}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s contains no candidate rows", path)
	}
	return records, nil
}

func loadJSONL(path string) ([]types.CandidateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	var records []types.CandidateRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := schemas.ValidateCandidateRecord(line); err != nil {
			return nil, fmt.Errorf("manifest %s line %d: %w", path, lineNo, err)
		}
		var rec types.CandidateRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("manifest %s line %d: %w", path, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s contains no candidate rows", path)
	}
	return records, nil
}
