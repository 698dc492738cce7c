package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/jd-fit-evaluator/internal/schemas"
	"github.com/jonathan/jd-fit-evaluator/internal/stints"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
)

// LoadProfile reads a job profile from a JSON or YAML file. JSON documents
// are checked against the embedded schema before decoding; YAML documents
// rely on struct validation alone. Either way the profile is validated
// before it is returned, so callers get a scorable profile or an error.
func LoadProfile(path string) (*types.JobProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var profile types.JobProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
		}
	default:
		if err := schemas.ValidateJobProfile(string(data)); err != nil {
			return nil, fmt.Errorf("profile %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// LoadTaxonomy reads an industry taxonomy JSON file. An empty path returns
// an empty taxonomy, which disables tag enrichment but not scoring.
func LoadTaxonomy(path string) (stints.Taxonomy, error) {
	if path == "" {
		return stints.Taxonomy{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return stints.Taxonomy{}, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	var tax stints.Taxonomy
	if err := json.Unmarshal(data, &tax); err != nil {
		return stints.Taxonomy{}, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}
	return tax, nil
}
