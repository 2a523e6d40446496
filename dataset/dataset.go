// Package dataset loads evaluation test cases from YAML or JSON files.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datar-psa/evalscore/api"
)

var (
	// ErrEmptyDataset is returned when a dataset contains no cases.
	ErrEmptyDataset = errors.New("dataset contains no cases")
	// ErrInvalidCase is returned for cases that fail validation.
	ErrInvalidCase = errors.New("invalid test case")
)

// Case is one named test case. MinimumScore overrides the configured threshold when set.
type Case struct {
	Name         string   `yaml:"name" json:"name"`
	MinimumScore *float64 `yaml:"minimum_score,omitempty" json:"minimum_score,omitempty"`

	api.TestCase `yaml:",inline"`
}

// Dataset is a list of test cases.
type Dataset struct {
	Cases []Case `yaml:"cases" json:"cases"`
}

// Format is a dataset file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFromPath picks the format from the file extension. Anything other than .json is YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads the dataset file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a dataset. Unnamed cases are named by their position.
func Parse(r io.Reader, format Format) (*Dataset, error) {
	var ds Dataset
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
	}

	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) validate() error {
	if len(d.Cases) == 0 {
		return ErrEmptyDataset
	}

	seen := make(map[string]bool, len(d.Cases))
	for i := range d.Cases {
		c := &d.Cases[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("case-%d", i+1)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidCase, c.Name)
		}
		seen[c.Name] = true

		if c.Output == "" {
			return fmt.Errorf("%w: %s: output is required", ErrInvalidCase, c.Name)
		}
		if c.MinimumScore != nil && (*c.MinimumScore < 0 || *c.MinimumScore > 1) {
			return fmt.Errorf("%w: %s: minimum_score must be between 0 and 1, got %v", ErrInvalidCase, c.Name, *c.MinimumScore)
		}
	}
	return nil
}
