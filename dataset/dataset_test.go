package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datar-psa/evalscore/api"
)

const yamlDataset = `
cases:
  - name: capital
    query: What is the capital of France?
    output: Paris
    expected_output: Paris
    context: Paris is the capital of France.
    minimum_score: 0.7
  - output: Bananas are yellow.
    query: What colour is a banana?
`

const jsonDataset = `{
  "cases": [
    {"name": "grounded", "output": "Paris", "context": "Paris is the capital of France."},
    {"name": "reference", "output": "4", "expected_output": "4", "minimum_score": 0.9}
  ]
}`

func TestParse_YAML(t *testing.T) {
	ds, err := Parse(strings.NewReader(yamlDataset), FormatYAML)
	require.NoError(t, err)
	require.Len(t, ds.Cases, 2)

	first := ds.Cases[0]
	assert.Equal(t, "capital", first.Name)
	assert.Equal(t, api.TestCase{
		Input:    "What is the capital of France?",
		Output:   "Paris",
		Expected: "Paris",
		Context:  "Paris is the capital of France.",
	}, first.TestCase)
	require.NotNil(t, first.MinimumScore)
	assert.Equal(t, 0.7, *first.MinimumScore)

	second := ds.Cases[1]
	assert.Equal(t, "case-2", second.Name)
	assert.Nil(t, second.MinimumScore)
	assert.Equal(t, "What colour is a banana?", second.Input)
	assert.Empty(t, second.Expected)
	assert.Empty(t, second.Context)
}

func TestParse_JSON(t *testing.T) {
	ds, err := Parse(strings.NewReader(jsonDataset), FormatJSON)
	require.NoError(t, err)
	require.Len(t, ds.Cases, 2)

	assert.Equal(t, "grounded", ds.Cases[0].Name)
	assert.Equal(t, "Paris is the capital of France.", ds.Cases[0].Context)
	assert.Empty(t, ds.Cases[0].Input)
	require.NotNil(t, ds.Cases[1].MinimumScore)
	assert.Equal(t, 0.9, *ds.Cases[1].MinimumScore)
	assert.Equal(t, "4", ds.Cases[1].Expected)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		format  Format
		wantErr error
		wantMsg string
	}{
		{name: "empty yaml", doc: "", format: FormatYAML, wantErr: ErrEmptyDataset},
		{name: "no cases", doc: "cases: []", format: FormatYAML, wantErr: ErrEmptyDataset},
		{
			name:    "missing output",
			doc:     "cases:\n  - name: a\n    query: q\n",
			format:  FormatYAML,
			wantErr: ErrInvalidCase,
			wantMsg: "output is required",
		},
		{
			name:    "duplicate names",
			doc:     "cases:\n  - {name: a, output: x}\n  - {name: a, output: y}\n",
			format:  FormatYAML,
			wantErr: ErrInvalidCase,
			wantMsg: `duplicate name "a"`,
		},
		{
			name:    "minimum score out of range",
			doc:     `{"cases": [{"output": "x", "minimum_score": 1.5}]}`,
			format:  FormatJSON,
			wantErr: ErrInvalidCase,
			wantMsg: "minimum_score",
		},
		{
			name:    "unknown yaml field",
			doc:     "cases:\n  - {output: x, expected: y}\n",
			format:  FormatYAML,
			wantMsg: "field expected not found",
		},
		{
			name:    "unknown json field",
			doc:     `{"cases": [{"output": "x", "answer": "y"}]}`,
			format:  FormatJSON,
			wantMsg: "unknown field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse(strings.NewReader(tt.doc), tt.format)
			require.Error(t, err)
			assert.Nil(t, ds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "cases.yaml")
	jsonPath := filepath.Join(dir, "cases.JSON")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDataset), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonDataset), 0o600))

	ds, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Len(t, ds.Cases, 2)

	ds, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "grounded", ds.Cases[0].Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
