package types

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlProfile = `
training-file: train.net
test-file: test.net
exclude: ""
output: [Recall-Precision, fmax]
jobs: 4
predictors:
  - name: Katz
    displayname: Katz small
    parameters:
      beta: 0.01
      max_power: 3
  - name: CommonNeighbours
`

func TestProfileDefaults(t *testing.T) {
	v := NewViper()
	v.SetDefault("training-file", "network.net")
	p, err := NewProfileFromFile(v, afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, "network.net", p.TrainingFile)
	assert.Equal(t, "old", p.Exclude)
	assert.Equal(t, 1, p.MinDegree)
	assert.Equal(t, []string{"recall-precision"}, p.Output)
	assert.True(t, p.Interpolation)
	assert.Equal(t, 1, p.Steps)
	assert.Equal(t, 1, p.Jobs)
	assert.Equal(t, 10, p.PrecisionAt)
	assert.Equal(t, 1.0, p.FMaxBeta)
	assert.Empty(t, p.Predictors)
	assert.NoError(t, p.Validate())
}

func TestProfileFromYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "profile.yaml", []byte(yamlProfile), 0644))

	v := NewViper()
	// The profile wins over values given on the command line.
	v.SetDefault("training-file", "other.net")
	v.SetDefault("min_degree", 2)
	p, err := NewProfileFromFile(v, fs, "profile.yaml")
	require.NoError(t, err)

	assert.Equal(t, "train.net", p.TrainingFile)
	assert.Equal(t, "test.net", p.TestFile)
	assert.Equal(t, "", p.Exclude)
	assert.Equal(t, 2, p.MinDegree)
	assert.Equal(t, []string{"recall-precision", "fmax"}, p.Output)
	assert.Equal(t, 4, p.Jobs)
	require.Len(t, p.Predictors, 2)
	assert.Equal(t, "Katz", p.Predictors[0].Name)
	assert.Equal(t, "Katz small", p.Predictors[0].DisplayName)
	assert.Equal(t, 0.01, p.Predictors[0].Parameters["beta"])
	assert.Equal(t, 3, p.Predictors[0].Parameters["max_power"])
	assert.Equal(t, "CommonNeighbours", p.Predictors[1].Name)
	assert.Empty(t, p.Predictors[1].Parameters)
	assert.NoError(t, p.Validate())
}

func TestProfileFromJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `{"training-file": "a.edgelist", "predictors": [{"name": "Jaccard", "parameters": {"weight": "w"}}], "steps": 5}`
	require.NoError(t, afero.WriteFile(fs, "profile.json", []byte(content), 0644))
	p, err := NewProfileFromFile(NewViper(), fs, "profile.json")
	require.NoError(t, err)
	assert.Equal(t, "a.edgelist", p.TrainingFile)
	assert.Equal(t, 5, p.Steps)
	require.Len(t, p.Predictors, 1)
	assert.Equal(t, "w", p.Predictors[0].Parameters["weight"])
}

func TestProfileEnvironment(t *testing.T) {
	t.Setenv("LINKPRED_JOBS", "3")
	t.Setenv("LINKPRED_TEST_FILE", "test.net")
	p, err := NewProfileFromFile(NewViper(), afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Jobs)
	assert.Equal(t, "test.net", p.TestFile)
}

func TestProfileErrors(t *testing.T) {
	_, err := NewProfileFromFile(NewViper(), afero.NewMemMapFs(), "missing.yaml")
	assert.Error(t, err)

	p := Profile{Output: []string{"recall-precision", "pie-chart"}, Steps: 1, Jobs: 0, PrecisionAt: 1, FMaxBeta: 1}
	err = p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TrainingFile")
	assert.Contains(t, err.Error(), "Output[1]")
	assert.Contains(t, err.Error(), "Jobs")
	assert.NotContains(t, err.Error(), "Output[0]")

	p = Profile{TrainingFile: "a.net", Steps: 1, Jobs: 1, PrecisionAt: 1, FMaxBeta: 1,
		Predictors: []PredictorProfile{{Name: ""}}}
	err = p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Predictors[0].Name")
}

func TestProfileYAML(t *testing.T) {
	p := Profile{
		TrainingFile: "a.net",
		Exclude:      "old",
		Output:       []string{"roc"},
		Steps:        1,
		Predictors:   []PredictorProfile{{Name: "Katz", Parameters: map[string]any{"beta": 0.1}}},
	}
	out, err := p.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "training-file: a.net\n")
	assert.Contains(t, string(out), "- name: Katz\n")
	assert.Contains(t, string(out), "beta: 0.1\n")
	assert.NotContains(t, string(out), "test-file")
}
