package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const experimentsYAML = `
experiments:
  baseline:
    heuristic: never-migrate
    steps: 50
  aggressive:
    heuristic: threshold-based
    delay_threshold: 0.8
    provisioning_threshold: 0.4
`

func writeExperiments(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(experimentsYAML), 0o644))
	return path
}

func TestGetExperiment_NamedPresetLoaded(t *testing.T) {
	path := writeExperiments(t)

	exp := GetExperiment(path, "aggressive")
	require.NotNil(t, exp)
	assert.Equal(t, "threshold-based", exp.Heuristic)
	assert.Equal(t, 0.8, exp.DelayThreshold)
	assert.Equal(t, 0.4, exp.ProvisioningThreshold)
	assert.Zero(t, exp.Steps)
}

func TestGetExperiment_UnknownNameReturnsNil(t *testing.T) {
	path := writeExperiments(t)

	assert.Nil(t, GetExperiment(path, "missing"))
}
