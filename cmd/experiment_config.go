package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Define struct for YAML
type ExperimentsConfig struct {
	Experiments map[string]Experiment `yaml:"experiments"`
}

type Experiment struct {
	Heuristic             string  `yaml:"heuristic"`
	DelayThreshold        float64 `yaml:"delay_threshold"`
	ProvisioningThreshold float64 `yaml:"provisioning_threshold"`
	Steps                 int     `yaml:"steps"`
}

// GetExperiment loads the named preset from an experiments YAML file and
// returns nil when the name is absent.
func GetExperiment(experimentsFilePath string, experimentName string) *Experiment {
	// Read YAML file
	data, err := os.ReadFile(experimentsFilePath)
	if err != nil {
		panic(err)
	}

	// Parse YAML
	var cfg ExperimentsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(err)
	}

	if experiment, experimentExists := cfg.Experiments[experimentName]; experimentExists {
		logrus.Infof("Using experiment preset %v\n", experimentName)
		return &experiment
	}
	return nil
}
