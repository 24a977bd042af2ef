package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/edgesim/edgesim/sim"
)

var (
	// CLI flags for the simulation run
	seed                  int64   // Seed governing reproducible tie-break streams
	datasetPath           string  // Path to the dataset JSON produced by the generator
	heuristicName         string  // Migration heuristic selector
	steps                 int     // Step budget (0 = path-completion mode / dataset default)
	delayThreshold        float64 // Normalized delay threshold in [0,1]
	provisioningThreshold float64 // Normalized provisioning-time threshold in [0,1]
	logLevel              string  // Log verbosity level
	outputPath            string  // Where to write the JSON run report (empty = stdout summary only)

	// CLI flags for experiment presets
	experimentsFile string // YAML file with named experiment presets
	experimentName  string // Preset to apply from the experiments file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "edgesim",
	Short: "Discrete-time simulator for service migration in edge infrastructures",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the migration simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if datasetPath == "" {
			logrus.Fatalf("Dataset not provided. Exiting simulation.")
		}

		// Experiment presets override the individual flags
		if experimentsFile != "" {
			exp := GetExperiment(experimentsFile, experimentName)
			if exp == nil {
				logrus.Fatalf("Experiment %q not found in %s", experimentName, experimentsFile)
			}
			heuristicName = exp.Heuristic
			delayThreshold = exp.DelayThreshold
			provisioningThreshold = exp.ProvisioningThreshold
			if exp.Steps > 0 {
				steps = exp.Steps
			}
		}

		logrus.Infof("Starting simulation: dataset=%s heuristic=%s seed=%d delayThreshold=%g provisioningThreshold=%g",
			datasetPath, heuristicName, seed, delayThreshold, provisioningThreshold)

		startTime := time.Now()

		world, err := sim.LoadDataset(datasetPath)
		if err != nil {
			logrus.Fatalf("unable to load dataset: %v", err)
		}

		s, err := sim.NewSimulator(world,
			sim.RunConfig{Seed: seed, Heuristic: heuristicName, Steps: steps},
			sim.ThresholdConfig{Delay: delayThreshold, Provisioning: provisioningThreshold},
		)
		if err != nil {
			logrus.Fatalf("unable to configure simulation: %v", err)
		}

		// Ctrl-C terminates between steps; the summary is still flushed.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := s.Run(ctx); err != nil && ctx.Err() == nil {
			logrus.Fatalf("simulation aborted: %v", err)
		}
		s.Metrics.Print()

		if outputPath != "" {
			writeReport(s, outputPath)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

func writeReport(s *sim.Simulator, path string) {
	data, err := json.MarshalIndent(s.Report(), "", "  ")
	if err != nil {
		logrus.Fatalf("unable to serialize report: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logrus.Fatalf("unable to write report: %v", err)
	}
	logrus.Infof("Report written to %s", path)
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 1, "seed for reproducible tie-break streams")
	runCmd.Flags().StringVar(&datasetPath, "dataset", "", "path to the dataset JSON file")
	runCmd.Flags().StringVar(&heuristicName, "heuristic", sim.HeuristicNeverMigrate,
		"migration heuristic (never-migrate, follow-user, threshold-based)")
	runCmd.Flags().IntVar(&steps, "steps", 0, "step budget (0 = dataset default or path completion)")
	runCmd.Flags().Float64Var(&delayThreshold, "delay-threshold", 0.9, "normalized delay threshold in [0,1]")
	runCmd.Flags().Float64Var(&provisioningThreshold, "provisioning-threshold", 0.5, "normalized provisioning-time threshold in [0,1]")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log verbosity (debug, info, warn, error)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "write the JSON run report to this path")
	runCmd.Flags().StringVar(&experimentsFile, "experiments-file", "", "YAML file with named experiment presets")
	runCmd.Flags().StringVar(&experimentName, "experiment", "", "experiment preset to apply")

	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
