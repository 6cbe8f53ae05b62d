package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/quac-sim/quac-sim/sim"
	"github.com/quac-sim/quac-sim/sim/calib"
	_ "github.com/quac-sim/quac-sim/sim/lindblad" // registers the reference engine
	"github.com/quac-sim/quac-sim/sim/noise"
	"github.com/quac-sim/quac-sim/sim/trace"
)

var (
	// Shared simulation flags
	logLevel     string  // Log verbosity level
	circuitsPath string  // Circuit batch YAML file
	hardwarePath string  // Hardware properties YAML file
	noisePath    string  // User-defined noise model YAML file
	seed         int64   // Master seed for shot sampling
	workers      int     // Worker pool size
	shots        int     // Shots per experiment in counts mode
	timeStep     float64 // Engine integration step (ns)
	simLength    float64 // Explicit simulation length (ns), 0 derives from schedule
	disableNoise bool    // Force a noiseless run

	// run flags
	mode string // Outcome mode: counts or density

	// calibrate flags
	referencePath string  // Reference outcome distributions YAML file
	objective     string  // Divergence to minimize
	budget        int     // Objective evaluation budget
	epsilon       float64 // KL smoothing mass
	ksSamples     int     // Sample count for the KS cutoff
	paramScale    float64 // Optimizer-space parameter scaling
	traceLevel    string  // Calibration trace level
	outputPath    string  // Where to write the refined noise model
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "quac-sim",
	Short: "Noisy quantum-circuit simulator with Lindblad-style noise models",
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadBackend assembles a Backend from the shared CLI flags: circuits decide
// the register width, hardware properties feed the scheduler and the default
// noise model, and an explicit noise file overrides both.
func loadBackend() (*sim.Backend, []*sim.Circuit, *noise.Model) {
	circuits, err := LoadCircuits(circuitsPath)
	if err != nil {
		logrus.Fatalf("Unable to load circuits: %v", err)
	}

	numQubits := 0
	for _, c := range circuits {
		if c.NumQubits > numQubits {
			numQubits = c.NumQubits
		}
	}

	var hardware *noise.HardwareProperties
	if hardwarePath != "" {
		hardware, err = noise.LoadHardwareProperties(hardwarePath)
		if err != nil {
			logrus.Fatalf("Unable to load hardware properties: %v", err)
		}
	}

	var override *noise.Model
	if noisePath != "" {
		override, err = LoadNoiseModel(noisePath)
		if err != nil {
			logrus.Fatalf("Unable to load noise model: %v", err)
		}
	}

	backend, err := sim.NewBackend(sim.BackendConfig{
		NumQubits:    numQubits,
		Workers:      workers,
		Mode:         sim.Mode(mode),
		DefaultShots: shots,
		Seed:         seed,
		DisableNoise: disableNoise,
	}, hardware, nil)
	if err != nil {
		logrus.Fatalf("Unable to construct backend: %v", err)
	}
	return backend, circuits, override
}

// runCmd simulates a circuit batch and prints the outcome tables
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a circuit batch",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		backend, circuits, override := loadBackend()
		defer backend.Close()

		logrus.Infof("Running %d circuits on %s", len(circuits), backend.Name())
		startTime := time.Now()

		job, err := backend.Run(circuits, &sim.RunOptions{
			Shots:            shots,
			Mode:             sim.Mode(mode),
			NoiseModel:       override,
			SimulationLength: simLength,
			TimeStep:         timeStep,
		})
		if err != nil {
			logrus.Fatalf("Submission failed: %v", err)
		}

		result, err := job.Result()
		if err != nil {
			logrus.Fatalf("Job %s failed: %v", job.ID(), err)
		}

		for _, exp := range result.Results {
			fmt.Printf("%s (%s, %d shots, %v):\n", exp.Name, exp.Mode, exp.Shots, exp.TimeTaken)
			keys := make([]string, 0, len(exp.Counts))
			for key := range exp.Counts {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Printf("  %s: %g\n", key, exp.Counts[key])
			}
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// calibrateCmd fits noise parameters against reference distributions
var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Fit a noise model to reference outcome distributions",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		backend, circuits, initial := loadBackend()
		defer backend.Close()

		if initial == nil {
			logrus.Fatalf("Calibration needs an initial noise model file (--noise)")
		}
		reference, err := LoadReference(referencePath)
		if err != nil {
			logrus.Fatalf("Unable to load reference distributions: %v", err)
		}
		if !trace.IsValidLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		calTrace := trace.NewCalibrationTrace(trace.Config{Level: trace.Level(traceLevel)})

		logrus.Infof("Calibrating %d parameters against %d circuits (objective %s, budget %d)",
			len(initial.ToVector()), len(circuits), objective, budget)
		startTime := time.Now()

		refined, err := calib.Calibrate(initial, circuits, backend, reference, &calib.Config{
			Objective:  calib.Objective(objective),
			Epsilon:    epsilon,
			KSSamples:  ksSamples,
			ParamScale: paramScale,
			Minimizer:  &calib.NelderMead{MaxEvaluations: budget},
			Trace:      calTrace,
		})
		if err != nil {
			logrus.Fatalf("Calibration failed: %v", err)
		}

		summary := trace.Summarize(calTrace)
		if summary.TotalEvaluations > 0 {
			logrus.Infof("Best loss %g over %d evaluations (mean %g)",
				summary.BestLoss, summary.TotalEvaluations, summary.MeanLoss)
		}

		fmt.Println(refined.String())
		if outputPath != "" {
			if err := SaveNoiseModel(outputPath, refined); err != nil {
				logrus.Fatalf("Unable to write refined model: %v", err)
			}
			logrus.Infof("Refined model written to %s", outputPath)
		}

		logrus.Infof("Calibration complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, calibrateCmd} {
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&circuitsPath, "circuits", "", "Circuit batch YAML file")
		c.Flags().StringVar(&hardwarePath, "hardware", "", "Hardware properties YAML file")
		c.Flags().StringVar(&noisePath, "noise", "", "User-defined noise model YAML file")
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed for shot sampling")
		c.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = default)")
		c.Flags().IntVar(&shots, "shots", sim.DefaultShots, "Shots per experiment in counts mode")
		c.Flags().Float64Var(&timeStep, "time-step", 0, "Engine integration step in ns (0 = default)")
		c.Flags().Float64Var(&simLength, "length", 0, "Simulation length in ns (0 = derive from schedule)")
		c.Flags().BoolVar(&disableNoise, "disable-noise", false, "Force a noiseless run")
		_ = c.MarkFlagRequired("circuits")
	}

	runCmd.Flags().StringVar(&mode, "mode", string(sim.ModeCounts), "Outcome mode (counts, density)")

	calibrateCmd.Flags().StringVar(&referencePath, "reference", "", "Reference outcome distributions YAML file")
	calibrateCmd.Flags().StringVar(&objective, "objective", string(calib.ObjectiveKL), "Divergence to minimize (angle, kl, ks)")
	calibrateCmd.Flags().IntVar(&budget, "budget", calib.DefaultBudget, "Objective evaluation budget")
	calibrateCmd.Flags().Float64Var(&epsilon, "epsilon", calib.DefaultEpsilon, "KL smoothing mass")
	calibrateCmd.Flags().IntVar(&ksSamples, "ks-samples", calib.DefaultKSSamples, "Sample count for the KS cutoff")
	calibrateCmd.Flags().Float64Var(&paramScale, "scale", calib.DefaultParamScale, "Optimizer-space parameter scaling")
	calibrateCmd.Flags().StringVar(&traceLevel, "trace", string(trace.LevelNone), "Trace level (none, evaluations)")
	calibrateCmd.Flags().StringVar(&outputPath, "output", "", "Write the refined noise model to this YAML file")
	_ = calibrateCmd.MarkFlagRequired("reference")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(calibrateCmd)
}
