package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/linkpred/golinkpred/linkpred"
	"github.com/linkpred/golinkpred/listeners"
	"github.com/linkpred/golinkpred/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var debug bool
var quiet bool

var profileFilename string
var predictorNames []string
var outputs []string
var noInterpolation bool
var all bool
var exclude string
var eligible string
var label string
var minDegree int
var steps int
var jobs int
var outputDir string
var database string
var precisionAt int
var fmaxBeta float64

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linkpred [TRAINING-FILE [TEST-FILE]]",
	Short: "Predict links in a network and evaluate the predictions",
	Long: "Predict links in the TRAINING-FILE network and, if a TEST-FILE network is given,\n" +
		"evaluate the predictions against it. Settings of a --profile take priority over flags.",
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := loadProfile(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		fs := afero.NewOsFs()
		err = linkpred.Run(ctx, profile, fs, listeners.NewFiles(fs, profile.OutputDir))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// addRunFlags registers the flags describing a run on cmd.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&profileFilename, "profile", "P", "", "JSON/YAML profile file")
	f.StringSliceVarP(&predictorNames, "predictors", "p", nil, "Predictor(s) to use for link prediction (see 'linkpred predictors')")
	f.StringSliceVarP(&outputs, "output", "o", []string{"recall-precision"}, "Type of output(s) to produce, among: recall-precision, f-score, roc, markedness, fmax, precision-at-k, cache-predictions, cache-evaluations, store")
	f.BoolVarP(&noInterpolation, "no-interpolation", "i", false, "Do not interpolate recall-precision curves")
	f.BoolVarP(&all, "all", "a", false, "Predict all links, including ones present in the training network")
	f.StringVarP(&exclude, "exclude", "", "old", "Pairs never to predict: 'old' (training edges), 'new' (training non-edges) or '' (none)")
	f.StringVarP(&eligible, "eligible", "", "", "Node attribute marking the nodes that take part in predictions")
	f.StringVarP(&label, "label", "", "", "Name of the dataset (default: training file name)")
	f.IntVarP(&minDegree, "min-degree", "", 1, "Remove nodes with a lower degree")
	f.IntVarP(&steps, "steps", "", 1, "Number of predictions retrieved per evaluation step")
	f.IntVarP(&jobs, "jobs", "j", 1, "Number of predictors running in parallel")
	f.StringVarP(&outputDir, "output-dir", "", "", "Directory where outputs are written")
	f.StringVarP(&database, "database", "", "", "SQLite database of the store output (default: OUTPUT-DIR/"+linkpred.DefaultDatabase+")")
	f.IntVarP(&precisionAt, "precision-at", "k", 10, "k of the precision-at-k output")
	f.Float64VarP(&fmaxBeta, "beta", "b", 1, "beta of the F-score of the fmax and f-score outputs")
}

// loadProfile merges, from lowest to highest priority, the flags, the
// profile file and LINKPRED_* environment variables.
func loadProfile(cmd *cobra.Command, args []string) (types.Profile, error) {
	v := types.NewViper()
	if len(args) > 0 {
		v.SetDefault("training-file", args[0])
	}
	if len(args) > 1 {
		v.SetDefault("test-file", args[1])
	}
	setFlagDefaults(cmd, v)
	if len(predictorNames) > 0 {
		list := make([]map[string]any, len(predictorNames))
		for i, name := range predictorNames {
			list[i] = map[string]any{"name": name}
		}
		v.SetDefault("predictors", list)
	}

	profile, err := types.NewProfileFromFile(v, afero.NewOsFs(), profileFilename)
	if err != nil {
		return profile, err
	}
	if err := profile.Validate(); err != nil {
		return profile, err
	}
	return profile, nil
}

func setFlagDefaults(cmd *cobra.Command, v *viper.Viper) {
	changed := cmd.Flags().Changed
	set := func(flag, key string, value any) {
		if changed(flag) {
			v.SetDefault(key, value)
		}
	}
	set("output", "output", outputs)
	set("no-interpolation", "interpolation", !noInterpolation)
	set("exclude", "exclude", exclude)
	if all {
		v.SetDefault("exclude", "")
	}
	set("eligible", "eligible", eligible)
	set("label", "label", label)
	set("min-degree", "min_degree", minDegree)
	set("steps", "steps", steps)
	set("jobs", "jobs", jobs)
	set("output-dir", "output-dir", outputDir)
	set("database", "database", database)
	set("precision-at", "precision_at", precisionAt)
	set("beta", "fmax_beta", fmaxBeta)
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug {
			logrus.Info("Debug logs enabled")
			logrus.SetLevel(logrus.DebugLevel)
		} else if quiet {
			logrus.SetLevel(logrus.WarnLevel)
		}
	}
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.MarkFlagsMutuallyExclusive("debug", "quiet")
	addRunFlags(rootCmd)
}
