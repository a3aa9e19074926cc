package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/linkpred/golinkpred/predictors"
	"github.com/spf13/cobra"
)

var predictorsCmd = &cobra.Command{
	Use:   "predictors",
	Short: "List the available predictors and their parameters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range predictors.Names() {
			params, err := predictors.Parameters(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stdout, "%-20s %s\n", name, strings.Join(params, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(predictorsCmd)
}
