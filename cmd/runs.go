package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/linkpred/golinkpred/store"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs DATABASE",
	Short: "List the evaluations kept by the store output",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := listRuns(os.Stdout, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
	},
}

func listRuns(w io.Writer, path string) error {
	s, err := store.OpenExisting(path)
	if err != nil {
		return err
	}
	defer s.Close()
	records, err := s.Records()
	if err != nil {
		return err
	}
	for _, r := range records {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.Run, r.CreatedAt.Format(time.RFC3339), r.Dataset, r.Predictor, r.Steps)
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
