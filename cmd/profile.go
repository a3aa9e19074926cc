package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [TRAINING-FILE [TEST-FILE]]",
	Short: "Print the profile a run with the same arguments would use, as YAML",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		profile, err := loadProfile(cmd, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
		res, err := profile.YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(res)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	addRunFlags(profileCmd)
}
