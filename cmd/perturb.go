package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/linkpred/golinkpred/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var addPct float64
var removePct float64
var seed uint64

var perturbCmd = &cobra.Command{
	Use:   "perturb INPUT-NETWORK OUTPUT.EDGELIST",
	Short: "Write a copy of a network with random edges added and removed",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := perturb(afero.NewOsFs(), args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
	},
}

func perturb(fs afero.Fs, input, output string) error {
	g, err := network.ReadFile(fs, input)
	if err != nil {
		return err
	}
	before := g.NumEdges()
	network.AddRemoveRandomEdges(g, addPct, removePct, rand.New(rand.NewSource(seed)))
	logrus.Infof("Perturbed network has %d edges (was %d)", g.NumEdges(), before)

	var buf bytes.Buffer
	if err := network.WriteEdgelist(&buf, g, "weight"); err != nil {
		return err
	}
	err = afero.WriteFile(fs, output, buf.Bytes(), 0666)
	if err != nil {
		return err
	}
	logrus.Infof("Network has been written to %s", output)
	return nil
}

func init() {
	rootCmd.AddCommand(perturbCmd)
	perturbCmd.Flags().Float64VarP(&addPct, "add", "", 0, "Fraction of the edges to add at random")
	perturbCmd.Flags().Float64VarP(&removePct, "remove", "", 0, "Fraction of the edges to remove at random")
	perturbCmd.Flags().Uint64VarP(&seed, "seed", "", 1, "Seed of the random generator")
}
