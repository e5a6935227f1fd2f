// Command cliquefusion loads a batch of 2D positional observations from a
// JSON file, fuses them into maximal cliques of mutually compatible
// observations, and prints the resulting groups.
package main

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	cfgFile string
	verbose bool
	version = "dev" // set by build flags
)

var rootCmd = &cobra.Command{
	Use:     "cliquefusion",
	Short:   "Fuse noisy 2D observations into statistically compatible groups",
	Long:    `cliquefusion reads a batch of 2D positional observations with Gaussian error and groups them into maximal cliques of mutually compatible observations.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cliquefusion.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(fuseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
