// Package main provides the replica CLI, which checks that the running
// platform supports interface cloning and probes the engine with sample values.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg is resolved before any subcommand runs.
	cfg *settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "replica",
	Short: "Inspect the replica interface cloning engine",
	Long: `replica verifies that the interface layout assumptions the cloning
engine relies on hold on this platform, and exercises the engine with a
set of sample values so strategies and layouts can be inspected.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = loadConfig(cmd, configFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./replica.yaml or ~/.config/replica/replica.yaml)")
	rootCmd.PersistentFlags().StringP(cfgKeyFormat, "f", defaultFormat, "output format: text, json or yaml")

	probeCmd.Flags().Bool(cfgKeyIsolation, false, "refuse clones that would share references")
	probeCmd.Flags().StringP(cfgKeyStrategy, "s", defaultStrategy, "strategy registered for the sample record")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(probeCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("replica v0.1.0")
	},
}
