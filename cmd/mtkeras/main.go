// Command mtkeras runs metamorphic tests: it transforms a source test set,
// asks an oracle for outputs on both sets and reports the cases that break
// the declared output relation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mtkeras/internal/logging"
)

var (
	rootCmd = &cobra.Command{
		Use:           "mtkeras",
		Short:         "Metamorphic testing for models, search engines and query engines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global Flags
	logLevel *string
	logJSON  *bool
)

func init() {
	logLevel = rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default $MTKERAS_LOG_LEVEL or info)")
	logJSON = rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON instead of text")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logging.InitFromEnv()
		if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-json") {
			logging.Configure(logging.Options{Level: *logLevel, JSON: *logJSON})
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mtkeras:", err)
		os.Exit(1)
	}
}
