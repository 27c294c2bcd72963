package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/autovenv/autovenv/internal/version"
	"github.com/autovenv/autovenv/pkg/logging"
	"github.com/autovenv/autovenv/pkg/paths"
)

var (
	verbosity    int
	directoryEnv bool

	rootCmd = &cobra.Command{
		Use:   "autovenv",
		Short: "Self-bootstrapping isolated environments for Python scripts",
		Long: `autovenv keeps a Python script's dependencies in an isolated virtualenv
beside the script, creating the environment on first use, re-installing
requirement sources only when their content changed, and running the script
under the environment's interpreter.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVarP(&directoryEnv, "directory", "d", false, "Share one .venv per directory instead of one environment per script")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(topicsCmd)
}

// scope returns the environment scope selected by flags.
func scope() paths.Scope {
	if directoryEnv {
		return paths.ScopeDirectory
	}
	return paths.ScopeFile
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autovenv version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
