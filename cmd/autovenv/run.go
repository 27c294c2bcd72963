package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/autovenv/autovenv/pkg/bootstrap"
)

var runCmd = &cobra.Command{
	Use:   "run script [args...]",
	Short: "Bootstrap a script's environment and run the script in it",
	Long: `Ensure the script's isolated environment exists and is current, then run
the script under the environment's interpreter. The process exits with the
script's exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := bootstrap.New(bootstrap.Config{
			Script: args[0],
			Args:   args[1:],
			Scope:  scope(),
		})
		if err != nil {
			return err
		}

		if _, err := controller.Sync(cmd.Context()); err != nil {
			return err
		}

		argv := append([]string{args[0]}, args[1:]...)
		code, err := bootstrap.NewRelauncher(controller.Interpreter(), argv).Relaunch(cmd.Context())
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}
