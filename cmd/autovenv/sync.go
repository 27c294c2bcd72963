package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autovenv/autovenv/pkg/bootstrap"
)

var syncCmd = &cobra.Command{
	Use:   "sync script",
	Short: "Create or update a script's environment without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := bootstrap.New(bootstrap.Config{
			Script: args[0],
			Scope:  scope(),
		})
		if err != nil {
			return err
		}

		outcome, err := controller.Sync(cmd.Context())
		if err != nil {
			return err
		}

		switch {
		case outcome.Created:
			fmt.Printf("Created %s\n", controller.EnvDir())
		case outcome.Changed:
			fmt.Printf("Updated %s\n", controller.EnvDir())
		default:
			fmt.Printf("%s is up to date\n", controller.EnvDir())
		}
		return nil
	},
}
