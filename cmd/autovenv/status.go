package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/autovenv/autovenv/pkg/bootstrap"
)

type statusStyles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	stale lipgloss.Style
	dim   lipgloss.Style
}

func newStatusStyles() statusStyles {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		plain := lipgloss.NewStyle()
		return statusStyles{title: plain, ok: plain, stale: plain, dim: plain}
	}

	dimColor := lipgloss.Color("240")
	if !termenv.HasDarkBackground() {
		dimColor = lipgloss.Color("250")
	}

	return statusStyles{
		title: lipgloss.NewStyle().Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stale: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:   lipgloss.NewStyle().Foreground(dimColor),
	}
}

var statusCmd = &cobra.Command{
	Use:   "status script",
	Short: "Show a script's environment and requirement-source state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := bootstrap.New(bootstrap.Config{
			Script: args[0],
			Scope:  scope(),
		})
		if err != nil {
			return err
		}

		envExists, sources, err := controller.Status()
		if err != nil {
			return err
		}

		styles := newStatusStyles()

		fmt.Println(styles.title.Render("Environment"))
		fmt.Printf("  dir:         %s\n", controller.EnvDir())
		fmt.Printf("  interpreter: %s\n", controller.Interpreter())
		if envExists {
			fmt.Printf("  state:       %s\n", styles.ok.Render("present"))
		} else {
			fmt.Printf("  state:       %s\n", styles.stale.Render("missing"))
		}

		fmt.Println(styles.title.Render("Requirement sources"))
		for _, src := range sources {
			state := styles.stale.Render("needs install")
			switch {
			case src.UpToDate:
				state = styles.ok.Render("up to date")
			case !src.Exists:
				state = styles.dim.Render("absent")
			}
			fmt.Printf("  %-24s %s\n", src.Name, state)
		}
		return nil
	},
}
