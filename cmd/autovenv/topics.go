package main

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/autovenv/autovenv/pkg/errors"
)

//go:embed docs/*.md
var docsFS embed.FS

var topicsCmd = &cobra.Command{
	Use:   "topics [topic]",
	Short: "Show help topics",
	Long:  `Without arguments, list the available help topics. With a topic name, render it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			names, err := topicNames()
			if err != nil {
				return err
			}
			fmt.Println("Available topics:")
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
			return nil
		}

		content, err := docsFS.ReadFile("docs/" + args[0] + ".md")
		if err != nil {
			return errors.Newf(errors.ErrInvalidInput, "unknown topic %q", args[0])
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			// Fall back to the raw markdown
			fmt.Print(string(content))
			return nil
		}

		rendered, err := renderer.Render(string(content))
		if err != nil {
			fmt.Print(string(content))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func topicNames() ([]string, error) {
	entries, err := docsFS.ReadDir("docs")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}
