package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"tails/internal/driver"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [dir | file.tast...]",
	Short: "List decoded modules with their dependencies and fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTarget(args)
		if err != nil {
			return err
		}
		jobs, _ := cmd.Root().PersistentFlags().GetInt("jobs")
		var loaded *driver.Loaded
		if t.dir != "" {
			loaded, err = driver.LoadDir(cmd.Context(), t.dir, driver.LoadOptions{Jobs: jobs})
		} else {
			loaded, err = driver.LoadFiles(cmd.Context(), t.files, driver.LoadOptions{Jobs: jobs})
		}
		if err != nil {
			return err
		}
		printModules(cmd.OutOrStdout(), loaded, useColor(cmd, os.Stdout))
		if loaded.Diagnostics.Len() > 0 {
			return report(cmd, &driver.Result{Loaded: loaded}, nil)
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().String("format", "short", "diagnostics format for load errors (pretty|short|json)")
	dumpCmd.Flags().Int("context", 0, "source lines of context around each diagnostic")
}

const pathColumn = 40

func printModules(out io.Writer, l *driver.Loaded, color bool) {
	head := lipgloss.NewStyle()
	hash := lipgloss.NewStyle()
	if color {
		head = head.Bold(true).Foreground(lipgloss.Color("6"))
		hash = hash.Foreground(lipgloss.Color("8"))
	}
	cell := func(s string, width int) string {
		return lipgloss.NewStyle().Width(width).Render(runewidth.Truncate(s, width-1, "…"))
	}
	fmt.Fprintln(out, head.Render(cell("MODULE", 24)+cell("FILE", pathColumn)+cell("HASH", 14)+"DEPS"))
	for _, m := range l.Modules {
		deps := make([]string, len(m.Deps))
		for i, q := range m.Deps {
			deps[i] = q.String()
		}
		fmt.Fprintln(out, cell(m.Qualifier.String(), 24)+cell(m.Path, pathColumn)+hash.Render(cell(m.ModuleHash.Short(), 14))+strings.Join(deps, ", "))
	}
	fmt.Fprintf(out, "%d modules, %d nodes, package %s\n", len(l.Modules), l.IDs.Count(), l.Digest.Short())
}
