package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir | file.tast...]",
	Short: "Analyse modules and report diagnostics",
	Long:  "Analyse the modules of a directory, of explicit files, or of the project found through tails.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, timer, err := analyze(cmd, args, false)
		if err != nil {
			return err
		}
		return report(cmd, res, timer)
	},
}

func init() {
	addCheckFlags(checkCmd)
}
