package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir | file.tast...]",
	Short: "Analyse modules and write the generated listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, timer, err := analyze(cmd, args, true)
		if err != nil {
			return err
		}
		if err := report(cmd, res, timer); err != nil {
			return err
		}
		out := res.Output
		if out.GenerateErr != nil {
			return fmt.Errorf("code generation: %w", out.GenerateErr)
		}
		path, _ := cmd.Flags().GetString("output")
		if path == "" || path == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), out.Artifact)
			return err
		}
		if err := os.WriteFile(path, []byte(out.Artifact), 0o644); err != nil { //nolint:gosec // build output is world-readable
			return err
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (digest %s)\n", path, res.Loaded.Digest.Short())
		}
		return nil
	},
}

func init() {
	addCheckFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}
