// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-agent/internal/analyze"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the analysis question battery",
	Long: `Questions prints the battery asked about each paper, grouped by category
in report order. With --questions it prints a custom battery file instead,
which doubles as a validity check before a paid run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		qs := analyze.DefaultQuestions()

		if path, _ := cmd.Flags().GetString("questions"); path != "" {
			loaded, err := analyze.LoadQuestions(path)
			if err != nil {
				return err
			}
			qs = loaded
		}

		out := cmd.OutOrStdout()
		current := ""
		n := 0
		for _, q := range qs {
			if q.Category != current {
				if current != "" {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "## %s\n\n", q.Category)
				current = q.Category
				n = 0
			}
			n++
			fmt.Fprintf(out, "%d. %s\n", n, q.Text)
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("questions", "", "YAML battery file to print instead of the built-in battery")

	rootCmd.AddCommand(questionsCmd)
}
