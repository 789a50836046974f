package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akopian/portfolio/internal/content"
	"github.com/akopian/portfolio/internal/i18n"
	"github.com/akopian/portfolio/internal/models"
)

// errLintFailed signals that the catalog loaded but has asset problems
var errLintFailed = errors.New("content catalog has problems")

func newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check the content catalog",
		Long: `Load the content catalog and report every problem: missing translations,
project lists that differ between languages, riddles without answers and
project image lists that do not line up with the projects.`,
		Example: `  # Check the embedded catalog
  portfolio lint

  # Check an edited copy before deploying it
  portfolio lint --content-dir ./content`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("content-dir")
			out := cmd.OutOrStdout()

			catalog, err := content.Load(dir)
			if err != nil {
				fmt.Fprintf(out, "FAIL %v\n", err)
				return &ExitError{Code: 2, Err: err}
			}
			if _, err := i18n.NewTable(catalog.Trees); err != nil {
				fmt.Fprintf(out, "FAIL %v\n", err)
				return &ExitError{Code: 2, Err: err}
			}

			problems := catalog.AssetProblems()
			for _, p := range problems {
				fmt.Fprintf(out, "WARN %s\n", p)
			}
			if len(problems) > 0 {
				return &ExitError{Code: 1, Err: errLintFailed}
			}

			fmt.Fprintf(out, "OK %d languages, %d projects, %d riddles\n",
				len(catalog.Trees), len(catalog.Trees[models.DefaultLanguage].Projects.Items), len(catalog.Riddles))
			return nil
		},
	}
}
