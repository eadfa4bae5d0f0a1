package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredmorcos/tvrank/internal/app"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies and series by title or keywords",
	Long: `Search queries the database with a free-form string. By default the
whitespace-separated words are matched as keywords, each of which must
occur in a title. With --exact the whole string must match a title
exactly. A trailing year in parentheses, as in "city of god (2002)",
additionally filters by release year.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}

		exact, _ := cmd.Flags().GetBool("exact")

		application, err := app.New(cmd.Context(), log, cfg)
		if err != nil {
			return err
		}

		return application.Search(cmd.Context(), strings.Join(args, " "), exact)
	},
}

func init() {
	searchCmd.Flags().Bool("exact", false, "match the query as an exact title instead of keywords")
	rootCmd.AddCommand(searchCmd)
}
