package main

import (
	"github.com/spf13/cobra"

	"github.com/fredmorcos/tvrank/internal/app"
)

var markCmd = &cobra.Command{
	Use:   "mark <dir> <id>",
	Short: "Pin a directory to an explicit IMDB id",
	Long: `Mark writes a tvrank.json file into the given directory so that
scans resolve it by id instead of by name. The id must exist in the
database. An existing tvrank.json is only overwritten with --force.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")

		application, err := app.New(cmd.Context(), log, cfg)
		if err != nil {
			return err
		}

		return application.Mark(args[0], args[1], force)
	},
}

func init() {
	markCmd.Flags().Bool("force", false, "overwrite an existing tvrank.json")
	rootCmd.AddCommand(markCmd)
}
