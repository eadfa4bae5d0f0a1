package main

import (
	"github.com/spf13/cobra"

	"github.com/fredmorcos/tvrank/internal/app"
)

var scanMoviesCmd = &cobra.Command{
	Use:   "scan-movies <dir>",
	Short: "Match a movie directory tree against the database",
	Long: `Scan-movies walks the given tree. Directory names of the form
"TITLE (YYYY)" are matched by title and year; a tvrank.json file pins
a directory to an explicit IMDB id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}

		application, err := app.New(cmd.Context(), log, cfg)
		if err != nil {
			return err
		}

		return application.ScanMovies(cmd.Context(), args[0])
	},
}

var scanSeriesCmd = &cobra.Command{
	Use:   "scan-series <dir>",
	Short: "Match a series directory tree against the database",
	Long: `Scan-series walks the given tree. Directory names of the form
"TITLE (YYYY)" are matched by title and year, other names by exact
title; a tvrank.json file pins a directory to an explicit IMDB id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}

		application, err := app.New(cmd.Context(), log, cfg)
		if err != nil {
			return err
		}

		return application.ScanSeries(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanMoviesCmd)
	rootCmd.AddCommand(scanSeriesCmd)
}
