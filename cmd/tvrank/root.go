package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fredmorcos/tvrank/internal/config"
	"github.com/fredmorcos/tvrank/internal/domain"
	"github.com/fredmorcos/tvrank/internal/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tvrank",
	Short: "Query and rank movies and series from IMDB",
	Long: `TvRank is a local search engine over the public IMDB title catalog.
It keeps a compressed snapshot of IMDB's TSV dumps in a cache
directory, indexes them in memory on startup and answers queries by
id, title, title and year, or keywords.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yaml in $HOME or the current directory)")
	rootCmd.PersistentFlags().String("cache-dir", "", "directory for the cached IMDB dumps (default is the user cache directory)")
	rootCmd.PersistentFlags().Bool("force-update", false, "re-fetch the IMDB dumps regardless of their age")
	rootCmd.PersistentFlags().Bool("sort-by-year", false, "sort results by year instead of by rating")
	rootCmd.PersistentFlags().Int("top", 0, "only print the top N results (0 prints everything)")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase logging verbosity (-v debug, -vv trace)")
	rootCmd.PersistentFlags().Bool("color", false, "display colors regardless of the NO_COLOR environment variable")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("force_update", rootCmd.PersistentFlags().Lookup("force-update"))
	viper.BindPFlag("sort_by_year", rootCmd.PersistentFlags().Lookup("sort-by-year"))
	viper.BindPFlag("top", rootCmd.PersistentFlags().Lookup("top"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbosity", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tvrank")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TVRANK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// noColorEnv honours the NO_COLOR convention: set to anything other
// than `0` disables color.
func noColorEnv() bool {
	v, ok := os.LookupEnv("NO_COLOR")
	return ok && v != "0"
}

// resolveNoColor combines the flags and the environment: --no-color
// wins, then --color, then NO_COLOR.
func resolveNoColor(cmd *cobra.Command) bool {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return true
	}
	if color, _ := cmd.Flags().GetBool("color"); color {
		return false
	}
	return noColorEnv()
}

// setup resolves the configuration and logger shared by all
// subcommands.
func setup(cmd *cobra.Command) (*domain.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	cfg.NoColor = resolveNoColor(cmd)
	log := logger.New(cfg.Verbosity, cfg.NoColor)

	return cfg, log, nil
}
