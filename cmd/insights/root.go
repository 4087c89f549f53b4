package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/netflix-insights/internal/app"
	"github.com/cesargomez89/netflix-insights/internal/config"
	"github.com/cesargomez89/netflix-insights/internal/logger"
)

var (
	datasetPath string
	datasetURL  string
	ratingsPath string
	logLevel    string
	asJSON      bool

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:          "insights",
	Short:        "Explore the streaming catalog from the command line",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		cfg := config.Load()
		flags := cmd.Flags()
		if flags.Changed("dataset") {
			cfg.DatasetPath = datasetPath
		}
		if flags.Changed("url") {
			cfg.DatasetURL = datasetURL
		}
		if flags.Changed("ratings") {
			cfg.RatingsPath = ratingsPath
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// logs go to stderr so stdout stays machine readable
		log := logger.New(logger.Config{Output: os.Stderr, Level: cfg.LogLevel, Format: cfg.LogFormat})
		a, err := app.New(cfg, log)
		if err != nil {
			return err
		}
		application = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application == nil {
			return nil
		}
		return application.Close()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&datasetPath, "dataset", "", "Path to the catalog CSV (overrides DATASET_PATH)")
	pf.StringVar(&datasetURL, "url", "", "URL of the catalog CSV (overrides DATASET_URL)")
	pf.StringVar(&ratingsPath, "ratings", "", "Path to a ratings CSV (overrides RATINGS_PATH)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	pf.BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes a header and rows aligned in columns.
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
