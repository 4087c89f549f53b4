package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/netflix-insights/internal/pages"
)

var (
	exportPages    []string
	exportTemplate string
	exportTop      int
	exportWindow   int
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write every computed chart as a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := application.Exports.Export(cmd.Context(), args[0], exportTemplate, exportPages,
			pages.Params{TopN: exportTop, Window: exportWindow})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), files)
		}
		rows := make([][]string, 0, len(files))
		for _, f := range files {
			rows = append(rows, []string{f.Path, strconv.Itoa(f.Rows), f.Checksum})
		}
		if err := printTable(cmd.OutOrStdout(), []string{"PATH", "ROWS", "SHA256"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d files written\n", len(files))
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringSliceVar(&exportPages, "page", nil, "Pages to export (default all)")
	f.StringVar(&exportTemplate, "template", "", "Path template relative to dir, e.g. {{.Page}}/{{.Chart}}")
	f.IntVar(&exportTop, "top", 0, "Rows kept by top-N charts (0 uses TOP_N)")
	f.IntVar(&exportWindow, "window", 0, "Rolling mean window in years (0 uses ROLLING_WINDOW)")
	rootCmd.AddCommand(exportCmd)
}
