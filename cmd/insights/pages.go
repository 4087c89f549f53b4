package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/netflix-insights/internal/pages"
	"github.com/cesargomez89/netflix-insights/internal/table"
)

var (
	pageTop    int
	pageWindow int
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the dashboard pages and their charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := pages.All()
		if asJSON {
			type summary struct {
				Name   string   `json:"name"`
				Title  string   `json:"title"`
				Charts []string `json:"charts"`
			}
			out := make([]summary, 0, len(all))
			for _, p := range all {
				s := summary{Name: p.Name, Title: p.Title}
				for _, c := range p.Charts {
					s.Charts = append(s.Charts, c.ID)
				}
				out = append(out, s)
			}
			return printJSON(cmd.OutOrStdout(), out)
		}
		rows := make([][]string, 0, len(all))
		for _, p := range all {
			ids := make([]string, 0, len(p.Charts))
			for _, c := range p.Charts {
				ids = append(ids, c.ID)
			}
			rows = append(rows, []string{p.Name, p.Title, strings.Join(ids, ", ")})
		}
		return printTable(cmd.OutOrStdout(), []string{"PAGE", "TITLE", "CHARTS"}, rows)
	},
}

var pageCmd = &cobra.Command{
	Use:       "page <name>",
	Short:     "Compute every chart of a page",
	Args:      cobra.ExactArgs(1),
	ValidArgs: pages.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := application.Catalogs.Get(cmd.Context())
		if err != nil {
			return err
		}
		r, err := application.Renderer.Render(args[0], cat, pages.Params{TopN: pageTop, Window: pageWindow})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, r)
		}
		fmt.Fprintf(out, "%s (%s)\n", r.Title, r.Version)
		for _, chart := range r.Charts {
			fmt.Fprintf(out, "\n== %s\n", chart.Title)
			if chart.Placeholder != "" {
				fmt.Fprintln(out, chart.Placeholder)
				continue
			}
			header := make([]string, len(chart.Columns))
			for i, c := range chart.Columns {
				header[i] = strings.ToUpper(c)
			}
			if err := printTable(out, header, cellStrings(chart.Rows)); err != nil {
				return err
			}
			for _, n := range chart.Notes {
				fmt.Fprintln(out, "note:", n)
			}
		}
		return nil
	},
}

func cellStrings(rows [][]table.Value) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = v.String()
		}
	}
	return out
}

func init() {
	pageCmd.Flags().IntVar(&pageTop, "top", 0, "Rows kept by top-N charts (0 uses TOP_N)")
	pageCmd.Flags().IntVar(&pageWindow, "window", 0, "Rolling mean window in years (0 uses ROLLING_WINDOW)")
	rootCmd.AddCommand(pagesCmd, pageCmd)
}
