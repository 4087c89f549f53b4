package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/netflix-insights/internal/search"
)

var (
	topN        int
	searchType  string
	searchLimit int
)

var topCmd = &cobra.Command{
	Use:   "top <column>",
	Short: "Rank the most frequent values of a column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := application.Queries.Top(cmd.Context(), args[0], topN)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), counts)
		}
		total := counts.Total()
		rows := make([][]string, 0, len(counts.Rows))
		for _, r := range counts.Rows {
			keys := make([]string, len(r.Key))
			for i, k := range r.Key {
				keys[i] = k.String()
			}
			share := ""
			if total > 0 {
				share = strconv.FormatFloat(100*float64(r.Count)/float64(total), 'f', 1, 64) + "%"
			}
			rows = append(rows, []string{strings.Join(keys, " / "), strconv.Itoa(r.Count), share})
		}
		return printTable(cmd.OutOrStdout(), []string{strings.ToUpper(args[0]), "COUNT", "SHARE"}, rows)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, people and descriptions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hits, err := application.Queries.Search(cmd.Context(), search.Params{
			Query: strings.Join(args, " "),
			Type:  searchType,
			Limit: searchLimit,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), hits)
		}
		rows := make([][]string, 0, len(hits))
		for _, h := range hits {
			year := ""
			if h.ReleaseYear > 0 {
				year = strconv.Itoa(h.ReleaseYear)
			}
			rows = append(rows, []string{h.ID, h.Title, h.Type, year, strconv.FormatFloat(h.Score, 'f', 3, 64)})
		}
		return printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "TYPE", "YEAR", "SCORE"}, rows)
	},
}

func init() {
	topCmd.Flags().IntVarP(&topN, "limit", "n", 10, "Number of values before folding the rest into Others")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Restrict to a content type (Movie or \"TV Show\")")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of hits")
	rootCmd.AddCommand(topCmd, searchCmd)
}
