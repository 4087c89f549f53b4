package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var statusHistory int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the catalog came from and recent load attempts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := application.Queries.Status(cmd.Context(), statusHistory)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return printJSON(out, rep)
		}

		s := rep.Status
		fmt.Fprintf(out, "source:    %s %s\n", s.Source, s.Location)
		fmt.Fprintf(out, "available: %t\n", s.Available)
		fmt.Fprintf(out, "rows:      %d (%d malformed)\n", s.Rows, s.Malformed)
		if s.Error != "" {
			fmt.Fprintf(out, "error:     %s\n", s.Error)
		}
		if rs := rep.RatingsStatus; rs.Location != "" {
			fmt.Fprintf(out, "ratings:   %s (%d rows, available %t)\n", rs.Location, rs.Rows, rs.Available)
		}
		if len(rep.Skipped) > 0 {
			fmt.Fprintf(out, "skipped:   %v\n", rep.Skipped)
		}
		if len(rep.Malformed) > 0 {
			cols := make([]string, 0, len(rep.Malformed))
			for c := range rep.Malformed {
				cols = append(cols, c)
			}
			sort.Strings(cols)
			for _, c := range cols {
				fmt.Fprintf(out, "malformed: %s=%d\n", c, rep.Malformed[c])
			}
		}

		if len(rep.History) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(rep.History))
		for _, l := range rep.History {
			errMsg := ""
			if l.Error != nil {
				errMsg = *l.Error
			}
			rows = append(rows, []string{
				l.LoadedAt.Format(time.RFC3339), string(l.Source), strconv.Itoa(l.Rows),
				strconv.FormatBool(l.Available), errMsg,
			})
		}
		return printTable(out, []string{"LOADED", "SOURCE", "ROWS", "AVAILABLE", "ERROR"}, rows)
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusHistory, "history", 5, "Number of past loads to list")
	rootCmd.AddCommand(statusCmd)
}
