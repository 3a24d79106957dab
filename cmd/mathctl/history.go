package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	historyClear bool
	historyLoad  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, load or clear solved problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if historyClear {
			if err := api.do(ctx, http.MethodDelete, "/api/history", nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(out, "history cleared")
			return nil
		}
		if historyLoad != "" {
			var res solveResponse
			if err := api.do(ctx, http.MethodPost, "/api/history/"+historyLoad+"/load", nil, &res); err != nil {
				return err
			}
			return printSnapshot(cmd, res.Solve)
		}

		items, err := api.history(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(out, styled(dimStyle, "no history yet"))
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTitle\tDifficulty\tWhen")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Solution.Title, it.Solution.Difficulty, it.Timestamp.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "delete all history")
	historyCmd.Flags().StringVar(&historyLoad, "load", "", "show the history item with this id")
	rootCmd.AddCommand(historyCmd)
}
