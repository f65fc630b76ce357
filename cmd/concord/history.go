// History, results, and compare commands over recorded analyses.
package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/internal/analysis"
)

var (
	flagHistoryLimit   int
	flagHistoryType    string
	flagHistoryScope   string
	flagHistorySession string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, err := currentContext(st)
		if err != nil {
			return err
		}
		tracker := analysis.NewTracker(st, ctx.UserID, ctx.SessionID)
		records, err := tracker.History(flagHistoryLimit, flagHistoryType, flagHistoryScope, flagHistorySession)
		if err != nil {
			return err
		}

		t := newTable("ID", "Type", "Scope", "Verses", "User", "When")
		for _, r := range records {
			t.AppendRow(table.Row{r.ID, r.AnalysisType, r.ScopeType, r.VerseCount, r.UserName, formatTime(r.CreatedAt)})
		}
		t.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "maximum entries to list")
	historyCmd.Flags().StringVar(&flagHistoryType, "type", "", "filter by analysis type")
	historyCmd.Flags().StringVar(&flagHistoryScope, "scope", "", "filter by scope type")
	historyCmd.Flags().StringVar(&flagHistorySession, "session", "", "filter by session id")
}

var resultsCmd = &cobra.Command{
	Use:   "results <analysis-id>",
	Short: "Show one recorded analysis in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, err := currentContext(st)
		if err != nil {
			return err
		}
		tracker := analysis.NewTracker(st, ctx.UserID, ctx.SessionID)
		detail, err := tracker.Results(args[0])
		if err != nil {
			return err
		}
		if detail == nil {
			return fmt.Errorf("no analysis with id %q", args[0])
		}

		fmt.Printf("%s  %s over %s  %d verses  by %s  %s\n",
			detail.ID, detail.AnalysisType, detail.ScopeType,
			detail.VerseCount, detail.UserName, formatTime(detail.CreatedAt))

		resultTypes := make([]string, 0, len(detail.Results))
		for rt := range detail.Results {
			resultTypes = append(resultTypes, rt)
		}
		sort.Strings(resultTypes)

		for _, rt := range resultTypes {
			data := detail.Results[rt]
			if data.Pairs != nil {
				printWordCounts(rt, data.Pairs)
				continue
			}
			keys := make([]string, 0, len(data.Mapping))
			for k := range data.Mapping {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			t := newTable(rt, "Value")
			for _, k := range keys {
				t.AppendRow(table.Row{k, data.Mapping[k]})
			}
			t.Render()
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <analysis-id> <analysis-id>",
	Short: "Compare two word-frequency analyses",
	Long: `Compare diffs the word-frequency results of two recorded analyses:
words common to both with each side's count, words unique to each, and
count deltas ordered by magnitude.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, err := currentContext(st)
		if err != nil {
			return err
		}
		tracker := analysis.NewTracker(st, ctx.UserID, ctx.SessionID)
		cmp, err := tracker.Compare(args[0], args[1])
		if err != nil {
			return err
		}
		if cmp == nil {
			return fmt.Errorf("both analyses must exist and carry word-frequency results")
		}

		common := newTable("Word", args[0], args[1])
		for _, w := range cmp.CommonWords {
			common.AppendRow(table.Row{w.Word, w.Count1, w.Count2})
		}
		common.Render()

		printWordCounts("Only in "+args[0], cmp.UniqueToFirst)
		printWordCounts("Only in "+args[1], cmp.UniqueToSecond)

		changes := newTable("Word", "Before", "After", "Delta")
		for _, c := range cmp.FrequencyChanges {
			changes.AppendRow(table.Row{c.Word, c.Count1, c.Count2, fmt.Sprintf("%+d", c.Delta)})
		}
		changes.Render()
		return nil
	},
}
