// List command prints all saved queries.
package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		summaries, err := st.ListQueries()
		if err != nil {
			return err
		}

		t := newTable("ID", "Reference", "Verses", "Saved")
		for _, s := range summaries {
			t.AppendRow(table.Row{s.ID, s.Reference, s.VerseCount, formatTime(s.CreatedAt)})
		}
		t.Render()
		return nil
	},
}
