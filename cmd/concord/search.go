// Search command finds saved verses containing a word.
package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <word>",
	Short: "Search saved verses for a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		matches, err := st.SearchWord(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Printf("No saved verses contain %q\n", args[0])
			return nil
		}

		t := newTable("Reference", "Text")
		for _, m := range matches {
			t.AppendRow(table.Row{fmt.Sprintf("%s %d:%d", m.Book, m.Chapter, m.Verse), m.Text})
		}
		t.Render()
		return nil
	},
}
