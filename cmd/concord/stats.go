// Stats command prints reading statistics over saved verses.
package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var flagStatsChapters bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
	Long: `Stats summarizes the saved verses: totals, unique books and
chapters, and the verse count per book. With --chapters the per-chapter
distribution is shown as well.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsChapters, "chapters", false, "include per-chapter distribution")
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	total, err := st.TotalVerseCount()
	if err != nil {
		return err
	}
	books, err := st.UniqueBooks()
	if err != nil {
		return err
	}
	chapters, err := st.UniqueChapters()
	if err != nil {
		return err
	}

	fmt.Printf("Saved verses: %d across %d books, %d chapters\n", total, len(books), len(chapters))

	dist, err := st.BookDistribution()
	if err != nil {
		return err
	}
	t := newTable("Book", "Verses")
	for _, b := range dist {
		t.AppendRow(table.Row{b.Book, b.Count})
	}
	t.Render()

	if flagStatsChapters {
		chDist, err := st.ChapterDistribution()
		if err != nil {
			return err
		}
		ct := newTable("Book", "Chapter", "Verses")
		for _, c := range chDist {
			ct.AppendRow(table.Row{c.Book, c.Chapter, c.Count})
		}
		ct.Render()
	}
	return nil
}
