// Bounds command discovers how many chapters or verses a book has.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var boundsCmd = &cobra.Command{
	Use:   "bounds <book> [chapter]",
	Short: "Discover a book's chapter or verse count",
	Long: `Bounds probes the passage service to find the highest chapter of a
book, or the highest verse of one chapter when a chapter is given.
Probes are paced by request_delay_seconds and results are cached, so
repeated lookups are instant.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		disc := newDiscoverer(st)
		book := args[0]

		if len(args) == 2 {
			chapter, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid chapter %q", args[1])
			}
			max, err := disc.MaxVerse(book, chapter, translation())
			if err != nil {
				return err
			}
			fmt.Printf("%s %d has %d verses\n", book, chapter, max)
			return nil
		}

		max, err := disc.MaxChapter(book, translation())
		if err != nil {
			return err
		}
		if max == 0 {
			return fmt.Errorf("could not discover chapters for %q", book)
		}
		fmt.Printf("%s has %d chapters\n", book, max)
		return nil
	},
}
