// Show command prints one saved query with its verses.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <query-id>",
	Short: "Show a saved query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.GetQuery(args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no query with id %q", args[0])
		}

		fmt.Printf("%s  %s  saved %s\n", rec.ID, rec.Reference, formatTime(rec.CreatedAt))
		if rec.TranslationName != "" {
			fmt.Printf("Translation: %s (%s)\n", rec.TranslationName, rec.TranslationID)
		}
		printVerses(rec.Verses)
		return nil
	},
}
