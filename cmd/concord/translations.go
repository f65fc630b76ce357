// Translation comparison command: fetch the same passage in two
// translations and show them side by side.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/internal/analysis"
	"github.com/mesh-intelligence/concord/pkg/types"
)

var (
	flagTransFirst  string
	flagTransSecond string
)

var analyzeTranslationsCmd = &cobra.Command{
	Use:   "translations <book> <chapter> [verses]",
	Short: "Compare a passage across two translations",
	Long: `Translations fetches the same passage in two translations and
prints them side by side. The comparison is recorded in analysis
history.

Example:
  concord analyze translations John 3 16
  concord analyze translations Psalms 23 --first web --second kjv`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runAnalyzeTranslations,
}

func init() {
	analyzeTranslationsCmd.Flags().StringVar(&flagTransFirst, "first", "", "first translation (default: configured translation)")
	analyzeTranslationsCmd.Flags().StringVar(&flagTransSecond, "second", "kjv", "second translation")
	analyzeCmd.AddCommand(analyzeTranslationsCmd)
}

func runAnalyzeTranslations(cmd *cobra.Command, args []string) error {
	book := args[0]
	chapter, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid chapter %q", args[1])
	}
	verses := ""
	if len(args) == 3 {
		verses = args[2]
	}

	first := flagTransFirst
	if first == "" {
		first = translation()
	}
	second := flagTransSecond
	if strings.EqualFold(first, second) {
		return fmt.Errorf("translations must differ, got %q twice", first)
	}

	client := newFetcher()
	firstPayload, err := client.Fetch(book, chapter, verses, first)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", first, err)
	}
	secondPayload, err := client.Fetch(book, chapter, verses, second)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", second, err)
	}

	printSideBySide(firstPayload, secondPayload)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, err := currentContext(st)
	if err != nil {
		return err
	}

	verseCount := len(firstPayload.Verses)
	if len(secondPayload.Verses) > verseCount {
		verseCount = len(secondPayload.Verses)
	}
	tracker := analysis.NewTracker(st, ctx.UserID, ctx.SessionID)
	id, err := tracker.SaveTranslationComparison(
		map[string]any{
			"reference":    firstPayload.Reference,
			"translation1": translationSummary(firstPayload, first),
			"translation2": translationSummary(secondPayload, second),
		},
		types.ScopeQuery,
		map[string]any{"reference": firstPayload.Reference, "translations": []string{first, second}},
		verseCount,
	)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded as analysis %s\n", id)
	return nil
}

// translationSummary captures one side of a comparison for the stored
// result payload. Falls back to the requested abbreviation when the API
// omits translation metadata.
func translationSummary(p *types.VersePayload, requested string) map[string]any {
	name := p.TranslationName
	if name == "" {
		name = strings.ToUpper(requested)
	}
	id := p.TranslationID
	if id == "" {
		id = requested
	}
	texts := make([]string, 0, len(p.Verses))
	for _, v := range p.Verses {
		texts = append(texts, fmt.Sprintf("[%d] %s", v.Verse, strings.TrimSpace(v.Text)))
	}
	return map[string]any{
		"translation_id":   id,
		"translation_name": name,
		"verses":           texts,
	}
}

// printSideBySide renders the two translations verse by verse. Rows pad
// with a blank cell when one translation has fewer verses.
func printSideBySide(first, second *types.VersePayload) {
	firstName := first.TranslationName
	if firstName == "" {
		firstName = first.TranslationID
	}
	secondName := second.TranslationName
	if secondName == "" {
		secondName = second.TranslationID
	}

	fmt.Println(first.Reference)
	t := newTable(firstName, secondName)
	rows := len(first.Verses)
	if len(second.Verses) > rows {
		rows = len(second.Verses)
	}
	for i := 0; i < rows; i++ {
		var left, right string
		if i < len(first.Verses) {
			v := first.Verses[i]
			left = fmt.Sprintf("[%d] %s", v.Verse, strings.TrimSpace(v.Text))
		}
		if i < len(second.Verses) {
			v := second.Verses[i]
			right = fmt.Sprintf("[%d] %s", v.Verse, strings.TrimSpace(v.Text))
		}
		t.AppendRow(table.Row{left, right})
	}
	t.Render()
}
