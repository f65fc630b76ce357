// Export command writes a saved query to a Markdown file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/pkg/types"
)

const exportDirName = "exports"

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export <query-id>",
	Short: "Export a saved query as Markdown",
	Long: `Export renders a saved query as Markdown and writes it under the
exports directory inside the data directory. The file name is derived
from the reference unless --out names one.

Example:
  concord export a1b2c3d4
  concord export a1b2c3d4 --out john3.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "output file name (default: derived from the reference)")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	exportDir := filepath.Join(dataDir, exportDirName)
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	out := flagExportOut
	if out == "" {
		out = exportFileName(rec.Reference)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(exportDir, out)
	}

	if err := os.WriteFile(out, []byte(formatQueryMarkdown(rec)), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	log.Info("exported query", "query", rec.ID, "path", out)
	fmt.Printf("Exported %s to %s\n", rec.ID, out)
	return nil
}

// exportFileName derives a file name from a reference, replacing
// characters that are awkward in paths.
func exportFileName(reference string) string {
	name := strings.ReplaceAll(reference, " ", "_")
	name = strings.ReplaceAll(name, ":", "-")
	return name + ".md"
}

// formatQueryMarkdown renders a saved query as Markdown: a reference
// heading, translation metadata, then verses grouped under per-chapter
// headings.
func formatQueryMarkdown(rec *types.QueryRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rec.Reference)

	if rec.TranslationName != "" {
		fmt.Fprintf(&b, "**Translation:** %s", rec.TranslationName)
		if rec.TranslationID != "" {
			fmt.Fprintf(&b, " %s", rec.TranslationID)
		}
		b.WriteString("\n")
	}
	if rec.TranslationNote != "" {
		fmt.Fprintf(&b, "*%s*\n", rec.TranslationNote)
	}
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Saved**: %s\n", formatTime(rec.CreatedAt))
	}
	b.WriteString("\n---\n\n")

	currentChapter := 0
	for _, v := range rec.Verses {
		if v.Chapter != currentChapter {
			if currentChapter != 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "## Chapter %d\n\n", v.Chapter)
			currentChapter = v.Chapter
		}
		fmt.Fprintf(&b, "[**%d**] %s\n\n", v.Verse, strings.TrimSpace(v.Text))
	}
	return b.String()
}
