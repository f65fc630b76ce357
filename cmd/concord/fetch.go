// Fetch command retrieves a passage from bible-api.com.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/internal/fetch"
	"github.com/mesh-intelligence/concord/internal/session"
	"github.com/mesh-intelligence/concord/pkg/types"
)

var (
	flagFetchSave    bool
	flagFetchSession bool
	flagFetchRandom  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [book] [chapter] [verses]",
	Short: "Fetch a passage",
	Long: `Fetch retrieves a passage and prints it. Verses may be a single
number or a range like 1-5; omit them for the whole chapter.

With --save the passage is stored permanently; with --session it is
cached in the active study session instead. With --random a random
verse is fetched and the positional arguments are ignored.

Example:
  concord fetch John 3 16
  concord fetch Psalms 23 --save
  concord fetch Romans 8 28-39 --session
  concord fetch --random`,
	Args: cobra.RangeArgs(0, 3),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&flagFetchSave, "save", false, "save the passage permanently")
	fetchCmd.Flags().BoolVar(&flagFetchSession, "session", false, "cache the passage in the active session")
	fetchCmd.Flags().BoolVar(&flagFetchRandom, "random", false, "fetch a random verse")
}

func runFetch(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client := fetch.NewClient(os.Getenv("CONCORD_API_URL"))

	var payload *types.VersePayload
	if flagFetchRandom {
		payload, err = client.Random(translation())
		if err != nil {
			return err
		}
	} else {
		if len(args) < 2 {
			return fmt.Errorf("book and chapter are required (or use --random)")
		}
		book := args[0]
		chapter, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid chapter %q", args[1])
		}
		verses := ""
		if len(args) == 3 {
			verses = args[2]
		}

		ref := fmt.Sprintf("%s %d", book, chapter)
		if verses != "" {
			ref = fmt.Sprintf("%s %d:%s", book, chapter, verses)
		}

		// A previously saved copy of the same reference skips the network.
		saved, err := st.QueryByReference(ref, translation())
		if err != nil {
			log.Warn("saved query lookup failed", "err", err)
		} else if saved != nil {
			fmt.Println(saved.Reference, "(from saved queries)")
			printVerses(saved.Verses)
			return nil
		}

		// So does a session-cached copy.
		if cliState.SessionID != "" {
			cached, err := st.CachedQueryByReference(ref, translation(), cliState.SessionID)
			if err != nil {
				log.Warn("session cache lookup failed", "err", err)
			} else if cached != nil {
				fmt.Println(cached.Reference, "(from session cache)")
				printVerses(cached.Verses)
				return nil
			}
		}

		payload, err = client.Fetch(book, chapter, verses, translation())
		if err != nil {
			return err
		}
	}

	fmt.Println(payload.Reference)
	printVerses(payload.Verses)

	ctx, err := currentContext(st)
	if err != nil {
		return err
	}
	mgr := session.NewManager(st, ctx)

	if flagFetchSave {
		id, err := st.SaveQuery(*payload)
		if err != nil {
			return fmt.Errorf("save query: %w", err)
		}
		fmt.Printf("Saved as query %s\n", id)
		if ctx.HasSession() {
			if err := mgr.AddQuery(id); err != nil {
				return fmt.Errorf("link query to session: %w", err)
			}
			fmt.Printf("Linked to session %s\n", ctx.SessionID)
		}
		return nil
	}

	if flagFetchSession {
		id, err := mgr.CacheQuery(*payload)
		if err != nil {
			return fmt.Errorf("cache in session: %w", err)
		}
		fmt.Printf("Cached in session as %s\n", id)
	}
	return nil
}
