// Session commands manage the study session lifecycle.
package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/internal/session"
	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

var (
	flagSessionScope string
	flagSessionTemp  bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage study sessions",
	Long: `Session groups fetched passages into one unit of study work.
Starting or resuming a session makes it the active session; fetches can
then be linked or cached into it. Ending a session keeps its data.`,
}

func init() {
	sessionStartCmd.Flags().StringVar(&flagSessionScope, "scope", "", "free-form scope note, e.g. a book or topic")
	sessionStartCmd.Flags().BoolVar(&flagSessionTemp, "temporary", false, "create unsaved; promote later with session save")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionResumeCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionSaveCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCacheCmd)
}

// withManager opens the store, builds the caller's context, runs fn,
// and persists the possibly-updated session pointer.
func withManager(fn func(*store.Store, *session.Manager, *session.Context) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, err := currentContext(st)
	if err != nil {
		return err
	}
	mgr := session.NewManager(st, ctx)

	if err := fn(st, mgr, ctx); err != nil {
		return err
	}

	if ctx.SessionID != cliState.SessionID || ctx.UserID != cliState.UserID {
		cliState.UserID = ctx.UserID
		cliState.SessionID = ctx.SessionID
		return saveState(cliState)
	}
	return nil
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a new session and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			id, err := mgr.Start(args[0], flagSessionScope, flagSessionTemp)
			if err != nil {
				return err
			}
			fmt.Printf("Started session %s\n", id)
			return nil
		})
	},
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume <session-id>",
	Short: "Make an existing session active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			sess, err := mgr.Resume(args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("no session with id %q", args[0])
			}
			fmt.Printf("Resumed session %s (%s)\n", sess.ID, sess.Name)
			return nil
		})
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active session (data is kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			if !mgr.End() {
				fmt.Println("No active session")
				return nil
			}
			fmt.Println("Session ended")
			return nil
		})
	},
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Mark the active session as permanent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			sess, err := mgr.Save()
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Println("No active session")
				return nil
			}
			fmt.Printf("Session %s saved\n", sess.ID)
			return nil
		})
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its attached data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			deleted, err := mgr.Delete(args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Printf("No session with id %q\n", args[0])
				return nil
			}
			fmt.Printf("Deleted session %s\n", args[0])
			return nil
		})
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			sessions, err := mgr.List()
			if err != nil {
				return err
			}

			t := newTable("ID", "Name", "Scope", "Saved", "Created")
			for _, s := range sessions {
				marker := ""
				if s.ID == ctx.SessionID {
					marker = " *"
				}
				t.AppendRow(table.Row{s.ID + marker, s.Name, s.Scope, s.IsSaved, formatTime(s.CreatedAt)})
			}
			t.Render()
			return nil
		})
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active session and its queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			sess, err := mgr.Current()
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Println("No active session")
				return nil
			}

			fmt.Printf("%s  %s  started %s\n", sess.ID, sess.Name, formatTime(sess.CreatedAt))
			entries, err := mgr.Queries()
			if err != nil {
				return err
			}

			t := newTable("Source", "ID", "Reference", "Verses")
			for _, e := range entries {
				switch e.Source {
				case types.SourceSaved:
					t.AppendRow(table.Row{e.Source, e.Record.ID, e.Record.Reference, len(e.Record.Verses)})
				case types.SourceCache:
					t.AppendRow(table.Row{e.Source, e.Cached.ID, e.Cached.Reference, len(e.Cached.Payload.Verses)})
				}
			}
			t.Render()
			return nil
		})
	},
}

var sessionClearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop the active session's cached queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(func(st *store.Store, mgr *session.Manager, ctx *session.Context) error {
			cleared, err := mgr.ClearCache()
			if err != nil {
				return err
			}
			if !cleared {
				fmt.Println("Nothing to clear")
				return nil
			}
			fmt.Println("Session cache cleared")
			return nil
		})
	},
}
