// User commands manage study users and the sign-in state.
package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users and sign-in",
}

func init() {
	userCmd.AddCommand(userLoginCmd)
	userCmd.AddCommand(userLogoutCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userWhoamiCmd)
}

var userLoginCmd = &cobra.Command{
	Use:   "login <name>",
	Short: "Sign in as a user, creating them on first use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.EnsureUser(args[0])
		if err != nil {
			return err
		}

		cliState.UserID = id
		cliState.SessionID = ""
		if err := saveState(cliState); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s)\n", args[0], id)
		return nil
	},
}

var userLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the active session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliState = state{}
		if err := saveState(cliState); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		users, err := st.ListUsers()
		if err != nil {
			return err
		}

		t := newTable("ID", "Name", "Created")
		for _, u := range users {
			t.AppendRow(table.Row{u.ID, u.Name, formatTime(u.CreatedAt)})
		}
		t.Render()
		return nil
	},
}

var userWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
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
		if !ctx.Authenticated() {
			fmt.Println("Not signed in")
			return nil
		}
		user, err := st.UserByID(ctx.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("Not signed in")
			return nil
		}
		fmt.Printf("%s (%s)\n", user.Name, user.ID)
		if ctx.HasSession() {
			fmt.Printf("Active session: %s\n", ctx.SessionID)
		}
		return nil
	},
}
