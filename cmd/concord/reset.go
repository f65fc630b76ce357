// Reset command drops and recreates the study database.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagResetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the study database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagResetForce {
			return fmt.Errorf("reset deletes all saved data; pass --force to confirm")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Reset(); err != nil {
			return err
		}

		cliState = state{}
		if err := saveState(cliState); err != nil {
			return err
		}
		fmt.Println("Database reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetForce, "force", false, "confirm the reset")
}
