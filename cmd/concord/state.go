// Sign-in and session state persisted between CLI invocations.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

const stateFileName = "state"

const (
	stateKeyUserID    = "current_user_id"
	stateKeySessionID = "current_session_id"
)

// state is the persisted current user and session. Each CLI invocation
// is a separate process, so the active-session pointer lives in
// state.yaml in the config directory rather than in memory.
type state struct {
	UserID    string
	SessionID string
}

// loadState reads state.yaml from the config directory. A missing file
// yields a zero state.
func loadState(configDir string) (state, error) {
	v := viper.New()
	v.SetConfigName(stateFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return state{}, nil
		}
		return state{}, fmt.Errorf("read state: %w", err)
	}

	return state{
		UserID:    v.GetString(stateKeyUserID),
		SessionID: v.GetString(stateKeySessionID),
	}, nil
}

// saveState writes the state back to state.yaml in the config directory.
func saveState(s state) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}

	v := viper.New()
	v.Set(stateKeyUserID, s.UserID)
	v.Set(stateKeySessionID, s.SessionID)

	path := filepath.Join(configDir, stateFileName+"."+configFileType)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
