// Root command for the concord CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/internal/paths"
)

// Global flag values.
var (
	flagConfigDir   string
	flagDataDir     string
	flagUser        string
	flagTranslation string
)

// Values loaded from config.yaml by PersistentPreRunE so all
// subcommands can use them.
var (
	configDataDir      string
	configUser         string
	configTranslation  string
	configRequestDelay int
	configStopWords    string
)

// cliState is the persisted current user/session, loaded alongside the
// config.
var cliState state

var rootCmd = &cobra.Command{
	Use:   "concord",
	Short: "Concord is a scripture study and analytics tool",
	Long: `Concord fetches scripture passages, saves them to a local study
database, organizes them into study sessions, and runs word-frequency
and phrase analytics over the saved text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		configDataDir = cfg.GetString(cfgKeyDataDir)
		configUser = cfg.GetString(cfgKeyUser)
		configTranslation = cfg.GetString(cfgKeyTranslation)
		configRequestDelay = cfg.GetInt(cfgKeyRequestDelay)
		configStopWords = cfg.GetString(cfgKeyStopWords)

		cliState, err = loadState(configDir)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.concord-db)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "user name (overrides config and sign-in state)")
	rootCmd.PersistentFlags().StringVar(&flagTranslation, "translation", "", "translation abbreviation, e.g. web or kjv")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(boundsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(resetCmd)
}

// resolveConfigDir follows the precedence chain:
// --config-dir flag > CONCORD_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir follows the precedence chain:
// --data-dir flag > config.yaml data_dir > CONCORD_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// translation returns the effective translation: flag > config.
func translation() string {
	if flagTranslation != "" {
		return flagTranslation
	}
	return configTranslation
}
