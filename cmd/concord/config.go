// Config loading for the concord CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir      = "data_dir"
	cfgKeyUser         = "user"
	cfgKeyTranslation  = "default_translation"
	cfgKeyRequestDelay = "request_delay_seconds"
	cfgKeyStopWords    = "stop_words_file"

	defaultTranslation  = "web"
	defaultRequestDelay = 1
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Concord CLI configuration

# Default translation for fetches (bible-api.com abbreviation)
default_translation: web

# Seconds to wait between paced discovery requests
request_delay_seconds: 1

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Default user name (optional; overridable by --user flag)
# user:

# Stop words JSON file for analytics (optional; built-in set otherwise)
# stop_words_file:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyTranslation, defaultTranslation)
	v.SetDefault(cfgKeyRequestDelay, defaultRequestDelay)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
