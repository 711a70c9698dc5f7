// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAccount is used when no accounts are configured.
const DefaultAccount = "기본계좌"

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the configured database path, defaulting to the
// standard per-user data directory.
func DatabasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/jangbu/jangbu.db"
	}
	return ExpandPath(dbPath)
}

// Accounts returns the configured account labels. An empty configuration
// yields a single default account so the preview always has one to cycle.
func Accounts() []string {
	accounts := viper.GetStringSlice("accounts")
	var out []string
	for _, a := range accounts {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{DefaultAccount}
	}
	return out
}

// DefaultStartRow returns the configured default header position for
// uploaded spreadsheets.
func DefaultStartRow() int {
	viper.SetDefault("import.start_row", 4)
	return viper.GetInt("import.start_row")
}
