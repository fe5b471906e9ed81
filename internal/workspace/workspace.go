// Package workspace manages the on-disk poemlab directory: default config, file cache
// and saved reports.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = ".poemlab"

const SettingsFile = "poemlab.json"

type CacheSettings struct {
	Backend string `json:"backend"`
	Dir     string `json:"dir"`
}

type LogSettings struct {
	Level string `json:"level"`
}

// Settings is the default config written on first use. Its keys match the config loader.
type Settings struct {
	Log   LogSettings   `json:"log"`
	Cache CacheSettings `json:"cache"`
}

func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		CacheDir(base),
		filepath.Join(base, "reports"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	settingsPath := SettingsPath(base)
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		defaults := Settings{
			Log:   LogSettings{Level: "info"},
			Cache: CacheSettings{Backend: "file", Dir: CacheDir(base)},
		}
		raw, marshalErr := json.MarshalIndent(defaults, "", "  ")
		if marshalErr != nil {
			return "", fmt.Errorf("marshal settings: %w", marshalErr)
		}
		if writeErr := os.WriteFile(settingsPath, raw, 0o644); writeErr != nil {
			return "", fmt.Errorf("write settings: %w", writeErr)
		}
	}

	return base, nil
}

func SettingsPath(base string) string { return filepath.Join(base, "configs", SettingsFile) }

func CacheDir(base string) string { return filepath.Join(base, "cache") }
