// Package config loads and persists application settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

const settingsFile = "settings.json"

// Settings holds the user-editable application settings. The file is
// created with defaults on first run.
type Settings struct {
	MinecraftFolder string `mapstructure:"minecraftFolder" json:"minecraftFolder"`
	OfflineUsername string `mapstructure:"offlineUsername" json:"offlineUsername"`
	CurseforgeProxy string `mapstructure:"curseforgeProxy" json:"curseforgeProxy"`
}

// ModsDir returns the real game mods directory the profiles are
// reconciled against.
func (s *Settings) ModsDir() string {
	return filepath.Join(s.MinecraftFolder, "mods")
}

// VersionsDir returns the directory holding installed game and loader
// builds.
func (s *Settings) VersionsDir() string {
	return filepath.Join(s.MinecraftFolder, "versions")
}

// Load reads settings from dataDir, writing the defaults first if no
// settings file exists yet.
func Load(dataDir string) (*Settings, error) {
	path := filepath.Join(dataDir, settingsFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		defaults := defaultSettings()
		if err := Save(dataDir, defaults); err != nil {
			return nil, fmt.Errorf("writing default settings: %w", err)
		}
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("minecraftFolder", defaultMinecraftFolder())
	v.SetDefault("offlineUsername", "Player")
	v.SetDefault("curseforgeProxy", defaultProxyURL)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &settings, nil
}

// Save writes settings to dataDir as pretty-printed JSON.
func Save(dataDir string, settings *Settings) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("minecraftFolder", settings.MinecraftFolder)
	v.Set("offlineUsername", settings.OfflineUsername)
	v.Set("curseforgeProxy", settings.CurseforgeProxy)

	path := filepath.Join(dataDir, settingsFile)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

const defaultProxyURL = "http://mmm.ilwan.hackclub.app/curseforge"

func defaultSettings() *Settings {
	return &Settings{
		MinecraftFolder: defaultMinecraftFolder(),
		OfflineUsername: "Player",
		CurseforgeProxy: defaultProxyURL,
	}
}

// defaultMinecraftFolder returns the stock game directory for the
// current OS.
func defaultMinecraftFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, ".minecraft")
		}
		return filepath.Join(home, "AppData", "Roaming", ".minecraft")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft")
	default:
		return filepath.Join(home, ".minecraft")
	}
}
