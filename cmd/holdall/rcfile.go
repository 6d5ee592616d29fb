package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// rcFile holds the optional per-user defaults from
// ~/.config/holdall/config.toml. Flags given on the command line always
// win over rc-file values.
type rcFile struct {
	Level       *int     `toml:"level"`
	Overwrite   *bool    `toml:"overwrite"`
	IgnoreTypes []string `toml:"ignore-types"`
}

func rcFilePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "holdall", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "holdall", "config.toml")
}

// loadRcFile reads the rc file. A missing file returns empty defaults.
func loadRcFile(path string) (*rcFile, error) {
	var rc rcFile
	if path == "" {
		return &rc, nil
	}
	if _, err := toml.DecodeFile(path, &rc); err != nil {
		if os.IsNotExist(err) {
			return &rcFile{}, nil
		}
		return nil, fmt.Errorf("read rc file: %w", err)
	}
	return &rc, nil
}

// applyRcFile overlays rc-file defaults onto opts for every flag the user
// did not set explicitly.
func applyRcFile(cmd *cobra.Command, opts *options) error {
	rc, err := loadRcFile(rcFilePath())
	if err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	if rc.Level != nil && !flags.Changed("level") {
		opts.level = *rc.Level
	}
	if rc.Overwrite != nil && !flags.Changed("overwrite") {
		opts.overwrite = *rc.Overwrite
	}
	if len(rc.IgnoreTypes) > 0 && !flags.Changed("ignore-types") {
		opts.ignoreTypes = rc.IgnoreTypes
	}
	return nil
}
