package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"daybook/internal/config"
)

// fileSettings mirrors ~/.daybook/config.toml. Zero values leave the
// environment or default value in place.
type fileSettings struct {
	Store struct {
		Driver string `toml:"driver"`
		DSN    string `toml:"dsn"`
	} `toml:"store"`
	Browse struct {
		PageSize int    `toml:"page_size"`
		Timezone string `toml:"timezone"`
	} `toml:"browse"`
	Cache struct {
		Addr string `toml:"addr"`
	} `toml:"cache"`
}

// defaultSettingsPath returns ~/.daybook/config.toml.
func defaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".daybook", "config.toml"), nil
}

// readSettings decodes the TOML file at path. A missing file is only an error
// when required is set.
func readSettings(path string, required bool) (*fileSettings, error) {
	s := &fileSettings{}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return s, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// apply overlays the non-zero file values onto cfg.
func (s *fileSettings) apply(cfg *config.DiaryConfig) {
	if s.Store.Driver != "" {
		cfg.Store.Driver = s.Store.Driver
	}
	if s.Store.DSN != "" {
		cfg.Store.DSN = s.Store.DSN
	}
	if s.Browse.PageSize > 0 {
		cfg.Browse.PageSize = s.Browse.PageSize
	}
	if s.Browse.Timezone != "" {
		cfg.Browse.Timezone = s.Browse.Timezone
	}
	if s.Cache.Addr != "" {
		cfg.Cache.Addr = s.Cache.Addr
	}
}
