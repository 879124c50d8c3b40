package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	EnginePath    string `toml:"engine_path"`
	DBPath        string `toml:"db_path"`
	DefaultFormat string `toml:"default_format"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		EnginePath:    "", // empty means search PATH for chatpack-engine
		DBPath:        filepath.Join(home, ".config", "cpk", "history.db"),
		DefaultFormat: "jsonl",
	}

	cfgPath := filepath.Join(home, ".config", "cpk", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.EnginePath = expandHome(cfg.EnginePath, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
