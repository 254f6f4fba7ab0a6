// Package config loads the tool's configuration file and applies
// environment overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jodiecunningham/blueprint/pkg/errors"
)

// EnvStoreDir overrides the store directory when set.
const EnvStoreDir = "BLUEPRINT_DIR"

// Config holds the user-tunable settings. Zero values mean "use the
// default".
type Config struct {
	// StoreDir is the object store location. Defaults to
	// ~/.blueprint.git, matching the dotted-git convention for a bare
	// store.
	StoreDir string `toml:"store_dir"`

	// Codename overrides OS release detection, for generating scripts
	// targeting a release other than the local one.
	Codename string `toml:"codename"`
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolving config directory")
	}
	return filepath.Join(dir, "blueprint", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults; a present but
// unparseable file is an error. The BLUEPRINT_DIR environment variable
// wins over the file's store_dir.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing config file %q", path)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "reading config file %q", path)
	}

	if dir := os.Getenv(EnvStoreDir); dir != "" {
		cfg.StoreDir = dir
	}
	if cfg.StoreDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "resolving home directory")
		}
		cfg.StoreDir = filepath.Join(home, ".blueprint.git")
	}
	return cfg, nil
}
