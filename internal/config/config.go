// Package config loads ipyc defaults from an optional config file and the
// environment. Flags override config; config overrides detection.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the tool-wide defaults a user can persist instead of passing
// flags on every invocation.
type Config struct {
	// IPyDir is the IronPython installation directory. Empty means detect.
	IPyDir string
	// Executable is the IronPython binary name. Empty means the platform
	// default.
	Executable string
	// SearchRoots overrides the module search roots entirely when non-empty.
	SearchRoots []string
}

// Load reads ipyc.toml from the working directory or the user config dir
// (e.g. ~/.config/ipyc/), then applies IPYC_* environment variables on top.
// A missing config file is not an error.
func Load() (*Config, error) {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "ipyc"))
	}
	return loadFrom(paths)
}

func loadFrom(paths []string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("ipyc")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("IPYC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return &Config{
		IPyDir:      v.GetString("ipy_dir"),
		Executable:  v.GetString("executable"),
		SearchRoots: v.GetStringSlice("search_roots"),
	}, nil
}
