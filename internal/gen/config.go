package gen

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Defaults for Config fields that have no command-line argument.
const (
	DefaultTargetPlatform = "x86_64-linux"
	DefaultStagingPath    = "vendor/bundle"
	DefaultBundlerVersion = "2.4.13"
	DefaultRegistry       = "https://rubygems.org/"
)

// Config carries every run parameter the generator needs, passed in
// explicitly at construction rather than read from ambient process
// state.
type Config struct {
	// RuntimeRepo is the repository holding the Ruby runtime
	// sources that the generated rb_library target wraps.
	RuntimeRepo string

	// WorkspaceName is substituted into the load statement at the
	// top of the generated file.
	WorkspaceName string

	// BundlerVersion is the version used for the synthetic bundler
	// fetch/install pair that is always emitted.
	BundlerVersion string

	// TargetPlatform is the fixed platform identifier that fetch
	// targets request and install targets are checked against.
	TargetPlatform string

	// StagingPath is the shared root that install targets stage
	// gems into.
	StagingPath string

	// ExcludedExecutables names gem entry points (console and
	// setup helpers) that are exempt from the relocatable-symlink
	// requirement. The set is carried through to keep the contract
	// documented; install rules do not filter on it yet.
	ExcludedExecutables []string
}

// DefaultConfig returns the configuration for a run with no overrides.
func DefaultConfig(runtimeRepo string, workspaceName string) Config {
	return Config{
		RuntimeRepo:         runtimeRepo,
		WorkspaceName:       workspaceName,
		BundlerVersion:      DefaultBundlerVersion,
		TargetPlatform:      DefaultTargetPlatform,
		StagingPath:         DefaultStagingPath,
		ExcludedExecutables: []string{"console", "setup"},
	}
}

// fileConfig mirrors the optional .gembuild.toml override file.
type fileConfig struct {
	TargetPlatform      string   `toml:"target_platform"`
	StagingPath         string   `toml:"staging_path"`
	BundlerVersion      string   `toml:"bundler_version"`
	ExcludedExecutables []string `toml:"excluded_executables"`
}

// WithFile applies overrides from a TOML file on top of c. A missing
// file is not an error.
func (c Config) WithFile(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(contents, &fc); err != nil {
		return c, err
	}
	if fc.TargetPlatform != "" {
		c.TargetPlatform = fc.TargetPlatform
	}
	if fc.StagingPath != "" {
		c.StagingPath = fc.StagingPath
	}
	if fc.BundlerVersion != "" {
		c.BundlerVersion = fc.BundlerVersion
	}
	if fc.ExcludedExecutables != nil {
		c.ExcludedExecutables = fc.ExcludedExecutables
	}
	return c, nil
}
