package gemfile

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/bazelgem/gembuild/internal/util"
)

// BundleConfig holds the settings gembuild cares about from a
// project's .bundle/config file.
type BundleConfig struct {
	// Path is BUNDLE_PATH, the directory bundler stages gems into.
	Path string `yaml:"BUNDLE_PATH"`
}

// ReadBundleConfig reads .bundle/config relative to dir. A missing
// file yields the zero value; an unreadable or malformed one is fatal,
// since silently ignoring it would generate targets with the wrong
// staging path.
func ReadBundleConfig(dir string) BundleConfig {
	filename := filepath.Join(dir, ".bundle", "config")
	contents, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return BundleConfig{}
		}
		util.Die("%s: %s", filename, err)
	}

	var bc BundleConfig
	if err := yaml.Unmarshal(contents, &bc); err != nil {
		util.Die("%s: %s", filename, err)
	}
	return bc
}
