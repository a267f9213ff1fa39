package cli

import (
	"os"
	"path/filepath"

	"github.com/bazelgem/gembuild/internal/buildifier"
	"github.com/bazelgem/gembuild/internal/gemfile"
	"github.com/bazelgem/gembuild/internal/gen"
	"github.com/bazelgem/gembuild/internal/trace"
	"github.com/bazelgem/gembuild/internal/util"
)

// configFile is the optional per-project override file for generator
// settings.
const configFile = ".gembuild.toml"

// runGenerate implements the whole gembuild pipeline: parse the
// lockfile, resolve groups from the Gemfile, render the build file,
// write it, and hand it to buildifier.
func runGenerate(buildPath, lockfilePath, runtimeRepo, srcsList, workspaceName string) {
	if trace.MaybeStart(getVersion()) {
		defer trace.Stop()
		span := trace.Span("gembuild.generate")
		defer span.Finish()
	}

	// srcsList is accepted for interface stability; generation is
	// driven entirely by the lockfile today.
	_ = srcsList

	contents, err := os.ReadFile(lockfilePath)
	if err != nil {
		util.Die("%s: %s", lockfilePath, err)
	}
	lock, err := gemfile.ParseLockfile(string(contents))
	if err != nil {
		util.Die("%s: %s", lockfilePath, err)
	}

	cfg := gen.DefaultConfig(runtimeRepo, workspaceName)
	if lock.BundledWith != "" {
		cfg.BundlerVersion = lock.BundledWith
	}
	cfg, err = cfg.WithFile(configFile)
	if err != nil {
		util.Die("%s: %s", configFile, err)
	}

	projectDir := filepath.Dir(lockfilePath)
	if bc := gemfile.ReadBundleConfig(projectDir); bc.Path != "" {
		cfg.StagingPath = bc.Path
	}

	var groups []gemfile.Group
	gemfilePath := filepath.Join(projectDir, "Gemfile")
	if util.Exists(gemfilePath) {
		text, err := os.ReadFile(gemfilePath)
		if err != nil {
			util.Die("%s: %s", gemfilePath, err)
		}
		groups = gemfile.ResolveGroups(string(text))
	}

	output := gen.New(cfg, lock.Gems, groups).Generate()
	util.TryWriteAtomic(buildPath, []byte(output))
	util.ProgressMsg("wrote " + buildPath)

	// The artifact is on disk either way; a formatting failure is
	// reported but does not fail the run.
	if err := buildifier.Format(buildPath); err != nil {
		util.Warn("%s", err)
	} else {
		util.ProgressMsg("formatted " + buildPath)
	}
}
