package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazelgem/gembuild/internal/gemfile"
)

func testConfig() Config {
	return DefaultConfig("ruby_runtime", "rules_gem")
}

// The two-gem worked example: a has no deps, b depends on a, and the
// default group declares only b.
func exampleInputs() ([]gemfile.LockedGem, []gemfile.Group) {
	gems := []gemfile.LockedGem{
		{
			Name:    "a",
			Version: "1",
			Source:  gemfile.SourceRemote,
			Remote:  "https://rubygems.org/",
		},
		{
			Name:         "b",
			Version:      "2",
			Source:       gemfile.SourceRemote,
			Remote:       "https://rubygems.org/",
			Dependencies: []string{"a"},
		},
	}
	groups := []gemfile.Group{
		{Name: "default", Members: []string{"b"}},
	}
	return gems, groups
}

func TestGenerateExample(t *testing.T) {
	gems, groups := exampleInputs()
	out := New(testConfig(), gems, groups).Generate()

	for _, want := range []string{
		`name = "a-gem-fetch"`,
		`name = "a-gem-install"`,
		`name = "b-gem-fetch"`,
		`name = "b-gem-install"`,
		`name = "bundler-gem-fetch"`,
		`name = "bundler-gem-install"`,
	} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, out, `gem_install(
    name = "b-gem-install",
    fetch = ":b-gem-fetch",
    gem = "b",
    version = "2",
    platform = "x86_64-linux",
    staging_path = "vendor/bundle",
    tools = [
        ":a-gem-install",
    ],
)
`)

	assert.Contains(t, out, `gem_group(
    name = "gems-cache",
    srcs = [
        ":a-gem-fetch",
        ":b-gem-fetch",
    ],
)
`)

	assert.Contains(t, out, `gem_group(
    name = "gems-default",
    srcs = [
        ":b-gem-install",
    ],
)
`)
}

func TestGenerateTargetCounts(t *testing.T) {
	// Two remote gems, one path gem: two fetch targets and three
	// install targets, plus the bundler pair.
	gems := []gemfile.LockedGem{
		{Name: "a", Version: "1", Source: gemfile.SourceRemote},
		{Name: "b", Version: "2", Source: gemfile.SourceRemote},
		{Name: "local", Version: "0.1.0", Source: gemfile.SourceLocal, Path: "../local"},
	}
	out := New(testConfig(), gems, nil).Generate()

	assert.Equal(t, 2+1, strings.Count(out, "gem_fetch("))
	assert.Equal(t, 3+1, strings.Count(out, "gem_install("))
}

func TestGenerateDependencyEdges(t *testing.T) {
	gems := []gemfile.LockedGem{
		{
			Name:         "rspec",
			Version:      "3.12.0",
			Source:       gemfile.SourceRemote,
			Dependencies: []string{"rspec-core", "rspec-expectations", "rspec-mocks"},
		},
	}
	out := New(testConfig(), gems, nil).Generate()

	assert.Contains(t, out, `    tools = [
        ":rspec-core-gem-install",
        ":rspec-expectations-gem-install",
        ":rspec-mocks-gem-install",
    ],
`)
}

func TestGenerateLocalGem(t *testing.T) {
	gems := []gemfile.LockedGem{
		{
			Name:         "widgets",
			Version:      "0.1.0",
			Source:       gemfile.SourceLocal,
			Path:         "../widgets",
			Dependencies: []string{"rake"},
		},
	}
	out := New(testConfig(), gems, nil).Generate()

	assert.NotContains(t, out, "widgets-gem-fetch")
	assert.Contains(t, out, `gem_install(
    name = "widgets-gem-install",
    gem = "widgets",
    version = "0.1.0",
    path = "../widgets",
    staging_path = "vendor/bundle",
    tools = [
        ":rake-gem-install",
    ],
)
`)
}

func TestGenerateGitGem(t *testing.T) {
	// A git-sourced gem gets an install target of its own, so a
	// registry gem depending on it never points at an undeclared
	// label.
	gems := []gemfile.LockedGem{
		{
			Name:     "arel",
			Version:  "9.0.0",
			Source:   gemfile.SourceGit,
			Remote:   "https://github.com/rails/arel.git",
			Revision: "4e2dd4e8cbbd7e9767b26ec4c553fd342866cc36",
		},
		{
			Name:         "consumer",
			Version:      "2.0.0",
			Source:       gemfile.SourceRemote,
			Dependencies: []string{"arel"},
		},
	}
	out := New(testConfig(), gems, nil).Generate()

	assert.NotContains(t, out, "arel-gem-fetch")
	assert.Contains(t, out, `gem_install(
    name = "arel-gem-install",
    gem = "arel",
    version = "9.0.0",
    remote = "https://github.com/rails/arel.git",
    revision = "4e2dd4e8cbbd7e9767b26ec4c553fd342866cc36",
    staging_path = "vendor/bundle",
)
`)
	assert.Contains(t, out, `    tools = [
        ":arel-gem-install",
    ],
`)
}

func TestGenerateAggregatesExcludeLocalGems(t *testing.T) {
	gems := []gemfile.LockedGem{
		{Name: "a", Version: "1", Source: gemfile.SourceRemote},
		{Name: "widgets", Version: "0.1.0", Source: gemfile.SourceLocal, Path: "../widgets"},
		{Name: "arel", Version: "9.0.0", Source: gemfile.SourceGit,
			Remote: "https://github.com/rails/arel.git", Revision: "4e2dd4e"},
	}
	out := New(testConfig(), gems, nil).Generate()

	cacheStart := strings.Index(out, `name = "gems-cache"`)
	require.GreaterOrEqual(t, cacheStart, 0)
	aggregates := out[cacheStart:]
	assert.NotContains(t, aggregates, "widgets")
	assert.NotContains(t, aggregates, "arel")
	assert.NotContains(t, aggregates, "bundler")
}

func TestGenerateGroupMembersVerbatim(t *testing.T) {
	// Group bundles list exactly the resolver's declared members,
	// in resolver order, with no transitive expansion.
	gems := []gemfile.LockedGem{
		{Name: "rspec", Version: "3.12.0", Source: gemfile.SourceRemote,
			Dependencies: []string{"rspec-core"}},
		{Name: "rspec-core", Version: "3.12.0", Source: gemfile.SourceRemote},
		{Name: "pry", Version: "0.14.2", Source: gemfile.SourceRemote},
	}
	groups := []gemfile.Group{
		{Name: "test", Members: []string{"rspec", "pry"}},
	}
	out := New(testConfig(), gems, groups).Generate()

	assert.Contains(t, out, `gem_group(
    name = "gems-test",
    srcs = [
        ":rspec-gem-install",
        ":pry-gem-install",
    ],
)
`)
}

func TestGenerateHeader(t *testing.T) {
	out := New(testConfig(), nil, nil).Generate()

	assert.True(t, strings.HasPrefix(out, "# Generated by gembuild"))
	assert.Contains(t, out,
		`load("@rules_gem//ruby:defs.bzl", "gem_fetch", "gem_group", "gem_install", "rb_library")`)
	assert.Contains(t, out, `package(default_visibility = ["//visibility:public"])`)
	assert.Contains(t, out, `srcs = glob(["ruby_runtime/lib/**/*.rb"]),`)
}

func TestGenerateBundlerVersion(t *testing.T) {
	cfg := testConfig()
	cfg.BundlerVersion = "2.5.6"
	out := New(cfg, nil, nil).Generate()

	assert.Contains(t, out, `gem_fetch(
    name = "bundler-gem-fetch",
    gem = "bundler",
    version = "2.5.6",
    platform = "x86_64-linux",
    source = "https://rubygems.org/",
)
`)
}

func TestGenerateBlockOrder(t *testing.T) {
	gems, groups := exampleInputs()
	out := New(testConfig(), gems, groups).Generate()

	positions := []int{
		strings.Index(out, "rb_library("),
		strings.Index(out, `name = "a-gem-fetch"`),
		strings.Index(out, `name = "b-gem-fetch"`),
		strings.Index(out, `name = "bundler-gem-fetch"`),
		strings.Index(out, `name = "gems-cache"`),
		strings.Index(out, `name = "gems-install"`),
		strings.Index(out, `name = "gems-default"`),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "block %d missing", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "block %d out of order", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gems, groups := exampleInputs()
	first := New(testConfig(), gems, groups).Generate()
	second := New(testConfig(), gems, groups).Generate()
	assert.Equal(t, first, second)
}
