// Package gen turns a parsed Bundler lockfile into Bazel-style build
// declarations: one fetch and one install target per remote gem, one
// install target per path or git gem, bundle targets per Gemfile
// group, and a cache/install aggregate pair over all remote gems.
//
// The emitted gem_install targets parameterize the install rule rather
// than perform work themselves. The rule stages each gem into
// Config.StagingPath after unpacking its dependencies' staged outputs,
// installs only when the fetched artifact's platform tag matches
// Config.TargetPlatform (or the gem has no compiled extensions and the
// ambient platform is compatible), and otherwise parks the raw
// artifact in a platform-tagged cache directory for a downstream
// consumer. Absolute symlinks for gem executables are rewritten as
// relative ones so staged output stays relocatable, and installer
// metadata that is dead weight at runtime (wrapper scripts, env
// descriptors, the gem's own cache copy) is pruned before archiving.
package gen

import (
	"strings"

	"github.com/bazelgem/gembuild/internal/gemfile"
)

// coreGem is the synthetic always-present entry for bundler itself. It
// gets the same remote fetch/install pair as any registry gem, but
// never appears in the lockfile and never joins the aggregates.
const coreGem = "bundler"

// Generator holds one run's inputs. Construct with New, render with
// Generate; a Generator is not reused across runs.
type Generator struct {
	cfg    Config
	gems   []gemfile.LockedGem
	groups []gemfile.Group
}

// New returns a Generator over the given lockfile gems and Gemfile
// groups. Gem order and group order are preserved in the output.
func New(cfg Config, gems []gemfile.LockedGem, groups []gemfile.Group) *Generator {
	return &Generator{cfg: cfg, gems: gems, groups: groups}
}

// Generate renders the complete build file: header, per-gem blocks in
// lockfile order, the bundler block, the two all-remote-gems
// aggregates, then one block per group in resolver order.
func (g *Generator) Generate() string {
	var b strings.Builder

	g.writeHeader(&b)
	for _, gem := range g.gems {
		g.writeGem(&b, gem)
	}
	g.writeCoreGem(&b)
	g.writeRemoteAggregates(&b)
	for _, group := range g.groups {
		g.writeGroup(&b, group)
	}

	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder) {
	b.WriteString("# Generated by gembuild from Gemfile.lock. Do not edit by hand.\n\n")
	b.WriteString(`load("@` + g.cfg.WorkspaceName + `//ruby:defs.bzl", "gem_fetch", "gem_group", "gem_install", "rb_library")` + "\n\n")
	b.WriteString(`package(default_visibility = ["//visibility:public"])` + "\n\n")

	lib := NewTarget("rb_library", "runtime").
		AttrRaw("srcs", `glob(["`+g.cfg.RuntimeRepo+`/lib/**/*.rb"])`)
	b.WriteString(lib.Render())
	b.WriteString("\n")
}

// installLabels maps a gem's dependency names to install-target labels,
// order-preserving.
func installLabels(deps []string) []string {
	labels := make([]string, 0, len(deps))
	for _, dep := range deps {
		labels = append(labels, label(installTargetName(dep)))
	}
	return labels
}

func (g *Generator) writeGem(b *strings.Builder, gem gemfile.LockedGem) {
	switch gem.Source {
	case gemfile.SourceLocal:
		install := NewTarget("gem_install", installTargetName(gem.Name)).
			AttrString("gem", gem.Name).
			AttrString("version", gem.Version).
			AttrString("path", gem.Path).
			AttrString("staging_path", g.cfg.StagingPath)
		if len(gem.Dependencies) > 0 {
			install.AttrList("tools", installLabels(gem.Dependencies))
		}
		b.WriteString(install.Render())
		b.WriteString("\n")

	case gemfile.SourceGit:
		// Like a path gem, the pinned checkout is the source;
		// there is no registry artifact to fetch or cache.
		install := NewTarget("gem_install", installTargetName(gem.Name)).
			AttrString("gem", gem.Name).
			AttrString("version", gem.Version).
			AttrString("remote", gem.Remote).
			AttrString("revision", gem.Revision).
			AttrString("staging_path", g.cfg.StagingPath)
		if len(gem.Dependencies) > 0 {
			install.AttrList("tools", installLabels(gem.Dependencies))
		}
		b.WriteString(install.Render())
		b.WriteString("\n")

	default:
		registry := gem.Remote
		if registry == "" {
			registry = DefaultRegistry
		}
		g.writeRemotePair(b, gem.Name, gem.Version, registry, gem.Dependencies)
	}
}

// writeRemotePair emits the fetch/install pair shared by registry gems
// and the synthetic bundler entry.
func (g *Generator) writeRemotePair(b *strings.Builder, name, version, registry string, deps []string) {
	fetch := NewTarget("gem_fetch", fetchTargetName(name)).
		AttrString("gem", name).
		AttrString("version", version).
		AttrString("platform", g.cfg.TargetPlatform).
		AttrString("source", registry)
	b.WriteString(fetch.Render())
	b.WriteString("\n")

	install := NewTarget("gem_install", installTargetName(name)).
		AttrString("fetch", label(fetchTargetName(name))).
		AttrString("gem", name).
		AttrString("version", version).
		AttrString("platform", g.cfg.TargetPlatform).
		AttrString("staging_path", g.cfg.StagingPath)
	if len(deps) > 0 {
		install.AttrList("tools", installLabels(deps))
	}
	b.WriteString(install.Render())
	b.WriteString("\n")
}

func (g *Generator) writeCoreGem(b *strings.Builder) {
	g.writeRemotePair(b, coreGem, g.cfg.BundlerVersion, DefaultRegistry, nil)
}

// writeRemoteAggregates emits the gems-cache and gems-install bundles
// over every remote lockfile gem. Path and git gems have no cache
// layout and are excluded, as is the synthetic bundler pair.
func (g *Generator) writeRemoteAggregates(b *strings.Builder) {
	var fetches, installs []string
	for _, gem := range g.gems {
		if gem.Source != gemfile.SourceRemote {
			continue
		}
		fetches = append(fetches, label(fetchTargetName(gem.Name)))
		installs = append(installs, label(installTargetName(gem.Name)))
	}

	cache := NewTarget("gem_group", "gems-cache").
		AttrList("srcs", fetches)
	b.WriteString(cache.Render())
	b.WriteString("\n")

	install := NewTarget("gem_group", "gems-install").
		AttrList("srcs", installs)
	b.WriteString(install.Render())
	b.WriteString("\n")
}

// writeGroup emits one bundle per Gemfile group, listing exactly the
// group's declared members' install targets in resolver order. No
// transitive expansion: dependencies reach the group through each
// member's own install target.
func (g *Generator) writeGroup(b *strings.Builder, group gemfile.Group) {
	bundle := NewTarget("gem_group", groupTargetName(group.Name)).
		AttrList("srcs", installLabels(group.Members))
	b.WriteString(bundle.Render())
	b.WriteString("\n")
}
