// Package gemfile parses Bundler manifests: Gemfile.lock for the
// resolved gem set, the Gemfile for top-level group membership, and
// .bundle/config for the staging path.
package gemfile

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// SourceKind says where a locked gem comes from.
type SourceKind int

const (
	// SourceRemote is a gem fetched from a registry.
	SourceRemote SourceKind = iota

	// SourceLocal is a gem vendored from a filesystem path.
	SourceLocal

	// SourceGit is a gem checked out from a git repository at a
	// pinned revision.
	SourceGit
)

// LockedGem is one resolved entry from Gemfile.lock. The order of
// Dependencies matches the lockfile.
type LockedGem struct {
	Name         string
	Version      string
	Platform     string // empty for pure-Ruby gems
	Source       SourceKind
	Remote       string // registry URL for SourceRemote, repository URL for SourceGit
	Path         string // filesystem path, for SourceLocal
	Revision     string // pinned commit, for SourceGit
	Dependencies []string
}

// Lockfile is the parsed form of a Gemfile.lock. Gems preserves the
// lockfile's iteration order across its GEM, PATH, and GIT sections.
type Lockfile struct {
	Gems []LockedGem

	// BundledWith is the bundler version recorded in the BUNDLED
	// WITH section, or empty if the section is absent.
	BundledWith string
}

// Gem spec lines sit under "specs:" at four spaces of indentation;
// their dependencies follow at six. A trailing "-<platform>" on the
// version is a platform tag, since Gem::Version never contains a dash.
var specLine = regexp.MustCompile(`^    ([A-Za-z0-9_.-]+) \(([0-9]+(?:\.[0-9A-Za-z]+)*)(?:-([^)]+))?\)$`)
var depLine = regexp.MustCompile(`^      ([A-Za-z0-9_.-]+)(?: \([^)]*\))?$`)

// ParseLockfile parses the text of a Gemfile.lock.
func ParseLockfile(text string) (*Lockfile, error) {
	lock := &Lockfile{}

	var section string
	var remote string
	var path string
	var revision string
	var inSpecs bool
	var current *LockedGem
	var bundledWithNext bool

	flush := func() {
		if current != nil {
			lock.Gems = append(lock.Gems, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		// Section headers are flush left.
		if !strings.HasPrefix(line, " ") {
			flush()
			section = trimmed
			remote = ""
			path = ""
			revision = ""
			inSpecs = false
			bundledWithNext = section == "BUNDLED WITH"
			continue
		}

		if bundledWithNext {
			v, err := goversion.NewVersion(trimmed)
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed bundler version %q: %s", lineno, trimmed, err)
			}
			lock.BundledWith = v.Original()
			bundledWithNext = false
			continue
		}

		switch section {
		case "GEM", "PATH", "GIT":
			if rest, found := strings.CutPrefix(trimmed, "remote: "); found && !inSpecs {
				if section == "PATH" {
					path = rest
				} else {
					remote = rest
				}
				continue
			}
			if rest, found := strings.CutPrefix(trimmed, "revision: "); found && !inSpecs {
				revision = rest
				continue
			}
			if trimmed == "specs:" {
				inSpecs = true
				continue
			}
			if !inSpecs {
				// glob:, branch:, tag: and friends.
				continue
			}
			if m := specLine.FindStringSubmatch(line); m != nil {
				flush()
				gem := LockedGem{
					Name:     m[1],
					Version:  m[2],
					Platform: m[3],
				}
				switch section {
				case "GEM":
					gem.Source = SourceRemote
					gem.Remote = remote
				case "PATH":
					gem.Source = SourceLocal
					gem.Path = path
				case "GIT":
					gem.Source = SourceGit
					gem.Remote = remote
					gem.Revision = revision
				}
				current = &gem
				continue
			}
			if m := depLine.FindStringSubmatch(line); m != nil {
				if current == nil {
					return nil, fmt.Errorf("line %d: dependency %q outside a gem spec", lineno, m[1])
				}
				current.Dependencies = append(current.Dependencies, m[1])
				continue
			}
			return nil, fmt.Errorf("line %d: unparseable spec line %q", lineno, trimmed)

		case "PLATFORMS", "DEPENDENCIES", "RUBY VERSION", "BUNDLED WITH":
			// Not needed for target generation.

		default:
			// Unknown sections are skipped rather than rejected,
			// newer bundlers add sections (e.g. CHECKSUMS).
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lock, nil
}
