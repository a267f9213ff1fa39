package gemfile

import (
	"bufio"
	"regexp"
	"strings"
)

// DefaultGroup is the group a gem declaration belongs to when the
// Gemfile does not say otherwise.
const DefaultGroup = "default"

// Group is a named set of top-level gems from the Gemfile. Members are
// only the directly declared gems, never their transitive
// dependencies, in declaration order.
type Group struct {
	Name    string
	Members []string
}

var gemDecl = regexp.MustCompile(`^gem\s+["']([A-Za-z0-9_.-]+)["'](.*)$`)
var groupDecl = regexp.MustCompile(`^group\s+(.+?)\s+do$`)
var groupSymbol = regexp.MustCompile(`:([A-Za-z0-9_]+)`)
var inlineGroup = regexp.MustCompile(`(?:\bgroup:|:group\s*=>)\s*(\[[^\]]*\]|:[A-Za-z0-9_]+)`)
var blockOpen = regexp.MustCompile(`\bdo\s*(\|[^|]*\|)?$`)

// ResolveGroups reads a Gemfile and returns its groups in order of
// first declaration, each listing the top-level gems assigned to it.
// Gems declared outside any group go to DefaultGroup. A gemspec
// directive is ignored: resolving it would mean evaluating the
// project's .gemspec, and the gems it pulls in are still locked and
// get targets, they just never join a group bundle.
func ResolveGroups(text string) []Group {
	var order []string
	members := map[string][]string{}
	seen := map[string]map[string]bool{}

	add := func(group, gem string) {
		if members[group] == nil {
			order = append(order, group)
			seen[group] = map[string]bool{}
		} else if seen[group][gem] {
			return
		}
		members[group] = append(members[group], gem)
		seen[group][gem] = true
	}

	// Stack of active group lists. Every "... do" opener pushes a
	// frame so that a closing "end" pops the right one; openers
	// other than group (source, platforms, install_if) inherit the
	// enclosing groups.
	stack := [][]string{{DefaultGroup}}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		if m := groupDecl.FindStringSubmatch(line); m != nil {
			var groups []string
			for _, sym := range groupSymbol.FindAllStringSubmatch(m[1], -1) {
				groups = append(groups, sym[1])
			}
			enclosing := stack[len(stack)-1]
			if len(groups) == 0 {
				groups = enclosing
			} else if !(len(enclosing) == 1 && enclosing[0] == DefaultGroup) {
				// Nested groups union with the enclosing ones,
				// matching bundler.
				groups = append(append([]string{}, enclosing...), groups...)
			}
			stack = append(stack, groups)
			continue
		}
		if blockOpen.MatchString(line) ||
			strings.HasPrefix(line, "if ") || strings.HasPrefix(line, "unless ") {
			stack = append(stack, stack[len(stack)-1])
			continue
		}
		if line == "end" {
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		m := gemDecl.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		gem, rest := m[1], m[2]

		groups := stack[len(stack)-1]
		if im := inlineGroup.FindStringSubmatch(rest); im != nil {
			groups = nil
			for _, sym := range groupSymbol.FindAllStringSubmatch(im[1], -1) {
				groups = append(groups, sym[1])
			}
		}
		for _, group := range groups {
			add(group, gem)
		}
	}

	result := make([]Group, 0, len(order))
	for _, name := range order {
		result = append(result, Group{Name: name, Members: members[name]})
	}
	return result
}
