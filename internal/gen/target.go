package gen

import (
	"fmt"
	"strings"
)

// attrKind discriminates the value types a target attribute can hold.
type attrKind int

const (
	attrString attrKind = iota
	attrList
	attrRaw
)

// attr is one attribute of a build target, in declaration order.
type attr struct {
	key  string
	kind attrKind
	str  string
	list []string
}

// Target is a typed record for one build-target declaration. Targets
// are rendered through a single serializer instead of substituting
// placeholders into template strings.
type Target struct {
	Rule  string
	Name  string
	attrs []attr
}

// NewTarget starts a target declaration for the given rule and name.
func NewTarget(rule string, name string) *Target {
	return &Target{Rule: rule, Name: name}
}

// AttrString adds a quoted string attribute.
func (t *Target) AttrString(key string, value string) *Target {
	t.attrs = append(t.attrs, attr{key: key, kind: attrString, str: value})
	return t
}

// AttrList adds a list-of-strings attribute. Order is preserved
// verbatim.
func (t *Target) AttrList(key string, values []string) *Target {
	t.attrs = append(t.attrs, attr{key: key, kind: attrList, list: values})
	return t
}

// AttrRaw adds an attribute whose value is emitted without quoting,
// for expressions like glob(...).
func (t *Target) AttrRaw(key string, value string) *Target {
	t.attrs = append(t.attrs, attr{key: key, kind: attrRaw, str: value})
	return t
}

// Render serializes the target in buildifier shape: one attribute per
// line, four-space indentation, trailing commas.
func (t *Target) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(\n", t.Rule)
	fmt.Fprintf(&b, "    name = %q,\n", t.Name)
	for _, a := range t.attrs {
		switch a.kind {
		case attrString:
			fmt.Fprintf(&b, "    %s = %q,\n", a.key, a.str)
		case attrRaw:
			fmt.Fprintf(&b, "    %s = %s,\n", a.key, a.str)
		case attrList:
			if len(a.list) == 0 {
				fmt.Fprintf(&b, "    %s = [],\n", a.key)
				continue
			}
			fmt.Fprintf(&b, "    %s = [\n", a.key)
			for _, v := range a.list {
				fmt.Fprintf(&b, "        %q,\n", v)
			}
			fmt.Fprintf(&b, "    ],\n")
		}
	}
	b.WriteString(")\n")
	return b.String()
}

// Target-name helpers. The naming scheme is load-bearing: dependency
// edges and aggregate members are built from these.

func fetchTargetName(gem string) string {
	return gem + "-gem-fetch"
}

func installTargetName(gem string) string {
	return gem + "-gem-install"
}

func groupTargetName(group string) string {
	return "gems-" + group
}

func label(target string) string {
	return ":" + target
}
