// Package main implements the gembuild binary. It is the only
// public-facing entry point, since gembuild's Go packages are all
// internal.
package main

import "github.com/bazelgem/gembuild/internal/cli"

// Main entry point for the gembuild binary.
func main() {
	cli.DoCLI()
}
