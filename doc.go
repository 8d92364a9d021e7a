// Package main provides the macstrip command-line interface.
//
// macstrip moves the __MACOSX metadata folder that the macOS Finder adds to
// ZIP archives into a separate MACOSX-<name>.zip archive and rewrites the
// original without it. Run it without arguments to pick the source and
// output directories with a folder chooser.
//
// The binary also provides:
//   - check: report archives that still need processing
//   - seed: generate sample archives to try it out
//   - version: print build information
package main
