// Package version reports the version and build metadata of macstrip.
//
// Version, Commit and Date can be injected at build time:
//
//	-ldflags "-X github.com/dendrascience/macosx-strip/version.Version=v1.0.0 -X github.com/dendrascience/macosx-strip/version.Commit=abc1234"
//
// Otherwise the module version and VCS settings recorded by the go
// toolchain are used, falling back to development defaults.
package version
