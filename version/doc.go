// Package version reports the build of the locator binary.
//
// Version is set at compile time via -ldflags; the commit, dirty flag and
// build time fall back to the VCS stamps the Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/locator/version.Version=1.0.0" ./cmd/locator
package version
