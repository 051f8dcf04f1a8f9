// Package misc holds build time program information.
package misc

import (
	"runtime/debug"
)

const appName = "novelsite"

var (
	// set by linker: -X github.com/Whale619/novel-site/misc.version=...
	version = "dev"
	// set by linker: -X github.com/Whale619/novel-site/misc.githash=...
	githash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash the program was built from. When it was not
// set during link time module build information is consulted.
func GetGitHash() string {
	if len(githash) > 0 {
		return githash
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}
