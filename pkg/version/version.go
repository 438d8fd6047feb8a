// Package version exposes the application version derived from build metadata.
//
// Go 1.18+ automatically embeds VCS info (git commit, dirty flag, etc.)
// into the binary via runtime/debug.BuildInfo. No -ldflags required.
//
// Usage:
//
//	version.GitCommit  // "a3f8c2d1" or "dev"
//	version.Full()     // "enchant/a3f8c2d1" or "enchant/a3f8c2d1-dirty"
package version

import "runtime/debug"

// AppName is the application name used in version strings and logs.
const AppName = "enchant"

// GitCommit is the short git commit hash (8 chars) from build info.
// Set to "dev" when build info is unavailable (e.g., `go test`, non-git builds).
//
// Dirty reports whether the binary was built from a working tree with
// uncommitted changes. Every generated image is traceable to the prompt
// and scene text that produced it (§3's Prompt/GeneratedImage records);
// a dirty build means that traceability can't be trusted to a single
// commit, which is worth surfacing on GET /health and in startup logs.
var (
	GitCommit = initGitCommit()
	Dirty     = initDirty()
)

func initGitCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 8 {
				return s.Value[:8]
			}
			return s.Value
		}
	}
	return "dev"
}

func initDirty() bool {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return false
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.modified" {
			return s.Value == "true"
		}
	}
	return false
}

// Full returns "enchant/<commit>" for use in logging and the health
// endpoint, suffixed "-dirty" when built from an unclean working tree.
func Full() string {
	full := AppName + "/" + GitCommit
	if Dirty {
		full += "-dirty"
	}
	return full
}
