package context

import (
	"fmt"
	"runtime/debug"
)

// VersionInfo contains the application version metadata extracted from the
// build information.
type VersionInfo struct {
	Semantic string
	Commit   string
	Dirty    bool
}

// GetVersion extracts the version metadata embedded in the binary.
func GetVersion() (*VersionInfo, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, fmt.Errorf("failed reading build information")
	}

	v := &VersionInfo{Semantic: info.Main.Version}
	if v.Semantic == "" || v.Semantic == "(devel)" {
		v.Semantic = "dev"
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Commit = setting.Value
		case "vcs.modified":
			v.Dirty = setting.Value == "true"
		}
	}

	return v, nil
}

// String returns the full version string.
func (v *VersionInfo) String() string {
	out := v.Semantic
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		out = fmt.Sprintf("%s (%s)", out, commit)
	}
	if v.Dirty {
		out += " dirty"
	}

	return out
}
