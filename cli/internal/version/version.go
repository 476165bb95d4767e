// Package version exposes build-time version information.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set by the build.
	Version = "0.1.0"
	// BuildDate is set by the build.
	BuildDate = "unknown"
	// GitCommit is set by the build.
	GitCommit = "unknown"
)

// Info holds version details.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns the current version details.
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the short version line.
func (i Info) String() string {
	return fmt.Sprintf("queryforge version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns the detailed version block.
func (i Info) FullString() string {
	return fmt.Sprintf(`queryforge version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}
