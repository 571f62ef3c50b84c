// Package version holds build version information.
package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is the version of the CLI (set by build)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build)
	GitCommit = "unknown"
	// Latest is the newest release the build knows about (set by release
	// tooling); used for the update hint.
	Latest = "0.1.0"
)

// Info holds version information
type Info struct {
	Version   string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("csvcombine version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// UpdateAvailable reports whether Latest is newer than the running build.
// Unparseable versions count as up to date.
func UpdateAvailable() (bool, string) {
	current, err := goversion.NewVersion(Version)
	if err != nil {
		return false, ""
	}
	latest, err := goversion.NewVersion(Latest)
	if err != nil {
		return false, ""
	}
	if current.LessThan(latest) {
		return true, Latest
	}
	return false, ""
}
