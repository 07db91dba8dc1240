// Package version provides build information for the byteweaver CLI.
package version

import (
	"fmt"
	"runtime"
)

// These variables are populated at build time using -ldflags.
// Example:
// go build -ldflags "-X 'byteweaver/pkg/version.Version=0.3.0' -X 'byteweaver/pkg/version.Commit=abcdefg' -X 'byteweaver/pkg/version.BuildTime=2026-10-19T09:00:00Z'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// AppName is the name reported in logs and version output.
const AppName = "byteweaver"

// Info contains the build information of the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string // os/arch
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the info on one line, e.g.
// byteweaver version 0.3.0 (commit: abcdefg) built at 2026-10-19T09:00:00Z with go1.23.1 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf(
		"%s version %s (commit: %s) built at %s with %s on %s",
		AppName,
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
		i.Platform,
	)
}
