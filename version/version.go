// Package version reports which batchctl build is running. Release builds
// stamp the variables below with
//
//	-ldflags "-X github.com/teranos/batchrest/version.Version=v0.3.0 -X github.com/teranos/batchrest/version.CommitHash=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version    = "dev"
	CommitHash = "dev"
	BuildTime  = "unknown"
)

// Info is printed by `batchctl version` and sent, in part, as the client's
// User-Agent.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("batchctl %s (commit %s, built %s, %s %s)", i.Version, i.Short(), i.BuildTime, i.GoVersion, i.Platform)
}

// UserAgent is the default User-Agent of batch.Client, e.g. "batchrest/v0.3.0 (linux/amd64)".
func (i Info) UserAgent() string {
	return fmt.Sprintf("batchrest/%s (%s)", i.Version, i.Platform)
}

// Short trims a full commit hash to seven characters.
func (i Info) Short() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
