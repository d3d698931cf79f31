package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v0.3.0", CommitHash: "0123456789abcdef", BuildTime: "2026-10-19", GoVersion: "go1.24.6", Platform: "linux/amd64"}
	assert.Equal(t, "batchctl v0.3.0 (commit 0123456, built 2026-10-19, go1.24.6 linux/amd64)", info.String())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123456", Info{CommitHash: "0123456789abcdef"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestUserAgent(t *testing.T) {
	info := Info{Version: "v0.3.0", Platform: "linux/amd64"}
	assert.Equal(t, "batchrest/v0.3.0 (linux/amd64)", info.UserAgent())
}
