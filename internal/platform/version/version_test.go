package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestInfo_String(t *testing.T) {
	info := Info{Version: "v1.2.0", Commit: "abc123", BuildTime: "2024-10-10T12:00:00Z", GoVersion: "go1.24.0"}

	assert.Equal(t, "vsware v1.2.0 (commit abc123, built 2024-10-10T12:00:00Z, go1.24.0)", info.String())
}
