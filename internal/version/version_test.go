package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)

	str := info.String()
	assert.Contains(t, str, "Tabula")
	assert.Contains(t, str, "Version:")
	assert.Contains(t, str, "Go Version:")
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		BuildDate: "2024-01-01T00:00:00Z",
		GitCommit: "abc123def456",
		GoVersion: "go1.24.4",
		BuildTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	str := info.String()
	assert.Contains(t, str, "Version: v1.0.0\n")
	assert.Contains(t, str, "Build Date: 2024-01-01T00:00:00Z")
	assert.Contains(t, str, "Git Commit: abc123d\n")
	assert.Contains(t, str, "Go Version: go1.24.4")
	assert.NotContains(t, str, "Platform:")
}

func TestBuildInfoStringDirty(t *testing.T) {
	info := BuildInfo{
		Version:   "v1.0.0",
		BuildDate: unknownValue,
		GitCommit: "abc123-dirty",
		Dirty:     true,
	}

	str := info.String()
	assert.Contains(t, str, "Version: v1.0.0 (dirty)")
	assert.Contains(t, str, "Git Commit: abc123\n")
	assert.NotContains(t, str, "Build Date")
}

func TestIsRelease(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	tests := []struct {
		version  string
		expected bool
	}{
		{"v1.0.0", true},
		{"1.0.0", true},
		{"dev", false},
		{"v1.0.0-alpha", false},
		{"v1.0.0-rc.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			Version = tt.version
			assert.Equal(t, tt.expected, IsRelease())
		})
	}
}
