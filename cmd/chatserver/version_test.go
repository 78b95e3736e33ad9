package main

import (
	"bytes"
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfoReportsPlatform(t *testing.T) {
	info := GetBuildInfo()

	require.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	require.Equal(t, runtime.Version(), info.GoVersion)
	require.Equal(t, version, info.Version)
}

func TestFillFromVCSKeepsLinkerValues(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
	}

	unset := BuildInfo{BuildDate: "unknown", GitCommit: "unknown"}
	unset.fillFromVCS(settings)
	require.Equal(t, "abc123", unset.GitCommit)
	require.Equal(t, "2026-01-02T03:04:05Z", unset.BuildDate)

	linked := BuildInfo{BuildDate: "2025-12-31", GitCommit: "deadbeef"}
	linked.fillFromVCS(settings)
	require.Equal(t, "deadbeef", linked.GitCommit)
	require.Equal(t, "2025-12-31", linked.BuildDate)
}

func TestBuildInfoStartupFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	info := BuildInfo{
		Version:   "1.2.3",
		BuildDate: "2026-01-02",
		GitCommit: "abc123",
		GoVersion: "go1.24.5",
		Platform:  "linux/amd64",
	}

	logger.Info().EmbedObject(info).Msg("starting weather chat server")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "1.2.3", line["version"])
	require.Equal(t, "abc123", line["commit"])
	require.Equal(t, "2026-01-02", line["build_date"])
	require.Equal(t, "go1.24.5", line["go"])
	require.Equal(t, "linux/amd64", line["platform"])
}
