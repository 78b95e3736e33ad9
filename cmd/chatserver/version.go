package main

import (
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=... -X main.gitCommit=...".
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// BuildInfo identifies the running binary in logs and on /healthz.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// GetBuildInfo combines the linker-set values with what the Go toolchain
// embedded. The VCS revision and time stand in when ldflags were not used.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fillFromVCS(bi.Settings)
	}
	return info
}

func (b *BuildInfo) fillFromVCS(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if b.GitCommit == "unknown" {
				b.GitCommit = s.Value
			}
		case "vcs.time":
			if b.BuildDate == "unknown" {
				b.BuildDate = s.Value
			}
		}
	}
}

// MarshalZerologObject lets the startup line embed every field.
func (b BuildInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("version", b.Version).
		Str("commit", b.GitCommit).
		Str("build_date", b.BuildDate).
		Str("go", b.GoVersion).
		Str("platform", b.Platform)
}
