package version

import (
	"fmt"
	"runtime"
)

// These are vars so they can be overridden at build time via:
//
//	go build -ldflags "-X github.com/mattsolo1/grove-syllabus/pkg/version.Version=v0.2.0"
var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	Branch    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("syl %s\n  commit:  %s\n  branch:  %s\n  built:   %s\n  go:      %s (%s)",
		i.Version, i.Commit, i.Branch, i.BuildDate, i.GoVersion, i.Platform)
}
