// Package buildinfo exposes the version stamped into the svgaudit binary.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags "-X github.com/fulmenhq/svgaudit/pkg/buildinfo.BinaryVersion=...".
var (
	BinaryVersion = "dev"
	Commit        = ""
	BuildDate     = ""
)

// ModuleVersion returns the module version embedded by the Go toolchain (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version" toml:"version"`
	Module    string `json:"module,omitempty" yaml:"module,omitempty" toml:"module,omitempty"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty" toml:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty" yaml:"build_date,omitempty" toml:"build_date,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version" toml:"go_version"`
	Platform  string `json:"platform" yaml:"platform" toml:"platform"`
}

// Current collects Info for this binary. A commit stamped by ldflags wins over
// the VCS revision recorded by the toolchain.
func Current() Info {
	info := Info{
		Version:   BinaryVersion,
		Module:    ModuleVersion(),
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}
	if len(info.Commit) > 12 {
		info.Commit = info.Commit[:12]
	}
	return info
}
