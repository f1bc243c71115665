package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/psam/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("psam %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Major returns the major component of a semantic version string.
func Major(v string) (uint64, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid version %q", v)
	}
	return sv.Major(), nil
}

// SameMajor reports whether a run recorded by version recorded can be
// compared with results from version current. Untagged builds ("dev") are
// treated as compatible with everything.
func SameMajor(recorded, current string) bool {
	rm, err := Major(recorded)
	if err != nil {
		return true
	}
	cm, err := Major(current)
	if err != nil {
		return true
	}
	return rm == cm
}
