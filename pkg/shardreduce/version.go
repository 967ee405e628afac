package shardreduce

import (
	"fmt"

	"golang.org/x/mod/semver"
)

const Version = "v0.1.0"

// IsCompatibleVersion reports whether data written by version can be read by
// this build. Major versions must match; minor and patch may differ.
func IsCompatibleVersion(version string) (bool, error) {
	if !semver.IsValid(version) {
		return false, fmt.Errorf("invalid version: %s", version)
	}

	return semver.Major(version) == semver.Major(Version), nil
}
