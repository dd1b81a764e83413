// ABOUTME: Interpreter version discriminant and version string parsing
// ABOUTME: Maps "3.11.4"-style strings onto the closed set of supported layout versions

package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Version identifies an interpreter release line. The zero value is unknown.
type Version int

const (
	VersionUnknown Version = iota
	V2_7
	V3_3
	V3_4
	V3_5
	V3_6
	V3_7
	V3_8
	V3_9
	V3_10
	V3_11
	V3_12
)

type release struct {
	major, minor int
}

var versionReleases = map[Version]release{
	V2_7:  {2, 7},
	V3_3:  {3, 3},
	V3_4:  {3, 4},
	V3_5:  {3, 5},
	V3_6:  {3, 6},
	V3_7:  {3, 7},
	V3_8:  {3, 8},
	V3_9:  {3, 9},
	V3_10: {3, 10},
	V3_11: {3, 11},
	V3_12: {3, 12},
}

// String returns "major.minor"
func (v Version) String() string {
	r, ok := versionReleases[v]
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d", r.major, r.minor)
}

// Major returns the major release number, or 0 if unknown
func (v Version) Major() int {
	return versionReleases[v].major
}

// Minor returns the minor release number, or 0 if unknown
func (v Version) Minor() int {
	return versionReleases[v].minor
}

// ParseVersion parses a version string such as "3.11", "3.11.4", "v3.12.0"
// or "2.7.18+". Only the major and minor components select the layout.
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.SplitN(trimmed, ".", 3)
	if len(parts) < 2 {
		return VersionUnknown, fmt.Errorf("%w: %q", ErrUnsupportedVersion, s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return VersionUnknown, fmt.Errorf("%w: %q", ErrUnsupportedVersion, s)
	}
	minor, err := strconv.Atoi(leadingDigits(parts[1]))
	if err != nil {
		return VersionUnknown, fmt.Errorf("%w: %q", ErrUnsupportedVersion, s)
	}

	for v, r := range versionReleases {
		if r.major == major && r.minor == minor {
			return v, nil
		}
	}
	return VersionUnknown, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, major, minor)
}

// leadingDigits strips release suffixes like "12rc1" down to "12"
func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
