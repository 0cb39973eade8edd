// Package semver handles the strict major.minor.patch version strings used
// for app version rows. No prerelease or build metadata, digits only.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed major.minor.patch triple
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a strict major.minor.patch string
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	nums := [3]int{}
	for i, p := range parts {
		if p == "" || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// IsValid reports whether s parses as a strict major.minor.patch string
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String renders the version as major.minor.patch
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// NextPatch returns the version with its patch component incremented
func (v Version) NextPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// Compare returns -1, 0, or 1 ordering a against b
func Compare(a, b Version) int {
	if c := cmp(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmp(a.Patch, b.Patch)
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
