// Package semver wraps github.com/Masterminds/semver/v3 with the
// narrower triple-of-non-negative-integers semantics this repository
// requires: no prerelease or build metadata, parsed strictly, with
// bumping implemented atop the library's IncMajor/IncMinor/IncPatch
// (which already increment the target component and reset every lower
// one to zero).
package semver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// BumpClass is one of "major", "minor", "patch", ordered major > minor
// > patch.
type BumpClass string

const (
	Major BumpClass = "major"
	Minor BumpClass = "minor"
	Patch BumpClass = "patch"
)

// priority gives each bump class its wire priority.
var priority = map[BumpClass]int{
	Major: 3,
	Minor: 2,
	Patch: 1,
}

// Priority returns the bump class's ordering priority, or 0 for an
// unrecognized class.
func (b BumpClass) Priority() int {
	return priority[b]
}

// Valid reports whether b is one of the three known bump classes.
func (b BumpClass) Valid() bool {
	_, ok := priority[b]
	return ok
}

// Max returns the higher-priority of a and b. An empty class is treated
// as absent and loses to any valid class.
func Max(a, b BumpClass) BumpClass {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a.Priority() >= b.Priority() {
		return a
	}
	return b
}

// MaxAll folds Max over a slice, returning "" if the slice is empty.
func MaxAll(classes []BumpClass) BumpClass {
	var out BumpClass
	for _, c := range classes {
		out = Max(out, c)
	}
	return out
}

// Version is a strict (major, minor, patch) triple: no "v" prefix, no
// prerelease, no build metadata. The VERSION file and every module or
// bundle version field hold exactly one trimmed string of this form.
type Version struct {
	v *semver.Version
}

// Parse parses a strict major.minor.patch string. Prerelease/build
// metadata suffixes, if present, are rejected: this repository's
// version strings are plain triples.
func Parse(s string) (Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return Version{}, fmt.Errorf("invalid version %q: prerelease/build metadata not allowed", s)
	}
	return Version{v: v}, nil
}

// String renders the version as "major.minor.patch".
func (ver Version) String() string {
	if ver.v == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", ver.v.Major(), ver.v.Minor(), ver.v.Patch())
}

// Compare returns -1, 0, or 1 per the usual Compare contract.
func (ver Version) Compare(other Version) int {
	return ver.v.Compare(other.v)
}

// ClassOfDelta reports which component differs between from and to —
// the most significant differing component wins, so a triple that
// changes in both major and patch is reported as major. Returns "" if
// the two versions are identical.
func ClassOfDelta(from, to Version) BumpClass {
	if from.v == nil || to.v == nil {
		return ""
	}
	switch {
	case from.v.Major() != to.v.Major():
		return Major
	case from.v.Minor() != to.v.Minor():
		return Minor
	case from.v.Patch() != to.v.Patch():
		return Patch
	default:
		return ""
	}
}

// Bump applies a bump class to the version: increments the named
// component and resets every lower component to zero.
func (ver Version) Bump(class BumpClass) (Version, error) {
	if ver.v == nil {
		return Version{}, fmt.Errorf("bump on zero-value version")
	}
	var next semver.Version
	switch class {
	case Major:
		next = ver.v.IncMajor()
	case Minor:
		next = ver.v.IncMinor()
	case Patch:
		next = ver.v.IncPatch()
	default:
		return Version{}, fmt.Errorf("unknown bump class %q", class)
	}
	return Version{v: &next}, nil
}
