package domain

import (
	"slices"

	"github.com/Masterminds/semver/v3"
)

// VersionClass is the priority class of a version candidate.
type VersionClass int

const (
	// ClassPrimaryBranch marks the configured primary or secondary branch.
	ClassPrimaryBranch VersionClass = iota
	// ClassSemantic marks a semantic version such as 1.2.0 or v2.0.0.
	ClassSemantic
	// ClassOther marks any other tag or branch name.
	ClassOther
)

func (c VersionClass) String() string {
	switch c {
	case ClassPrimaryBranch:
		return "branch"
	case ClassSemantic:
		return "semver"
	default:
		return "other"
	}
}

// ClassifyVersion returns the priority class of v.
func ClassifyVersion(v, primary, secondary string) VersionClass {
	if v != "" && (v == primary || v == secondary) {
		return ClassPrimaryBranch
	}
	if _, ok := ParseSemver(v); ok {
		return ClassSemantic
	}
	return ClassOther
}

// ParseSemver parses v as a semantic version, accepting a leading "v".
func ParseSemver(v string) (*semver.Version, bool) {
	if v == "" {
		return nil, false
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, false
	}
	return sv, true
}

// HighestSemver returns the highest semantic version among candidates using numeric
// comparison. Stable releases win over pre-releases.
func HighestSemver(candidates []string) (string, bool) {
	var (
		best       string
		bestV      *semver.Version
		bestStable bool
	)
	for _, c := range candidates {
		sv, ok := ParseSemver(c)
		if !ok {
			continue
		}
		stable := sv.Prerelease() == ""
		switch {
		case bestV == nil,
			stable && !bestStable,
			stable == bestStable && sv.GreaterThan(bestV):
			best, bestV, bestStable = c, sv, stable
		}
	}
	return best, bestV != nil
}

// SortVersions orders candidates for display: primary and secondary branch first,
// then semantic versions from highest to lowest, then everything else in input order.
func SortVersions(candidates []string, primary, secondary string) []string {
	out := slices.Clone(candidates)
	rank := func(v string) int {
		switch {
		case v == primary:
			return 0
		case v == secondary:
			return 1
		case ClassifyVersion(v, primary, secondary) == ClassSemantic:
			return 2
		default:
			return 3
		}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		if ra == 2 {
			va, _ := ParseSemver(a)
			vb, _ := ParseSemver(b)
			return vb.Compare(va)
		}
		return 0
	})
	return out
}
