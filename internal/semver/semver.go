// Copyright 2026 ShipKit HQ
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package semver implements the three-part MAJOR.MINOR.PATCH version
// identifier used by the release workflow. It provides parsing, a total
// order, and the deterministic bump operations: the same version and policy
// always produce the same result.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed MAJOR.MINOR.PATCH identifier.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Policy selects which component a bump advances.
type Policy string

// Bump policies. Bumping minor resets patch; bumping major resets both.
const (
	PolicyPatch Policy = "patch"
	PolicyMinor Policy = "minor"
	PolicyMajor Policy = "major"
)

// ParsePolicy validates a policy name from a flag or config value.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyPatch:
		return PolicyPatch, nil
	case PolicyMinor:
		return PolicyMinor, nil
	case PolicyMajor:
		return PolicyMajor, nil
	}
	return "", fmt.Errorf("unknown bump policy %q (want patch, minor, or major)", s)
}

// Parse parses a version string of the exact form MAJOR.MINOR.PATCH.
// A leading "v" is accepted and stripped, matching tag names.
func Parse(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: want MAJOR.MINOR.PATCH", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		// Digits only: strconv.Atoi would also accept a sign, which has no
		// place in a canonical component.
		if p == "" || (len(p) > 1 && p[0] == '0') || strings.IndexFunc(p, func(r rune) bool {
			return r < '0' || r > '9'
		}) >= 0 {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not a canonical number", s, p)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not a canonical number", s, p)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the canonical MAJOR.MINOR.PATCH form without a "v" prefix.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater
// than other in the semantic version total order.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

// Bump returns the next version under the given policy. Bump is a pure
// function; v itself is never modified.
func (v Version) Bump(policy Policy) Version {
	switch policy {
	case PolicyMajor:
		return Version{Major: v.Major + 1}
	case PolicyMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
