// Package semver allocates and compares the three-part version strings
// attached to prompt revisions.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultVersion = "1.0.0"

// Next derives the version that follows current for the given bump
// kind ("major", "minor" or "patch"; anything else counts as patch).
// A missing or malformed current yields DefaultVersion.
func Next(current, bump string) string {
	if current == "" {
		return DefaultVersion
	}

	parts := strings.Split(current, ".")
	if len(parts) != 3 {
		return DefaultVersion
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return DefaultVersion
		}
		nums[i] = n
	}

	major, minor, patch := nums[0], nums[1], nums[2]
	switch strings.ToLower(bump) {
	case "major":
		major, minor, patch = major+1, 0, 0
	case "minor":
		minor, patch = minor+1, 0
	default:
		patch++
	}

	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

// Compare orders two version strings component-wise, returning -1, 0
// or 1. Malformed input compares equal; so do versions differing only
// in extra components. Both quirks are part of the contract.
func Compare(a, b string) int {
	partsA, okA := parse(a)
	partsB, okB := parse(b)
	if !okA || !okB {
		return 0
	}

	for i := 0; i < len(partsA) && i < len(partsB); i++ {
		if partsA[i] > partsB[i] {
			return 1
		}
		if partsA[i] < partsB[i] {
			return -1
		}
	}
	return 0
}

func parse(v string) ([]int, bool) {
	parts := strings.SplitN(v, ".", 4)
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}
