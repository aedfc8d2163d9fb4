package remediation

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// parseVersion turns a version string into a comparable slice of integers.
// A trailing non-numeric suffix is stripped first (1.2.3a1 compares as 1.2.3);
// unparseable components compare as zero.
func parseVersion(version string) []int {
	s := strings.TrimSpace(version)
	if s == "" {
		return []int{0}
	}
	for i, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			s = s[:i]
			break
		}
	}
	parts := strings.Split(s, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return []int{0}
	}
	return out
}

// versionGTE reports whether a >= b. Versions that are both valid semver
// (npm resolved versions usually are) are compared with semver precedence;
// everything else falls back to numeric dotted-tuple comparison.
func versionGTE(a, b string) bool {
	va, vb := "v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v")
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb) >= 0
	}

	ta, tb := parseVersion(a), parseVersion(b)
	for len(ta) < len(tb) {
		ta = append(ta, 0)
	}
	for len(tb) < len(ta) {
		tb = append(tb, 0)
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return ta[i] > tb[i]
		}
	}
	return true
}
