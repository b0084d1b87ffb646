package domain

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted version strings numerically.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2.
// A leading "v" is ignored, missing fields count as zero, and anything
// after a pre-release dash ("0.16.2-beta") is dropped before comparing.
func CompareVersions(v1, v2 string) int {
	p1 := splitVersion(v1)
	p2 := splitVersion(v2)

	n := len(p1)
	if len(p2) > n {
		n = len(p2)
	}

	for i := 0; i < n; i++ {
		var a, b int
		if i < len(p1) {
			a = p1[i]
		}
		if i < len(p2) {
			b = p2[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

func splitVersion(v string) []int {
	v = strings.TrimSpace(v)
	if len(v) > 0 && (v[0] == 'v' || v[0] == 'V') {
		v = v[1:]
	}
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil
	}

	fields := strings.Split(v, ".")
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			break // stop at the first non-numeric field
		}
		parts = append(parts, n)
	}
	return parts
}
