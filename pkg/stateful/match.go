package stateful

import (
	"strings"

	"golang.org/x/text/cases"
)

// ContainsFold reports whether needle occurs in haystack under Unicode case
// folding. An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	// A Caser may keep state between calls, so each call gets its own.
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}
