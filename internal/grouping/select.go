package grouping

import (
	"github.com/cargobay/cargobay/internal/domain"
)

// selectKey picks the record's group key from its own candidates. A
// candidate held by fewer than two records cannot group anything and
// is ineligible. Among eligible candidates the highest count wins,
// then the longest string, then candidate-generation order (the scan
// only replaces on a strict improvement, so earlier candidates win
// remaining ties). With no eligible candidate the record keys itself.
func selectKey(r domain.ContainerRecord, candidates []string, counts map[string]int) string {
	best := ""
	bestCount := 0
	for _, c := range candidates {
		n := counts[c]
		if n < 2 {
			continue
		}
		if n > bestCount || (n == bestCount && len(c) > len(best)) {
			best = c
			bestCount = n
		}
	}
	if bestCount == 0 {
		return r.DisplayName()
	}
	return best
}
