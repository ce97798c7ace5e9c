package grouping

// frequencyIndex counts, per candidate string, how many distinct
// records hold that candidate. Each candidate set is already
// de-duplicated, so a record contributes at most one per string.
func frequencyIndex(candidateSets [][]string) map[string]int {
	counts := make(map[string]int)
	for _, set := range candidateSets {
		for _, c := range set {
			counts[c]++
		}
	}
	return counts
}
