package grouping

import (
	"github.com/cargobay/cargobay/internal/domain"
)

func isSeparator(b byte) bool {
	return b == '-' || b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// candidatesFor derives the ordered, de-duplicated candidate keys for
// one record. Order matters: it is the final tie-break during
// selection. The sequence is always full name first, then the
// suffix-stripped form, then each prefix ending before a separator,
// left to right.
func candidatesFor(r domain.ContainerRecord) []string {
	base := r.DisplayName()
	if base == "" {
		return nil
	}

	seen := make(map[string]struct{}, 4)
	candidates := make([]string, 0, 4)
	add := func(c string) {
		if c == "" {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		candidates = append(candidates, c)
	}

	add(base)
	if stripped, ok := stripInstanceSuffix(base); ok {
		add(stripped)
	}
	for i := 0; i < len(base); i++ {
		if isSeparator(base[i]) {
			add(base[:i])
		}
	}

	return candidates
}

// stripInstanceSuffix removes a single trailing "-<digits>" or
// "_<digits>" instance index. The strip is intentionally not
// recursive: "web-01-2" yields "web-01", never "web".
func stripInstanceSuffix(s string) (string, bool) {
	i := len(s)
	for i > 0 && isDigit(s[i-1]) {
		i--
	}
	if i == len(s) || i == 0 {
		// No trailing digits, or nothing but digits.
		return "", false
	}
	if !isSeparator(s[i-1]) {
		return "", false
	}
	if i-1 == 0 {
		// Stripping would leave an empty remainder.
		return "", false
	}
	return s[:i-1], true
}
