// Package fuzzy suggests section keys for mistyped tokens.
// Used by cmdparse when no registered command matches the input.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Matcher ranks candidate keys by edit distance to an input token
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a new fuzzy matcher with the given max edit distance
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // Don't suggest for very short inputs
	}
}

// Match represents a fuzzy match result
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// normalize lowercases a key and strips its leading dashes, so "--Verbose",
// "-verbose" and "verbose" compare equal.
func normalize(s string) string {
	return strings.TrimLeft(strings.ToLower(s), "-")
}

// FindBest finds the best matching key from candidates.
// Returns empty string if no good match found
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches finds all matching keys from candidates, sorted by quality.
// A candidate identical to the input is never suggested; one that differs
// only in case or dash prefix is, at distance 0.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	norm := normalize(input)
	if utf8.RuneCountInString(norm) < m.minLength {
		return nil
	}

	var matches []Match
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		if candidate == input {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}

		candNorm := normalize(candidate)
		distance := m.levenshteinDistance(norm, candNorm)
		if distance <= m.maxDistance {
			matches = append(matches, Match{
				Value:    candidate,
				Distance: distance,
				Score:    m.calculateScore(norm, candNorm, distance),
			})
		}
	}

	// best score first, ties broken by the smaller distance
	slices.SortStableFunc(matches, func(x, y Match) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		return cmp.Compare(x.Distance, y.Distance)
	})

	return matches
}

// calculateScore rates a candidate between 0 and 1 from its edit distance,
// with bonuses for a shared prefix and similar length.
func (m *Matcher) calculateScore(input, candidate string, distance int) float64 {
	if distance > m.maxDistance {
		return 0.0
	}

	inLen, candLen := utf8.RuneCountInString(input), utf8.RuneCountInString(candidate)
	maxLen := max(inLen, candLen)
	if maxLen == 0 {
		return 1.0
	}

	editScore := 1.0 - (float64(distance) / float64(maxLen))

	prefixBonus := 0.0
	if prefixLen := m.commonPrefixLength(input, candidate); prefixLen > 0 {
		prefixBonus = float64(prefixLen) / float64(min(inLen, candLen)) * 0.3
	}

	lengthDiff := abs(inLen - candLen)
	lengthBonus := (1.0 - float64(lengthDiff)/float64(maxLen)) * 0.2

	return min(editScore+prefixBonus+lengthBonus, 1.0)
}

// levenshteinDistance is the rune edit distance between a and b, capped at
// maxDistance+1 as soon as the result is certain to exceed maxDistance.
func (m *Matcher) levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	limit := m.maxDistance + 1
	if len(rb)-len(ra) >= limit {
		return limit
	}
	if len(ra) == 0 {
		return len(rb)
	}

	// row holds the previous row of the matrix while the current one is
	// written over it; diag is the previous row's value left of j.
	row := make([]int, len(ra)+1)
	for j := range row {
		row[j] = j
	}
	for i, cb := range rb {
		diag := row[0]
		row[0] = i + 1
		best := row[0]
		for j, ca := range ra {
			cost := 1
			if ca == cb {
				cost = 0
			}
			next := min(row[j]+1, row[j+1]+1, diag+cost)
			diag, row[j+1] = row[j+1], next
			best = min(best, next)
		}
		if best >= limit {
			return limit
		}
	}
	return row[len(ra)]
}

// commonPrefixLength returns the length of the common prefix
func (m *Matcher) commonPrefixLength(a, b string) int {
	n := 0
	for a != "" && b != "" {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			break
		}
		a, b = a[sa:], b[sb:]
		n++
	}
	return n
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBestKey finds the best matching key token
func FindBestKey(input string, keys []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, keys)
}

// FindSuggestions returns up to maxSuggestions keys close to input
func FindSuggestions(input string, keys []string, maxDistance, maxSuggestions int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, keys)
	if maxSuggestions < len(matches) {
		matches = matches[:max(maxSuggestions, 0)]
	}

	suggestions := make([]string, len(matches))
	for i, match := range matches {
		suggestions[i] = match.Value
	}
	return suggestions
}
