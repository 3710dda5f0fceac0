package errz

import (
	"sort"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions returned.
const MaxSuggestions = 3

// SuggestSimilar returns up to MaxSuggestions candidates that are a small
// edit distance away from target, closest first.
func SuggestSimilar(target string, candidates []string) []string {
	if target == "" || len(candidates) == 0 {
		return nil
	}
	type scored struct {
		value    string
		distance int
	}
	threshold := 3
	if len(target) <= 3 {
		threshold = 1
	} else if len(target) <= 5 {
		threshold = 2
	}
	lower := strings.ToLower(target)
	var found []scored
	for _, candidate := range candidates {
		if candidate == "" || strings.ToLower(candidate) == lower {
			continue
		}
		if d := levenshteinDistance(lower, strings.ToLower(candidate)); d <= threshold {
			found = append(found, scored{candidate, d})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].value < found[j].value
	})
	if len(found) > MaxSuggestions {
		found = found[:MaxSuggestions]
	}
	result := make([]string, len(found))
	for i, s := range found {
		result[i] = s.value
	}
	return result
}

// FormatSuggestions formats suggestions as a hint. Returns an empty string
// if there are none.
func FormatSuggestions(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + suggestions[0] + "'?"
	}
	return "did you mean one of: '" + strings.Join(suggestions, "', '") + "'?"
}

// levenshteinDistance computes the edit distance between two strings using
// two rows instead of a full matrix.
func levenshteinDistance(a, b string) int {
	aRunes := []rune(a)
	bRunes := []rune(b)
	if len(aRunes) == 0 {
		return len(bRunes)
	}
	if len(bRunes) == 0 {
		return len(aRunes)
	}
	if len(aRunes) > len(bRunes) {
		aRunes, bRunes = bRunes, aRunes
	}
	prev := make([]int, len(aRunes)+1)
	curr := make([]int, len(aRunes)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(bRunes); j++ {
		curr[0] = j
		for i := 1; i <= len(aRunes); i++ {
			cost := 1
			if aRunes[i-1] == bRunes[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(aRunes)]
}
