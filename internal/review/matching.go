// Package review implements the issue-matching predicate shared by scoring,
// achievement rules and performance tracking. Every component that compares a
// user-found issue against a canonical issue must go through Matches, so that
// displayed scores can never disagree with unlocked achievements.
package review

import "math"

// LineTolerance is how far (in lines) a found issue may sit from the
// canonical issue and still count as a match.
const LineTolerance = 2

// Issue is a single code issue, either found by the user or part of the
// exercise's canonical answer set.
type Issue struct {
	Line int    `json:"line"`
	Type string `json:"type"`
}

// Matches reports whether a found issue matches a canonical one: the types
// must be equal and the line numbers within LineTolerance of each other.
func Matches(found, canonical Issue) bool {
	if found.Type != canonical.Type {
		return false
	}
	return int(math.Abs(float64(found.Line-canonical.Line))) <= LineTolerance
}

// Score matches found issues against the canonical set and returns the number
// of correct finds plus the resulting accuracy. Each canonical issue can be
// consumed by at most one found issue. With an empty canonical set, accuracy
// is 1.0 when nothing was reported and 0.0 otherwise.
func Score(found, canonical []Issue) (correct int, accuracy float64) {
	if len(canonical) == 0 {
		if len(found) == 0 {
			return 0, 1.0
		}
		return 0, 0.0
	}

	used := make([]bool, len(canonical))
	for _, f := range found {
		for i, c := range canonical {
			if used[i] {
				continue
			}
			if Matches(f, c) {
				used[i] = true
				correct++
				break
			}
		}
	}
	return correct, float64(correct) / float64(len(canonical))
}
