// Package textmatch scores how closely free-form speech matches known text.
package textmatch

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// Normalize lower-cases s, trims it and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Ratio returns the edit-distance similarity of a and b in [0, 1] after
// normalisation. Two empty strings are identical.
func Ratio(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Match is one scored candidate.
type Match struct {
	Index int
	Value string
	Score float64
}

// containScore is the floor for a candidate that contains the whole query
// or is contained in it, so "vanilla" finds "vanilla syrup".
const containScore = 0.85

// Similarity is Ratio, raised to containScore when one normalised string
// contains the other and the shorter has at least three runes.
func Similarity(query, candidate string) float64 {
	score := Ratio(query, candidate)
	q, c := Normalize(query), Normalize(candidate)
	short := q
	if utf8.RuneCountInString(c) < utf8.RuneCountInString(q) {
		short = c
	}
	if utf8.RuneCountInString(short) >= 3 && (strings.Contains(c, q) || strings.Contains(q, c)) && score < containScore {
		return containScore
	}
	return score
}

// BestMatch returns the candidate with the highest Similarity to query.
// ok is false when no candidate reaches threshold. Ties keep the earliest.
func BestMatch(query string, candidates []string, threshold float64) (Match, bool) {
	best := Match{Index: -1}
	for i, c := range candidates {
		if score := Similarity(query, c); score > best.Score {
			best = Match{Index: i, Value: c, Score: score}
		}
	}
	if best.Index < 0 || best.Score < threshold {
		return best, false
	}
	return best, true
}

// Search returns indexes of candidates that fuzzily contain the characters
// of pattern in order, best first. An empty pattern matches everything in
// original order.
func Search(pattern string, candidates []string) []int {
	pattern = Normalize(pattern)
	if pattern == "" {
		out := make([]int, len(candidates))
		for i := range candidates {
			out[i] = i
		}
		return out
	}

	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}
	matches := fuzzy.Find(pattern, lowered)
	sort.Stable(matches)

	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}
	return out
}

// Words splits s on whitespace, strips surrounding punctuation `.,?!` and
// lower-cases. Duplicates are removed; order of first appearance is kept.
func Words(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range strings.Fields(s) {
		w := strings.ToLower(strings.Trim(f, ".,?!"))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// KeywordOverlap counts the distinct words of expected that also occur in
// answer and returns that count together with the number of distinct
// expected words.
func KeywordOverlap(expected, answer string) (overlap, total int) {
	exp := Words(expected)
	got := make(map[string]bool)
	for _, w := range Words(answer) {
		got[w] = true
	}
	for _, w := range exp {
		if got[w] {
			overlap++
		}
	}
	return overlap, len(exp)
}
