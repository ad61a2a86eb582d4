package transform

import "sort"

// ClosestMatches ranks candidates by Levenshtein distance to target and
// returns up to limit of the closest, in ascending-distance then
// alphabetical order. Supplements spec §4.8's "include closest-match
// suggestions for enums" with the concrete ranking original_source uses
// (a plain edit-distance ranking, not named further by spec.md itself).
func ClosestMatches(target string, candidates []string, limit int) []string {
	type scored struct {
		name string
		dist int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{name: c, dist: levenshtein(target, c)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].name < ranked[j].name
	})
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = ranked[i].name
	}
	return out
}

// levenshtein computes the classic single-character edit distance between
// a and b using a two-row dynamic-programming table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
