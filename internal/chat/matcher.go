package chat

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minNeedleRunes keeps single-character names from matching everywhere.
const minNeedleRunes = 2

// Candidate is the lightweight projection the matcher scores: id plus the
// names it may appear under. Fetched fresh per request, discarded after
// scoring.
type Candidate struct {
	ID      string
	Name    string
	Aliases []string
}

// MatchCandidates scans the haystack for case-insensitive substring hits of
// each candidate's name or aliases and returns up to limit ids, best first.
// Score is the rune length of the longest matching needle; ties keep the
// original candidate order.
//
// This is a deliberately cheap heuristic: no tokenization, no word-boundary
// check. A short alias embedded in a longer unrelated word will match. That
// trade is accepted to keep the per-request cost at one pass over the pool.
func MatchCandidates(haystack string, pool []Candidate, limit int) []string {
	if limit <= 0 || len(pool) == 0 {
		return nil
	}
	lowered := strings.ToLower(haystack)

	type scoredCandidate struct {
		id    string
		score int
	}
	var hits []scoredCandidate

	for _, candidate := range pool {
		best := 0
		needles := make([]string, 0, len(candidate.Aliases)+1)
		needles = append(needles, candidate.Name)
		needles = append(needles, candidate.Aliases...)
		for _, needle := range needles {
			needle = strings.ToLower(strings.TrimSpace(needle))
			length := utf8.RuneCountInString(needle)
			if length < minNeedleRunes {
				continue
			}
			if length > best && strings.Contains(lowered, needle) {
				best = length
			}
		}
		if best > 0 {
			hits = append(hits, scoredCandidate{id: candidate.ID, score: best})
		}
	}

	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.id)
	}
	return ids
}
