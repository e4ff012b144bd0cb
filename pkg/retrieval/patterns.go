package retrieval

import (
	"sort"
	"strings"

	"github.com/dd0wney/journeygraph/pkg/graph"
)

// journeysPerUserPattern caps how many of a user's sessions contribute to a
// pattern tally, so heavy users do not dominate the distribution.
const journeysPerUserPattern = 5

// topPatterns is the ranking depth of pattern aggregations.
const topPatterns = 10

// ExtractPattern reduces a journey's events to their type sequence.
func ExtractPattern(events []EventView) string {
	if len(events) == 0 {
		return ""
	}
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType
	}
	return strings.Join(types, PatternSeparator)
}

// FindCommonPatterns tallies journey patterns across users matching the
// filter and returns the top ten by count, earlier-discovered patterns
// winning ties. sessionLimit is a scan budget: tallying stops once that many
// sessions have been counted, independent of how many users matched. A
// zero-event journey tallies as the empty pattern, so every session charged
// against the budget shows up in the percentage base.
func FindCommonPatterns(g *graph.Graph, filter UserFilter, sessionLimit int) []PatternCount {
	tally := newPatternTally()
	analyzed := 0

scan:
	for _, userNode := range g.NodesOfKind(graph.KindUser) {
		u, ok := g.User(userNode)
		if !ok || !filter.Matches(u) {
			continue
		}
		for _, j := range ExtractUserJourneys(g, u.UserID, journeysPerUserPattern) {
			if analyzed >= sessionLimit {
				break scan
			}
			tally.add(ExtractPattern(j.Events))
			analyzed++
		}
	}
	return tally.top(topPatterns)
}

// patternTally counts strings while remembering discovery order, which
// breaks ranking ties deterministically.
type patternTally struct {
	counts map[string]int
	seen   map[string]int
	order  int
}

func newPatternTally() *patternTally {
	return &patternTally{counts: make(map[string]int), seen: make(map[string]int)}
}

func (t *patternTally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.seen[key] = t.order
		t.order++
	}
	t.counts[key]++
}

func (t *patternTally) total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// top returns the n highest counts as PatternCounts with percentages of the
// full tally.
func (t *patternTally) top(n int) []PatternCount {
	ranked := t.ranked(n)
	total := t.total()
	out := make([]PatternCount, len(ranked))
	for i, r := range ranked {
		pct := 0.0
		if total > 0 {
			pct = float64(r.Count) / float64(total) * 100
		}
		out[i] = PatternCount{Pattern: r.Name, Count: r.Count, Percentage: pct}
	}
	return out
}

// ranked returns the n highest counts as RankedCounts.
func (t *patternTally) ranked(n int) []RankedCount {
	all := make([]RankedCount, 0, len(t.counts))
	for k, c := range t.counts {
		all = append(all, RankedCount{Name: k, Count: c})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return t.seen[all[i].Name] < t.seen[all[j].Name]
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
