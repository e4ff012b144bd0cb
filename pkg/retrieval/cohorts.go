package retrieval

import (
	"math"

	"github.com/dd0wney/journeygraph/pkg/graph"
)

// journeysPerUserCohort caps sessions per user in cohort sampling.
const journeysPerUserCohort = 3

// CompareCohorts samples two cohorts and returns their aggregate metrics
// with A-minus-B deltas. sampleSize bounds the sessions collected per
// cohort; users are visited in insertion order so repeated calls on the
// same graph agree.
func CompareCohorts(g *graph.Graph, filterA, filterB UserFilter, nameA, nameB string, sampleSize int) CohortComparison {
	a := collectCohort(g, filterA, nameA, sampleSize)
	b := collectCohort(g, filterB, nameB, sampleSize)
	return CohortComparison{
		A: a,
		B: b,
		Deltas: CohortDeltas{
			AvgEventsPerSession: round2(a.AvgEventsPerSession - b.AvgEventsPerSession),
			AvgLTV:              round2(a.AvgLTV - b.AvgLTV),
			ConversionRate:      round1(a.ConversionRate - b.ConversionRate),
		},
	}
}

func collectCohort(g *graph.Graph, filter UserFilter, name string, sampleSize int) CohortStats {
	stats := CohortStats{Name: name}
	totalEvents := 0
	totalLTV := 0.0

	for _, userNode := range g.NodesOfKind(graph.KindUser) {
		u, ok := g.User(userNode)
		if !ok || !filter.Matches(u) {
			continue
		}
		stats.UserCount++
		totalLTV += u.LTV
		for _, j := range ExtractUserJourneys(g, u.UserID, journeysPerUserCohort) {
			stats.SessionCount++
			totalEvents += len(j.Events)
			for _, e := range j.Events {
				switch e.EventType {
				case "purchase":
					stats.PurchaseEvents++
				case "add_to_cart":
					stats.CartAddEvents++
				}
			}
		}
		if stats.SessionCount >= sampleSize {
			break
		}
	}

	if stats.SessionCount > 0 {
		stats.AvgEventsPerSession = round2(float64(totalEvents) / float64(stats.SessionCount))
	}
	if stats.UserCount > 0 {
		stats.AvgLTV = round2(totalLTV / float64(stats.UserCount))
	}
	if stats.SessionCount > 0 {
		stats.ConversionRate = round1(float64(stats.PurchaseEvents) / float64(stats.SessionCount) * 100)
	}
	return stats
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round1(x float64) float64 { return math.Round(x*10) / 10 }
