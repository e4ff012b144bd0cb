// Package retrieval implements journey-aware traversal over the journey
// graph: per-user journey extraction, pattern aggregation, cohort
// comparison, outcome-directed scans, and serialization of the results into
// text blocks for a downstream language model.
//
// All functions treat absence as a normal outcome: unknown IDs and empty
// cohorts produce empty results, never errors. The graph handle must be
// frozen; the functions only read.
package retrieval

import (
	"time"

	"github.com/dd0wney/journeygraph/pkg/graph"
)

// PatternSeparator joins event types into pattern strings and journey
// narrations.
const PatternSeparator = " → "

// maxWalkBackHops bounds the backward NEXT walks so worst-case latency stays
// proportional to the scan limit rather than session length.
const maxWalkBackHops = 20

// EventView is the retrieval-facing projection of an event, annotated with
// the products it involves.
type EventView struct {
	EventID   int64
	EventType string
	Timestamp time.Time
	PageURL   string
	Products  []graph.Product
}

// Journey is the ordered event sequence of a single session. UserContext is
// populated by the path finders and nil elsewhere.
type Journey struct {
	SessionID   int64
	StartTime   time.Time
	EventCount  int
	Events      []EventView
	UserContext *UserContext
}

// UserContext is the attribute projection of a User node.
type UserContext struct {
	UserID  int64
	Segment string
	LTV     float64
	Churned bool
}

// UserFilter selects a cohort by strict attribute equality. Nil fields
// match everything, so an empty filter matches every user.
type UserFilter struct {
	Segment *string
	Churned *bool
}

// Matches reports whether a user satisfies every set field.
func (f UserFilter) Matches(u *graph.User) bool {
	if f.Segment != nil && u.Segment != *f.Segment {
		return false
	}
	if f.Churned != nil && u.Churned != *f.Churned {
		return false
	}
	return true
}

// FilterSegment selects users in a segment.
func FilterSegment(segment string) UserFilter {
	return UserFilter{Segment: &segment}
}

// FilterChurned selects users by churn flag.
func FilterChurned(churned bool) UserFilter {
	return UserFilter{Churned: &churned}
}

// PatternCount is one entry of a ranked pattern aggregation.
type PatternCount struct {
	Pattern    string
	Count      int
	Percentage float64
}

// RankedCount is one entry of a name-frequency ranking.
type RankedCount struct {
	Name  string
	Count int
}

// CohortStats holds the aggregate metrics of one cohort sample.
type CohortStats struct {
	Name                string
	UserCount           int
	SessionCount        int
	AvgEventsPerSession float64
	AvgLTV              float64
	PurchaseEvents      int
	CartAddEvents       int
	ConversionRate      float64
}

// CohortDeltas holds A-minus-B differences for the reported metrics.
type CohortDeltas struct {
	AvgEventsPerSession float64
	AvgLTV              float64
	ConversionRate      float64
}

// CohortComparison pairs two cohort samples with their deltas.
type CohortComparison struct {
	A      CohortStats
	B      CohortStats
	Deltas CohortDeltas
}

// PrePurchaseResult summarizes what shoppers touched in the backward walk
// from analyzed purchase events.
type PrePurchaseResult struct {
	TotalPurchases int
	Categories     []RankedCount
	Products       []RankedCount
}

// ExitAnalysis summarizes exits that follow views of products in one
// category.
type ExitAnalysis struct {
	Category            string
	ExitsAfterViewing   int
	AvgEventsBeforeExit float64
	LastEventBeforeExit []RankedCount
}
