package api

import (
	"strings"

	"github.com/dd0wney/journeygraph/pkg/graph"
	"github.com/dd0wney/journeygraph/pkg/retrieval"
)

// Intent labels, used as metric label values.
const (
	IntentChurn         = "churned"
	IntentLTVComparison = "ltv_comparison"
	IntentPrePurchase   = "pre_purchase"
	IntentExitAnalysis  = "exit_analysis"
)

// churnedSampleSize caps the churn scan so the default intent stays cheap.
const churnedSampleSize = 30

// RouteIntent maps a free-text query to a retrieval intent by keyword.
// A category with no matching keyword routes to exit analysis; everything
// else falls back to the churn analysis.
func RouteIntent(query, category string) string {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "churn") || strings.Contains(q, "drop"):
		return IntentChurn
	case strings.Contains(q, "high") && strings.Contains(q, "low"):
		return IntentLTVComparison
	case strings.Contains(q, "before") && strings.Contains(q, "purchase"):
		return IntentPrePurchase
	case strings.Contains(q, "exit") && category != "":
		return IntentExitAnalysis
	case category != "":
		return IntentExitAnalysis
	default:
		return IntentChurn
	}
}

// GraphContext runs the retrieval matching the routed intent and returns
// the serialized context together with the intent label.
func GraphContext(g *graph.Graph, query, category string) (string, string) {
	intent := RouteIntent(query, category)

	switch intent {
	case IntentLTVComparison:
		return retrieval.QueryHighVsLowLTV(g), intent
	case IntentPrePurchase:
		return retrieval.QueryPrePurchaseBehavior(g, category), intent
	case IntentExitAnalysis:
		return retrieval.QueryCategoryExitAnalysis(g, category), intent
	default:
		return retrieval.QueryChurnedUserJourneys(g, churnedSampleSize), intent
	}
}
