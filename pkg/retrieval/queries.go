package retrieval

import (
	"fmt"
	"strings"

	"github.com/dd0wney/journeygraph/pkg/graph"
)

// The high-level query functions each compose a handful of scans into one
// formatted context block. Section headers and field formats are stable;
// callers and golden tests depend on them.

// QueryChurnedUserJourneys samples churned-user exit journeys and their
// common patterns.
func QueryChurnedUserJourneys(g *graph.Graph, sampleSize int) string {
	paths := FindChurnPaths(g, sampleSize)
	patterns := FindCommonPatterns(g, FilterChurned(true), 100)

	journeyText := SerializeJourneys(paths, 5, true)
	patternText := SerializePatterns(patterns, "churned user journey patterns")
	return journeyText + "\n\n" + patternText
}

// QueryHighVsLowLTV compares the high_value and low segments and appends
// each cohort's common patterns.
func QueryHighVsLowLTV(g *graph.Graph) string {
	comparison := CompareCohorts(g,
		FilterSegment("high_value"), FilterSegment("low"),
		"High-Value Users", "Low-Value Users", 50)

	highPatterns := FindCommonPatterns(g, FilterSegment("high_value"), 50)
	lowPatterns := FindCommonPatterns(g, FilterSegment("low"), 50)

	return SerializeComparison(comparison) + "\n\n" +
		SerializePatterns(highPatterns, "high-value user patterns") + "\n\n" +
		SerializePatterns(lowPatterns, "low-value user patterns")
}

// QueryPrePurchaseBehavior summarizes what shoppers touched before buying,
// optionally narrowed to one category, with sample conversion journeys.
func QueryPrePurchaseBehavior(g *graph.Graph, category string) string {
	pre := FindProductsBeforePurchase(g, category, 50)
	conversionPaths := FindConversionPaths(g, 20)

	var b strings.Builder
	b.WriteString("## Pre-Purchase Behavior Analysis\n")
	if category != "" {
		fmt.Fprintf(&b, "\n**Filtered by category: %s**\n", category)
	}
	fmt.Fprintf(&b, "\nPurchases analyzed: %d\n", pre.TotalPurchases)
	b.WriteString("\n### Categories viewed before purchase:\n")
	for _, c := range pre.Categories {
		fmt.Fprintf(&b, "- %s: %d views\n", c.Name, c.Count)
	}
	b.WriteString("\n### Sample conversion journeys:\n")

	return b.String() + "\n" + SerializeJourneys(conversionPaths, 5, true)
}

// QueryCategoryExitAnalysis summarizes exits following views of one
// category.
func QueryCategoryExitAnalysis(g *graph.Graph, category string) string {
	exits := FindExitPointsAfterCategory(g, category, 50)

	var b strings.Builder
	fmt.Fprintf(&b, "## Exit Analysis for %s Category\n", category)
	fmt.Fprintf(&b, "\n- Users who exited after viewing %s: %d\n",
		category, exits.ExitsAfterViewing)
	fmt.Fprintf(&b, "- Average events before exit: %.2f\n", exits.AvgEventsBeforeExit)
	b.WriteString("\n### Last event type before exit:\n")
	for _, le := range exits.LastEventBeforeExit {
		fmt.Fprintf(&b, "- %s: %d\n", le.Name, le.Count)
	}
	return b.String()
}
