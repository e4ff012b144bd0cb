package retrieval

import (
	"strings"
	"testing"
)

func TestQueryChurnedUserJourneys(t *testing.T) {
	g := buildShopGraph(t)
	out := QueryChurnedUserJourneys(g, 20)
	for _, want := range []string{
		"## Customer Journey Context",
		"User (segment: low, LTV: $120.00, churned: true)",
		"## Common Churned User Journey Patterns",
		"**page_view → exit**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQueryChurnedUserJourneysEmptyGraph(t *testing.T) {
	out := QueryChurnedUserJourneys(emptyGraph(), 20)
	if !strings.Contains(out, "No journeys found matching the criteria.") {
		t.Errorf("missing journey placeholder:\n%s", out)
	}
	if !strings.Contains(out, "No churned user journey patterns found.") {
		t.Errorf("missing pattern placeholder:\n%s", out)
	}
}

func TestQueryHighVsLowLTV(t *testing.T) {
	g := buildShopGraph(t)
	out := QueryHighVsLowLTV(g)
	for _, want := range []string{
		"## Cohort Comparison",
		"### High-Value Users:",
		"### Low-Value Users:",
		"## Common High-value User Patterns",
		"## Common Low-value User Patterns",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestQueryPrePurchaseBehavior(t *testing.T) {
	g := buildShopGraph(t)
	out := QueryPrePurchaseBehavior(g, "")
	for _, want := range []string{
		"## Pre-Purchase Behavior Analysis",
		"Purchases analyzed: 1",
		"### Categories viewed before purchase:",
		"- Electronics: 2 views",
		"### Sample conversion journeys:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**Filtered by category:") {
		t.Errorf("unexpected filter banner:\n%s", out)
	}

	filtered := QueryPrePurchaseBehavior(g, "Electronics")
	if !strings.Contains(filtered, "**Filtered by category: Electronics**") {
		t.Errorf("missing filter banner:\n%s", filtered)
	}
}

func TestQueryCategoryExitAnalysis(t *testing.T) {
	g := buildShopGraph(t)
	out := QueryCategoryExitAnalysis(g, "Electronics")
	for _, want := range []string{
		"## Exit Analysis for Electronics Category",
		"- Users who exited after viewing Electronics: 1",
		"- Average events before exit: 2.00",
		"### Last event type before exit:",
		"- click: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
