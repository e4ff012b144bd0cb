package api

import "testing"

func TestRouteIntent(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		category string
		want     string
	}{
		{"churn keyword", "why do users churn?", "", IntentChurn},
		{"drop keyword", "where do users drop off?", "", IntentChurn},
		{"high and low", "compare high-LTV and low-LTV users", "", IntentLTVComparison},
		{"before purchase", "what do users view before they purchase?", "", IntentPrePurchase},
		{"exit with category", "why do users exit?", "Fashion", IntentExitAnalysis},
		{"category only", "what happens in this category?", "Electronics", IntentExitAnalysis},
		{"default", "tell me about user behavior", "", IntentChurn},
		{"churn beats category", "why do users churn?", "Fashion", IntentChurn},
		{"case insensitive", "HIGH vs LOW value users", "", IntentLTVComparison},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RouteIntent(tc.query, tc.category)
			if got != tc.want {
				t.Errorf("RouteIntent(%q, %q) = %q, want %q", tc.query, tc.category, got, tc.want)
			}
		})
	}
}
