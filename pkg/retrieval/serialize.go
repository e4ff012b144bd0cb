package retrieval

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// SerializeJourneys renders up to maxJourneys journeys as a markdown context
// block. includeStats appends aggregate statistics when more than one
// journey was found. No journeys yields a placeholder sentence rather than
// an empty block.
func SerializeJourneys(journeys []Journey, maxJourneys int, includeStats bool) string {
	if len(journeys) == 0 {
		return "No journeys found matching the criteria."
	}

	var b strings.Builder
	b.WriteString("## Customer Journey Context\n\n### Sample Journeys:\n")

	shown := journeys
	if len(shown) > maxJourneys {
		shown = shown[:maxJourneys]
	}
	for i, j := range shown {
		fmt.Fprintf(&b, "\n**Journey %d:**\n", i+1)
		writeJourney(&b, j)
	}

	if includeStats && len(journeys) > 1 {
		writeJourneyStats(&b, journeys)
	}
	return b.String()
}

func writeJourney(b *strings.Builder, j Journey) {
	if uc := j.UserContext; uc != nil {
		fmt.Fprintf(b, "User (segment: %s, LTV: $%.2f, churned: %v)\n",
			uc.Segment, uc.LTV, uc.Churned)
	}
	parts := make([]string, len(j.Events))
	for i, e := range j.Events {
		if len(e.Products) > 0 {
			p := e.Products[0]
			parts[i] = fmt.Sprintf("%s (%s - $%.2f)", e.EventType, p.Category, p.Price)
		} else {
			parts[i] = e.EventType
		}
	}
	fmt.Fprintf(b, "Journey: %s\n", strings.Join(parts, PatternSeparator))
}

func writeJourneyStats(b *strings.Builder, journeys []Journey) {
	totalEvents := 0
	dist := newPatternTally()
	for _, j := range journeys {
		totalEvents += len(j.Events)
		for _, e := range j.Events {
			dist.add(e.EventType)
		}
	}
	b.WriteString("\n### Statistics:\n")
	fmt.Fprintf(b, "- Total journeys analyzed: %d\n", len(journeys))
	fmt.Fprintf(b, "- Average events per session: %.1f\n",
		float64(totalEvents)/float64(len(journeys)))
	top := dist.ranked(5)
	entries := make([]string, len(top))
	for i, r := range top {
		entries[i] = fmt.Sprintf("%s: %d", r.Name, r.Count)
	}
	fmt.Fprintf(b, "- Event distribution: %s\n", strings.Join(entries, ", "))
}

// SerializePatterns renders a ranked pattern list. description names the
// aggregation in both the heading and the empty-result sentence.
func SerializePatterns(patterns []PatternCount, description string) string {
	if len(patterns) == 0 {
		return fmt.Sprintf("No %s found.", description)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Common %s\n", titleWords(description))
	for i, p := range patterns {
		fmt.Fprintf(&b, "%d. **%s** - %d occurrences (%.1f%%)\n",
			i+1, p.Pattern, p.Count, p.Percentage)
	}
	return b.String()
}

// SerializeComparison renders both cohorts and their differences.
func SerializeComparison(c CohortComparison) string {
	var b strings.Builder
	b.WriteString("## Cohort Comparison\n")
	for _, s := range []CohortStats{c.A, c.B} {
		fmt.Fprintf(&b, "\n### %s:\n", s.Name)
		fmt.Fprintf(&b, "- users: %d\n", s.UserCount)
		fmt.Fprintf(&b, "- sessions: %d\n", s.SessionCount)
		fmt.Fprintf(&b, "- avg_events_per_session: %.2f\n", s.AvgEventsPerSession)
		fmt.Fprintf(&b, "- avg_ltv: $%.2f\n", s.AvgLTV)
		fmt.Fprintf(&b, "- purchase_events: %d\n", s.PurchaseEvents)
		fmt.Fprintf(&b, "- cart_add_events: %d\n", s.CartAddEvents)
		fmt.Fprintf(&b, "- conversion_rate: %.1f%%\n", s.ConversionRate)
	}
	b.WriteString("\n### Key Differences:\n")
	writeDelta(&b, "avg_events_per_session", c.Deltas.AvgEventsPerSession, "%.2f")
	writeDelta(&b, "avg_ltv", c.Deltas.AvgLTV, "$%.2f")
	writeDelta(&b, "conversion_rate", c.Deltas.ConversionRate, "%.1f%%")
	return b.String()
}

func writeDelta(b *strings.Builder, name string, delta float64, format string) {
	direction := "higher"
	if delta < 0 {
		direction = "lower"
	}
	fmt.Fprintf(b, "- %s: %s %s\n", name,
		fmt.Sprintf(format, math.Abs(delta)), direction)
}

// titleWords uppercases the first letter of each space-separated word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
