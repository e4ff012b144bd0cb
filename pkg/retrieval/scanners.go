package retrieval

import (
	"github.com/dd0wney/journeygraph/pkg/graph"
)

// FindSessionsByOutcome returns session nodes whose journey terminates in an
// event of the given type, in event insertion order, up to limit. Terminal
// means the event has no outgoing NEXT edge.
func FindSessionsByOutcome(g *graph.Graph, outcomeType string, limit int) []graph.NodeID {
	var sessions []graph.NodeID
	seen := make(map[graph.NodeID]bool)
	for _, en := range g.NodesOfKind(graph.KindEvent) {
		if len(sessions) >= limit {
			break
		}
		e, ok := g.Event(en)
		if !ok || e.EventType != outcomeType {
			continue
		}
		if _, hasNext := g.NextEvent(en); hasNext {
			continue
		}
		session, ok := g.OwningSession(en)
		if !ok || seen[session] {
			continue
		}
		seen[session] = true
		sessions = append(sessions, session)
	}
	return sessions
}

// walkBack returns up to maxWalkBackHops predecessor event nodes of start,
// nearest first.
func walkBack(g *graph.Graph, start graph.NodeID) []graph.NodeID {
	var trail []graph.NodeID
	cur := start
	for len(trail) < maxWalkBackHops {
		prev, ok := g.PrevEvent(cur)
		if !ok {
			break
		}
		trail = append(trail, prev)
		cur = prev
	}
	return trail
}

// FindProductsBeforePurchase walks backwards from up to limit purchase
// events and tallies the categories and products that page views and clicks
// touched on the way. categoryFilter narrows which purchases are analyzed,
// by the category of the purchased product; the tallies always cover every
// category seen on the walk.
func FindProductsBeforePurchase(g *graph.Graph, categoryFilter string, limit int) PrePurchaseResult {
	categories := newPatternTally()
	products := newPatternTally()
	analyzed := 0

	for _, en := range g.NodesOfKind(graph.KindEvent) {
		if analyzed >= limit {
			break
		}
		e, ok := g.Event(en)
		if !ok || e.EventType != "purchase" {
			continue
		}
		if categoryFilter != "" && !purchaseInCategory(g, en, categoryFilter) {
			continue
		}
		analyzed++
		for _, prev := range walkBack(g, en) {
			pe, ok := g.Event(prev)
			if !ok || (pe.EventType != "page_view" && pe.EventType != "click") {
				continue
			}
			for _, pn := range g.Successors(prev, graph.EdgeInvolves) {
				p, ok := g.Product(pn)
				if !ok {
					continue
				}
				categories.add(p.Category)
				products.add(p.Name)
			}
		}
	}

	return PrePurchaseResult{
		TotalPurchases: analyzed,
		Categories:     categories.ranked(topPatterns),
		Products:       products.ranked(topPatterns),
	}
}

// purchaseInCategory reports whether a purchase event directly involves a
// product in the category.
func purchaseInCategory(g *graph.Graph, purchase graph.NodeID, category string) bool {
	for _, pn := range g.Successors(purchase, graph.EdgeInvolves) {
		if p, ok := g.Product(pn); ok && p.Category == category {
			return true
		}
	}
	return false
}

// FindExitPointsAfterCategory scans exit events and reports how often they
// follow a view of a product in the category, how long the preceding stretch
// was, and which event types immediately precede such exits. The scan stops
// once limit qualifying exits have been found; exits with no category view
// never consume the budget.
func FindExitPointsAfterCategory(g *graph.Graph, category string, limit int) ExitAnalysis {
	out := ExitAnalysis{Category: category}
	lastEvents := newPatternTally()
	totalHops := 0

	for _, en := range g.NodesOfKind(graph.KindEvent) {
		if out.ExitsAfterViewing >= limit {
			break
		}
		e, ok := g.Event(en)
		if !ok || e.EventType != "exit" {
			continue
		}

		trail := walkBack(g, en)
		viewedCategory := false
		for _, prev := range trail {
			for _, pn := range g.Successors(prev, graph.EdgeInvolves) {
				if p, ok := g.Product(pn); ok && p.Category == category {
					viewedCategory = true
					break
				}
			}
			if viewedCategory {
				break
			}
		}
		if !viewedCategory {
			continue
		}
		out.ExitsAfterViewing++
		totalHops += len(trail)
		if len(trail) > 0 {
			if pe, ok := g.Event(trail[0]); ok {
				lastEvents.add(pe.EventType)
			}
		}
	}

	if out.ExitsAfterViewing > 0 {
		out.AvgEventsBeforeExit = round2(float64(totalHops) / float64(out.ExitsAfterViewing))
	}
	out.LastEventBeforeExit = lastEvents.ranked(5)
	return out
}

// FindConversionPaths pairs up to limit purchase-terminated journeys with
// the context of the users who took them.
func FindConversionPaths(g *graph.Graph, limit int) []Journey {
	return pathsByOutcome(g, "purchase", limit, nil)
}

// FindChurnPaths pairs up to limit exit-terminated journeys of churned
// users with their user context. Fewer than limit may return when exits
// belong to retained users.
func FindChurnPaths(g *graph.Graph, limit int) []Journey {
	churned := func(u *graph.User) bool { return u.Churned }
	return pathsByOutcome(g, "exit", limit, churned)
}

func pathsByOutcome(g *graph.Graph, outcome string, limit int, keep func(*graph.User) bool) []Journey {
	var paths []Journey
	for _, session := range FindSessionsByOutcome(g, outcome, limit) {
		userNode, ok := g.StartingUser(session)
		if !ok {
			continue
		}
		u, ok := g.User(userNode)
		if !ok || (keep != nil && !keep(u)) {
			continue
		}
		j := buildJourney(g, session)
		j.UserContext = userContextOf(u)
		paths = append(paths, j)
	}
	return paths
}
