package retrieval

import (
	"sort"

	"github.com/dd0wney/journeygraph/pkg/graph"
)

// ExtractUserJourneys returns up to maxSessions journeys for a user, one per
// session, each with events in authoritative order. An unknown user yields
// nil.
func ExtractUserJourneys(g *graph.Graph, userID int64, maxSessions int) []Journey {
	userNode, _, ok := g.UserNode(userID)
	if !ok {
		return nil
	}
	sessions := g.Successors(userNode, graph.EdgeStarted)
	if maxSessions >= 0 && len(sessions) > maxSessions {
		sessions = sessions[:maxSessions]
	}
	journeys := make([]Journey, 0, len(sessions))
	for _, s := range sessions {
		journeys = append(journeys, buildJourney(g, s))
	}
	return journeys
}

// GetUserContext returns the attribute projection of a user, or nil when the
// user is unknown.
func GetUserContext(g *graph.Graph, userID int64) *UserContext {
	_, u, ok := g.UserNode(userID)
	if !ok {
		return nil
	}
	return userContextOf(u)
}

func userContextOf(u *graph.User) *UserContext {
	return &UserContext{
		UserID:  u.UserID,
		Segment: u.Segment,
		LTV:     u.LTV,
		Churned: u.Churned,
	}
}

// buildJourney materializes one session node into a Journey. Events are
// ordered by timestamp, event ID breaking ties; the stored CONTAINS order
// and NEXT chain are advisory and not consulted here.
func buildJourney(g *graph.Graph, session graph.NodeID) Journey {
	s, _ := g.Session(session)
	eventNodes := g.Successors(session, graph.EdgeContains)
	events := make([]EventView, 0, len(eventNodes))
	for _, en := range eventNodes {
		e, ok := g.Event(en)
		if !ok {
			continue
		}
		ev := EventView{
			EventID:   e.EventID,
			EventType: e.EventType,
			Timestamp: e.Timestamp,
			PageURL:   e.PageURL,
		}
		for _, pn := range g.Successors(en, graph.EdgeInvolves) {
			if p, ok := g.Product(pn); ok {
				ev.Products = append(ev.Products, *p)
			}
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].EventID < events[j].EventID
	})
	j := Journey{Events: events, EventCount: len(events)}
	if s != nil {
		j.SessionID = s.SessionID
		j.StartTime = s.StartTime
	}
	return j
}
