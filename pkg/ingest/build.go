package ingest

import (
	"fmt"
	"sort"

	"github.com/dd0wney/journeygraph/pkg/graph"
	"github.com/dd0wney/journeygraph/pkg/logging"
)

// Build assembles a dataset into a frozen journey graph and validates its
// shape. Sessions are processed in ascending session-id order and events
// within a session in timestamp order with event-id tiebreak, so identical
// datasets always produce identical graphs.
func Build(ds Dataset, log logging.Logger) (*graph.Graph, graph.ValidationReport, error) {
	g := graph.New()

	for _, u := range ds.Users {
		if _, err := g.AddUser(graph.User{
			UserID:  u.UserID,
			Segment: u.Segment,
			LTV:     u.LTV,
			Churned: u.Churned,
		}); err != nil {
			return nil, graph.ValidationReport{}, fmt.Errorf("add user %d: %w", u.UserID, err)
		}
	}

	for _, p := range ds.Products {
		if _, err := g.AddProduct(graph.Product{
			ProductID:       p.ProductID,
			Name:            p.Name,
			Category:        p.Category,
			Price:           p.Price,
			PopularityScore: p.PopularityScore,
		}); err != nil {
			return nil, graph.ValidationReport{}, fmt.Errorf("add product %d: %w", p.ProductID, err)
		}
	}

	sessions := groupBySession(ds.Events)
	sessionIDs := make([]int64, 0, len(sessions))
	for id := range sessions {
		sessionIDs = append(sessionIDs, id)
	}
	sort.Slice(sessionIDs, func(i, j int) bool { return sessionIDs[i] < sessionIDs[j] })

	skippedUsers := 0
	for _, sessionID := range sessionIDs {
		events := sessions[sessionID]
		sort.SliceStable(events, func(i, j int) bool {
			if !events[i].Timestamp.Equal(events[j].Timestamp) {
				return events[i].Timestamp.Before(events[j].Timestamp)
			}
			return events[i].EventID < events[j].EventID
		})

		userNode, _, ok := g.UserNode(events[0].UserID)
		if !ok {
			skippedUsers++
			continue
		}

		sessionNode, err := g.AddSession(graph.Session{
			SessionID:  sessionID,
			StartTime:  events[0].Timestamp,
			EndTime:    events[len(events)-1].Timestamp,
			EventCount: len(events),
		})
		if err != nil {
			return nil, graph.ValidationReport{}, fmt.Errorf("add session %d: %w", sessionID, err)
		}
		if err := g.AddEdge(userNode, sessionNode, graph.EdgeStarted); err != nil {
			return nil, graph.ValidationReport{}, err
		}

		var prev graph.NodeID
		for i, e := range events {
			eventNode, err := g.AddEvent(graph.Event{
				EventID:   e.EventID,
				EventType: e.EventType,
				Timestamp: e.Timestamp,
				PageURL:   e.PageURL,
			})
			if err != nil {
				return nil, graph.ValidationReport{}, fmt.Errorf("add event %d: %w", e.EventID, err)
			}
			if err := g.AddContains(sessionNode, eventNode, i); err != nil {
				return nil, graph.ValidationReport{}, err
			}
			if i > 0 {
				if err := g.AddEdge(prev, eventNode, graph.EdgeNext); err != nil {
					return nil, graph.ValidationReport{}, err
				}
			}
			if e.ProductID != 0 {
				if productNode, _, ok := g.ProductNode(e.ProductID); ok {
					if err := g.AddEdge(eventNode, productNode, graph.EdgeInvolves); err != nil {
						return nil, graph.ValidationReport{}, err
					}
				}
			}
			prev = eventNode
		}
	}

	g.Freeze()
	report := g.Validate()

	stats := g.Stats()
	log.Info("journey graph built",
		logging.Int("nodes", stats.TotalNodes),
		logging.Int("edges", stats.TotalEdges),
		logging.Int("sessions", len(sessionIDs)),
		logging.Int("anomalies", len(report.Anomalies)),
	)
	if skippedUsers > 0 {
		log.Warn("sessions referencing unknown users skipped",
			logging.Int("sessions", skippedUsers))
	}
	for _, a := range report.Anomalies {
		log.Warn("shape anomaly", logging.Anomaly(string(a.Kind)),
			logging.String("detail", a.Detail))
	}

	return g, report, nil
}

func groupBySession(events []EventRecord) map[int64][]EventRecord {
	sessions := make(map[int64][]EventRecord)
	for _, e := range events {
		sessions[e.SessionID] = append(sessions[e.SessionID], e)
	}
	return sessions
}
