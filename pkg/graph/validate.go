package graph

import (
	"fmt"
	"sort"
)

// AnomalyKind classifies a graph-shape anomaly found by Validate.
type AnomalyKind string

const (
	AnomalyOrphanSession   AnomalyKind = "orphan_session"    // session without exactly one STARTED predecessor
	AnomalyOrphanEvent     AnomalyKind = "orphan_event"      // event without exactly one CONTAINS predecessor
	AnomalyBrokenNextChain AnomalyKind = "broken_next_chain" // NEXT chain skips, forks, or cycles within a session
	AnomalyOrderMismatch   AnomalyKind = "order_mismatch"    // CONTAINS order attribute disagrees with timestamp order
)

// ShapeAnomaly describes one spot where the graph violates the journey
// schema. Anomalies degrade queries to partial results rather than failing
// them, but they are surfaced so data-quality regressions are visible.
type ShapeAnomaly struct {
	Kind   AnomalyKind
	NodeID NodeID
	Detail string
}

func (a ShapeAnomaly) String() string {
	return fmt.Sprintf("%s node=%d: %s", a.Kind, a.NodeID, a.Detail)
}

// ValidationReport is the result of a full graph shape check.
type ValidationReport struct {
	Anomalies []ShapeAnomaly
}

// Clean reports whether no anomalies were found.
func (r ValidationReport) Clean() bool { return len(r.Anomalies) == 0 }

// Validate checks the structural invariants of the journey schema: every
// session has one starting user, every event one owning session, and each
// session's NEXT chain visits its events exactly once in timestamp order.
// The CONTAINS order attribute and the NEXT chain are both checked against
// the authoritative timestamp-then-event-id order; neither is trusted on its
// own. Validation never mutates the graph and may run before or after
// Freeze.
func (g *Graph) Validate() ValidationReport {
	var report ValidationReport

	for _, sid := range g.byKind[KindSession] {
		if n := len(collect(g.incoming[sid], EdgeStarted)); n != 1 {
			report.Anomalies = append(report.Anomalies, ShapeAnomaly{
				Kind:   AnomalyOrphanSession,
				NodeID: sid,
				Detail: fmt.Sprintf("expected 1 STARTED predecessor, found %d", n),
			})
		}
		report.Anomalies = append(report.Anomalies, g.checkSessionEvents(sid)...)
	}

	for _, eid := range g.byKind[KindEvent] {
		if n := len(collect(g.incoming[eid], EdgeContains)); n != 1 {
			report.Anomalies = append(report.Anomalies, ShapeAnomaly{
				Kind:   AnomalyOrphanEvent,
				NodeID: eid,
				Detail: fmt.Sprintf("expected 1 CONTAINS predecessor, found %d", n),
			})
		}
	}

	return report
}

// checkSessionEvents verifies the NEXT chain and CONTAINS order attributes
// of one session against the authoritative event order.
func (g *Graph) checkSessionEvents(session NodeID) []ShapeAnomaly {
	events := collect(g.outgoing[session], EdgeContains)
	if len(events) == 0 {
		return nil
	}

	ordered := make([]NodeID, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := g.events[ordered[i]], g.events[ordered[j]]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.EventID < b.EventID
	})

	var anomalies []ShapeAnomaly

	for idx, eid := range ordered {
		if order, ok := g.ContainsOrder(session, eid); ok && order != idx {
			anomalies = append(anomalies, ShapeAnomaly{
				Kind:   AnomalyOrderMismatch,
				NodeID: eid,
				Detail: fmt.Sprintf("CONTAINS order %d, timestamp order %d", order, idx),
			})
		}
	}

	// Walk the NEXT chain from the first event and require it to visit the
	// authoritative order exactly.
	cur := ordered[0]
	for i := 1; i < len(ordered); i++ {
		next, ok := g.NextEvent(cur)
		if !ok {
			anomalies = append(anomalies, ShapeAnomaly{
				Kind:   AnomalyBrokenNextChain,
				NodeID: cur,
				Detail: fmt.Sprintf("chain ends after %d of %d events", i, len(ordered)),
			})
			return anomalies
		}
		if next != ordered[i] {
			anomalies = append(anomalies, ShapeAnomaly{
				Kind:   AnomalyBrokenNextChain,
				NodeID: cur,
				Detail: fmt.Sprintf("NEXT leads to node %d, timestamp order expects %d", next, ordered[i]),
			})
			return anomalies
		}
		cur = next
	}
	if next, ok := g.NextEvent(cur); ok {
		anomalies = append(anomalies, ShapeAnomaly{
			Kind:   AnomalyBrokenNextChain,
			NodeID: cur,
			Detail: fmt.Sprintf("terminal event has outgoing NEXT to node %d", next),
		})
	}
	return anomalies
}
