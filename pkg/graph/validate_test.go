package graph

import "testing"

func TestValidateCleanGraph(t *testing.T) {
	g := buildSingleSessionGraph(t)
	report := g.Validate()
	if !report.Clean() {
		t.Errorf("expected clean report, got %d anomalies: %v", len(report.Anomalies), report.Anomalies)
	}
}

func TestValidateOrphanSession(t *testing.T) {
	g := New()
	if _, err := g.AddSession(Session{SessionID: 1, StartTime: ts(0), EndTime: ts(0)}); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	g.Freeze()

	report := g.Validate()
	if report.Clean() {
		t.Fatal("expected orphan_session anomaly")
	}
	if report.Anomalies[0].Kind != AnomalyOrphanSession {
		t.Errorf("anomaly kind = %s, want %s", report.Anomalies[0].Kind, AnomalyOrphanSession)
	}
}

func TestValidateOrphanEvent(t *testing.T) {
	g := New()
	if _, err := g.AddEvent(Event{EventID: 1, EventType: "page_view", Timestamp: ts(0)}); err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}
	g.Freeze()

	report := g.Validate()
	found := false
	for _, a := range report.Anomalies {
		if a.Kind == AnomalyOrphanEvent {
			found = true
		}
	}
	if !found {
		t.Errorf("expected orphan_event anomaly, got %v", report.Anomalies)
	}
}

func TestValidateBrokenNextChain(t *testing.T) {
	g := New()
	u, _ := g.AddUser(User{UserID: 1})
	s, _ := g.AddSession(Session{SessionID: 1, StartTime: ts(0), EndTime: ts(60), EventCount: 3})
	_ = g.AddEdge(u, s, EdgeStarted)

	e1, _ := g.AddEvent(Event{EventID: 1, EventType: "page_view", Timestamp: ts(0)})
	e2, _ := g.AddEvent(Event{EventID: 2, EventType: "click", Timestamp: ts(30)})
	e3, _ := g.AddEvent(Event{EventID: 3, EventType: "exit", Timestamp: ts(60)})
	_ = g.AddContains(s, e1, 0)
	_ = g.AddContains(s, e2, 1)
	_ = g.AddContains(s, e3, 2)

	// Chain skips e2: e1 -> e3.
	_ = g.AddEdge(e1, e3, EdgeNext)
	g.Freeze()

	report := g.Validate()
	found := false
	for _, a := range report.Anomalies {
		if a.Kind == AnomalyBrokenNextChain {
			found = true
		}
	}
	if !found {
		t.Errorf("expected broken_next_chain anomaly, got %v", report.Anomalies)
	}
}

func TestValidateOrderMismatch(t *testing.T) {
	g := New()
	u, _ := g.AddUser(User{UserID: 1})
	s, _ := g.AddSession(Session{SessionID: 1, StartTime: ts(0), EndTime: ts(30), EventCount: 2})
	_ = g.AddEdge(u, s, EdgeStarted)

	e1, _ := g.AddEvent(Event{EventID: 1, EventType: "search", Timestamp: ts(0)})
	e2, _ := g.AddEvent(Event{EventID: 2, EventType: "exit", Timestamp: ts(30)})
	// Order attributes swapped relative to timestamps.
	_ = g.AddContains(s, e1, 1)
	_ = g.AddContains(s, e2, 0)
	_ = g.AddEdge(e1, e2, EdgeNext)
	g.Freeze()

	report := g.Validate()
	mismatches := 0
	for _, a := range report.Anomalies {
		if a.Kind == AnomalyOrderMismatch {
			mismatches++
		}
	}
	if mismatches != 2 {
		t.Errorf("expected 2 order_mismatch anomalies, got %d (%v)", mismatches, report.Anomalies)
	}
}

func TestValidateTiesBrokenByEventID(t *testing.T) {
	g := New()
	u, _ := g.AddUser(User{UserID: 1})
	s, _ := g.AddSession(Session{SessionID: 1, StartTime: ts(0), EndTime: ts(0), EventCount: 2})
	_ = g.AddEdge(u, s, EdgeStarted)

	// Identical timestamps: event ID decides the authoritative order.
	e1, _ := g.AddEvent(Event{EventID: 1, EventType: "page_view", Timestamp: ts(0)})
	e2, _ := g.AddEvent(Event{EventID: 2, EventType: "click", Timestamp: ts(0)})
	_ = g.AddContains(s, e1, 0)
	_ = g.AddContains(s, e2, 1)
	_ = g.AddEdge(e1, e2, EdgeNext)
	g.Freeze()

	if report := g.Validate(); !report.Clean() {
		t.Errorf("tie broken by event id should validate clean, got %v", report.Anomalies)
	}
}
