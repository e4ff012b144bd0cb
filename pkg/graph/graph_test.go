package graph

import (
	"errors"
	"testing"
	"time"
)

func ts(sec int) time.Time {
	return time.Date(2026, 1, 1, 10, 0, sec, 0, time.UTC)
}

// buildSingleSessionGraph wires user -> session -> page_view, click, purchase
// with the click involving an Electronics product.
func buildSingleSessionGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()

	user, err := g.AddUser(User{UserID: 1, Segment: "high_value", LTV: 500, Churned: false})
	if err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	session, err := g.AddSession(Session{SessionID: 1, StartTime: ts(0), EndTime: ts(120), EventCount: 3})
	if err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	if err := g.AddEdge(user, session, EdgeStarted); err != nil {
		t.Fatalf("AddEdge STARTED failed: %v", err)
	}

	types := []string{"page_view", "click", "purchase"}
	var events []NodeID
	for i, et := range types {
		e, err := g.AddEvent(Event{EventID: int64(i + 1), EventType: et, Timestamp: ts(i * 60), PageURL: "/" + et})
		if err != nil {
			t.Fatalf("AddEvent failed: %v", err)
		}
		if err := g.AddContains(session, e, i); err != nil {
			t.Fatalf("AddContains failed: %v", err)
		}
		events = append(events, e)
	}
	for i := 0; i+1 < len(events); i++ {
		if err := g.AddEdge(events[i], events[i+1], EdgeNext); err != nil {
			t.Fatalf("AddEdge NEXT failed: %v", err)
		}
	}

	product, err := g.AddProduct(Product{ProductID: 1, Name: "Test Product", Category: "Electronics", Price: 99.99, PopularityScore: 0.8})
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}
	if err := g.AddEdge(events[1], product, EdgeInvolves); err != nil {
		t.Fatalf("AddEdge INVOLVES failed: %v", err)
	}

	g.Freeze()
	return g
}

func TestLookupByDomainID(t *testing.T) {
	g := buildSingleSessionGraph(t)

	_, u, ok := g.UserNode(1)
	if !ok {
		t.Fatal("UserNode(1) not found")
	}
	if u.Segment != "high_value" || u.LTV != 500 || u.Churned {
		t.Errorf("unexpected user attributes: %+v", u)
	}

	if _, _, ok := g.UserNode(999); ok {
		t.Error("UserNode(999) should not exist")
	}
}

func TestTypedSuccessors(t *testing.T) {
	g := buildSingleSessionGraph(t)

	userNode, _, _ := g.UserNode(1)
	sessions := g.Successors(userNode, EdgeStarted)
	if len(sessions) != 1 {
		t.Fatalf("expected 1 STARTED successor, got %d", len(sessions))
	}

	events := g.Successors(sessions[0], EdgeContains)
	if len(events) != 3 {
		t.Fatalf("expected 3 CONTAINS successors, got %d", len(events))
	}

	// No NEXT successors from the user node.
	if next := g.Successors(userNode, EdgeNext); len(next) != 0 {
		t.Errorf("user node should have no NEXT successors, got %d", len(next))
	}
}

func TestNextChainTraversal(t *testing.T) {
	g := buildSingleSessionGraph(t)

	sessionNode, _, _ := g.SessionNode(1)
	events := g.Successors(sessionNode, EdgeContains)

	first := events[0]
	if _, ok := g.PrevEvent(first); ok {
		t.Error("first event should have no PrevEvent")
	}

	var chain []string
	cur := first
	for {
		e, _ := g.Event(cur)
		chain = append(chain, e.EventType)
		next, ok := g.NextEvent(cur)
		if !ok {
			break
		}
		cur = next
	}
	want := []string{"page_view", "click", "purchase"}
	if len(chain) != len(want) {
		t.Fatalf("chain length %d, want %d", len(chain), len(want))
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i], want[i])
		}
	}

	if owner, ok := g.OwningSession(cur); !ok || owner != sessionNode {
		t.Error("terminal event should resolve its owning session")
	}
}

func TestAbsentNodeReturnsEmpty(t *testing.T) {
	g := buildSingleSessionGraph(t)

	if succ := g.Successors(NodeID(9999), EdgeStarted); len(succ) != 0 {
		t.Errorf("successors of absent node should be empty, got %d", len(succ))
	}
	if pred := g.Predecessors(NodeID(9999), ""); len(pred) != 0 {
		t.Errorf("predecessors of absent node should be empty, got %d", len(pred))
	}
}

func TestFrozenGraphRejectsWrites(t *testing.T) {
	g := buildSingleSessionGraph(t)

	if _, err := g.AddUser(User{UserID: 2}); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddUser after Freeze: got %v, want ErrFrozen", err)
	}
}

func TestEdgeKindEnforcement(t *testing.T) {
	g := New()
	u, _ := g.AddUser(User{UserID: 1})
	p, _ := g.AddProduct(Product{ProductID: 1})

	if err := g.AddEdge(u, p, EdgeStarted); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("STARTED User->Product: got %v, want ErrKindMismatch", err)
	}
	if err := g.AddEdge(u, NodeID(42), EdgeStarted); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("edge to missing node: got %v, want ErrUnknownNode", err)
	}
}

func TestDuplicateDomainID(t *testing.T) {
	g := New()
	if _, err := g.AddUser(User{UserID: 7}); err != nil {
		t.Fatalf("first AddUser failed: %v", err)
	}
	if _, err := g.AddUser(User{UserID: 7}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate user: got %v, want ErrDuplicateID", err)
	}
}

func TestStats(t *testing.T) {
	g := buildSingleSessionGraph(t)
	stats := g.Stats()

	if stats.TotalNodes != 6 {
		t.Errorf("TotalNodes = %d, want 6", stats.TotalNodes)
	}
	if stats.TotalEdges != 7 {
		t.Errorf("TotalEdges = %d, want 7", stats.TotalEdges)
	}
	if stats.NodesByKind["Event"] != 3 {
		t.Errorf("Event count = %d, want 3", stats.NodesByKind["Event"])
	}
	if stats.EdgesByType[EdgeContains] != 3 {
		t.Errorf("CONTAINS count = %d, want 3", stats.EdgesByType[EdgeContains])
	}
	if stats.EdgesByType[EdgeNext] != 2 {
		t.Errorf("NEXT count = %d, want 2", stats.EdgesByType[EdgeNext])
	}
}

func TestContainsOrder(t *testing.T) {
	g := buildSingleSessionGraph(t)
	sessionNode, _, _ := g.SessionNode(1)
	events := g.Successors(sessionNode, EdgeContains)

	for i, e := range events {
		order, ok := g.ContainsOrder(sessionNode, e)
		if !ok {
			t.Fatalf("ContainsOrder missing for event %d", i)
		}
		if order != i {
			t.Errorf("ContainsOrder = %d, want %d", order, i)
		}
	}

	if _, ok := g.ContainsOrder(sessionNode, NodeID(9999)); ok {
		t.Error("ContainsOrder should be absent for missing edge")
	}
}
