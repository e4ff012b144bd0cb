package graph

// Read-side accessors. All of these are safe for concurrent use once the
// graph is frozen; absence is a normal outcome and never an error.

// KindOf returns the kind tag for a node handle.
func (g *Graph) KindOf(id NodeID) (Kind, bool) {
	k, ok := g.kinds[id]
	return k, ok
}

// User returns the User node for a handle, if it is one.
func (g *Graph) User(id NodeID) (*User, bool) {
	u, ok := g.users[id]
	return u, ok
}

// Session returns the Session node for a handle, if it is one.
func (g *Graph) Session(id NodeID) (*Session, bool) {
	s, ok := g.sessions[id]
	return s, ok
}

// Event returns the Event node for a handle, if it is one.
func (g *Graph) Event(id NodeID) (*Event, bool) {
	e, ok := g.events[id]
	return e, ok
}

// Product returns the Product node for a handle, if it is one.
func (g *Graph) Product(id NodeID) (*Product, bool) {
	p, ok := g.products[id]
	return p, ok
}

// UserNode resolves a domain user ID to its node.
func (g *Graph) UserNode(userID int64) (NodeID, *User, bool) {
	id, ok := g.userIDs[userID]
	if !ok {
		return 0, nil, false
	}
	return id, g.users[id], true
}

// SessionNode resolves a domain session ID to its node.
func (g *Graph) SessionNode(sessionID int64) (NodeID, *Session, bool) {
	id, ok := g.sessionIDs[sessionID]
	if !ok {
		return 0, nil, false
	}
	return id, g.sessions[id], true
}

// ProductNode resolves a domain product ID to its node.
func (g *Graph) ProductNode(productID int64) (NodeID, *Product, bool) {
	id, ok := g.productIDs[productID]
	if !ok {
		return 0, nil, false
	}
	return id, g.products[id], true
}

// NodesOfKind returns the handles of all nodes of a kind in insertion order.
// The returned slice is the store's own index and must not be modified.
func (g *Graph) NodesOfKind(k Kind) []NodeID {
	return g.byKind[k]
}

// Successors returns the targets of outgoing edges of the given type.
// An empty type matches every edge type.
func (g *Graph) Successors(id NodeID, typ EdgeType) []NodeID {
	return collect(g.outgoing[id], typ)
}

// Predecessors returns the sources of incoming edges of the given type.
// An empty type matches every edge type.
func (g *Graph) Predecessors(id NodeID, typ EdgeType) []NodeID {
	return collect(g.incoming[id], typ)
}

func collect(edges []halfEdge, typ EdgeType) []NodeID {
	if len(edges) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(edges))
	for _, e := range edges {
		if typ == "" || e.typ == typ {
			out = append(out, e.peer)
		}
	}
	return out
}

func first(edges []halfEdge, typ EdgeType) (NodeID, bool) {
	for _, e := range edges {
		if e.typ == typ {
			return e.peer, true
		}
	}
	return 0, false
}

// NextEvent follows the outgoing NEXT edge of an event. It returns false for
// the terminal event of a session.
func (g *Graph) NextEvent(id NodeID) (NodeID, bool) {
	return first(g.outgoing[id], EdgeNext)
}

// PrevEvent follows the incoming NEXT edge of an event. It returns false for
// the first event of a session.
func (g *Graph) PrevEvent(id NodeID) (NodeID, bool) {
	return first(g.incoming[id], EdgeNext)
}

// OwningSession resolves the session an event belongs to via its CONTAINS
// predecessor.
func (g *Graph) OwningSession(event NodeID) (NodeID, bool) {
	return first(g.incoming[event], EdgeContains)
}

// StartingUser resolves the user that started a session via its STARTED
// predecessor.
func (g *Graph) StartingUser(session NodeID) (NodeID, bool) {
	return first(g.incoming[session], EdgeStarted)
}

// ContainsOrder returns the order attribute of the CONTAINS edge between a
// session and an event, if such an edge exists.
func (g *Graph) ContainsOrder(session, event NodeID) (int, bool) {
	for _, e := range g.outgoing[session] {
		if e.typ == EdgeContains && e.peer == event {
			return int(e.order), true
		}
	}
	return 0, false
}
