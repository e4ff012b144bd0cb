package graph

import (
	"fmt"
	"sync"
)

// Graph is the in-memory journey graph. It has a two-phase lifecycle: an
// ingestion process populates it through the Add* methods, calls Freeze, and
// hands it to the retrieval layer. After Freeze the graph is immutable and
// any number of readers may query it concurrently without synchronization.
//
// The Add* methods are not safe for concurrent use; construction is a
// single-goroutine affair by contract.
type Graph struct {
	users    map[NodeID]*User
	sessions map[NodeID]*Session
	events   map[NodeID]*Event
	products map[NodeID]*Product
	kinds    map[NodeID]Kind

	// Per-kind ID lists in insertion order, so full-kind scans avoid
	// touching unrelated nodes and iterate deterministically.
	byKind map[Kind][]NodeID

	outgoing map[NodeID][]halfEdge
	incoming map[NodeID][]halfEdge

	// Domain ID -> internal handle.
	userIDs    map[int64]NodeID
	sessionIDs map[int64]NodeID
	eventIDs   map[int64]NodeID
	productIDs map[int64]NodeID

	edgesByType map[EdgeType]uint64
	nextID      NodeID

	mu     sync.Mutex
	frozen bool
	stats  Stats
}

// New creates an empty, unfrozen graph.
func New() *Graph {
	return &Graph{
		users:       make(map[NodeID]*User),
		sessions:    make(map[NodeID]*Session),
		events:      make(map[NodeID]*Event),
		products:    make(map[NodeID]*Product),
		kinds:       make(map[NodeID]Kind),
		byKind:      make(map[Kind][]NodeID),
		outgoing:    make(map[NodeID][]halfEdge),
		incoming:    make(map[NodeID][]halfEdge),
		userIDs:     make(map[int64]NodeID),
		sessionIDs:  make(map[int64]NodeID),
		eventIDs:    make(map[int64]NodeID),
		productIDs:  make(map[int64]NodeID),
		edgesByType: make(map[EdgeType]uint64),
		nextID:      1,
	}
}

// Frozen reports whether the graph has been sealed for serving.
func (g *Graph) Frozen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frozen
}

// Freeze seals the graph. Statistics are computed once here and served from
// cache afterwards. Freezing an already-frozen graph is a no-op.
func (g *Graph) Freeze() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return
	}
	g.stats = g.computeStats()
	g.frozen = true
}

func (g *Graph) addNode(kind Kind) NodeID {
	id := g.nextID
	g.nextID++
	g.kinds[id] = kind
	g.byKind[kind] = append(g.byKind[kind], id)
	return id
}

// AddUser adds a User node. The domain user ID must be unique.
func (g *Graph) AddUser(u User) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return 0, ErrFrozen
	}
	if _, exists := g.userIDs[u.UserID]; exists {
		return 0, fmt.Errorf("user %d: %w", u.UserID, ErrDuplicateID)
	}
	id := g.addNode(KindUser)
	g.users[id] = &u
	g.userIDs[u.UserID] = id
	return id, nil
}

// AddSession adds a Session node. The domain session ID must be unique.
func (g *Graph) AddSession(s Session) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return 0, ErrFrozen
	}
	if _, exists := g.sessionIDs[s.SessionID]; exists {
		return 0, fmt.Errorf("session %d: %w", s.SessionID, ErrDuplicateID)
	}
	id := g.addNode(KindSession)
	g.sessions[id] = &s
	g.sessionIDs[s.SessionID] = id
	return id, nil
}

// AddEvent adds an Event node. The domain event ID must be unique.
func (g *Graph) AddEvent(e Event) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return 0, ErrFrozen
	}
	if _, exists := g.eventIDs[e.EventID]; exists {
		return 0, fmt.Errorf("event %d: %w", e.EventID, ErrDuplicateID)
	}
	id := g.addNode(KindEvent)
	g.events[id] = &e
	g.eventIDs[e.EventID] = id
	return id, nil
}

// AddProduct adds a Product node. The domain product ID must be unique.
func (g *Graph) AddProduct(p Product) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return 0, ErrFrozen
	}
	if _, exists := g.productIDs[p.ProductID]; exists {
		return 0, fmt.Errorf("product %d: %w", p.ProductID, ErrDuplicateID)
	}
	id := g.addNode(KindProduct)
	g.products[id] = &p
	g.productIDs[p.ProductID] = id
	return id, nil
}

// edgeKinds maps each edge type to its required (from, to) node kinds.
var edgeKinds = map[EdgeType][2]Kind{
	EdgeStarted:  {KindUser, KindSession},
	EdgeContains: {KindSession, KindEvent},
	EdgeNext:     {KindEvent, KindEvent},
	EdgeInvolves: {KindEvent, KindProduct},
}

func (g *Graph) addEdge(from, to NodeID, typ EdgeType, order int32) error {
	if g.frozen {
		return ErrFrozen
	}
	want, ok := edgeKinds[typ]
	if !ok {
		return fmt.Errorf("unknown edge type %q", typ)
	}
	fromKind, fromOK := g.kinds[from]
	toKind, toOK := g.kinds[to]
	if !fromOK || !toOK {
		return fmt.Errorf("edge %s %d->%d: %w", typ, from, to, ErrUnknownNode)
	}
	if fromKind != want[0] || toKind != want[1] {
		return fmt.Errorf("edge %s %s->%s: %w", typ, fromKind, toKind, ErrKindMismatch)
	}
	g.outgoing[from] = append(g.outgoing[from], halfEdge{peer: to, typ: typ, order: order})
	g.incoming[to] = append(g.incoming[to], halfEdge{peer: from, typ: typ, order: order})
	g.edgesByType[typ]++
	return nil
}

// AddEdge adds a STARTED, NEXT, or INVOLVES edge. CONTAINS edges carry an
// order attribute and go through AddContains.
func (g *Graph) AddEdge(from, to NodeID, typ EdgeType) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if typ == EdgeContains {
		return fmt.Errorf("CONTAINS edges require an order attribute, use AddContains")
	}
	return g.addEdge(from, to, typ, -1)
}

// AddContains adds a Session->Event CONTAINS edge with its order attribute.
// The order is advisory metadata recorded at construction time; retrieval
// re-derives event ordering from timestamps and treats a divergence as a
// graph-shape anomaly (see Validate).
func (g *Graph) AddContains(session, event NodeID, order int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdge(session, event, EdgeContains, int32(order))
}
