package graph

import "time"

// NodeID is the store-internal handle for a node. Zero is never a valid ID.
type NodeID uint64

// Kind discriminates the four node variants at the store boundary. Everywhere
// else nodes are handled through their concrete types.
type Kind uint8

const (
	KindUser Kind = iota + 1
	KindSession
	KindEvent
	KindProduct
)

// String returns the kind name as it appears in statistics output.
func (k Kind) String() string {
	switch k {
	case KindUser:
		return "User"
	case KindSession:
		return "Session"
	case KindEvent:
		return "Event"
	case KindProduct:
		return "Product"
	default:
		return "Unknown"
	}
}

// EdgeType identifies one of the four structural edge types.
type EdgeType string

const (
	EdgeStarted  EdgeType = "STARTED"  // User -> Session
	EdgeContains EdgeType = "CONTAINS" // Session -> Event, carries an order attribute
	EdgeNext     EdgeType = "NEXT"     // Event -> Event, temporal chain within a session
	EdgeInvolves EdgeType = "INVOLVES" // Event -> Product
)

// User holds the attributes of a User node.
type User struct {
	UserID  int64
	Segment string
	LTV     float64
	Churned bool
}

// Session holds the attributes of a Session node.
type Session struct {
	SessionID  int64
	StartTime  time.Time
	EndTime    time.Time
	EventCount int
}

// Event holds the attributes of an Event node. Timestamp is an ordering key
// and is not required to be unique within a session.
type Event struct {
	EventID   int64
	EventType string
	Timestamp time.Time
	PageURL   string
}

// Product holds the attributes of a Product node.
type Product struct {
	ProductID       int64
	Name            string
	Category        string
	Price           float64
	PopularityScore float64
}

// halfEdge is one direction of a stored edge. order is only meaningful for
// CONTAINS edges and is -1 otherwise.
type halfEdge struct {
	peer  NodeID
	typ   EdgeType
	order int32
}
