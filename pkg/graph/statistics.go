package graph

// Stats summarizes the graph: total counts plus per-kind and per-type
// breakdowns. Because the graph is immutable after Freeze, the stats are
// computed once at freeze time and served from cache.
type Stats struct {
	TotalNodes  int              `json:"total_nodes"`
	TotalEdges  int              `json:"total_edges"`
	NodesByKind map[string]int   `json:"node_types"`
	EdgesByType map[EdgeType]int `json:"edge_types"`
}

// Stats returns the cached freeze-time statistics. Before Freeze it computes
// them on the fly, so progress reporting during ingestion stays accurate.
func (g *Graph) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return g.stats
	}
	return g.computeStats()
}

func (g *Graph) computeStats() Stats {
	s := Stats{
		NodesByKind: make(map[string]int, 4),
		EdgesByType: make(map[EdgeType]int, 4),
	}
	for kind, ids := range g.byKind {
		s.NodesByKind[kind.String()] = len(ids)
		s.TotalNodes += len(ids)
	}
	for typ, n := range g.edgesByType {
		s.EdgesByType[typ] = int(n)
		s.TotalEdges += int(n)
	}
	return s
}
