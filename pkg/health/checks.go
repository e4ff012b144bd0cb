package health

import (
	"fmt"
	"runtime"
)

// GraphReadyCheck reports whether the journey graph has been built and
// frozen. It is the readiness gate: until the graph is loaded every query
// endpoint returns not-ready.
func GraphReadyCheck(frozen func() bool, counts func() (nodes, edges int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "graph",
			Details: make(map[string]any),
		}

		if !frozen() {
			check.Status = StatusUnhealthy
			check.Message = "Graph not loaded"
			return check
		}

		nodes, edges := counts()
		check.Details["nodes"] = nodes
		check.Details["edges"] = edges

		if nodes == 0 {
			check.Status = StatusDegraded
			check.Message = "Graph loaded but empty"
		} else {
			check.Status = StatusHealthy
			check.Message = fmt.Sprintf("Graph loaded: %d nodes, %d edges", nodes, edges)
		}
		return check
	}
}

// DatabaseCheck reports connectivity of the dataset database, when one is
// configured.
func DatabaseCheck(pingFunc func() error) CheckFunc {
	return func() Check {
		check := Check{
			Name: "database",
		}

		if err := pingFunc(); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Connected"
		}
		return check
	}
}

// MemoryCheck reports process memory pressure. The graph lives entirely in
// memory, so sustained high allocation is the first sign of trouble.
func MemoryCheck() CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		check.Details["alloc_bytes"] = m.Alloc
		check.Details["sys_bytes"] = m.Sys

		usagePercent := float64(m.Alloc) / float64(m.Sys) * 100
		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}

// InsightBackendCheck reports whether insight generation is configured. A
// missing key is degraded, not unhealthy: retrieval still works without it.
func InsightBackendCheck(enabled func() bool) CheckFunc {
	return func() Check {
		check := Check{
			Name: "insight_backend",
		}
		if enabled() {
			check.Status = StatusHealthy
			check.Message = "Configured"
		} else {
			check.Status = StatusDegraded
			check.Message = "Not configured, context returned raw"
		}
		return check
	}
}
