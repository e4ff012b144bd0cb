// journey-validate loads a CSV dataset, builds the journey graph, and
// reports its shape: node and edge counts by type plus every schema
// anomaly found. Exit status is non-zero when the graph is not clean, so
// the tool works as a CI gate for new dataset drops.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dd0wney/journeygraph/pkg/ingest"
	"github.com/dd0wney/journeygraph/pkg/logging"
)

func main() {
	dataDir := flag.String("data", "./data", "Dataset directory")
	verbose := flag.Bool("verbose", false, "Print every anomaly, not just counts")
	flag.Parse()

	log := logging.NewJSONLogger(os.Stdout, logging.InfoLevel)

	start := time.Now()
	ds, err := ingest.LoadCSVDir(*dataDir)
	if err != nil {
		log.Error("loading dataset", logging.Error(err))
		os.Exit(1)
	}
	log.Info("dataset loaded",
		logging.String("dir", *dataDir),
		logging.Int("users", len(ds.Users)),
		logging.Int("products", len(ds.Products)),
		logging.Int("events", len(ds.Events)),
		logging.Duration("elapsed", time.Since(start)))

	buildStart := time.Now()
	g, report, err := ingest.Build(ds, log)
	if err != nil {
		log.Error("building graph", logging.Error(err))
		os.Exit(1)
	}

	stats := g.Stats()
	log.Info("graph built",
		logging.Int("total_nodes", stats.TotalNodes),
		logging.Int("total_edges", stats.TotalEdges),
		logging.Duration("elapsed", time.Since(buildStart)))

	for _, kind := range sortedKeys(stats.NodesByKind) {
		fmt.Printf("  %-10s %d\n", kind, stats.NodesByKind[kind])
	}
	edgesByType := make(map[string]int, len(stats.EdgesByType))
	for typ, n := range stats.EdgesByType {
		edgesByType[string(typ)] = n
	}
	for _, typ := range sortedKeys(edgesByType) {
		fmt.Printf("  %-10s %d\n", typ, edgesByType[typ])
	}

	if report.Clean() {
		log.Info("graph is clean")
		return
	}

	byKind := make(map[string]int)
	for _, anomaly := range report.Anomalies {
		byKind[string(anomaly.Kind)]++
	}
	for _, kind := range sortedKeys(byKind) {
		log.Warn("anomalies found",
			logging.Anomaly(kind),
			logging.Int("count", byKind[kind]))
	}

	if *verbose {
		for _, anomaly := range report.Anomalies {
			fmt.Println("  " + anomaly.String())
		}
	}

	os.Exit(2)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
