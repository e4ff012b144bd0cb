// journeyd serves the journey-graph retrieval API. It loads a clickstream
// dataset from CSV, Postgres, or S3, builds the graph and the vector
// baseline, and serves queries until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/journeygraph/pkg/api"
	"github.com/dd0wney/journeygraph/pkg/config"
	"github.com/dd0wney/journeygraph/pkg/graph"
	"github.com/dd0wney/journeygraph/pkg/health"
	"github.com/dd0wney/journeygraph/pkg/ingest"
	"github.com/dd0wney/journeygraph/pkg/llm"
	"github.com/dd0wney/journeygraph/pkg/logging"
	"github.com/dd0wney/journeygraph/pkg/metrics"
	"github.com/dd0wney/journeygraph/pkg/naiverag"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	dataDir := flag.String("data", "", "Dataset directory (overrides config)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Logging.Level))
	log.Info("journeyd starting",
		logging.String("source", cfg.Data.Source),
		logging.String("addr", cfg.Addr()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, pingFunc, err := loadDataset(ctx, cfg, log)
	if err != nil {
		log.Error("loading dataset", logging.Error(err))
		os.Exit(1)
	}
	log.Info("dataset loaded",
		logging.Int("users", len(ds.Users)),
		logging.Int("products", len(ds.Products)),
		logging.Int("events", len(ds.Events)))

	g, report, err := ingest.Build(ds, log)
	if err != nil {
		log.Error("building graph", logging.Error(err))
		os.Exit(1)
	}

	idx := naiverag.NewIndex(naiverag.DefaultDimensions)
	idx.Build(ds)
	log.Info("vector baseline indexed", logging.Int("documents", idx.Len()))

	reg := metrics.NewRegistry()
	stats := g.Stats()
	edgesByType := make(map[string]int, len(stats.EdgesByType))
	for typ, n := range stats.EdgesByType {
		edgesByType[string(typ)] = n
	}
	reg.SetGraphStats(stats.NodesByKind, edgesByType)
	for _, anomaly := range report.Anomalies {
		reg.GraphAnomaliesTotal.WithLabelValues(string(anomaly.Kind)).Inc()
	}

	insight := newInsightBackend(cfg, log)

	checker := health.NewChecker()
	registerChecks(checker, g, pingFunc, insight)

	server, err := api.NewServer(cfg, g, idx, insight, checker, reg, log)
	if err != nil {
		log.Error("creating server", logging.Error(err))
		os.Exit(1)
	}

	if err := server.Start(ctx); err != nil {
		log.Error("server error", logging.Error(err))
		os.Exit(1)
	}
	log.Info("journeyd stopped")
}

// loadDataset reads the dataset from the configured source. For Postgres it
// also returns a ping function so the health checker can watch the pool.
func loadDataset(ctx context.Context, cfg config.Config, log logging.Logger) (ingest.Dataset, func() error, error) {
	switch cfg.Data.Source {
	case "csv":
		log.Info("loading CSV dataset", logging.String("dir", cfg.Data.Dir))
		ds, err := ingest.LoadCSVDir(cfg.Data.Dir)
		return ds, nil, err

	case "postgres":
		log.Info("loading dataset from Postgres")
		store, err := ingest.NewPGStore(ctx, cfg.Data.PostgresURL)
		if err != nil {
			return ingest.Dataset{}, nil, err
		}
		ds, err := store.LoadDataset(ctx)
		if err != nil {
			store.Close()
			return ingest.Dataset{}, nil, err
		}
		ping := func() error { return store.Ping(context.Background()) }
		return ds, ping, nil

	case "s3":
		log.Info("loading dataset from S3",
			logging.String("bucket", cfg.Data.S3.Bucket),
			logging.String("prefix", cfg.Data.S3.Prefix))
		ds, err := ingest.LoadS3(ctx, ingest.S3Location{
			Bucket: cfg.Data.S3.Bucket,
			Prefix: cfg.Data.S3.Prefix,
			Region: cfg.Data.S3.Region,
		})
		return ds, nil, err

	default:
		return ingest.Dataset{}, nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

func newInsightBackend(cfg config.Config, log logging.Logger) llm.Generator {
	if cfg.Insight.APIKey == "" {
		log.Warn("no insight API key configured, queries return raw context")
		return llm.Disabled{}
	}

	client, err := llm.NewClient(llm.Options{
		APIKey:  cfg.Insight.APIKey,
		BaseURL: cfg.Insight.BaseURL,
		Model:   cfg.Insight.Model,
	}, log)
	if err != nil {
		log.Warn("insight backend unavailable", logging.Error(err))
		return llm.Disabled{}
	}
	return client
}

func registerChecks(checker *health.Checker, g *graph.Graph, pingFunc func() error, insight llm.Generator) {
	graphCheck := health.GraphReadyCheck(g.Frozen, func() (int, int) {
		stats := g.Stats()
		return stats.TotalNodes, stats.TotalEdges
	})
	checker.RegisterCheck("graph", graphCheck)
	checker.RegisterReadinessCheck("graph", graphCheck)

	checker.RegisterCheck("memory", health.MemoryCheck())
	checker.RegisterLivenessCheck("memory", health.MemoryCheck())

	checker.RegisterCheck("insight_backend", health.InsightBackendCheck(insight.Enabled))

	if pingFunc != nil {
		checker.RegisterCheck("database", health.DatabaseCheck(pingFunc))
	}
}
