// journey-datagen writes a synthetic clickstream dataset as the three CSV
// files journeyd ingests. The same seed always produces the same dataset.
package main

import (
	"flag"
	"os"

	"github.com/dd0wney/journeygraph/pkg/datagen"
	"github.com/dd0wney/journeygraph/pkg/logging"
)

func main() {
	defaults := datagen.DefaultConfig()

	outDir := flag.String("out", "./data", "Output directory for the CSV files")
	users := flag.Int("users", defaults.Users, "Number of users to generate")
	products := flag.Int("products", defaults.Products, "Number of products to generate")
	sessions := flag.Int("sessions", defaults.Sessions, "Number of sessions to generate")
	seed := flag.Int64("seed", defaults.Seed, "Random seed")
	flag.Parse()

	log := logging.NewJSONLogger(os.Stdout, logging.InfoLevel)

	gen := datagen.New(datagen.Config{
		Users:    *users,
		Products: *products,
		Sessions: *sessions,
		Seed:     *seed,
	})

	log.Info("generating dataset",
		logging.Int("users", *users),
		logging.Int("products", *products),
		logging.Int("sessions", *sessions),
		logging.Int64("seed", *seed))

	ds := gen.Generate()

	if err := datagen.WriteCSVDir(*outDir, ds); err != nil {
		log.Error("writing dataset", logging.Error(err))
		os.Exit(1)
	}

	log.Info("dataset written",
		logging.String("dir", *outDir),
		logging.Int("users", len(ds.Users)),
		logging.Int("products", len(ds.Products)),
		logging.Int("events", len(ds.Events)))
}
