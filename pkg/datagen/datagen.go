// Package datagen produces synthetic e-commerce clickstream datasets with
// segment-dependent behavior: high-value users browse longer and buy more,
// churned users mostly exit. Generation is fully seeded, so the same config
// always yields the same dataset.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dd0wney/journeygraph/pkg/ingest"
)

// Categories is the product category space.
var Categories = []string{"Electronics", "Fashion", "Home", "Books", "Sports", "Beauty"}

// Segment holds the behavioral parameters of one user segment.
type Segment struct {
	Name          string
	Ratio         float64
	LTVMean       float64
	LTVStd        float64
	ChurnRate     float64
	MinEvents     int
	MaxEvents     int
	PurchaseProb  float64
	SessionWeight float64
}

// Segments is the segment mix, ordered so weighted choice is stable.
var Segments = []Segment{
	{Name: "high_value", Ratio: 0.15, LTVMean: 500, LTVStd: 150, ChurnRate: 0.10,
		MinEvents: 5, MaxEvents: 12, PurchaseProb: 0.60, SessionWeight: 3.0},
	{Name: "medium", Ratio: 0.50, LTVMean: 150, LTVStd: 50, ChurnRate: 0.30,
		MinEvents: 3, MaxEvents: 7, PurchaseProb: 0.30, SessionWeight: 1.5},
	{Name: "low", Ratio: 0.35, LTVMean: 30, LTVStd: 15, ChurnRate: 0.60,
		MinEvents: 1, MaxEvents: 4, PurchaseProb: 0.10, SessionWeight: 1.0},
}

// Config sizes the generated dataset.
type Config struct {
	Users    int
	Products int
	Sessions int
	Seed     int64
}

// DefaultConfig matches the published dataset dimensions.
func DefaultConfig() Config {
	return Config{Users: 5000, Products: 800, Sessions: 20000, Seed: 42}
}

// Generator produces datasets from one seeded random stream.
type Generator struct {
	cfg        Config
	rng        *rand.Rand
	price      distuv.LogNormal
	popularity distuv.Beta
	baseTime   time.Time
}

// New creates a generator. All randomness derives from cfg.Seed.
func New(cfg Config) *Generator {
	src := exprand.NewSource(uint64(cfg.Seed))
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		price: distuv.LogNormal{
			Mu: 4, Sigma: 1.2, Src: src,
		},
		popularity: distuv.Beta{
			Alpha: 2, Beta: 5, Src: src,
		},
		baseTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate produces a complete dataset.
func (g *Generator) Generate() ingest.Dataset {
	products := g.generateProducts()
	users := g.generateUsers()
	events := g.generateEvents(users, products)
	return ingest.Dataset{Users: users, Products: products, Events: events}
}

func (g *Generator) generateProducts() []ingest.ProductRecord {
	products := make([]ingest.ProductRecord, g.cfg.Products)
	for i := range products {
		category := Categories[g.rng.Intn(len(Categories))]
		price := math.Max(5.0, math.Min(g.price.Rand(), 2000.0))
		// IDs start at 1: zero is the "no product" marker on events.
		products[i] = ingest.ProductRecord{
			ProductID:       int64(i + 1),
			Name:            fmt.Sprintf("%s_%d", category, i+1),
			Category:        category,
			Price:           round2(price),
			PopularityScore: round4(g.popularity.Rand()),
		}
	}
	return products
}

func (g *Generator) generateUsers() []ingest.UserRecord {
	users := make([]ingest.UserRecord, g.cfg.Users)
	for i := range users {
		seg := g.pickSegment()
		ltv := math.Max(0, g.rng.NormFloat64()*seg.LTVStd+seg.LTVMean)
		regDay := g.baseTime.AddDate(0, 0, -g.rng.Intn(700)-30)
		users[i] = ingest.UserRecord{
			UserID:           int64(i),
			RegistrationDate: regDay.Format("2006-01-02"),
			Segment:          seg.Name,
			LTV:              round2(ltv),
			Churned:          g.rng.Float64() < seg.ChurnRate,
		}
	}
	return users
}

func (g *Generator) pickSegment() Segment {
	r := g.rng.Float64()
	acc := 0.0
	for _, s := range Segments {
		acc += s.Ratio
		if r < acc {
			return s
		}
	}
	return Segments[len(Segments)-1]
}

func segmentByName(name string) Segment {
	for _, s := range Segments {
		if s.Name == name {
			return s
		}
	}
	return Segments[len(Segments)-1]
}

func (g *Generator) generateEvents(users []ingest.UserRecord, products []ingest.ProductRecord) []ingest.EventRecord {
	// Session ownership is weighted: heavy segments get more sessions.
	userWeights := make([]float64, len(users))
	for i, u := range users {
		userWeights[i] = segmentByName(u.Segment).SessionWeight
	}
	productWeights := make([]float64, len(products))
	for i, p := range products {
		productWeights[i] = p.PopularityScore
	}

	var events []ingest.EventRecord
	eventID := int64(0)
	for sessionID := 0; sessionID < g.cfg.Sessions; sessionID++ {
		user := users[g.weightedIndex(userWeights)]
		sessionEvents := g.sessionEvents(int64(sessionID), user, products, productWeights, &eventID)
		events = append(events, sessionEvents...)
	}
	return events
}

func (g *Generator) sessionEvents(sessionID int64, user ingest.UserRecord,
	products []ingest.ProductRecord, productWeights []float64, eventID *int64) []ingest.EventRecord {

	seg := segmentByName(user.Segment)
	numEvents := seg.MinEvents + g.rng.Intn(seg.MaxEvents-seg.MinEvents+1)
	purchaseProb := seg.PurchaseProb
	if user.Churned {
		purchaseProb *= 0.1
	}

	current := g.baseTime.Add(time.Duration(g.rng.Intn(180*24*3600)) * time.Second)
	var events []ingest.EventRecord
	var viewed, cart []int64

	emit := func(eventType, pageURL string, productID int64) {
		events = append(events, ingest.EventRecord{
			EventID:   *eventID,
			UserID:    user.UserID,
			SessionID: sessionID,
			Timestamp: current,
			EventType: eventType,
			PageURL:   pageURL,
			ProductID: productID,
		})
		*eventID++
	}

	// Sessions open on the home page or a search.
	if g.rng.Intn(2) == 0 {
		emit("page_view", "home", 0)
	} else {
		emit("search", "search", 0)
	}
	current = current.Add(time.Duration(5+g.rng.Intn(26)) * time.Second)

	ended := false
	for i := 1; i < numEvents && !ended; i++ {
		var weights []float64
		if len(cart) > 0 {
			weights = []float64{0.3, 0.2, 0.1, 0.2, 0.2}
		} else {
			weights = []float64{0.45, 0.30, 0.15, 0.10, 0.0}
		}

		choice := g.weightedIndex(weights)
		switch choice {
		case 0, 1: // page_view, click
			idx := g.weightedIndex(productWeights)
			p := products[idx]
			viewed = append(viewed, p.ProductID)
			eventType := "page_view"
			if choice == 1 {
				eventType = "click"
			}
			emit(eventType, fmt.Sprintf("product/%d", p.ProductID), p.ProductID)
		case 2: // add_to_cart
			if len(viewed) > 0 {
				productID := viewed[g.rng.Intn(len(viewed))]
				cart = append(cart, productID)
				emit("add_to_cart", "cart", productID)
			}
		case 3: // exit
			emit("exit", "exit", 0)
			ended = true
		case 4: // checkout page
			if len(cart) > 0 {
				emit("page_view", "checkout", 0)
			}
		}
		current = current.Add(time.Duration(10+g.rng.Intn(51)) * time.Second)
	}

	if len(cart) > 0 && !ended && g.rng.Float64() < purchaseProb {
		emit("purchase", "checkout/success", cart[0])
	}
	return events
}

// weightedIndex samples an index proportionally to weights. A zero total
// falls back to uniform.
func (g *Generator) weightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return g.rng.Intn(len(weights))
	}
	r := g.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r < 0 {
			return i
		}
	}
	return len(weights) - 1
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
