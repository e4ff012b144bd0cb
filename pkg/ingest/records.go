// Package ingest loads clickstream datasets from CSV files, Postgres, or
// S3 and assembles them into a frozen journey graph.
package ingest

import "time"

// UserRecord is one row of the users table.
type UserRecord struct {
	UserID           int64
	RegistrationDate string
	Segment          string
	LTV              float64
	Churned          bool
}

// ProductRecord is one row of the product catalog.
type ProductRecord struct {
	ProductID       int64
	Name            string
	Category        string
	Price           float64
	PopularityScore float64
}

// EventRecord is one clickstream event. ProductID zero means no product was
// involved.
type EventRecord struct {
	EventID   int64
	UserID    int64
	SessionID int64
	Timestamp time.Time
	EventType string
	PageURL   string
	ProductID int64
}

// Dataset is a fully loaded clickstream dataset.
type Dataset struct {
	Users    []UserRecord
	Products []ProductRecord
	Events   []EventRecord
}
