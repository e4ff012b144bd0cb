package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore reads the clickstream dataset from PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore opens a connection pool and verifies connectivity.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

// LoadDataset reads the full dataset. Events come back ordered by session
// and timestamp so graph construction work stays sequential per session.
func (s *PGStore) LoadDataset(ctx context.Context) (Dataset, error) {
	var ds Dataset
	var err error

	if ds.Users, err = s.loadUsers(ctx); err != nil {
		return ds, fmt.Errorf("load users: %w", err)
	}
	if ds.Products, err = s.loadProducts(ctx); err != nil {
		return ds, fmt.Errorf("load products: %w", err)
	}
	if ds.Events, err = s.loadEvents(ctx); err != nil {
		return ds, fmt.Errorf("load events: %w", err)
	}
	return ds, nil
}

func (s *PGStore) loadUsers(ctx context.Context) ([]UserRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, segment, ltv, churned FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserRecord
	for rows.Next() {
		var u UserRecord
		if err := rows.Scan(&u.UserID, &u.Segment, &u.LTV, &u.Churned); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PGStore) loadProducts(ctx context.Context) ([]ProductRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, name, category, price, popularity_score
		 FROM products ORDER BY product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []ProductRecord
	for rows.Next() {
		var p ProductRecord
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Price, &p.PopularityScore); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PGStore) loadEvents(ctx context.Context) ([]EventRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT event_id, user_id, session_id, timestamp, event_type, page_url, product_id
		 FROM events ORDER BY session_id, timestamp, event_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		var productID *int64
		if err := rows.Scan(&e.EventID, &e.UserID, &e.SessionID, &e.Timestamp,
			&e.EventType, &e.PageURL, &productID); err != nil {
			return nil, err
		}
		if productID != nil {
			e.ProductID = *productID
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
