package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Dataset file names within a data directory or S3 prefix.
const (
	UsersFile    = "users.csv"
	ProductsFile = "products.csv"
	EventsFile   = "events.csv"
)

// LoadCSVDir reads the three dataset files from a directory.
func LoadCSVDir(dir string) (Dataset, error) {
	var ds Dataset

	if err := loadCSVFile(filepath.Join(dir, UsersFile), func(r io.Reader) error {
		users, err := ParseUsers(r)
		ds.Users = users
		return err
	}); err != nil {
		return ds, err
	}
	if err := loadCSVFile(filepath.Join(dir, ProductsFile), func(r io.Reader) error {
		products, err := ParseProducts(r)
		ds.Products = products
		return err
	}); err != nil {
		return ds, err
	}
	if err := loadCSVFile(filepath.Join(dir, EventsFile), func(r io.Reader) error {
		events, err := ParseEvents(r)
		ds.Events = events
		return err
	}); err != nil {
		return ds, err
	}
	return ds, nil
}

func loadCSVFile(path string, parse func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := parse(f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// header maps column names to indexes so column order in exported files
// does not matter.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	return h, nil
}

func (h header) field(row []string, name string) (string, error) {
	idx, ok := h[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if idx >= len(row) {
		return "", fmt.Errorf("short row: no value for %q", name)
	}
	return strings.TrimSpace(row[idx]), nil
}

// ParseUsers reads the users table from CSV.
func ParseUsers(r io.Reader) ([]UserRecord, error) {
	cr := csv.NewReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var users []UserRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var u UserRecord
		if u.UserID, err = int64Field(h, row, "user_id"); err != nil {
			return nil, err
		}
		if u.Segment, err = h.field(row, "segment"); err != nil {
			return nil, err
		}
		if u.LTV, err = floatField(h, row, "ltv"); err != nil {
			return nil, err
		}
		if u.Churned, err = boolField(h, row, "churned"); err != nil {
			return nil, err
		}
		u.RegistrationDate, _ = h.field(row, "registration_date")
		users = append(users, u)
	}
	return users, nil
}

// ParseProducts reads the product catalog from CSV.
func ParseProducts(r io.Reader) ([]ProductRecord, error) {
	cr := csv.NewReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var products []ProductRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var p ProductRecord
		if p.ProductID, err = int64Field(h, row, "product_id"); err != nil {
			return nil, err
		}
		if p.Name, err = h.field(row, "name"); err != nil {
			return nil, err
		}
		if p.Category, err = h.field(row, "category"); err != nil {
			return nil, err
		}
		if p.Price, err = floatField(h, row, "price"); err != nil {
			return nil, err
		}
		if p.PopularityScore, err = floatField(h, row, "popularity_score"); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// ParseEvents reads the clickstream from CSV. product_id may be empty or a
// float-formatted number, both common in exported datasets.
func ParseEvents(r io.Reader) ([]EventRecord, error) {
	cr := csv.NewReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	var events []EventRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var e EventRecord
		if e.EventID, err = int64Field(h, row, "event_id"); err != nil {
			return nil, err
		}
		if e.UserID, err = int64Field(h, row, "user_id"); err != nil {
			return nil, err
		}
		if e.SessionID, err = int64Field(h, row, "session_id"); err != nil {
			return nil, err
		}
		tsRaw, err := h.field(row, "timestamp")
		if err != nil {
			return nil, err
		}
		if e.Timestamp, err = parseTimestamp(tsRaw); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.EventID, err)
		}
		if e.EventType, err = h.field(row, "event_type"); err != nil {
			return nil, err
		}
		e.PageURL, _ = h.field(row, "page_url")
		if raw, err := h.field(row, "product_id"); err == nil && raw != "" {
			id, err := parseLooseInt(raw)
			if err != nil {
				return nil, fmt.Errorf("event %d: product_id %q: %w", e.EventID, raw, err)
			}
			e.ProductID = id
		}
		events = append(events, e)
	}
	return events, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseLooseInt accepts both "12" and "12.0".
func parseLooseInt(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func int64Field(h header, row []string, name string) (int64, error) {
	raw, err := h.field(row, name)
	if err != nil {
		return 0, err
	}
	n, err := parseLooseInt(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, raw, err)
	}
	return n, nil
}

func floatField(h header, row []string, name string) (float64, error) {
	raw, err := h.field(row, name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, raw, err)
	}
	return f, nil
}

func boolField(h header, row []string, name string) (bool, error) {
	raw, err := h.field(row, name)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(raw) {
	case "true", "1", "t", "yes":
		return true, nil
	case "false", "0", "f", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("%s: unrecognized bool %q", name, raw)
}
