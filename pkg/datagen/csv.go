package datagen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dd0wney/journeygraph/pkg/ingest"
)

// WriteCSVDir writes the dataset as the three CSV files the ingest loader
// reads back.
func WriteCSVDir(dir string, ds ingest.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	if err := writeCSV(filepath.Join(dir, ingest.UsersFile),
		[]string{"user_id", "registration_date", "segment", "ltv", "churned"},
		len(ds.Users), func(i int) []string {
			u := ds.Users[i]
			return []string{
				strconv.FormatInt(u.UserID, 10),
				u.RegistrationDate,
				u.Segment,
				formatFloat(u.LTV),
				strconv.FormatBool(u.Churned),
			}
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, ingest.ProductsFile),
		[]string{"product_id", "name", "category", "price", "popularity_score"},
		len(ds.Products), func(i int) []string {
			p := ds.Products[i]
			return []string{
				strconv.FormatInt(p.ProductID, 10),
				p.Name,
				p.Category,
				formatFloat(p.Price),
				formatFloat(p.PopularityScore),
			}
		}); err != nil {
		return err
	}

	return writeCSV(filepath.Join(dir, ingest.EventsFile),
		[]string{"event_id", "user_id", "session_id", "timestamp", "event_type", "page_url", "product_id"},
		len(ds.Events), func(i int) []string {
			e := ds.Events[i]
			productID := ""
			if e.ProductID != 0 {
				productID = strconv.FormatInt(e.ProductID, 10)
			}
			return []string{
				strconv.FormatInt(e.EventID, 10),
				strconv.FormatInt(e.UserID, 10),
				strconv.FormatInt(e.SessionID, 10),
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.EventType,
				e.PageURL,
				productID,
			}
		})
}

func writeCSV(path string, headerRow []string, n int, row func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headerRow); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
