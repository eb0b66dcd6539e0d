// Package export writes bulk snapshots of exported-item summaries.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// BuildPackage wraps summaries into a timestamped snapshot.
func BuildPackage(items []models.ExportedItem) models.ExportPackage {
	return models.ExportPackage{
		GeneratedAt: time.Now().UTC(),
		Count:       len(items),
		Items:       items,
	}
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(path string, pkg models.ExportPackage) error {
	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export package: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export package: %w", err)
	}
	return nil
}

// WriteCSV writes the snapshot's items as a CSV table with a header row.
func WriteCSV(path string, pkg models.ExportPackage) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"id", "title", "subreddit", "author", "score", "created", "permalink", "type"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range pkg.Items {
		record := []string{
			item.ID,
			item.Title,
			item.Subreddit,
			item.Author,
			strconv.Itoa(item.Score),
			item.Created.Format(time.RFC3339),
			item.Permalink,
			item.Type,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
