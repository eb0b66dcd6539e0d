// Package exporter orchestrates a run: fetch listings per origin, format
// each item into a document, write it to the vault, and record it in the
// export ledger.
package exporter

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/config"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/format"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/media"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/reddit"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/store"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// commentContextDepth bounds how many ancestors are fetched for a saved
// comment's context chain.
const commentContextDepth = 4

// Exporter handles the export logic
type Exporter struct {
	Config    *config.Config
	API       *reddit.Client
	DB        *store.DB
	Assembler *format.Assembler
	DryRun    bool
}

// New creates a new Exporter instance
func New(cfg *config.Config, apiClient *reddit.Client, db *store.DB, dryRun bool) *Exporter {
	opts := format.Options{
		DownloadImages:            cfg.Export.DownloadImages,
		DownloadGifs:              cfg.Export.DownloadGifs,
		DownloadVideos:            cfg.Export.DownloadVideos,
		MediaFolder:               cfg.Export.MediaFolder,
		PreserveCrosspostMetadata: cfg.Export.PreserveCrosspostMetadata,
		ImportCrosspostOriginal:   cfg.Export.ImportCrosspostOriginal,
	}

	var fetcher format.MediaFetcher
	if !dryRun {
		mediaDir := cfg.Export.MediaFolder
		if !filepath.IsAbs(mediaDir) {
			mediaDir = filepath.Join(cfg.Export.VaultDirectory, mediaDir)
		}
		fetcher = media.NewDownloader(mediaDir)
	}

	assembler := format.NewAssembler(opts, fetcher)
	assembler.Progress = func(current, total int) {
		log.Debugf("Gallery download progress: %d/%d", current, total)
	}

	return &Exporter{
		Config:    cfg,
		API:       apiClient,
		DB:        db,
		Assembler: assembler,
		DryRun:    dryRun,
	}
}

// Run executes one export pass over all configured origins.
func (e *Exporter) Run() error {
	log.Info("Starting export run")

	for _, origin := range e.Config.ContentOrigins() {
		log.Infof("Exporting origin: %s", origin)
		if err := e.exportOrigin(origin); err != nil {
			log.Errorf("Failed to export origin %s: %v", origin, err)
			continue
		}
	}

	return nil
}

// exportOrigin pages through one origin's listing until the limit or the
// end of the listing is reached.
func (e *Exporter) exportOrigin(origin models.ContentOrigin) error {
	exported := 0
	skipped := 0
	errors := 0
	processed := 0
	after := ""

	for {
		remaining := e.Config.Export.MaxItemsPerRun - processed
		if remaining <= 0 {
			log.Infof("Reached maximum items limit (%d)", e.Config.Export.MaxItemsPerRun)
			break
		}

		items, next, err := e.API.GetItems(origin, reddit.ListingParams{
			After: after,
			Limit: remaining,
		})
		if err != nil {
			return err
		}

		for _, item := range items {
			processed++
			switch e.exportItem(item, origin) {
			case resultExported:
				exported++
			case resultSkipped:
				skipped++
			case resultError:
				errors++
			}
		}

		if next == "" || len(items) == 0 {
			break
		}
		after = next
	}

	log.Infof("Export complete for %s: %d exported, %d skipped, %d errors (total %d items processed)",
		origin, exported, skipped, errors, processed)
	return nil
}

type exportResult int

const (
	resultExported exportResult = iota
	resultSkipped
	resultError
)

// exportItem formats and writes a single item. A failure is scoped to that
// item only.
func (e *Exporter) exportItem(item *models.Item, origin models.ContentOrigin) exportResult {
	exists, err := e.DB.ItemExported(item.ID)
	if err != nil {
		log.Errorf("Failed to check if item %s was exported: %v", item.ID, err)
		return resultError
	}
	if exists && !e.Config.Export.OverwriteExisting {
		log.Debugf("Skipping previously exported item %s", item.ID)
		return resultSkipped
	}

	if item.IsComment() {
		if err := e.API.GetCommentContext(item, commentContextDepth); err != nil {
			log.Warnf("Exporting comment %s without context: %v", item.ID, err)
		}
	}

	doc, err := e.Assembler.Assemble(item, origin)
	if err != nil {
		log.Errorf("Failed to assemble document for item %s: %v", item.ID, err)
		return resultError
	}

	if e.DryRun {
		log.Infof("Dry run: would write %s (%d bytes)", doc.FileName, len(doc.Content))
		return resultExported
	}

	if err := e.writeDocument(doc); err != nil {
		log.Errorf("Failed to write document for item %s: %v", item.ID, err)
		return resultError
	}

	if err := e.DB.RecordExport(doc.Summary, origin, doc.FileName); err != nil {
		log.Errorf("Failed to record export of item %s: %v", item.ID, err)
	}

	log.Infof("Exported %s: %s", item.Kind, doc.FileName)
	return resultExported
}

// writeDocument materializes the document in the vault directory.
func (e *Exporter) writeDocument(doc format.Document) error {
	if err := os.MkdirAll(e.Config.Export.VaultDirectory, 0755); err != nil {
		return err
	}
	path := filepath.Join(e.Config.Export.VaultDirectory, doc.FileName)
	return os.WriteFile(path, []byte(doc.Content), 0644)
}
