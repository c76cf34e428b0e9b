package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/logger"
	"github.com/homescreen/homescreen/internal/sources/bookmarks"
)

// ImportStats summarises one import run.
type ImportStats struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer upserts the websites of a bookmarks file into the store: once on
// Start, then every interval (when > 0) and on each manual trigger. It never
// deletes websites that disappeared from the file.
type Importer struct {
	loader        *bookmarks.Loader
	store         domain.WebsiteStore
	logger        logger.Logger
	interval      time.Duration
	manualTrigger chan struct{}
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once
	started       atomic.Bool
}

// NewImporter creates an importer for bookmarkFile. manualTrigger may be nil.
func NewImporter(
	bookmarkFile string,
	store domain.WebsiteStore,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Importer {
	return &Importer{
		loader:        bookmarks.NewLoader(bookmarkFile),
		store:         store,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs the initial import, then serves periodic and manual imports
// in the background until Stop is called or ctx is cancelled.
func (im *Importer) Start(ctx context.Context) error {
	im.started.Store(true)
	if _, err := im.Import(ctx); err != nil {
		close(im.done)
		return fmt.Errorf("initial bookmark import failed: %w", err)
	}

	go func() {
		defer close(im.done)

		// A nil channel never fires, so interval 0 disables the ticker.
		var tick <-chan time.Time
		if im.interval > 0 {
			ticker := time.NewTicker(im.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				im.run(ctx, "periodic")
			case <-im.manualTrigger:
				im.run(ctx, "manual")
			case <-im.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the background loop and waits for a running import to finish.
func (im *Importer) Stop() {
	if !im.started.Load() {
		return
	}
	im.stopOnce.Do(func() { close(im.stopCh) })
	<-im.done
}

func (im *Importer) run(ctx context.Context, trigger string) {
	im.logger.Info("bookmark import triggered", logger.String("trigger", trigger))
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("failed to import bookmarks", logger.Error(err))
	}
}

// Import loads the bookmarks file and upserts every valid website. Upsert
// failures are counted and the run continues with the next website.
func (im *Importer) Import(ctx context.Context) (ImportStats, error) {
	var stats ImportStats
	im.logger.Info("importing bookmarks", logger.String("file", im.loader.Path()))

	cfg, err := im.loader.Load()
	if err != nil {
		return stats, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	res, err := bookmarks.Map(cfg)
	stats.Skipped = len(res.Skipped)
	for _, s := range res.Skipped {
		im.logger.Warn("skipped bookmark", logger.Stringer("entry", s))
	}
	if err != nil {
		return stats, fmt.Errorf("failed to map bookmarks: %w", err)
	}

	var firstErr error
	for _, website := range res.Websites {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := im.store.Upsert(ctx, website); err != nil {
			stats.Failed++
			if firstErr == nil {
				firstErr = err
			}
			im.logger.Error("failed to import website",
				logger.String("name", website.Name),
				logger.Error(err))
			continue
		}
		stats.Imported++
	}

	im.logger.Info("bookmarks imported",
		logger.Int("imported", stats.Imported),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed))

	if firstErr != nil {
		return stats, fmt.Errorf("%d of %d websites failed to import: %w", stats.Failed, len(res.Websites), firstErr)
	}
	return stats, nil
}
