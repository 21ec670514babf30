package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ajitpratap0/kotoba/internal/metrics"
)

// DefaultDebounce is how long Watch waits for further changes before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Holder publishes the current corpus snapshot. Readers get a snapshot that
// stays valid for as long as they hold it; reloads swap in a new one.
type Holder struct {
	p atomic.Pointer[Corpus]
}

// NewHolder returns a holder publishing c.
func NewHolder(c *Corpus) *Holder {
	h := &Holder{}
	h.p.Store(c)
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Corpus { return h.p.Load() }

// Store publishes a new snapshot.
func (h *Holder) Store(c *Corpus) { h.p.Store(c) }

// Watch reloads the corpus in dir whenever one of its JSON files changes and
// calls onReload with each successfully loaded snapshot. A failed reload is
// logged and the previous snapshot stays in service. Watch blocks until ctx
// is done.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, onReload func(*Corpus)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("corpus watch: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("corpus watch: adding %s: %w", dir, err)
	}
	logger.Info("corpus watcher started", "dir", dir, "debounce", debounce)

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".json" || !relevant(event.Op) {
				continue
			}
			logger.Debug("corpus file changed", "file", filepath.Base(event.Name), "op", event.Op.String())
			pending = true
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("corpus watcher error", "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			c, err := Load(dir)
			if err != nil {
				metrics.Inc(metrics.CorpusReloads, "error")
				logger.Error("corpus reload failed; keeping previous snapshot", "dir", dir, "error", err)
				continue
			}
			logger.Info("corpus reloaded", "dir", dir, "themes", len(c.themes), "vocabulary", len(c.vocabulary))
			metrics.Inc(metrics.CorpusReloads, "ok")
			onReload(c)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
