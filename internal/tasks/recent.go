package tasks

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
)

// Recent is the read-only play-history feed. It keeps only the latest fetched sequence.
type Recent struct {
	catalog services.Catalog
	logger  *log.Logger

	mu    sync.RWMutex
	items []models.PlayHistoryEntry
}

func NewRecent(catalog services.Catalog, logger *log.Logger) *Recent {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recent{catalog: catalog, logger: shared.WithLogger(logger, "component", "recent")}
}

// Refresh refetches the feed. On failure the previous items are kept, the error is logged and
// returned for callers that want to show it.
func (r *Recent) Refresh(ctx context.Context) ([]models.PlayHistoryEntry, error) {
	items, err := r.catalog.RecentlyPlayed(ctx)
	if err != nil {
		r.logger.Warn("failed to refresh recently played", "error", err)
		return r.Items(), err
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return slices.Clone(items), nil
}

// Items returns the last fetched sequence.
func (r *Recent) Items() []models.PlayHistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

// Clear forgets the fetched sequence.
func (r *Recent) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}
