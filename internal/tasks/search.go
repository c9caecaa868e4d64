package tasks

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/soundx/internal/models"
	"github.com/desertthunder/soundx/internal/services"
	"github.com/desertthunder/soundx/internal/shared"
	lru "github.com/hashicorp/golang-lru/v2"
)

// SearchCacheSize bounds the number of remembered tracks.
const SearchCacheSize = 50

// SearchCache holds the tracks a user marked while browsing results, most recent first and
// unique by id. Adding a known id moves it to the front; the oldest entry is evicted past
// [SearchCacheSize].
type SearchCache struct {
	mu    sync.Mutex
	items *lru.Cache[string, models.Track]
}

// NewSearchCache returns an empty cache.
func NewSearchCache() *SearchCache {
	items, err := lru.New[string, models.Track](SearchCacheSize)
	if err != nil {
		panic(fmt.Sprintf("search cache: %v", err))
	}
	return &SearchCache{items: items}
}

// Remember inserts track at the front.
func (c *SearchCache) Remember(track models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Add(track.ID, track)
}

// MostRecent returns the front track, used as the source for "add last searched track".
func (c *SearchCache) MostRecent() (models.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.items.Keys()
	if len(keys) == 0 {
		return models.Track{}, false
	}
	return c.items.Peek(keys[len(keys)-1])
}

// Len returns the number of remembered tracks.
func (c *SearchCache) Len() int {
	return c.items.Len()
}

// Tracks returns the remembered tracks, most recent first.
func (c *SearchCache) Tracks() []models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := c.items.Keys()
	slices.Reverse(keys)

	tracks := make([]models.Track, 0, len(keys))
	for _, k := range keys {
		if t, ok := c.items.Peek(k); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// Searcher runs catalog searches. Results are returned for display and never cached; callers pin
// a track with [SearchCache.Remember].
type Searcher struct {
	catalog services.Catalog
	state   *State
}

func NewSearcher(catalog services.Catalog, state *State) *Searcher {
	return &Searcher{catalog: catalog, state: state}
}

// Search sends the normalised query. An empty query never reaches the network.
func (s *Searcher) Search(ctx context.Context, query string) ([]models.Track, error) {
	q := shared.NormalizeQuery(query)
	if q == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrValidation)
	}
	return s.catalog.Search(ctx, q)
}

// Remember pins track in the current session's cache.
func (s *Searcher) Remember(track models.Track) {
	s.state.Search().Remember(track)
}

// MostRecent returns the last pinned track of the current session.
func (s *Searcher) MostRecent() (models.Track, bool) {
	return s.state.Search().MostRecent()
}
