package transitlos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-los/config"
	"github.com/theoremus-urban-solutions/transit-los/gtfs"
	"github.com/theoremus-urban-solutions/transit-los/loader"
)

// LoadFeed returns the feature collection of feed. GTFS feeds are
// converted for weekday.
func LoadFeed(ctx context.Context, fetcher *loader.Fetcher, feed config.Feed, weekday time.Weekday) (*geojson.FeatureCollection, error) {
	if feed.GeoJSON != "" {
		return fetcher.FetchCollection(ctx, feed.GeoJSON)
	}
	var (
		index *gtfs.Index
		err   error
	)
	if loader.IsURL(feed.GTFS) {
		var data []byte
		data, err = fetcher.Fetch(ctx, feed.GTFS)
		if err != nil {
			return nil, err
		}
		index, err = gtfs.NewIndexFromBytes(data)
	} else {
		index, err = gtfs.NewIndexFromFile(feed.GTFS)
	}
	if err != nil {
		return nil, fmt.Errorf("gtfs %s: %w", feed.GTFS, err)
	}
	return index.Features(gtfs.Options{Weekday: weekday}), nil
}

// FeedCache loads each feed once and shares the collection. Sessions
// only read the collection, so one copy serves all of them.
type FeedCache struct {
	fetcher *loader.Fetcher
	weekday time.Weekday
	logger  *zap.Logger

	mu    sync.Mutex
	feeds map[string]*geojson.FeatureCollection
}

// NewFeedCache creates an empty cache.
func NewFeedCache(fetcher *loader.Fetcher, weekday time.Weekday, logger *zap.Logger) *FeedCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedCache{
		fetcher: fetcher,
		weekday: weekday,
		logger:  logger,
		feeds:   map[string]*geojson.FeatureCollection{},
	}
}

// Get returns the feed's collection, loading it on first use. Failed
// loads are not cached.
func (c *FeedCache) Get(ctx context.Context, feed config.Feed) (*geojson.FeatureCollection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fc, ok := c.feeds[feed.Name]; ok {
		return fc, nil
	}
	start := time.Now()
	fc, err := LoadFeed(ctx, c.fetcher, feed, c.weekday)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", feed.Name, err)
	}
	c.feeds[feed.Name] = fc
	c.logger.Info("Loaded feed",
		zap.String("feed", feed.Name),
		zap.Int("features", len(fc.Features)),
		zap.Duration("took", time.Since(start)))
	return fc, nil
}

// Len returns the number of cached feeds.
func (c *FeedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.feeds)
}
