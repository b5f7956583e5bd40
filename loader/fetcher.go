package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/theoremus-urban-solutions/transit-los/feature"
)

// Fetcher loads raw bytes from a URL or a path
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher; timeout 0 means no client timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{httpClient: &http.Client{Timeout: timeout}}
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the content at urlOrPath.
func (f *Fetcher) Fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, fmt.Errorf("empty source")
	}
	if !IsURL(urlOrPath) {
		return os.ReadFile(urlOrPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", urlOrPath, err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}

	return io.ReadAll(resp.Body)
}

// FetchCollection fetches and parses a GeoJSON FeatureCollection.
func (f *Fetcher) FetchCollection(ctx context.Context, urlOrPath string) (*geojson.FeatureCollection, error) {
	data, err := f.Fetch(ctx, urlOrPath)
	if err != nil {
		return nil, err
	}
	return feature.ParseCollection(data)
}
