package transitlos

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/transit-los/config"
	"github.com/theoremus-urban-solutions/transit-los/loader"
)

func writeGTFS(t *testing.T, path string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	files := map[string]string{
		"routes.txt":     "route_id,route_short_name,route_type\nR1,1,3\n",
		"trips.txt":      "route_id,service_id,trip_id,direction_id\nR1,WK,a,0\nR1,WK,b,0\n",
		"stops.txt":      "stop_id,stop_lat,stop_lon\nS,1,2\nT,3,4\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\na,07:30:00,07:30:00,S,1\na,07:40:00,07:40:00,T,2\nb,08:30:00,08:30:00,S,1\n",
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = w.Write([]byte(content))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	_ = out.Close()
}

func TestLoadFeed_GTFS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.zip")
	writeGTFS(t, path)

	fc, err := LoadFeed(context.Background(), loader.NewFetcher(0), config.Feed{Name: "g", GTFS: path}, time.Monday)
	if err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("features = %d, want one pattern", len(fc.Features))
	}
	if starts, _ := fc.Features[0].Properties["trip_starts"].([]int); len(starts) != 2 || starts[0] != 27000 {
		t.Errorf("trip_starts = %v", fc.Features[0].Properties["trip_starts"])
	}

	if _, err := LoadFeed(context.Background(), loader.NewFetcher(0), config.Feed{Name: "x", GTFS: path + ".missing"}, time.Monday); err == nil {
		t.Error("missing zip should fail")
	}
}

func TestFeedCache_LoadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	if err := os.WriteFile(path, []byte(routesGeoJSON), 0644); err != nil {
		t.Fatal(err)
	}
	cache := NewFeedCache(loader.NewFetcher(0), time.Monday, nil)
	feed := config.Feed{Name: "demo", GeoJSON: path}

	first, err := cache.Get(context.Background(), feed)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := cache.Get(context.Background(), feed)
	if err != nil {
		t.Fatalf("cached Get: %v", err)
	}
	if first != second || cache.Len() != 1 {
		t.Error("second Get should return the cached collection")
	}

	if _, err := cache.Get(context.Background(), config.Feed{Name: "gone", GeoJSON: path}); err == nil {
		t.Error("uncached missing feed should fail")
	}
	if cache.Len() != 1 {
		t.Error("failed loads must not be cached")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"production default", config.LoggingConfig{}, false},
		{"development debug", config.LoggingConfig{Development: true, Level: "debug"}, false},
		{"production warn", config.LoggingConfig{Level: "warn"}, false},
		{"unknown level", config.LoggingConfig{Level: "loud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}
