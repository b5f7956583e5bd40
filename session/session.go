package session

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-los/display"
	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/grouping"
	"github.com/theoremus-urban-solutions/transit-los/los"
	"github.com/theoremus-urban-solutions/transit-los/maplayer"
	"github.com/theoremus-urban-solutions/transit-los/metrics"
)

var (
	// ErrUnknownTrip is returned for a trip id the session never ingested.
	ErrUnknownTrip = errors.New("unknown trip")
	// ErrUnknownRoute is returned for a route key with no group.
	ErrUnknownRoute = errors.New("unknown route")
)

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Table    *los.Table
	Window   los.Window
	Strategy grouping.KeyStrategy
	Style    maplayer.StyleConfig
	Surface  maplayer.Surface
	Logger   *zap.Logger
}

// CollectionSource fetches a feature collection; loader.Fetcher
// implements it.
type CollectionSource interface {
	FetchCollection(ctx context.Context, urlOrPath string) (*geojson.FeatureCollection, error)
}

// Session is one map's worth of state
type Session struct {
	ID uuid.UUID

	logger     *zap.Logger
	classifier *los.Classifier
	window     los.Window
	groups     *grouping.Grouping
	tree       *display.Tree
	layers     *maplayer.Registry
	trips      map[feature.ID]*feature.Feature
	results    map[feature.ID]los.Classification
	nextID     feature.ID
}

// Report summarizes one Ingest call.
type Report struct {
	Accepted  int
	NewRoutes int
	Rejected  []*feature.DataError
}

// New creates an empty session. A zero or invalid window falls back to
// los.DefaultWindow.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	logger = logger.With(zap.String("session", id.String()))
	window := opts.Window
	if window == (los.Window{}) {
		window = los.DefaultWindow
	} else if err := window.Validate(); err != nil {
		logger.Warn("Invalid window, using default", zap.Error(err))
		window = los.DefaultWindow
	}
	groups := grouping.New(opts.Strategy)
	return &Session{
		ID:         id,
		logger:     logger,
		classifier: los.NewClassifier(opts.Table),
		window:     window,
		groups:     groups,
		tree:       display.NewTree(groups),
		layers:     maplayer.NewRegistry(opts.Surface, opts.Style),
		trips:      map[feature.ID]*feature.Feature{},
		results:    map[feature.ID]los.Classification{},
		nextID:     1,
	}
}

// Load fetches source and ingests it. A fetch failure is returned as is
// and leaves the session untouched.
func (s *Session) Load(ctx context.Context, src CollectionSource, source string) (Report, error) {
	fc, err := src.FetchCollection(ctx, source)
	if err != nil {
		s.logger.Error("Failed to load feature collection",
			zap.String("source", source), zap.Error(err))
		return Report{}, fmt.Errorf("load %s: %w", source, err)
	}
	return s.Ingest(fc), nil
}

// Ingest adds every valid feature of fc in input order and reorders the
// map once at the end.
func (s *Session) Ingest(fc *geojson.FeatureCollection) Report {
	var report Report
	if fc == nil {
		return report
	}
	for i, gf := range fc.Features {
		f, err := feature.FromGeoJSON(gf, s.nextID, i)
		if err != nil {
			s.reject(&report, err, i)
			continue
		}
		result, err := s.classifier.Classify(f.TripStarts, s.window)
		if err != nil {
			s.reject(&report, &feature.DataError{
				Index:          i,
				RouteShortName: f.RouteShortName,
				Field:          "trip_starts",
				Err:            err,
			}, i)
			continue
		}
		s.nextID++

		if _, created := s.groups.Ingest(f); created {
			report.NewRoutes++
			metrics.RoutesCreatedTotal.Inc()
		}
		s.trips[f.ID] = f
		s.results[f.ID] = result
		s.tree.Add(f)
		s.layers.Register(f, result.Bucket, s.tree.Shown(f.ID))
		s.tree.SubscribeTrip(f.ID, s.layers)

		report.Accepted++
		metrics.FeaturesIngestedTotal.Inc()
		metrics.TripsByLevel.WithLabelValues(result.Bucket.Name).Inc()
	}
	if report.Accepted > 0 {
		s.layers.Reorder()
	}
	s.logger.Info("Ingested feature collection",
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", len(report.Rejected)),
		zap.Int("new_routes", report.NewRoutes),
		zap.Int("routes", s.groups.Len()))
	return report
}

func (s *Session) reject(report *Report, err error, index int) {
	var de *feature.DataError
	if !errors.As(err, &de) {
		de = &feature.DataError{Index: index, Err: err}
	}
	report.Rejected = append(report.Rejected, de)
	metrics.FeaturesRejectedTotal.WithLabelValues(de.Field).Inc()
	s.logger.Warn("Rejected malformed feature",
		zap.Int("index", de.Index),
		zap.Any("feature_id", de.FeatureID),
		zap.String("route", de.RouteShortName),
		zap.String("field", de.Field),
		zap.Error(de.Err))
}

// Window returns the active classification window.
func (s *Session) Window() los.Window { return s.window }

// Table returns the LOS table in use.
func (s *Session) Table() *los.Table { return s.classifier.Table() }

// SetWindow reclassifies every trip against w. Layers whose bucket
// changed are restyled and the map is reordered.
func (s *Session) SetWindow(w los.Window) error {
	if err := w.Validate(); err != nil {
		return err
	}
	results := make(map[feature.ID]los.Classification, len(s.results))
	for id, f := range s.trips {
		result, err := s.classifier.Classify(f.TripStarts, w)
		if err != nil {
			return fmt.Errorf("reclassify trip %d: %w", id, err)
		}
		results[id] = result
	}

	changed := 0
	for _, id := range s.layers.DrawOrder() {
		if s.layers.SetBucket(id, results[id].Bucket) {
			changed++
		}
	}
	s.window = w
	s.results = results
	s.layers.Reorder()

	metrics.ReclassificationsTotal.Inc()
	s.logger.Info("Reclassified trips",
		zap.Int("window_start", w.Start),
		zap.Int("window_end", w.End),
		zap.Int("trips", len(results)),
		zap.Int("changed", changed))
	return nil
}

// SetTripShown sets one trip's flag.
func (s *Session) SetTripShown(id feature.ID, shown bool) error {
	if _, ok := s.trips[id]; !ok {
		return fmt.Errorf("trip %d: %w", id, ErrUnknownTrip)
	}
	s.tree.SetTripShown(id, shown)
	metrics.TogglesTotal.WithLabelValues(toggleOp("trip", shown)).Inc()
	return nil
}

// SetGroupShown sets every trip of a route.
func (s *Session) SetGroupShown(key grouping.Key, shown bool) error {
	if _, ok := s.groups.Lookup(key); !ok {
		return fmt.Errorf("route %q: %w", key, ErrUnknownRoute)
	}
	s.tree.SetGroupShown(key, shown)
	metrics.TogglesTotal.WithLabelValues(toggleOp("route", shown)).Inc()
	return nil
}

// ShowOnly hides all other routes and shows every trip of key.
func (s *Session) ShowOnly(key grouping.Key) error {
	if _, ok := s.groups.Lookup(key); !ok {
		return fmt.Errorf("route %q: %w", key, ErrUnknownRoute)
	}
	s.tree.ShowOnly(key)
	metrics.TogglesTotal.WithLabelValues("show_only").Inc()
	return nil
}

// ShowAll shows every trip.
func (s *Session) ShowAll() {
	s.tree.ShowAll()
	metrics.TogglesTotal.WithLabelValues("show_all").Inc()
}

// HideAll hides every trip.
func (s *Session) HideAll() {
	s.tree.HideAll()
	metrics.TogglesTotal.WithLabelValues("hide_all").Inc()
}

func toggleOp(target string, shown bool) string {
	if shown {
		return "show_" + target
	}
	return "hide_" + target
}

// SubscribeRoute registers obs for tri-state changes of a route.
func (s *Session) SubscribeRoute(key grouping.Key, obs display.GroupObserver) (func(), error) {
	if _, ok := s.groups.Lookup(key); !ok {
		return nil, fmt.Errorf("route %q: %w", key, ErrUnknownRoute)
	}
	return s.tree.SubscribeGroup(key, obs), nil
}

// Bounds is the union of trip extents, only shown trips when onlyShown.
// The bool is false when nothing qualifies.
func (s *Session) Bounds(onlyShown bool) (orb.Bound, bool) {
	return s.layers.ComputeBounds(onlyShown)
}

// Classification returns the trip's current result.
func (s *Session) Classification(id feature.ID) (los.Classification, error) {
	result, ok := s.results[id]
	if !ok {
		return los.Classification{}, fmt.Errorf("trip %d: %w", id, ErrUnknownTrip)
	}
	return result, nil
}

// Len returns the number of ingested trips.
func (s *Session) Len() int { return len(s.trips) }

// ShownCount returns the number of shown trips.
func (s *Session) ShownCount() int { return s.tree.ShownCount() }

// RouteCount returns the number of route groups.
func (s *Session) RouteCount() int { return s.groups.Len() }

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
