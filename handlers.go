package transitlos

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/grouping"
	"github.com/theoremus-urban-solutions/transit-los/los"
	"github.com/theoremus-urban-solutions/transit-los/session"
	"github.com/theoremus-urban-solutions/transit-los/utils"
)

const maxBodyBytes = 64 << 20

var errUnknownFeed = errors.New("unknown feed")

type windowRequest struct {
	Start      *int   `json:"start"`
	End        *int   `json:"end"`
	StartClock string `json:"startClock"`
	EndClock   string `json:"endClock"`
}

// apply overlays the request on w. Clock strings win over seconds.
func (req windowRequest) apply(w los.Window) (los.Window, error) {
	if req.Start != nil {
		w.Start = *req.Start
	}
	if req.End != nil {
		w.End = *req.End
	}
	if req.StartClock != "" {
		t, err := utils.ParseClock(req.StartClock)
		if err != nil {
			return w, &RequestError{Msg: "startClock: " + err.Error()}
		}
		w.Start = t
	}
	if req.EndClock != "" {
		t, err := utils.ParseClock(req.EndClock)
		if err != nil {
			return w, &RequestError{Msg: "endClock: " + err.Error()}
		}
		w.End = t
	}
	return w, nil
}

type windowResponse struct {
	Start      int    `json:"start"`
	End        int    `json:"end"`
	StartClock string `json:"startClock"`
	EndClock   string `json:"endClock"`
}

func newWindowResponse(w los.Window) windowResponse {
	return windowResponse{
		Start:      w.Start,
		End:        w.End,
		StartClock: utils.SecondsToClock(w.Start),
		EndClock:   utils.SecondsToClock(w.End),
	}
}

type createSessionRequest struct {
	Type   string         `json:"type"`
	Feed   string         `json:"feed"`
	Window *windowRequest `json:"window"`
}

type sessionResponse struct {
	ID       uuid.UUID      `json:"id"`
	Feed     string         `json:"feed,omitempty"`
	Trips    int            `json:"trips"`
	Shown    int            `json:"shown"`
	Routes   int            `json:"routes"`
	Window   windowResponse `json:"window"`
	Accepted int            `json:"accepted,omitempty"`
	Rejected []string       `json:"rejected,omitempty"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:     sess.ID,
		Trips:  sess.Len(),
		Shown:  sess.ShownCount(),
		Routes: sess.RouteCount(),
		Window: newWindowResponse(sess.Window()),
	}
}

// handleCreateSession accepts {"feed": name, "window": {...}} or a raw
// GeoJSON FeatureCollection.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, &RequestError{Msg: "read body: " + err.Error()})
		return
	}
	var req createSessionRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, &RequestError{Msg: "invalid JSON body: " + err.Error()})
			return
		}
	}

	sess := s.NewSession()
	if req.Window != nil {
		win, err := req.Window.apply(sess.Window())
		if err == nil {
			err = sess.SetWindow(win)
		}
		if err != nil {
			writeError(w, err)
			return
		}
	}

	var feedName string
	switch {
	case req.Type == "FeatureCollection":
		fc, err := feature.ParseCollection(body)
		if err != nil {
			writeError(w, &RequestError{Msg: err.Error()})
			return
		}
		report := sess.Ingest(fc)
		s.store.Add(sess)
		writeJSON(w, http.StatusCreated, withReport(newSessionResponse(sess), "", report))
		return
	case req.Feed != "":
		feedName = req.Feed
	case len(s.cfg.Feeds) > 0:
		feedName = s.cfg.Feeds[0].Name
	default:
		writeError(w, &RequestError{Msg: "body must name a feed or be a FeatureCollection"})
		return
	}

	feed, ok := s.cfg.FindFeed(feedName)
	if !ok {
		writeError(w, fmt.Errorf("feed %q: %w", feedName, errUnknownFeed))
		return
	}
	fc, err := s.feeds.Get(r.Context(), feed)
	if err != nil {
		s.logger.Error("Failed to load feed", zap.String("feed", feed.Name), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}
	report := sess.Ingest(fc)
	s.store.Add(sess)
	writeJSON(w, http.StatusCreated, withReport(newSessionResponse(sess), feed.Name, report))
}

func withReport(resp sessionResponse, feed string, report session.Report) sessionResponse {
	resp.Feed = feed
	resp.Accepted = report.Accepted
	for _, de := range report.Rejected {
		resp.Rejected = append(resp.Rejected, de.Error())
	}
	return resp
}

// withSession resolves {id} and runs h holding the session's lock.
func (s *Server) withSession(h func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, &RequestError{Msg: "invalid session id"})
			return
		}
		if !s.store.With(id, func(sess *session.Session) { h(w, r, sess) }) {
			writeError(w, fmt.Errorf("session %s: %w", id, errUnknownSession))
		}
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, &RequestError{Msg: "invalid session id"})
		return
	}
	if !s.store.Delete(id) {
		writeError(w, fmt.Errorf("session %s: %w", id, errUnknownSession))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Routes())
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Legend())
}

func (s *Server) handleDefaultLegend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, session.BuildLegend(s.table, nil))
}

func (s *Server) handleFeeds(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.cfg.Feeds))
	for _, f := range s.cfg.Feeds {
		names = append(names, f.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, newWindowResponse(sess.Window()))
}

func (s *Server) handleSetWindow(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req windowRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, &RequestError{Msg: "invalid JSON body: " + err.Error()})
		return
	}
	win, err := req.apply(sess.Window())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := sess.SetWindow(win); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newWindowResponse(sess.Window()))
}

func routeParam(r *http.Request) (grouping.Key, error) {
	raw := chi.URLParam(r, "route")
	key, err := url.PathUnescape(raw)
	if err != nil {
		return "", &RequestError{Msg: "invalid route key"}
	}
	return grouping.Key(key), nil
}

func tripParam(r *http.Request) (feature.ID, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "trip"))
	if err != nil {
		return 0, &RequestError{Msg: "invalid trip id"}
	}
	return feature.ID(id), nil
}

func (s *Server) handleRouteAction(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	key, err := routeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	switch action := chi.URLParam(r, "action"); action {
	case "show":
		err = sess.SetGroupShown(key, true)
	case "hide":
		err = sess.SetGroupShown(key, false)
	case "only":
		err = sess.ShowOnly(key)
	default:
		err = &RequestError{Msg: "unknown route action " + strconv.Quote(action)}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := sess.Route(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTripAction(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := tripParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	switch action := chi.URLParam(r, "action"); action {
	case "show":
		err = sess.SetTripShown(id, true)
	case "hide":
		err = sess.SetTripShown(id, false)
	default:
		err = &RequestError{Msg: "unknown trip action " + strconv.Quote(action)}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := sess.Trip(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type departuresResponse struct {
	Trip       feature.ID     `json:"trip"`
	Window     windowResponse `json:"window"`
	Departures []string       `json:"departures"`
}

func (s *Server) handleDepartures(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id, err := tripParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	deps, err := sess.Departures(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, departuresResponse{
		Trip:       id,
		Window:     newWindowResponse(sess.Window()),
		Departures: deps,
	})
}

func (s *Server) handleShowAll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.ShowAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHideAll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	sess.HideAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Layers())
}

type boundsResponse struct {
	// BBox is [minLon, minLat, maxLon, maxLat].
	BBox [4]float64 `json:"bbox"`
}

// handleBounds replies 204 when no trip qualifies.
func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	onlyShown := false
	if v := r.URL.Query().Get("shown"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, &RequestError{Msg: "shown must be a boolean"})
			return
		}
		onlyShown = b
	}
	bound, ok := sess.Bounds(onlyShown)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, boundsResponse{
		BBox: [4]float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]},
	})
}
