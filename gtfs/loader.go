package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/theoremus-urban-solutions/transit-los/utils"
)

var consumed = map[string]bool{
	"agency.txt":     true,
	"routes.txt":     true,
	"trips.txt":      true,
	"stops.txt":      true,
	"stop_times.txt": true,
	"shapes.txt":     true,
	"calendar.txt":   true,
}

// NewIndexFromFile opens a local GTFS zip.
func NewIndexFromFile(path string) (*Index, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()
	return newIndexFromZip(&zr.Reader)
}

// NewIndexFromBytes reads a GTFS zip held in memory.
func NewIndexFromBytes(data []byte) (*Index, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return newIndexFromZip(zr)
}

func newIndexFromZip(zr *zip.Reader) (*Index, error) {
	g := newIndex()
	found := false
	for _, f := range zr.File {
		name := strings.ToLower(path.Base(f.Name))
		if !consumed[name] {
			continue
		}
		found = true
		if err := g.consumeCSV(name, f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	if !found {
		return nil, fmt.Errorf("no GTFS files in archive")
	}
	for trip, arr := range g.stopTimes {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].Sequence < arr[j].Sequence })
		g.stopTimes[trip] = arr
	}
	return g, nil
}

type shapePoint struct {
	lon, lat float64
	seq      int
}

func (g *Index) consumeCSV(name string, f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return err
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				return i
			}
		}
		return -1
	}
	rows := rec[1:]
	switch name {
	case "agency.txt":
		agID := idx("agency_id")
		if len(rows) > 0 {
			g.agencyID = field(rows[0], agID)
		}
	case "routes.txt":
		rID := idx("route_id")
		if rID < 0 {
			return fmt.Errorf("missing route_id column")
		}
		ag, sn, ln, desc, typ := idx("agency_id"), idx("route_short_name"), idx("route_long_name"), idx("route_desc"), idx("route_type")
		for _, row := range rows {
			id := field(row, rID)
			if id == "" {
				continue
			}
			routeType, _ := strconv.Atoi(field(row, typ))
			if _, dup := g.routes[id]; !dup {
				g.routeOrder = append(g.routeOrder, id)
			}
			g.routes[id] = Route{
				ID:        id,
				AgencyID:  field(row, ag),
				ShortName: field(row, sn),
				LongName:  field(row, ln),
				Desc:      field(row, desc),
				Type:      routeType,
			}
		}
	case "trips.txt":
		rID, tID := idx("route_id"), idx("trip_id")
		if rID < 0 || tID < 0 {
			return fmt.Errorf("missing route_id or trip_id column")
		}
		svc, hs, dir, sh := idx("service_id"), idx("trip_headsign"), idx("direction_id"), idx("shape_id")
		for _, row := range rows {
			t := Trip{
				ID:        field(row, tID),
				RouteID:   field(row, rID),
				ServiceID: field(row, svc),
				Headsign:  field(row, hs),
				ShapeID:   field(row, sh),
			}
			if field(row, dir) == "1" {
				t.DirectionID = 1
			}
			if _, dup := g.trips[t.ID]; !dup {
				g.routeTrips[t.RouteID] = append(g.routeTrips[t.RouteID], t.ID)
			}
			g.trips[t.ID] = t
		}
	case "stops.txt":
		sID, sN, sLat, sLon := idx("stop_id"), idx("stop_name"), idx("stop_lat"), idx("stop_lon")
		for _, row := range rows {
			lat, _ := strconv.ParseFloat(field(row, sLat), 64)
			lon, _ := strconv.ParseFloat(field(row, sLon), 64)
			id := field(row, sID)
			if _, dup := g.stops[id]; !dup {
				g.stopOrder = append(g.stopOrder, id)
			}
			g.stops[id] = Stop{ID: id, Name: field(row, sN), Lon: lon, Lat: lat}
		}
	case "stop_times.txt":
		tID, sID, sq := idx("trip_id"), idx("stop_id"), idx("stop_sequence")
		if tID < 0 || sID < 0 || sq < 0 {
			return nil
		}
		arr, dep := idx("arrival_time"), idx("departure_time")
		for _, row := range rows {
			seq, _ := strconv.Atoi(field(row, sq))
			trip := field(row, tID)
			g.stopTimes[trip] = append(g.stopTimes[trip], StopTime{
				StopID:    field(row, sID),
				Sequence:  seq,
				Arrival:   clockOrUnset(field(row, arr)),
				Departure: clockOrUnset(field(row, dep)),
			})
		}
	case "shapes.txt":
		sh, latIdx, lonIdx, seqIdx := idx("shape_id"), idx("shape_pt_lat"), idx("shape_pt_lon"), idx("shape_pt_sequence")
		if sh < 0 || latIdx < 0 || lonIdx < 0 || seqIdx < 0 {
			return nil
		}
		tmp := map[string][]shapePoint{}
		for _, row := range rows {
			lat, _ := strconv.ParseFloat(field(row, latIdx), 64)
			lon, _ := strconv.ParseFloat(field(row, lonIdx), 64)
			seq, _ := strconv.Atoi(field(row, seqIdx))
			shapeID := field(row, sh)
			tmp[shapeID] = append(tmp[shapeID], shapePoint{lon, lat, seq})
		}
		for shapeID, arr := range tmp {
			sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
			line := make(orb.LineString, len(arr))
			for i, p := range arr {
				line[i] = orb.Point{p.lon, p.lat}
			}
			g.shapes[shapeID] = line
		}
	case "calendar.txt":
		sID := idx("service_id")
		var cols [7]int
		for d, day := range weekdayColumns {
			cols[d] = idx(day)
		}
		for _, row := range rows {
			s := Service{ID: field(row, sID)}
			for d := range cols {
				s.Days[d] = field(row, cols[d]) == "1"
			}
			g.services[s.ID] = s
		}
	}
	return nil
}

var weekdayColumns = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func clockOrUnset(s string) int {
	if s == "" {
		return -1
	}
	t, err := utils.ParseClock(s)
	if err != nil {
		return -1
	}
	return t
}
