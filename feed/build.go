package feed

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/haldis/raptor"
)

// BuildOptions configures Timetable construction.
type BuildOptions struct {
	// DefaultTransferTime is used for any transfer whose feed row omits an
	// explicit MinTransferTime. Real-world GTFS feeds frequently leave this
	// blank; 300s (5 minutes) is the conventional default.
	DefaultTransferTime raptor.Tau

	// Logger receives one line per construction phase. The zero value
	// disables logging.
	Logger zerolog.Logger
}

type pattern struct {
	stops []StopIdx
	pos   map[StopIdx]int
	trips []tripSchedule
}

type tripSchedule struct {
	id  string
	arr []raptor.Tau
	dep []raptor.Tau
}

type footpath struct {
	To   StopIdx
	Time raptor.Tau
}

// Timetable is the in-memory raptor.Timetable built by BuildTimetable. It
// implements raptor.Timetable[StopIdx, RouteIdx, TripRef].
//
// Trips on the same route whose stop sequences overtake one another are not
// detected or rejected: EarliestTrip's binary search assumes trips within a
// route are sorted by first-stop departure and never overtake each other on
// any later stop. Pre-partition feeds that violate this into separate
// routes before calling BuildTimetable.
type Timetable struct {
	stopIDs   []string
	stopIndex map[string]StopIdx

	routes       []pattern
	routeLabel   []string
	routesAtStop map[StopIdx][]RouteIdx

	transfers           map[StopIdx][]footpath
	defaultTransferTime raptor.Tau
}

// BuildTimetable constructs a Timetable from raw feed data. Construction is
// eager: every index is built once, up front, rather than lazily on first
// use.
func BuildTimetable(input FeedInput, opts BuildOptions) (*Timetable, error) {
	logger := opts.Logger

	stopSet := map[string]struct{}{}
	for _, id := range input.StopIDs {
		stopSet[id] = struct{}{}
	}
	for _, trip := range input.Trips {
		for _, st := range trip.StopTimes {
			stopSet[st.StopID] = struct{}{}
		}
	}
	stopIDs := make([]string, 0, len(stopSet))
	for id := range stopSet {
		stopIDs = append(stopIDs, id)
	}
	sort.Strings(stopIDs)

	stopIndex := make(map[string]StopIdx, len(stopIDs))
	for i, id := range stopIDs {
		stopIndex[id] = StopIdx(i)
	}
	logger.Debug().Int("stops", len(stopIDs)).Msg("indexed stops")

	patternsByKey := map[string]*pattern{}
	patternKeys := make([]string, 0)
	patternLabel := map[string]string{}

	for _, trip := range input.Trips {
		if len(trip.StopTimes) == 0 {
			continue
		}
		stopKeyParts := make([]string, len(trip.StopTimes))
		stops := make([]StopIdx, len(trip.StopTimes))
		for i, st := range trip.StopTimes {
			idx, ok := stopIndex[st.StopID]
			if !ok {
				return nil, errors.Errorf("trip %s references unknown stop %s", trip.ID, st.StopID)
			}
			stops[i] = idx
			stopKeyParts[i] = st.StopID
		}
		key := trip.RouteID + "\x1f" + strings.Join(stopKeyParts, "\x1f")

		p, ok := patternsByKey[key]
		if !ok {
			pos := make(map[StopIdx]int, len(stops))
			for i, s := range stops {
				pos[s] = i
			}
			p = &pattern{stops: stops, pos: pos}
			patternsByKey[key] = p
			patternKeys = append(patternKeys, key)
			patternLabel[key] = trip.RouteID
		}

		arr := make([]raptor.Tau, len(trip.StopTimes))
		dep := make([]raptor.Tau, len(trip.StopTimes))
		for i, st := range trip.StopTimes {
			arr[i] = st.Arrival
			dep[i] = st.Departure
		}
		p.trips = append(p.trips, tripSchedule{id: trip.ID, arr: arr, dep: dep})
	}

	sort.Strings(patternKeys)

	routes := make([]pattern, len(patternKeys))
	routeLabel := make([]string, len(patternKeys))
	for i, key := range patternKeys {
		p := patternsByKey[key]
		sort.SliceStable(p.trips, func(a, b int) bool {
			return p.trips[a].dep[0] < p.trips[b].dep[0]
		})
		routes[i] = *p
		routeLabel[i] = patternLabel[key]
	}
	logger.Debug().Int("routes", len(routes)).Msg("grouped trips into routes")

	routesAtStop := map[StopIdx][]RouteIdx{}
	tripCount := 0
	for ri, p := range routes {
		for _, s := range p.stops {
			routesAtStop[s] = append(routesAtStop[s], RouteIdx(ri))
		}
		tripCount += len(p.trips)
	}
	for s, rs := range routesAtStop {
		sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
		routesAtStop[s] = rs
	}
	logger.Debug().Int("trips", tripCount).Msg("indexed trips")

	transfers := map[StopIdx][]footpath{}
	for _, tr := range input.Transfers {
		from, ok := stopIndex[tr.FromStopID]
		if !ok {
			return nil, errors.Errorf("transfer references unknown stop %s", tr.FromStopID)
		}
		to, ok := stopIndex[tr.ToStopID]
		if !ok {
			return nil, errors.Errorf("transfer references unknown stop %s", tr.ToStopID)
		}
		t := opts.DefaultTransferTime
		if tr.MinTransferTime != nil {
			t = *tr.MinTransferTime
		}
		transfers[from] = append(transfers[from], footpath{To: to, Time: t})
	}
	logger.Debug().Int("footpaths", len(input.Transfers)).Msg("indexed transfers")

	return &Timetable{
		stopIDs:             stopIDs,
		stopIndex:           stopIndex,
		routes:              routes,
		routeLabel:          routeLabel,
		routesAtStop:        routesAtStop,
		transfers:           transfers,
		defaultTransferTime: opts.DefaultTransferTime,
	}, nil
}
