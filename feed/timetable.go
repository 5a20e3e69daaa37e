package feed

import (
	"sort"

	"github.com/haldis/raptor"
)

// RoutesAt returns the routes serving stop s, sorted by RouteIdx.
func (t *Timetable) RoutesAt(s StopIdx) []RouteIdx {
	return t.routesAtStop[s]
}

// EarlierOn returns whichever of a, b comes first in route r's stop order.
func (t *Timetable) EarlierOn(r RouteIdx, a, b StopIdx) StopIdx {
	p := t.routes[r]
	if p.pos[a] <= p.pos[b] {
		return a
	}
	return b
}

// StopsAfter returns the suffix of r's stop sequence starting at s.
func (t *Timetable) StopsAfter(r RouteIdx, s StopIdx) []StopIdx {
	p := t.routes[r]
	idx, ok := p.pos[s]
	if !ok {
		return nil
	}
	return p.stops[idx:]
}

// EarliestTrip finds the trip on r with the smallest departure at s that is
// still >= tau, via binary search over r's trips (sorted by first-stop
// departure). This assumes departures at s are monotonic in that same
// order -- true as long as trips on a route never overtake one another.
func (t *Timetable) EarliestTrip(r RouteIdx, tau raptor.Tau, s StopIdx) (TripRef, bool) {
	p := t.routes[r]
	idx, ok := p.pos[s]
	if !ok {
		return TripRef{}, false
	}
	trips := p.trips
	i := sort.Search(len(trips), func(i int) bool { return trips[i].dep[idx] >= tau })
	if i == len(trips) {
		return TripRef{}, false
	}
	return TripRef{Route: r, Seq: i}, true
}

// Arrival returns trip's arrival time at stop s.
func (t *Timetable) Arrival(trip TripRef, s StopIdx) raptor.Tau {
	p := t.routes[trip.Route]
	idx, ok := p.pos[s]
	if !ok {
		return raptor.Inf
	}
	return p.trips[trip.Seq].arr[idx]
}

// Departure returns trip's departure time at stop s.
func (t *Timetable) Departure(trip TripRef, s StopIdx) raptor.Tau {
	p := t.routes[trip.Route]
	idx, ok := p.pos[s]
	if !ok {
		return raptor.Inf
	}
	return p.trips[trip.Seq].dep[idx]
}

// FootpathsFrom returns the stops reachable on foot from s.
func (t *Timetable) FootpathsFrom(s StopIdx) []StopIdx {
	fps := t.transfers[s]
	out := make([]StopIdx, len(fps))
	for i, fp := range fps {
		out[i] = fp.To
	}
	return out
}

// TransferTime returns the walking time from a to b, falling back to the
// feed's default when no explicit transfer row covers the pair.
func (t *Timetable) TransferTime(a, b StopIdx) raptor.Tau {
	for _, fp := range t.transfers[a] {
		if fp.To == b {
			return fp.Time
		}
	}
	return t.defaultTransferTime
}

// LookupStop resolves a GTFS-style external stop id to its dense index.
func (t *Timetable) LookupStop(id string) (StopIdx, bool) {
	idx, ok := t.stopIndex[id]
	return idx, ok
}

// ResolveStop is the inverse of LookupStop.
func (t *Timetable) ResolveStop(idx StopIdx) (string, bool) {
	if int(idx) < 0 || int(idx) >= len(t.stopIDs) {
		return "", false
	}
	return t.stopIDs[idx], true
}

// ResolveRoute returns a human-readable label for a route index: the GTFS
// route id its trips were pulled from. Several RAPTOR routes can share a
// label when one GTFS route runs more than one stop pattern.
func (t *Timetable) ResolveRoute(idx RouteIdx) (string, bool) {
	if int(idx) < 0 || int(idx) >= len(t.routeLabel) {
		return "", false
	}
	return t.routeLabel[idx], true
}

// ResolveTrip returns the external trip id a TripRef was built from.
func (t *Timetable) ResolveTrip(ref TripRef) (string, bool) {
	if int(ref.Route) < 0 || int(ref.Route) >= len(t.routes) {
		return "", false
	}
	trips := t.routes[ref.Route].trips
	if ref.Seq < 0 || ref.Seq >= len(trips) {
		return "", false
	}
	return trips[ref.Seq].id, true
}

// StopCount reports how many distinct stops the timetable indexes.
func (t *Timetable) StopCount() int { return len(t.stopIDs) }

// RouteCount reports how many RAPTOR routes (patterns) the timetable indexes.
func (t *Timetable) RouteCount() int { return len(t.routes) }

var _ raptor.Timetable[StopIdx, RouteIdx, TripRef] = (*Timetable)(nil)
