// Package feed builds a concrete raptor.Timetable over an in-memory transit
// feed: dense stop/route/trip indices, trips grouped into RAPTOR routes by
// shared stop sequence, and sorted per-route trip lists for binary-search
// lookup.
package feed

import "github.com/haldis/raptor"

// StopIdx, RouteIdx and TripRef are the dense identities the built
// Timetable uses in place of GTFS's string ids.
type StopIdx int

type RouteIdx int

// TripRef names a trip by its route and its position within that route's
// trips, sorted by first-stop departure.
type TripRef struct {
	Route RouteIdx
	Seq   int
}

// StopTimeInput is one row of a trip's schedule, in stop-sequence order.
type StopTimeInput struct {
	StopID    string
	Arrival   raptor.Tau
	Departure raptor.Tau
}

// TripInput is a single scheduled trip: an external id, the GTFS route it
// belongs to, and its ordered stop times. Two trips with the same RouteID
// but a different stop sequence are split into different RAPTOR routes --
// this is what pattern grouping (build.go) does.
type TripInput struct {
	ID        string
	RouteID   string
	StopTimes []StopTimeInput
}

// TransferInput is a directed footpath between two stops. MinTransferTime
// is nil when the source feed has no explicit value, in which case the
// built Timetable's DefaultTransferTime is used.
type TransferInput struct {
	FromStopID      string
	ToStopID        string
	MinTransferTime *raptor.Tau
}

// FeedInput is the raw, feed-shaped data BuildTimetable turns into a
// Timetable. StopIDs only needs to list stops no trip serves (e.g. walk-only
// stops); stops mentioned in Trips are picked up automatically. A transfer
// naming a stop that is neither in StopIDs nor served by a trip is rejected
// as an unknown stop.
type FeedInput struct {
	StopIDs   []string
	Trips     []TripInput
	Transfers []TransferInput
}
