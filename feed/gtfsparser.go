package feed

import (
	"github.com/patrickbr/gtfsparser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/haldis/raptor"
)

// LoadGTFSFeed parses a GTFS static feed (a directory or a zip file, per
// gtfsparser's own convention) and converts it into a FeedInput. serviceID,
// when non-empty, restricts trips to that one GTFS service (the way a
// caller would pick "Weekday" out of a feed covering a whole calendar).
func LoadGTFSFeed(path string, serviceID string) (FeedInput, error) {
	gfeed := gtfsparser.NewFeed()
	if err := gfeed.Parse(path); err != nil {
		return FeedInput{}, errors.Wrapf(err, "parsing GTFS feed at %s", path)
	}

	input := FeedInput{
		StopIDs: make([]string, 0, len(gfeed.Stops)),
	}
	for id := range gfeed.Stops {
		input.StopIDs = append(input.StopIDs, id)
	}

	for _, trip := range gfeed.Trips {
		if serviceID != "" && trip.Service.Id() != serviceID {
			continue
		}

		routeID := ""
		if trip.Route != nil {
			routeID = trip.Route.Id
		}

		stopTimes := make([]StopTimeInput, 0, len(trip.StopTimes))
		for _, st := range trip.StopTimes {
			stopTimes = append(stopTimes, StopTimeInput{
				StopID:    st.Stop().Id,
				Arrival:   raptor.Tau(st.Arrival_time().SecondsSinceMidnight()),
				Departure: raptor.Tau(st.Departure_time().SecondsSinceMidnight()),
			})
		}

		input.Trips = append(input.Trips, TripInput{
			ID:        trip.Id,
			RouteID:   routeID,
			StopTimes: stopTimes,
		})
	}

	for key, transfer := range gfeed.Transfers {
		var minTransfer *raptor.Tau
		if transfer.Min_transfer_time != 0 {
			t := raptor.Tau(transfer.Min_transfer_time)
			minTransfer = &t
		}
		input.Transfers = append(input.Transfers, TransferInput{
			FromStopID:      key.From_stop.Id,
			ToStopID:        key.To_stop.Id,
			MinTransferTime: minTransfer,
		})
	}

	return input, nil
}

// LoadTimetable is a convenience wrapper that parses a GTFS feed and builds
// a Timetable from it in one call, logging construction progress through
// logger (the zero value disables logging).
func LoadTimetable(path, serviceID string, defaultTransferTime raptor.Tau, logger zerolog.Logger) (*Timetable, error) {
	input, err := LoadGTFSFeed(path, serviceID)
	if err != nil {
		return nil, err
	}
	return BuildTimetable(input, BuildOptions{DefaultTransferTime: defaultTransferTime, Logger: logger})
}
