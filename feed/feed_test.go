package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldis/raptor"
)

func buildSampleTimetable(t *testing.T) *Timetable {
	t.Helper()

	input := FeedInput{
		Trips: []TripInput{
			{
				ID:      "t1",
				RouteID: "R1",
				StopTimes: []StopTimeInput{
					{StopID: "A", Arrival: 0, Departure: 0},
					{StopID: "B", Arrival: 100, Departure: 105},
					{StopID: "C", Arrival: 200, Departure: 205},
				},
			},
			{
				ID:      "t2",
				RouteID: "R1",
				StopTimes: []StopTimeInput{
					{StopID: "A", Arrival: 300, Departure: 300},
					{StopID: "B", Arrival: 400, Departure: 405},
					{StopID: "C", Arrival: 500, Departure: 505},
				},
			},
			{
				// Same GTFS route, a different stop sequence -- must land in a
				// distinct RAPTOR route, not get merged into R1's pattern.
				ID:      "t3",
				RouteID: "R1",
				StopTimes: []StopTimeInput{
					{StopID: "A", Arrival: 50, Departure: 50},
					{StopID: "D", Arrival: 150, Departure: 155},
				},
			},
		},
		Transfers: []TransferInput{
			{FromStopID: "C", ToStopID: "D"},
		},
	}

	tt, err := BuildTimetable(input, BuildOptions{DefaultTransferTime: 300})
	require.NoError(t, err)
	return tt
}

func TestPatternGroupingSplitsDivergentStopSequences(t *testing.T) {
	tt := buildSampleTimetable(t)
	assert.Equal(t, 2, tt.RouteCount(), "R1's two distinct stop sequences must become two routes")
}

func TestEarliestTripBinarySearch(t *testing.T) {
	tt := buildSampleTimetable(t)

	a, ok := tt.LookupStop("A")
	require.True(t, ok)

	var mainRoute RouteIdx
	found := false
	for _, r := range tt.RoutesAt(a) {
		if len(tt.routes[r].stops) == 3 {
			mainRoute = r
			found = true
		}
	}
	require.True(t, found)

	trip, ok := tt.EarliestTrip(mainRoute, 1, a)
	require.True(t, ok)
	id, ok := tt.ResolveTrip(trip)
	require.True(t, ok)
	assert.Equal(t, "t2", id, "first trip departing A at or after 1 should be t2 (t1 departs at 0)")

	_, ok = tt.EarliestTrip(mainRoute, 301, a)
	assert.False(t, ok, "no trip departs A at or after 301")
}

func TestStopsAfterAndEarlierOn(t *testing.T) {
	tt := buildSampleTimetable(t)

	a, _ := tt.LookupStop("A")
	b, _ := tt.LookupStop("B")
	c, _ := tt.LookupStop("C")

	var mainRoute RouteIdx
	for _, r := range tt.RoutesAt(a) {
		if len(tt.routes[r].stops) == 3 {
			mainRoute = r
		}
	}

	assert.Equal(t, a, tt.EarlierOn(mainRoute, c, a))
	after := tt.StopsAfter(mainRoute, b)
	require.Len(t, after, 2)
	assert.Equal(t, b, after[0])
	assert.Equal(t, c, after[1])
}

func TestTransferTimeDefaultsWhenUnspecified(t *testing.T) {
	tt := buildSampleTimetable(t)

	c, _ := tt.LookupStop("C")
	d, _ := tt.LookupStop("D")

	assert.Equal(t, raptor.Tau(300), tt.TransferTime(c, d))
	assert.Contains(t, tt.FootpathsFrom(c), d)
}

func TestBuildTimetableRejectsUnknownStop(t *testing.T) {
	_, err := BuildTimetable(FeedInput{
		Transfers: []TransferInput{{FromStopID: "ghost", ToStopID: "nowhere"}},
	}, BuildOptions{DefaultTransferTime: 300})
	assert.Error(t, err)
}
