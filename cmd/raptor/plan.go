package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/haldis/raptor"
	"github.com/haldis/raptor/feed"
)

var planCmd = &cobra.Command{
	Use:   "plan <feed_path> <start_stop_id> <target_stop_id>",
	Short: "Finds earliest-arrival journeys between two stops",
	Args:  cobra.ExactArgs(3),
	RunE:  plan,
}

func parseClock(s string) (raptor.Tau, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("%q is not HH:MM:SS", s)
	}
	var h, m, sec int
	var err error
	if h, err = strconv.Atoi(parts[0]); err != nil {
		return 0, errors.Wrapf(err, "invalid hours in %q", s)
	}
	if m, err = strconv.Atoi(parts[1]); err != nil {
		return 0, errors.Wrapf(err, "invalid minutes in %q", s)
	}
	if sec, err = strconv.Atoi(parts[2]); err != nil {
		return 0, errors.Wrapf(err, "invalid seconds in %q", s)
	}
	return raptor.Tau(h*3600 + m*60 + sec), nil
}

func plan(cmd *cobra.Command, args []string) error {
	feedPath, startID, targetID := args[0], args[1], args[2]

	tauDep, err := parseClock(departureTime)
	if err != nil {
		return errors.Wrap(err, "parsing --depart-at")
	}

	tt, err := feed.LoadTimetable(feedPath, serviceID, raptor.Tau(defaultTransferSecs), newLogger())
	if err != nil {
		return errors.Wrap(err, "loading feed")
	}

	start, ok := tt.LookupStop(startID)
	if !ok {
		return errors.Errorf("start stop %q not found", startID)
	}
	target, ok := tt.LookupStop(targetID)
	if !ok {
		return errors.Errorf("target stop %q not found", targetID)
	}

	journeys := raptor.Raptor[feed.StopIdx, feed.RouteIdx, feed.TripRef](tt, maxTransfers, tauDep, start, target)

	if len(journeys) == 0 {
		fmt.Println("no journeys found")
		return nil
	}

	for i, j := range journeys {
		travel := time.Duration(j.Arrival-tauDep) * time.Second
		fmt.Printf("journey %d (%s, arrive %s, %d transfers):\n", i+1, travel, raptor.FormatClock(j.Arrival), j.Transfers)
		printJourney(tt, j, target)
		fmt.Println()
	}

	return nil
}

// printJourney prints one leg per line: "stop" -["route"]-> "stop".
func printJourney(tt *feed.Timetable, j raptor.Journey[feed.StopIdx, feed.RouteIdx], target feed.StopIdx) {
	for i, hop := range j.Plan {
		boardName, _ := tt.ResolveStop(hop.BoardingStop)
		routeName, _ := tt.ResolveRoute(hop.Route)

		alight := target
		if i+1 < len(j.Plan) {
			alight = j.Plan[i+1].BoardingStop
		}
		alightName, _ := tt.ResolveStop(alight)

		fmt.Printf("  %q -[%q]-> %q\n", boardName, routeName, alightName)
	}
}
