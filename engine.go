package raptor

import "sort"

/**
 * query holds everything the engine mutates while answering one Raptor call.
 * It is created fresh per query and discarded when Raptor returns -- the
 * Timetable itself holds no query state.
 */
type query[S StopLike, R RouteLike, T TripLike] struct {
	tt Timetable[S, R, T]

	// rounds[k] is tau*[k, *]: best arrival at each stop using at most k trips.
	// rounds[0] holds the departure label plus whatever round-0 footpaths reach.
	rounds []roundLabels[S]

	// boarding[k] is B[k, *]: only set for stops whose label actually improved
	// during round k's route scan or footpath relaxation.
	boarding []map[S]boardingRef[S, R]

	marked map[S]bool
}

/**
 * Raptor answers a single earliest-arrival query: at most kMax transfers,
 * departing tauDep from ps, targeting pt. It returns the Pareto front of
 * journeys ordered by increasing transfer count. kMax is inclusive: the
 * engine runs rounds 1 through kMax.
 */
func Raptor[S StopLike, R RouteLike, T TripLike](tt Timetable[S, R, T], kMax int, tauDep Tau, ps, pt S) []Journey[S, R] {
	if kMax < 0 {
		return nil
	}

	q := &query[S, R, T]{
		tt:       tt,
		rounds:   make([]roundLabels[S], kMax+1),
		boarding: make([]map[S]boardingRef[S, R], kMax+1),
		marked:   map[S]bool{ps: true},
	}

	q.rounds[0] = roundLabels[S]{ps: tauDep}

	// round-0 footpath relaxation: stops reachable on foot from ps inherit
	// tau_dep + walk at k = 0, before any trip is boarded.
	q.relaxFootpaths(0, map[S]bool{ps: true})

	for k := 1; k <= kMax; k++ {
		q.rounds[k] = q.rounds[k-1].clone()
		q.boarding[k] = map[S]boardingRef[S, R]{}

		stageQ := q.collectRoutes()
		q.marked = map[S]bool{}

		newlyMarked := q.scanRoutes(k, stageQ, pt)

		q.relaxFootpaths(k, newlyMarked)

		if len(q.marked) == 0 {
			break
		}
	}

	return filterPareto(q.reconstruct(ps, pt, kMax))
}

/** Stage 1: for every marked stop and every route serving it, keep the earliest position on that route. */
func (q *query[S, R, T]) collectRoutes() map[R]S {
	routeStart := map[R]S{}
	for m := range q.marked {
		for _, r := range q.tt.RoutesAt(m) {
			if cur, ok := routeStart[r]; ok {
				routeStart[r] = q.tt.EarlierOn(r, m, cur)
			} else {
				routeStart[r] = m
			}
		}
	}
	return routeStart
}

/**
 * Stage 2: scan each route starting from its earliest marked stop, carrying
 * a currently-boarded trip forward and relaxing arrivals at each subsequent
 * stop. Route iteration order is sorted so the scan is deterministic across
 * runs with identical input.
 */
func (q *query[S, R, T]) scanRoutes(k int, routeStart map[R]S, pt S) map[S]bool {
	routes := make([]R, 0, len(routeStart))
	for r := range routeStart {
		routes = append(routes, r)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i] < routes[j] })

	newlyMarked := map[S]bool{}
	prevRound := q.rounds[k-1]
	curRound := q.rounds[k]

	for _, r := range routes {
		p := routeStart[r]

		var trip T
		haveTrip := false
		board := p

		for _, si := range q.tt.StopsAfter(r, p) {
			// Relaxation step: only possible once a trip has been boarded.
			if haveTrip {
				arrI := q.tt.Arrival(trip, si)
				bound := curRound.get(si)
				if tgt := curRound.get(pt); tgt < bound {
					bound = tgt
				}
				if arrI < bound {
					curRound[si] = arrI
					q.boarding[k][si] = boardingRef[S, R]{Board: board, Route: r}
					q.marked[si] = true
					newlyMarked[si] = true
				}
			}

			// Board-update step: see if we can catch a trip departing at or
			// after our round k-1 arrival at si -- possibly earlier than the
			// one we're currently riding. board must always be set to the
			// stop at which the held trip was actually boarded (si here, not
			// the route's scan-start stop p), or reconstruction walks back
			// to a stop the rider never stood at.
			tPrevPi := prevRound.get(si)
			depTrip := Inf
			if haveTrip {
				depTrip = q.tt.Departure(trip, si)
			}
			if tPrevPi <= depTrip {
				if newTrip, ok := q.tt.EarliestTrip(r, tPrevPi, si); ok {
					trip = newTrip
					haveTrip = true
					board = si
				} else {
					haveTrip = false
				}
			}
		}
	}

	return newlyMarked
}

/**
 * Stage 3: relax foot transfers out of every stop newly marked this round.
 * A footpath never boards a trip, so a stop reached only by walking inherits
 * the boarding pair of the stop it walked from -- otherwise reconstruction
 * would have no way to trace back through it.
 */
func (q *query[S, R, T]) relaxFootpaths(k int, newlyMarked map[S]bool) {
	curRound := q.rounds[k]
	for s := range newlyMarked {
		tauS := curRound.get(s)
		ref, hasBoarding := q.boarding[k][s]
		for _, s2 := range q.tt.FootpathsFrom(s) {
			w := q.tt.TransferTime(s, s2)
			candidate := saturatingAdd(tauS, w)
			if candidate < curRound.get(s2) {
				curRound[s2] = candidate
				q.marked[s2] = true
				if hasBoarding {
					q.boarding[k][s2] = ref
				}
			}
		}
	}
}

/**
 * reconstruct recovers, for every round k from 1 to kMax, the plan that
 * reaches pt using exactly k boarded-trip hops, by tracing the boarding
 * trace backward from (k, pt) until it reaches ps or the chain breaks.
 * Foot transfers are not materialized as hops: they are folded into the
 * boarding trip's arrival bookkeeping and only affect timings. A walk out of
 * ps before the first trip is the exception: round 0 records no boarding
 * pair, so a journey that starts on foot is not reconstructed.
 */
func (q *query[S, R, T]) reconstruct(ps, pt S, kMax int) []Journey[S, R] {
	var out []Journey[S, R]

	for k := 1; k <= kMax; k++ {
		if k >= len(q.boarding) {
			break
		}

		cur := pt
		kk := k
		var plan []Hop[S, R]
		ok := cur == ps

		for cur != ps {
			if kk < 1 {
				ok = false
				break
			}
			ref, found := q.boarding[kk][cur]
			if !found {
				ok = false
				break
			}
			plan = append([]Hop[S, R]{{Route: ref.Route, BoardingStop: ref.Board}}, plan...)
			cur = ref.Board
			kk--
			ok = cur == ps
		}

		if !ok {
			continue
		}

		arrival := q.rounds[k].get(pt)
		if arrival >= Inf {
			continue
		}

		out = append(out, Journey[S, R]{
			Plan:    plan,
			Arrival: arrival,
			// derived from plan, not an independent field -- see Journey.Transfers.
			Transfers: len(plan),
		})
	}

	return out
}

/**
 * filterPareto keeps only journeys not strictly dominated by one with fewer-
 * or-equal hops and a better-or-equal arrival, sorted by ascending transfer
 * count.
 */
func filterPareto[S StopLike, R RouteLike](journeys []Journey[S, R]) []Journey[S, R] {
	if len(journeys) == 0 {
		return journeys
	}

	sort.SliceStable(journeys, func(i, j int) bool { return journeys[i].Transfers < journeys[j].Transfers })

	out := make([]Journey[S, R], 0, len(journeys))
	best := Inf
	for _, j := range journeys {
		if j.Arrival < best {
			out = append(out, j)
			best = j.Arrival
		}
	}
	return out
}
