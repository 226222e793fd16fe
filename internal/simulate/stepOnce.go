package simulate

import (
	"log/slog"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/goods"
	"github.com/talgya/iso-citysim/internal/landvalue"
	"github.com/talgya/iso-citysim/internal/pathfind"
	"github.com/talgya/iso-citysim/internal/traffic"
)

// StepOnce advances world by exactly one simulated day: the fixed
// 10-phase tick of SPEC_FULL.md §4.2. state carries the cross-tick cache
// (land value memoization, vacancy-day counters) the caller must reuse
// across consecutive calls for the same world.
//
// The phases run in a fixed order and are never reordered or skipped:
// refresh derived masks, traffic, goods, land value and services (cached),
// demand, occupancy, upgrade/downgrade, economy, happiness, counters.
// Economy runs before happiness so that happiness sees the tax burden
// levied on the same day.
func StepOnce(w *cityworld.World, cfg Config, st *State) {
	st.ensureSized(w)

	w.RecomputeRoadMasks()

	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	requireOutside := cfg.OutsideConnection == RequireOutsideConnection

	trafficResult := traffic.ComputeCommuteTraffic(w, trafficConfig(requireOutside), cfg.EmployedShare, roadToEdge)
	w.Stats.AvgCommute = trafficResult.AvgCommute
	w.Stats.AvgCommuteTime = trafficResult.AvgCommuteTime
	w.Stats.P95Commute = trafficResult.P95Commute
	w.Stats.TrafficCongestion = trafficResult.Congestion
	w.Stats.UnreachableCommuters = trafficResult.UnreachableCommuters
	w.Stats.JobsCapacityAccessible = trafficResult.JobsCapacityAccessible

	goodsResult := goods.ComputeGoodsFlow(w, goodsConfig(requireOutside), roadToEdge)
	w.Stats.GoodsDemand = goodsResult.GoodsDemand
	w.Stats.GoodsProduced = goodsResult.GoodsProduced
	w.Stats.GoodsDelivered = goodsResult.GoodsDelivered
	w.Stats.GoodsImported = goodsResult.GoodsImported
	w.Stats.GoodsExported = goodsResult.GoodsExported
	w.Stats.GoodsSatisfaction = goodsResult.GoodsSatisfaction

	if w.Stats.Day-st.LastLandValueDay >= cfg.LandValueRefreshDays || w.Stats.Day == 0 {
		normalizedTraffic := normalizeFlow(trafficResult.PerTileFlow)
		lv := landvalue.ComputeLandValue(w, landvalue.Default(), normalizedTraffic, roadToEdge)
		st.LandValueField = lv.PerTileValue
		w.Stats.AvgLandValue = lv.Average
		st.LastLandValueDay = w.Stats.Day
	}

	if w.Stats.Day-st.LastServicesDay >= cfg.ServicesRefreshDays || w.Stats.Day == 0 {
		svc := landvalue.ComputeServices(w, landvalue.DefaultServicesConfig())
		st.ServicesOverall = svc.Overall
		st.LastServicesDay = w.Stats.Day
	}

	updateDemand(w, cfg, w.Stats.AvgLandValue, w.Stats.Happiness, w.Stats.JobsCapacity, trafficResult.JobsCapacityAccessible)

	updateOccupancy(w, cfg)
	updateLevels(w, cfg, st)

	taxBurden := updateEconomy(w, cfg)
	w.Stats.Happiness = updateHappiness(cfg, st.ServicesOverall, w.Stats.AvgLandValue, trafficResult.Congestion, trafficResult.AvgCommuteTime, taxBurden, w.Stats.Happiness)

	refreshCounters(w)

	w.Stats.Day++

	slog.Info("daily tick",
		"day", w.Stats.Day,
		"population", w.Stats.Population,
		"money", w.Stats.Money,
		"happiness", w.Stats.Happiness,
		"congestion", w.Stats.TrafficCongestion,
		"goodsSatisfaction", w.Stats.GoodsSatisfaction,
	)
}

func trafficConfig(requireOutside bool) traffic.Config {
	c := traffic.Default()
	c.RequireOutsideConnection = requireOutside
	return c
}

func goodsConfig(requireOutside bool) goods.Config {
	c := goods.Default()
	c.RequireOutsideConnection = requireOutside
	return c
}

// normalizeFlow rescales a traffic flow field to [0,1] for use as the
// land-value pass's traffic amenity penalty term.
func normalizeFlow(flow []float64) []float64 {
	if len(flow) == 0 {
		return nil
	}
	max := 0.0
	for _, f := range flow {
		if f > max {
			max = f
		}
	}
	if max == 0 {
		return flow
	}
	out := make([]float64, len(flow))
	for i, f := range flow {
		out[i] = f / max
	}
	return out
}

// refreshCounters runs phase 10 of stepOnce: recomputes the tile-derived
// Stats fields (population, capacities, road/park counts) from the tiles
// themselves so they never drift from ground truth.
func refreshCounters(w *cityworld.World) {
	roads, parks, housingCap, jobsCap, population, employed := 0, 0, 0, 0, 0, 0
	for _, t := range w.Tiles {
		switch t.Overlay {
		case cityworld.Road:
			roads++
		case cityworld.Park:
			parks++
		case cityworld.Residential:
			housingCap += int(cityworld.CapacityForLevel(cityworld.Residential, t.Level))
			population += int(t.Occupants)
		case cityworld.Commercial:
			jobsCap += int(cityworld.CapacityForLevel(cityworld.Commercial, t.Level))
			employed += int(t.Occupants)
		case cityworld.Industrial:
			jobsCap += int(cityworld.CapacityForLevel(cityworld.Industrial, t.Level))
			employed += int(t.Occupants)
		}
	}
	w.Stats.Roads = roads
	w.Stats.Parks = parks
	w.Stats.HousingCapacity = housingCap
	w.Stats.JobsCapacity = jobsCap
	w.Stats.Population = population
	w.Stats.Employed = employed
}
