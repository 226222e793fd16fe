package autobuild

import (
	"log/slog"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/simulate"
)

// Report summarizes a Run call's outcome across every simulated day.
type Report struct {
	DaysSimulated int
	ZonesBuilt    int
	ParksBuilt    int
	RoadUpgrades  int
	RoadSpursBuilt int
	FailedBuilds  int
	DailyStats    []cityworld.Stats
}

// Run drives w through days simulated ticks, running the heuristic
// auto-build pass before each tick per SPEC_FULL.md §4.8's fixed
// six-phase sequence: (1) ensure outside connection, (2) rank and place
// zones, (3) rank and place parks, (4) congestion-triggered road
// upgrades, (5) road spur growth, (6) advance the day via
// simulate.StepOnce. The pass order is fixed and never reordered, the
// same way simulate.StepOnce's own phase order is fixed.
func Run(w *cityworld.World, simCfg simulate.Config, cfg Config, days int) Report {
	var report Report
	st := simulate.NewState(w)
	editOpts := cityworld.EditOptions{AllowBridges: cfg.AllowBridges, RequireRoadAdjacency: true}

	for day := 0; day < days; day++ {
		obs := Observe(w, simCfg)

		if cfg.EnsureOutsideConnection {
			if ensureOutsideConnection(w, obs, cfg) {
				obs = Observe(w, simCfg) // topology changed; re-observe before placement
			}
		}

		zoneKind := zoneCycle[day%len(zoneCycle)]
		zonePicks := rankCandidates(w, obs.EmptyBuildable, cfg.ZonesPerDay, 1, func(idx int) float64 {
			return zoneScore(w, obs, idx, zoneKind, cfg.ZoneWeights)
		})
		built := placeZones(w, zonePicks, zoneKind, cfg, editOpts)
		report.ZonesBuilt += built
		report.FailedBuilds += len(zonePicks) - built

		parkPicks := rankCandidates(w, obs.EmptyBuildable, cfg.ParksPerDay, 3, func(idx int) float64 {
			return parkScore(w, obs, idx, cfg.ParkWeights)
		})
		parksBuilt := placeParks(w, parkPicks, cfg, editOpts)
		report.ParksBuilt += parksBuilt
		report.FailedBuilds += len(parkPicks) - parksBuilt

		if cfg.AutoUpgradeRoads {
			upgradeCands := rankRoadUpgrades(w, obs, cfg.CongestionUpgradeThreshold, cfg.RoadUpgradesPerDay)
			report.RoadUpgrades += applyRoadUpgrades(w, upgradeCands)
		}

		for i := 0; i < cfg.RoadSpursPerDay; i++ {
			target, ok := pickSpurTarget(w, obs)
			if !ok {
				break
			}
			report.RoadSpursBuilt += growRoadSpur(w, obs, target, cfg, editOpts)
		}

		simulate.StepOnce(w, simCfg, st)
		report.DaysSimulated++
		report.DailyStats = append(report.DailyStats, w.Stats)

		slog.Info("autobuild day complete",
			"day", day,
			"zonesBuilt", built,
			"parksBuilt", parksBuilt,
			"money", w.Stats.Money,
		)
	}
	return report
}
