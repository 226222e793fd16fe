package autobuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/simulate"
)

func TestRunGrowsPopulationOverTime(t *testing.T) {
	w := procgen.Generate(48, 48, 11, procgen.Default())
	w.Stats.Money = 100000

	report := Run(w, simulate.Default(), Default(), 20)

	require.Equal(t, 20, report.DaysSimulated)
	require.Len(t, report.DailyStats, 20)
	require.GreaterOrEqual(t, report.ZonesBuilt, 1, "expected the bot to build at least one zone over 20 days")
}

func TestRunNeverOverdrawsMoneyReserve(t *testing.T) {
	w := procgen.Generate(32, 32, 3, procgen.Default())
	w.Stats.Money = 600
	cfg := Default()
	cfg.MinMoneyReserve = 500

	Run(w, simulate.Default(), cfg, 5)

	require.GreaterOrEqual(t, w.Stats.Money, int64(0), "bot placement must never be allowed to overdraw below zero given a positive reserve floor")
}

func TestRankCandidatesEnforcesMinimumSpacing(t *testing.T) {
	w := cityworld.NewWorld(10, 10, 1)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			t := w.At(x, y)
			t.Terrain = cityworld.Grass
			w.Set(x, y, t)
		}
	}
	candidates := []int{w.Idx(1, 1), w.Idx(2, 1), w.Idx(8, 8)}
	picks := rankCandidates(w, candidates, 3, 3, func(idx int) float64 { return 1 })

	require.Len(t, picks, 2, "expected the two close candidates to collapse to one pick under min spacing 3")
}

func TestEnsureOutsideConnectionConnectsIsolatedRoad(t *testing.T) {
	w := cityworld.NewWorld(12, 12, 5)
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			t := w.At(x, y)
			t.Terrain = cityworld.Grass
			w.Set(x, y, t)
		}
	}
	t2 := w.At(6, 6)
	t2.Overlay = cityworld.Road
	w.Set(6, 6, t2)
	w.RecomputeRoadMasks()

	obs := Observe(w, simulate.Default())
	require.False(t, obs.OutsideConnected)

	built := ensureOutsideConnection(w, obs, Default())
	require.True(t, built)

	obs2 := Observe(w, simulate.Default())
	require.True(t, obs2.OutsideConnected)
}
