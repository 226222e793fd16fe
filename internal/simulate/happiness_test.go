package simulate

import "testing"

func TestUpdateHappinessSmoothsTowardInstantScore(t *testing.T) {
	cfg := Default()
	cfg.HappinessTaxMultiplier = 0
	cfg.HappinessSmoothing = 0.3

	prev := 0.2
	got := updateHappiness(cfg, 1, 1, 0, 0, 0, prev)
	// instant score for perfect services/land value/no congestion/no commute is 1.0;
	// smoothing 0.3 of the way from 0.2 toward 1.0 is 0.2 + 0.3*0.8 = 0.44.
	want := 0.44
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("updateHappiness = %f, want %f", got, want)
	}
}

func TestUpdateHappinessCommutePenaltyIsDistinctFromCongestion(t *testing.T) {
	cfg := Default()
	cfg.HappinessTaxMultiplier = 0
	cfg.HappinessSmoothing = 1 // disable smoothing to isolate the instant score

	noCommute := updateHappiness(cfg, 1, 1, 0, 0, 0, 0)
	longCommute := updateHappiness(cfg, 1, 1, 0, maxHappinessCommuteNorm, 0, 0)
	if longCommute >= noCommute {
		t.Fatalf("a long average commute time must lower happiness even with zero congestion: noCommute=%f longCommute=%f", noCommute, longCommute)
	}

	noCongestion := updateHappiness(cfg, 1, 1, 0, 0, 0, 0)
	highCongestion := updateHappiness(cfg, 1, 1, 1, 0, 0, 0)
	if highCongestion >= noCongestion {
		t.Fatalf("high congestion must lower happiness even with zero commute time: noCongestion=%f highCongestion=%f", noCongestion, highCongestion)
	}
}
