package simulate

import (
	"testing"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

func TestComputeZoneDemandStaysInUnitRange(t *testing.T) {
	weights := ZoneWeights{LandValue: 0.4, AccessibleJobs: 0.3, Happiness: 0.2, Policy: 0.1}
	cases := []demandInputs{
		{avgLandValue: 0, accessibleJobs: 0, happiness: 0, policy: 0},
		{avgLandValue: 1, accessibleJobs: 1, happiness: 1, policy: 1},
		{avgLandValue: 0.7, accessibleJobs: 0.2, happiness: 0.9, policy: 0.5},
	}
	for _, in := range cases {
		got := computeZoneDemand(weights, in)
		if got < 0 || got > 1 {
			t.Fatalf("computeZoneDemand(%+v) = %f, want in [0,1]", in, got)
		}
	}
}

func TestComputeZoneDemandZeroWeightsYieldsZero(t *testing.T) {
	got := computeZoneDemand(ZoneWeights{}, demandInputs{avgLandValue: 1, accessibleJobs: 1, happiness: 1, policy: 1})
	if got != 0 {
		t.Fatalf("expected 0 demand with zero weights, got %f", got)
	}
}

func TestPolicyScoreForPenalizesHigherDistrictTax(t *testing.T) {
	w := cityworld.NewWorld(2, 1, 1)
	t0 := w.At(0, 0)
	t0.Overlay = cityworld.Residential
	t0.District = 0
	t0.Occupants = 10
	w.Set(0, 0, t0)

	t1 := w.At(1, 0)
	t1.Overlay = cityworld.Residential
	t1.District = 1
	t1.Occupants = 10
	w.Set(1, 0, t1)

	cfg := Default()
	cfg.DistrictPolicies[0] = cityworld.DistrictPolicy{TaxMultiplier: 0.5, MaintenanceMultiplier: 1}
	cfg.DistrictPolicies[1] = cityworld.DistrictPolicy{TaxMultiplier: 1.5, MaintenanceMultiplier: 1}

	score := policyScoreFor(w, cfg, cityworld.Residential)
	if score != 1 {
		// avg multiplier across the two equally-weighted tiles is 1.0,
		// so the neutral-tax score should come back exactly at its cap.
		t.Fatalf("expected neutral policy score of 1 for averaged multiplier 1.0, got %f", score)
	}

	cfg.DistrictPolicies[1] = cityworld.DistrictPolicy{TaxMultiplier: 2.5, MaintenanceMultiplier: 1}
	higherTaxScore := policyScoreFor(w, cfg, cityworld.Residential)
	if higherTaxScore >= score {
		t.Fatalf("raising one district's tax multiplier should lower the policy score: got %f, want < %f", higherTaxScore, score)
	}
}
