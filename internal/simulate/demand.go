package simulate

import "github.com/talgya/iso-citysim/internal/cityworld"

// demandInputs is the per-zone-kind scalar summary the demand model blends,
// every term already normalized to [0,1].
type demandInputs struct {
	avgLandValue   float64 // [0,1]
	accessibleJobs float64 // [0,1], jobs capacity reachable over jobs capacity total
	happiness      float64 // [0,1], previous tick's Stats.Happiness
	policy         float64 // [0,1], derived from the zone's occupancy-weighted district tax multiplier
}

// computeZoneDemand folds demandInputs through a zone kind's desirability
// weights into the normalized [0,1] demand level of spec.md §4.2 step 5: a
// blend of land value, accessible jobs ratio, happiness, and district
// policy multipliers.
func computeZoneDemand(weights ZoneWeights, in demandInputs) float64 {
	totalWeight := weights.LandValue + weights.AccessibleJobs + weights.Happiness + weights.Policy
	if totalWeight <= 0 {
		return 0
	}
	score := weights.LandValue*in.avgLandValue +
		weights.AccessibleJobs*in.accessibleJobs +
		weights.Happiness*in.happiness +
		weights.Policy*in.policy
	return clamp01(score / totalWeight)
}

// policyScoreFor converts a zone kind's occupancy-weighted average district
// tax multiplier into a [0,1] desirability term, clamp01(2-avg): any
// average multiplier at or below the default 1.0 scores 1.0, and higher
// tax scores lower, reaching 0 at an average of 2.0.
func policyScoreFor(w *cityworld.World, cfg Config, o cityworld.Overlay) float64 {
	var weighted, occupants float64
	for _, t := range w.Tiles {
		if t.Overlay != o {
			continue
		}
		policy := cityworld.DistrictPolicy{TaxMultiplier: 1}
		if int(t.District) < len(cfg.DistrictPolicies) {
			policy = cfg.DistrictPolicies[t.District]
		}
		weight := float64(t.Occupants) + 1 // unoccupied zoned tiles still count toward the policy signal
		weighted += policy.TaxMultiplier * weight
		occupants += weight
	}
	if occupants == 0 {
		return 1
	}
	return clamp01(2 - weighted/occupants)
}

// updateDemand runs phase 5 of stepOnce: it sets Stats.Demand{Residential,
// Commercial,Industrial} from the current world's land value, job
// accessibility, previous happiness and district policy signals.
func updateDemand(w *cityworld.World, cfg Config, avgLandValue, happiness float64, jobsCapacity, jobsCapacityAccessible int) {
	accessibleJobs := 0.0
	if jobsCapacity > 0 {
		accessibleJobs = clamp01(float64(jobsCapacityAccessible) / float64(jobsCapacity))
	}

	in := func(o cityworld.Overlay) demandInputs {
		return demandInputs{
			avgLandValue:   avgLandValue,
			accessibleJobs: accessibleJobs,
			happiness:      happiness,
			policy:         policyScoreFor(w, cfg, o),
		}
	}

	w.Stats.DemandResidential = computeZoneDemand(cfg.DesirabilityWeights[cityworld.Residential], in(cityworld.Residential))
	w.Stats.DemandCommercial = computeZoneDemand(cfg.DesirabilityWeights[cityworld.Commercial], in(cityworld.Commercial))
	w.Stats.DemandIndustrial = computeZoneDemand(cfg.DesirabilityWeights[cityworld.Industrial], in(cityworld.Industrial))
}
