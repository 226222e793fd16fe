package cityworld

import "math"

// HashWorld computes a byte-stable 64-bit hash of the authoritative state:
// the seed, dimensions, every tile's fields in fixed row-major order, and
// (optionally) Stats. Two runs with identical (seed, configs, event stream)
// must yield identical hashes after every operation (invariant 6,
// SPEC_FULL.md §3). The accumulation is FNV-1a over a fixed field order —
// never a map iteration, never a floating accumulation whose order could
// drift across hosts.
func HashWorld(w *World, includeStats bool) uint64 {
	h := fnvOffset
	h = hashUint64(h, w.SeedValue)
	h = hashUint64(h, uint64(w.Width))
	h = hashUint64(h, uint64(w.Height))

	for _, t := range w.Tiles {
		h = hashByte(h, byte(t.Terrain))
		h = hashByte(h, byte(t.Overlay))
		h = hashUint64(h, uint64(math.Float32bits(t.Height)))
		h = hashByte(h, t.Variation)
		h = hashByte(h, t.Level)
		h = hashUint64(h, uint64(t.Occupants))
		h = hashByte(h, t.District)
	}

	if includeStats {
		h = hashStats(h, w.Stats)
	}
	return h
}

const (
	fnvOffset = uint64(14695981039346656037)
	fnvPrime  = uint64(1099511628211)
)

func hashByte(h uint64, b byte) uint64 {
	h ^= uint64(b)
	h *= fnvPrime
	return h
}

func hashUint64(h uint64, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h = hashByte(h, byte(v))
		v >>= 8
	}
	return h
}

func hashInt64(h uint64, v int64) uint64 {
	return hashUint64(h, uint64(v))
}

func hashStats(h uint64, s Stats) uint64 {
	h = hashInt64(h, int64(s.Day))
	h = hashInt64(h, s.Money)
	h = hashInt64(h, int64(s.Population))
	h = hashInt64(h, int64(s.HousingCapacity))
	h = hashInt64(h, int64(s.JobsCapacity))
	h = hashInt64(h, int64(s.JobsCapacityAccessible))
	h = hashInt64(h, int64(s.Employed))
	h = hashUint64(h, uint64(math.Float64bits(s.Happiness)))
	h = hashInt64(h, int64(s.Roads))
	h = hashInt64(h, int64(s.Parks))
	h = hashUint64(h, uint64(math.Float64bits(s.AvgCommute)))
	h = hashUint64(h, uint64(math.Float64bits(s.AvgCommuteTime)))
	h = hashUint64(h, uint64(math.Float64bits(s.P95Commute)))
	h = hashUint64(h, uint64(math.Float64bits(s.TrafficCongestion)))
	h = hashInt64(h, int64(s.UnreachableCommuters))
	h = hashUint64(h, uint64(math.Float64bits(s.TransitModeShare)))
	h = hashUint64(h, uint64(math.Float64bits(s.GoodsDemand)))
	h = hashUint64(h, uint64(math.Float64bits(s.GoodsProduced)))
	h = hashUint64(h, uint64(math.Float64bits(s.GoodsDelivered)))
	h = hashUint64(h, uint64(math.Float64bits(s.GoodsImported)))
	h = hashUint64(h, uint64(math.Float64bits(s.GoodsExported)))
	h = hashUint64(h, uint64(math.Float64bits(s.GoodsSatisfaction)))
	h = hashUint64(h, uint64(math.Float64bits(s.TradeCapacityPct)))
	h = hashUint64(h, uint64(math.Float64bits(s.AvgLandValue)))
	h = hashUint64(h, uint64(math.Float64bits(s.DemandResidential)))
	h = hashUint64(h, uint64(math.Float64bits(s.DemandCommercial)))
	h = hashUint64(h, uint64(math.Float64bits(s.DemandIndustrial)))
	return h
}
