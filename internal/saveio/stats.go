package saveio

import "github.com/talgya/iso-citysim/internal/cityworld"

// statsFieldCount is the number of fixed 8-byte fields in the packed Stats
// record (SPEC_FULL.md §4.7 "stats: packed record"). Every field, int or
// float, is written as 8 bytes in a fixed order so the layout never
// depends on struct tag reflection.
const statsFieldCount = 27

func encodeStats(s cityworld.Stats) []byte {
	buf := make([]byte, 0, statsFieldCount*8)
	buf = appendUint64(buf, uint64(int64(s.Day)))
	buf = appendUint64(buf, uint64(s.Money))
	buf = appendUint64(buf, uint64(int64(s.Population)))
	buf = appendUint64(buf, uint64(int64(s.HousingCapacity)))
	buf = appendUint64(buf, uint64(int64(s.JobsCapacity)))
	buf = appendUint64(buf, uint64(int64(s.JobsCapacityAccessible)))
	buf = appendUint64(buf, uint64(int64(s.Employed)))
	buf = appendFloat64(buf, s.Happiness)
	buf = appendUint64(buf, uint64(int64(s.Roads)))
	buf = appendUint64(buf, uint64(int64(s.Parks)))
	buf = appendFloat64(buf, s.AvgCommute)
	buf = appendFloat64(buf, s.AvgCommuteTime)
	buf = appendFloat64(buf, s.P95Commute)
	buf = appendFloat64(buf, s.TrafficCongestion)
	buf = appendUint64(buf, uint64(int64(s.UnreachableCommuters)))
	buf = appendFloat64(buf, s.TransitModeShare)
	buf = appendFloat64(buf, s.GoodsDemand)
	buf = appendFloat64(buf, s.GoodsProduced)
	buf = appendFloat64(buf, s.GoodsDelivered)
	buf = appendFloat64(buf, s.GoodsImported)
	buf = appendFloat64(buf, s.GoodsExported)
	buf = appendFloat64(buf, s.GoodsSatisfaction)
	buf = appendFloat64(buf, s.TradeCapacityPct)
	buf = appendFloat64(buf, s.AvgLandValue)
	buf = appendFloat64(buf, s.DemandResidential)
	buf = appendFloat64(buf, s.DemandCommercial)
	buf = appendFloat64(buf, s.DemandIndustrial)
	return buf
}

func decodeStats(c *cursor) cityworld.Stats {
	var s cityworld.Stats
	s.Day = int(int64(c.uint64()))
	s.Money = int64(c.uint64())
	s.Population = int(int64(c.uint64()))
	s.HousingCapacity = int(int64(c.uint64()))
	s.JobsCapacity = int(int64(c.uint64()))
	s.JobsCapacityAccessible = int(int64(c.uint64()))
	s.Employed = int(int64(c.uint64()))
	s.Happiness = c.float64()
	s.Roads = int(int64(c.uint64()))
	s.Parks = int(int64(c.uint64()))
	s.AvgCommute = c.float64()
	s.AvgCommuteTime = c.float64()
	s.P95Commute = c.float64()
	s.TrafficCongestion = c.float64()
	s.UnreachableCommuters = int(int64(c.uint64()))
	s.TransitModeShare = c.float64()
	s.GoodsDemand = c.float64()
	s.GoodsProduced = c.float64()
	s.GoodsDelivered = c.float64()
	s.GoodsImported = c.float64()
	s.GoodsExported = c.float64()
	s.GoodsSatisfaction = c.float64()
	s.TradeCapacityPct = c.float64()
	s.AvgLandValue = c.float64()
	s.DemandResidential = c.float64()
	s.DemandCommercial = c.float64()
	s.DemandIndustrial = c.float64()
	return s
}
