// Package export implements SPEC_FULL.md §6's stable CSV/PPM output
// formats, kept out of cmd/citysim so no business logic lives in the CLI
// layer itself. CSV writing follows
// Afromullet-TinkerRogue/tools/combat_balance/csv_writer.go's
// encoding/csv + bufio-flush idiom; the PPM writer below is a from-scratch
// minimal P6 encoder since no pack example emits raster images this way.
package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/landvalue"
)

// TicksCSVHeader is the fixed column order of ticks.csv (SPEC_FULL.md §6).
var TicksCSVHeader = []string{
	"day", "population", "money", "housingCapacity", "jobsCapacity",
	"jobsCapacityAccessible", "employed", "happiness", "roads", "parks",
	"avgCommuteTime", "trafficCongestion", "goodsDemand", "goodsDelivered",
	"goodsSatisfaction", "avgLandValue", "demandResidential",
}

// WriteTicksCSV appends one row per entry in history to path, in fixed
// column order. It always overwrites path rather than appending, so a
// rerun of the same seed/days produces a byte-identical file.
func WriteTicksCSV(path string, history []cityworld.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("create ticks csv: %w", err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(TicksCSVHeader); err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("write ticks csv header: %w", err))
	}
	for _, s := range history {
		row := []string{
			fmt.Sprintf("%d", s.Day),
			fmt.Sprintf("%d", s.Population),
			fmt.Sprintf("%d", s.Money),
			fmt.Sprintf("%d", s.HousingCapacity),
			fmt.Sprintf("%d", s.JobsCapacity),
			fmt.Sprintf("%d", s.JobsCapacityAccessible),
			fmt.Sprintf("%d", s.Employed),
			fmt.Sprintf("%.6f", s.Happiness),
			fmt.Sprintf("%d", s.Roads),
			fmt.Sprintf("%d", s.Parks),
			fmt.Sprintf("%.6f", s.AvgCommuteTime),
			fmt.Sprintf("%.6f", s.TrafficCongestion),
			fmt.Sprintf("%.6f", s.GoodsDemand),
			fmt.Sprintf("%.6f", s.GoodsDelivered),
			fmt.Sprintf("%.6f", s.GoodsSatisfaction),
			fmt.Sprintf("%.6f", s.AvgLandValue),
			fmt.Sprintf("%.6f", s.DemandResidential),
		}
		if err := w.Write(row); err != nil {
			return cityworld.NewIoError(path, fmt.Errorf("write ticks csv row: %w", err))
		}
	}
	return nil
}

// TileMetricsCSVHeader is the fixed column order of tile_metrics.csv.
var TileMetricsCSVHeader = []string{"x", "y", "terrain", "overlay", "level", "district", "height", "occupants"}

// WriteTileMetricsCSV writes one row per tile of w, in row-major order.
func WriteTileMetricsCSV(path string, w *cityworld.World) error {
	f, err := os.Create(path)
	if err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("create tile metrics csv: %w", err))
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(TileMetricsCSVHeader); err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("write tile metrics csv header: %w", err))
	}
	for idx, t := range w.Tiles {
		x, y := w.XY(idx)
		row := []string{
			fmt.Sprintf("%d", x),
			fmt.Sprintf("%d", y),
			t.Terrain.String(),
			t.Overlay.String(),
			fmt.Sprintf("%d", t.Level),
			fmt.Sprintf("%d", t.District),
			fmt.Sprintf("%.6f", t.Height),
			fmt.Sprintf("%d", t.Occupants),
		}
		if err := cw.Write(row); err != nil {
			return cityworld.NewIoError(path, fmt.Errorf("write tile metrics csv row: %w", err))
		}
	}
	return nil
}

// DistrictStatsCSVHeader is the fixed column order of districts.csv.
var DistrictStatsCSVHeader = []string{
	"district", "tileCount", "roadCount", "residentialCount", "commercialCount",
	"industrialCount", "parkCount", "population", "jobs", "avgLandValue",
	"taxRevenue", "maintenance", "net",
}

// WriteDistrictStatsCSV writes one row per administrative district
// (SPEC_FULL.md §4.6's landvalue.ComputeDistrictStats report).
func WriteDistrictStatsCSV(path string, stats [8]landvalue.DistrictStats) error {
	f, err := os.Create(path)
	if err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("create districts csv: %w", err))
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(DistrictStatsCSVHeader); err != nil {
		return cityworld.NewIoError(path, fmt.Errorf("write districts csv header: %w", err))
	}
	for _, s := range stats {
		row := []string{
			fmt.Sprintf("%d", s.District),
			fmt.Sprintf("%d", s.TileCount),
			fmt.Sprintf("%d", s.RoadCount),
			fmt.Sprintf("%d", s.ResidentialCount),
			fmt.Sprintf("%d", s.CommercialCount),
			fmt.Sprintf("%d", s.IndustrialCount),
			fmt.Sprintf("%d", s.ParkCount),
			fmt.Sprintf("%d", s.Population),
			fmt.Sprintf("%d", s.Jobs),
			fmt.Sprintf("%.6f", s.AvgLandValue),
			fmt.Sprintf("%.6f", s.TaxRevenue),
			fmt.Sprintf("%.6f", s.Maintenance),
			fmt.Sprintf("%.6f", s.Net),
		}
		if err := cw.Write(row); err != nil {
			return cityworld.NewIoError(path, fmt.Errorf("write districts csv row: %w", err))
		}
	}
	return nil
}
