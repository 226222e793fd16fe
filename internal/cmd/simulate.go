package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/export"
	"github.com/talgya/iso-citysim/internal/landvalue"
	"github.com/talgya/iso-citysim/internal/pathfind"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/saveio"
	"github.com/talgya/iso-citysim/internal/simulate"
	"github.com/talgya/iso-citysim/internal/traffic"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Advance a world by N days and report its stats",
	RunE:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("load", "", "path to an existing binary save to resume from")
	simulateCmd.Flags().String("save", "", "path template to write the resulting binary save")
	simulateCmd.Flags().String("csv", "", "path template to write ticks.csv")
	simulateCmd.Flags().String("district-csv", "", "path template to write districts.csv")
	simulateCmd.Flags().StringSlice("export-ppm", nil, "layer:path pairs to render as PPM images, repeatable")
}

// loadOrGenerate resolves the --load flag against --seed/--size, returning
// the world plus the SimConfig/ProcGenConfig it should keep advancing
// under.
func loadOrGenerate(c *cobra.Command) (*cityworld.World, procgen.Config, simulate.Config, error) {
	loadPath, _ := c.Flags().GetString("load")
	if loadPath != "" {
		decoded, err := saveio.ReadFile(loadPath)
		if err != nil {
			return nil, procgen.Config{}, simulate.Config{}, err
		}
		return decoded.World, decoded.ProcGenConfig, decoded.SimConfig, nil
	}

	width, height, err := parseSize(viper.GetString("size"))
	if err != nil {
		return nil, procgen.Config{}, simulate.Config{}, err
	}
	cfg := procgen.Default()
	w := procgen.Generate(width, height, viper.GetUint64("seed"), cfg)
	return w, cfg, simulate.Default(), nil
}

func applyOutsideConnectionFlag(simCfg simulate.Config) simulate.Config {
	if viper.GetBool("require-outside") {
		simCfg.OutsideConnection = simulate.RequireOutsideConnection
	} else {
		simCfg.OutsideConnection = simulate.AllowDisconnectedLocal
	}
	return simCfg
}

func runSimulate(c *cobra.Command, _ []string) error {
	w, procCfg, simCfg, err := loadOrGenerate(c)
	if err != nil {
		return err
	}
	simCfg = applyOutsideConnectionFlag(simCfg)

	ppmFlags, _ := c.Flags().GetStringSlice("export-ppm")
	ppmSpecs, err := parsePPMSpecs(ppmFlags)
	if err != nil {
		return err
	}

	days := viper.GetInt("days")
	st := simulate.NewState(w)
	history := make([]cityworld.Stats, 0, days)
	for i := 0; i < days; i++ {
		simulate.StepOnce(w, simCfg, st)
		history = append(history, w.Stats)
	}

	fields := pathFields{Seed: w.Seed(), W: w.Width, H: w.Height, Day: w.Stats.Day, Money: w.Stats.Money, Hash: cityworld.HashWorld(w, true), Run: "simulate"}

	if savePath, _ := c.Flags().GetString("save"); savePath != "" {
		data, err := saveio.EncodeWorld(w, saveio.DefaultSaveOptions(procCfg), simCfg)
		if err != nil {
			return err
		}
		if err := saveio.WriteFile(expandPath(savePath, fields), data); err != nil {
			return err
		}
	}

	if csvPath, _ := c.Flags().GetString("csv"); csvPath != "" {
		if err := export.WriteTicksCSV(expandPath(csvPath, fields), history); err != nil {
			return err
		}
	}

	if districtCSVPath, _ := c.Flags().GetString("district-csv"); districtCSVPath != "" {
		rates := landvalue.BaseRates{
			ResidentialTaxRate:  simCfg.ResidentialTaxRate,
			CommercialTaxRate:   simCfg.CommercialTaxRate,
			RoadMaintenanceCost: simCfg.MaintenanceCost[cityworld.Road],
			ParkMaintenanceCost: simCfg.MaintenanceCost[cityworld.Park],
		}
		districtStats := landvalue.ComputeDistrictStats(w, st.LandValueField, rates, simCfg.DistrictPolicies)
		if err := export.WriteDistrictStatsCSV(expandPath(districtCSVPath, fields), districtStats); err != nil {
			return err
		}
	}

	if len(ppmSpecs) > 0 {
		lf := finalLayerFields(w, simCfg, st)
		for _, spec := range ppmSpecs {
			if err := export.RenderPPM(expandPath(spec.Path, fields), w, spec.Layer, lf); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(c.OutOrStdout(), "simulated %d days: population=%s money=%s happiness=%.3f hash=%x\n",
		days, humanize.Comma(int64(w.Stats.Population)), humanize.Comma(w.Stats.Money), w.Stats.Happiness, cityworld.HashWorld(w, true))
	return nil
}

// finalLayerFields re-derives the traffic field for the world's final tick
// so --export-ppm traffic/goods_traffic layers reflect the just-completed
// simulation, without simulate.State retaining that per-tile detail across
// ticks (only the land value field is memoized there).
func finalLayerFields(w *cityworld.World, simCfg simulate.Config, st *simulate.State) export.LayerFields {
	roadToEdge := pathfind.ComputeRoadsConnectedToEdge(w)
	trafficResult := traffic.ComputeCommuteTraffic(w, traffic.Default(), simCfg.EmployedShare, roadToEdge)
	return export.LayerFields{
		LandValue:   st.LandValueField,
		TrafficFlow: trafficResult.PerTileFlow,
	}
}
