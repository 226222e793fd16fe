package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/iso-citysim/internal/autobuild"
	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/export"
	"github.com/talgya/iso-citysim/internal/saveio"
)

var autobuildCmd = &cobra.Command{
	Use:   "autobuild",
	Short: "Run the heuristic auto-build bot for N days",
	RunE:  runAutobuild,
}

func init() {
	rootCmd.AddCommand(autobuildCmd)
	autobuildCmd.Flags().String("load", "", "path to an existing binary save to resume from")
	autobuildCmd.Flags().String("save", "", "path template to write the resulting binary save")
	autobuildCmd.Flags().String("csv", "", "path template to write ticks.csv")
	autobuildCmd.Flags().Int64("money", 10000, "starting money if generating a fresh world (ignored with --load)")
}

func runAutobuild(c *cobra.Command, _ []string) error {
	w, procCfg, simCfg, err := loadOrGenerate(c)
	if err != nil {
		return err
	}
	simCfg = applyOutsideConnectionFlag(simCfg)

	if loadPath, _ := c.Flags().GetString("load"); loadPath == "" {
		if startMoney, _ := c.Flags().GetInt64("money"); startMoney > 0 {
			w.Stats.Money = startMoney
		}
	}

	days := viper.GetInt("days")
	report := autobuild.Run(w, simCfg, autobuild.Default(), days)

	fields := pathFields{Seed: w.Seed(), W: w.Width, H: w.Height, Day: w.Stats.Day, Money: w.Stats.Money, Hash: cityworld.HashWorld(w, true), Run: "autobuild"}

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
		if err := export.WriteTicksCSV(expandPath(csvPath, fields), report.DailyStats); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.OutOrStdout(), "autobuild ran %d days: zones=%d parks=%d roadUpgrades=%d roadSpurs=%d failedBuilds=%d money=%d hash=%x\n",
		report.DaysSimulated, report.ZonesBuilt, report.ParksBuilt, report.RoadUpgrades, report.RoadSpursBuilt, report.FailedBuilds, w.Stats.Money, cityworld.HashWorld(w, true))
	return nil
}
