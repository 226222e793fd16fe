package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/export"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/saveio"
	"github.com/talgya/iso-citysim/internal/simulate"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new world from a seed and write it out",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("save", "", "path template to write the binary save (e.g. out/{seed}.isosave)")
	generateCmd.Flags().String("csv", "", "path template to write tile_metrics.csv")
	generateCmd.Flags().StringSlice("export-ppm", nil, "layer:path pairs to render as PPM images, repeatable")
}

func runGenerate(c *cobra.Command, _ []string) error {
	width, height, err := parseSize(viper.GetString("size"))
	if err != nil {
		return err
	}
	seed := viper.GetUint64("seed")

	ppmFlags, _ := c.Flags().GetStringSlice("export-ppm")
	ppmSpecs, err := parsePPMSpecs(ppmFlags)
	if err != nil {
		return err
	}

	cfg := procgen.Default()
	w := procgen.Generate(width, height, seed, cfg)

	fields := pathFields{Seed: seed, W: width, H: height, Day: w.Stats.Day, Money: w.Stats.Money, Hash: cityworld.HashWorld(w, true), Run: "generate"}

	if savePath, _ := c.Flags().GetString("save"); savePath != "" {
		data, err := saveio.EncodeWorld(w, saveio.DefaultSaveOptions(cfg), simulate.Default())
		if err != nil {
			return err
		}
		resolved := expandPath(savePath, fields)
		if err := saveio.WriteFile(resolved, data); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "wrote %s (%s)\n", resolved, humanize.Bytes(uint64(len(data))))
	}

	if csvPath, _ := c.Flags().GetString("csv"); csvPath != "" {
		if err := export.WriteTileMetricsCSV(expandPath(csvPath, fields), w); err != nil {
			return err
		}
	}

	for _, spec := range ppmSpecs {
		if err := export.RenderPPM(expandPath(spec.Path, fields), w, spec.Layer, export.LayerFields{}); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.OutOrStdout(), "generated %dx%d world seed=%d hash=%x\n", width, height, seed, cityworld.HashWorld(w, true))
	return nil
}
