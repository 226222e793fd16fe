package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/saveio"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay an event journal against its embedded base save",
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("in", "", "path to a replay file")
	replayCmd.Flags().Bool("ignore-asserts", false, "downgrade AssertHash mismatches to warnings instead of aborting")
	_ = replayCmd.MarkFlagRequired("in")
}

func runReplay(c *cobra.Command, _ []string) error {
	inPath, _ := c.Flags().GetString("in")
	ignoreAsserts, _ := c.Flags().GetBool("ignore-asserts")

	data, err := os.ReadFile(inPath)
	if err != nil {
		return cityworld.NewIoError(inPath, err)
	}
	r, err := saveio.DecodeReplay(data)
	if err != nil {
		return err
	}

	w, warnings, err := saveio.Play(r, saveio.PlaybackOptions{IgnoreAsserts: ignoreAsserts})
	if err != nil {
		return err
	}

	for _, warn := range warnings {
		fmt.Fprintf(c.OutOrStdout(), "warning: %s (expected=%x actual=%x)\n", warn.Error(), warn.Expected, warn.Actual)
	}

	fmt.Fprintf(c.OutOrStdout(), "replay complete: day=%d population=%d hash=%x warnings=%d\n",
		w.Stats.Day, w.Stats.Population, cityworld.HashWorld(w, true), len(warnings))
	return nil
}
