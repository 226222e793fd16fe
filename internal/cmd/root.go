// Package cmd implements cmd/citysim's cobra/viper command tree — the one
// thin CLI front-end this repo ships (SPEC_FULL.md §6). No business logic
// lives here: every command parses flags, calls straight into internal/*,
// and formats the result. Grounded on
// MeKo-Christian-WaterColorMap/internal/cmd/root.go's
// rootCmd+PersistentFlags+viper.BindPFlag+cobra.OnInitialize(initConfig,
// initLogging) shape.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "citysim",
	Short: "ProcIsoCity headless procedural city simulation engine",
	Long: `citysim generates, simulates, auto-builds, and replays deterministic
procedural city worlds. Every run with the same seed and configuration
produces byte-identical results — see HashWorld in internal/cityworld.`,
}

// Execute runs the command tree; main.go's only job is to call this and
// exit with whatever status code it signals via os.Exit within a command.
func Execute() {
	if logger == nil {
		initLogging()
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %s\n", rootCmd.Name(), err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./citysim.yaml)")
	rootCmd.PersistentFlags().Uint64("seed", 1, "deterministic world seed")
	rootCmd.PersistentFlags().String("size", "128x128", "world size WxH")
	rootCmd.PersistentFlags().Int("days", 30, "number of simulated days")
	rootCmd.PersistentFlags().Bool("require-outside", true, "require outside-connected road access for commute/goods sources and sinks")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	for _, name := range []string{"seed", "size", "days", "require-outside", "log-level"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %q: %v", name, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("citysim")
	}
	viper.SetEnvPrefix("CITYSIM")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // absent config file is not an error; flags/env/defaults suffice
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error", "err":
		level = slog.LevelError
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// exitCodeFor maps an error to SPEC_FULL.md §6's exit code contract: 2 for
// a usage error (bad flags, invalid argument), 1 for everything else
// (I/O, format, runtime failure).
func exitCodeFor(err error) int {
	if isUsageError(err) {
		return 2
	}
	return 1
}
