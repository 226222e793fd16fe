package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/talgya/iso-citysim/internal/cityworld"
)

// isUsageError reports whether err stems from caller-supplied bad input
// (InvalidArgument) rather than a runtime I/O/format failure.
func isUsageError(err error) bool {
	var engineErr *cityworld.EngineError
	if errors.As(err, &engineErr) {
		return engineErr.Kind == cityworld.InvalidArgument
	}
	return false
}

// parseSize parses a "WxH" flag value into width/height.
func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, cityworld.NewInvalidArgument(fmt.Sprintf("--size must be WxH, got %q", s))
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w <= 0 {
		return 0, 0, cityworld.NewInvalidArgument(fmt.Sprintf("invalid width in --size %q", s))
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h <= 0 {
		return 0, 0, cityworld.NewInvalidArgument(fmt.Sprintf("invalid height in --size %q", s))
	}
	return w, h, nil
}

// pathFields is the set of substitution values expandPath recognizes, per
// SPEC_FULL.md §6's "{seed} {w} {h} {day} {money} {hash} {run}" template.
type pathFields struct {
	Seed  uint64
	W, H  int
	Day   int
	Money int64
	Hash  uint64
	Run   string
}

// expandPath substitutes every {field} placeholder in template against the
// final world state, so a caller can write e.g.
// "out/{seed}-day{day}-{hash}.isosave" and get one distinct file per run.
func expandPath(template string, f pathFields) string {
	replacer := strings.NewReplacer(
		"{seed}", strconv.FormatUint(f.Seed, 10),
		"{w}", strconv.Itoa(f.W),
		"{h}", strconv.Itoa(f.H),
		"{day}", strconv.Itoa(f.Day),
		"{money}", strconv.FormatInt(f.Money, 10),
		"{hash}", strconv.FormatUint(f.Hash, 16),
		"{run}", f.Run,
	)
	return replacer.Replace(template)
}

// ppmSpec is one parsed --export-ppm flag value, "layer:path".
type ppmSpec struct {
	Layer, Path string
}

func parsePPMSpecs(raw []string) ([]ppmSpec, error) {
	specs := make([]ppmSpec, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(r, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, cityworld.NewInvalidArgument(fmt.Sprintf("--export-ppm must be layer:path, got %q", r))
		}
		specs = append(specs, ppmSpec{Layer: parts[0], Path: parts[1]})
	}
	return specs, nil
}
