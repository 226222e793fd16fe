package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/procgen"
)

func TestWriteTicksCSVProducesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.csv")

	history := []cityworld.Stats{{Day: 0, Money: 1000}, {Day: 1, Money: 950}}
	require.NoError(t, WriteTicksCSV(path, history))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "day,population,money")
	require.Contains(t, string(data), "0,0,1000")
	require.Contains(t, string(data), "1,0,950")
}

func TestWriteTileMetricsCSVCoversEveryTile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.csv")

	w := procgen.Generate(8, 8, 4, procgen.Default())
	require.NoError(t, WriteTileMetricsCSV(path, w))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := countLines(string(data))
	require.Equal(t, 1+8*8, lines, "expected a header row plus one row per tile")
}

func TestRenderPPMRejectsUnsupportedLayer(t *testing.T) {
	dir := t.TempDir()
	w := procgen.Generate(4, 4, 1, procgen.Default())
	err := RenderPPM(filepath.Join(dir, "out.ppm"), w, "solar_potential", LayerFields{})
	require.Error(t, err)
}

func TestRenderPPMWritesExpectedByteLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terrain.ppm")
	w := procgen.Generate(6, 5, 2, procgen.Default())
	require.NoError(t, RenderPPM(path, w, "terrain", LayerFields{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	header := "P6\n6 5\n255\n"
	require.True(t, len(data) > len(header))
	require.Equal(t, len(header)+6*5*3, len(data))
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
