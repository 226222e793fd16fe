package saveio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/simulate"
)

func testWorld(t *testing.T) (*cityworld.World, procgen.Config) {
	t.Helper()
	cfg := procgen.Default()
	w := procgen.Generate(24, 24, 7, cfg)
	st := simulate.NewState(w)
	for i := 0; i < 5; i++ {
		simulate.StepOnce(w, simulate.Default(), st)
	}
	return w, cfg
}

func TestSaveRoundTripFull(t *testing.T) {
	w, cfg := testWorld(t)
	data, err := EncodeWorld(w, SaveOptions{Version: VersionFullNoCRC, ProcGenConfig: cfg}, simulate.Default())
	require.NoError(t, err)

	decoded, err := DecodeWorld(data)
	require.NoError(t, err)
	require.Equal(t, cityworld.HashWorld(w, true), cityworld.HashWorld(decoded.World, true))
}

func TestSaveRoundTripDeltaCRC(t *testing.T) {
	w, cfg := testWorld(t)
	data, err := EncodeWorld(w, SaveOptions{Version: CurrentVersion, ProcGenConfig: cfg}, simulate.Default())
	require.NoError(t, err)

	decoded, err := DecodeWorld(data)
	require.NoError(t, err)
	require.Equal(t, cityworld.HashWorld(w, true), cityworld.HashWorld(decoded.World, true))
}

func TestDeltaEquivalentToFull(t *testing.T) {
	w, cfg := testWorld(t)

	full, err := EncodeWorld(w, SaveOptions{Version: VersionFullNoCRC, ProcGenConfig: cfg}, simulate.Default())
	require.NoError(t, err)
	delta, err := EncodeWorld(w, SaveOptions{Version: VersionDeltaNoCRC, ProcGenConfig: cfg}, simulate.Default())
	require.NoError(t, err)

	decodedFull, err := DecodeWorld(full)
	require.NoError(t, err)
	decodedDelta, err := DecodeWorld(delta)
	require.NoError(t, err)

	require.Equal(t, decodedFull.World.Tiles, decodedDelta.World.Tiles)
	require.Less(t, len(delta), len(full), "a delta save of a mostly-default city should be much smaller than a full save")
}

func TestCRCRejectsCorruption(t *testing.T) {
	w, cfg := testWorld(t)
	data, err := EncodeWorld(w, SaveOptions{Version: CurrentVersion, ProcGenConfig: cfg}, simulate.Default())
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	corrupt[42] ^= 0xFF

	_, err = DecodeWorld(corrupt)
	require.Error(t, err)
	var engineErr *cityworld.EngineError
	require.ErrorAs(t, err, &engineErr)
	require.Equal(t, cityworld.FormatError, engineErr.Kind)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	bad := make([]byte, 32)
	_, err := DecodeWorld(bad)
	require.Error(t, err)
}

func TestBlueprintRoundTripAndTransform(t *testing.T) {
	w, _ := testWorld(t)
	bp := NewBlueprintFromRect(w, 2, 2, 6, 6, FieldAll)
	data := EncodeBlueprint(bp)
	decoded, err := DecodeBlueprint(data)
	require.NoError(t, err)
	require.Equal(t, bp.Tiles, decoded.Tiles)

	dst := procgen.Generate(24, 24, 7, procgen.Default())
	applied := decoded.Apply(dst, 10, 10, Replace, Transform{RotateDeg: 90})
	require.Greater(t, applied, 0)
}

func TestReplayEquivalence(t *testing.T) {
	w, cfg := testWorld(t)
	base, err := EncodeWorld(w, SaveOptions{Version: CurrentVersion, ProcGenConfig: cfg}, simulate.Default())
	require.NoError(t, err)

	target := w.Clone()
	st := simulate.NewState(target)
	for i := 0; i < 10; i++ {
		simulate.StepOnce(target, simulate.Default(), st)
	}
	targetHash := cityworld.HashWorld(target, true)

	replay := &Replay{
		BaseSave: base,
		Events: []Event{
			{Kind: EventTick, TickCount: 10},
			{Kind: EventAssertHash, ExpectedHash: targetHash, AssertLabel: "day-10", IncludeStats: true},
		},
	}

	encoded := EncodeReplay(replay)
	decodedReplay, err := DecodeReplay(encoded)
	require.NoError(t, err)

	result, warnings, err := Play(decodedReplay, PlaybackOptions{})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, targetHash, cityworld.HashWorld(result, true))
}
