package saveio

import (
	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/simulate"
)

// EventKind tags one record in a replay's event stream (SPEC_FULL.md §6:
// u8 tag {0=Tick,1=Patch,2=Snapshot,3=Note,4=AssertHash}).
type EventKind uint8

const (
	EventTick EventKind = iota
	EventPatch
	EventSnapshot
	EventNote
	EventAssertHash
)

// Patch is a sparse update applied during replay: config deltas plus a
// tile delta list, mirroring the delta-save encoding in save.go.
type Patch struct {
	ProcGenConfig *procgen.Config // nil if unchanged
	SimConfig     *simulate.Config
	TileDeltas    []tileDelta
}

// Event is one record of a replay's ordered journal.
type Event struct {
	Kind EventKind

	// EventTick
	TickCount int

	// EventPatch
	Patch Patch

	// EventSnapshot
	Snapshot *cityworld.World

	// EventNote
	Note string

	// EventAssertHash
	ExpectedHash  uint64
	AssertLabel   string
	IncludeStats  bool
}

// Replay is an embedded base save plus an ordered event stream.
type Replay struct {
	BaseSave []byte // a full encoded save, as produced by EncodeWorld
	Events   []Event
}

// PlaybackOptions controls how Play reacts to AssertHash mismatches.
type PlaybackOptions struct {
	// IgnoreAsserts downgrades AssertHash failures to warnings returned by
	// Play instead of aborting playback (SPEC_FULL.md §4.7).
	IgnoreAsserts bool
}

// AssertFailure describes one AssertHash mismatch encountered during Play.
type AssertFailure struct {
	Label    string
	Expected uint64
	Actual   uint64
}

func (f AssertFailure) Error() string {
	return "replay assertion \"" + f.Label + "\" failed: expected hash mismatch"
}

// Play replays r's event stream against the decoded base save in strict
// order, returning the resulting world. In strict mode (IgnoreAsserts ==
// false) any Tile-hash mismatch in an AssertHash event aborts playback and
// returns an AssertFailure; with IgnoreAsserts the mismatch is recorded in
// the returned slice but playback continues.
func Play(r *Replay, opts PlaybackOptions) (*cityworld.World, []AssertFailure, error) {
	decoded, err := DecodeWorld(r.BaseSave)
	if err != nil {
		return nil, nil, err
	}
	w := decoded.World
	simCfg := decoded.SimConfig
	var warnings []AssertFailure

	for _, ev := range r.Events {
		switch ev.Kind {
		case EventTick:
			st := simulate.NewState(w)
			for i := 0; i < ev.TickCount; i++ {
				simulate.StepOnce(w, simCfg, st)
			}
		case EventPatch:
			if ev.Patch.SimConfig != nil {
				simCfg = *ev.Patch.SimConfig
			}
			for _, d := range ev.Patch.TileDeltas {
				if d.idx >= 0 && d.idx < len(w.Tiles) {
					w.Tiles[d.idx] = d.tile
				}
			}
			w.RecomputeRoadMasks()
		case EventSnapshot:
			if ev.Snapshot != nil {
				w = ev.Snapshot.Clone()
			}
		case EventNote:
			// Notes are informational only; nothing to apply.
		case EventAssertHash:
			actual := cityworld.HashWorld(w, ev.IncludeStats)
			if actual != ev.ExpectedHash {
				failure := AssertFailure{Label: ev.AssertLabel, Expected: ev.ExpectedHash, Actual: actual}
				if !opts.IgnoreAsserts {
					return w, warnings, failure
				}
				warnings = append(warnings, failure)
			}
		}
	}

	return w, warnings, nil
}

// EncodeReplay serializes r into the .isoreplay wire format: magic,
// version, the embedded base save (length-prefixed), then each event
// tagged by its one-byte kind.
func EncodeReplay(r *Replay) []byte {
	var buf []byte
	buf = append(buf, ReplayMagic[:]...)
	buf = appendUint32(buf, CurrentVersion)
	buf = appendBlob(buf, r.BaseSave)
	buf = appendUint32(buf, uint32(len(r.Events)))
	for _, ev := range r.Events {
		buf = append(buf, byte(ev.Kind))
		switch ev.Kind {
		case EventTick:
			buf = appendUint32(buf, uint32(ev.TickCount))
		case EventPatch:
			buf = appendPatch(buf, ev.Patch)
		case EventSnapshot:
			snapBytes, _ := EncodeWorld(ev.Snapshot, SaveOptions{Version: VersionFullNoCRC}, simulate.Default())
			buf = appendBlob(buf, snapBytes)
		case EventNote:
			buf = appendBlob(buf, []byte(ev.Note))
		case EventAssertHash:
			buf = appendUint64(buf, ev.ExpectedHash)
			buf = appendBlob(buf, []byte(ev.AssertLabel))
			if ev.IncludeStats {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

func appendPatch(buf []byte, p Patch) []byte {
	if p.ProcGenConfig != nil {
		blob, _ := encodeProcGenConfig(*p.ProcGenConfig)
		buf = append(buf, 1)
		buf = appendBlob(buf, blob)
	} else {
		buf = append(buf, 0)
	}
	if p.SimConfig != nil {
		blob, _ := encodeSimConfig(*p.SimConfig)
		buf = append(buf, 1)
		buf = appendBlob(buf, blob)
	} else {
		buf = append(buf, 0)
	}
	buf = appendUint32(buf, uint32(len(p.TileDeltas)))
	for _, d := range p.TileDeltas {
		buf = appendUint32(buf, uint32(d.idx))
		tb := encodeTile(d.tile)
		buf = append(buf, tb[:]...)
	}
	return buf
}

// DecodeReplay reverses EncodeReplay.
func DecodeReplay(data []byte) (*Replay, error) {
	c := newCursor(data)
	magic := c.bytes(8)
	if c.err != nil {
		return nil, c.err
	}
	if string(magic) != string(ReplayMagic[:]) {
		return nil, cityworld.NewFormatError("bad replay magic")
	}
	_ = c.uint32() // version
	baseSave := c.blob()
	if c.err != nil {
		return nil, c.err
	}

	r := &Replay{BaseSave: append([]byte(nil), baseSave...)}
	count := c.uint32()
	for i := uint32(0); i < count && c.err == nil; i++ {
		kind := EventKind(c.byte())
		ev := Event{Kind: kind}
		switch kind {
		case EventTick:
			ev.TickCount = int(c.uint32())
		case EventPatch:
			ev.Patch = decodePatch(c)
		case EventSnapshot:
			snapBytes := c.blob()
			if c.err == nil {
				decoded, err := DecodeWorld(snapBytes)
				if err != nil {
					return nil, err
				}
				ev.Snapshot = decoded.World
			}
		case EventNote:
			noteBytes := c.blob()
			ev.Note = string(noteBytes)
		case EventAssertHash:
			ev.ExpectedHash = c.uint64()
			labelBytes := c.blob()
			ev.AssertLabel = string(labelBytes)
			ev.IncludeStats = c.byte() != 0
		default:
			return nil, cityworld.NewFormatError("unknown replay event kind")
		}
		r.Events = append(r.Events, ev)
	}
	if c.err != nil {
		return nil, c.err
	}
	return r, nil
}

func decodePatch(c *cursor) Patch {
	var p Patch
	if c.byte() != 0 {
		blob := c.blob()
		if c.err == nil {
			cfg, err := decodeProcGenConfig(blob)
			if err == nil {
				p.ProcGenConfig = &cfg
			}
		}
	}
	if c.byte() != 0 {
		blob := c.blob()
		if c.err == nil {
			cfg, err := decodeSimConfig(blob)
			if err == nil {
				p.SimConfig = &cfg
			}
		}
	}
	n := c.uint32()
	for i := uint32(0); i < n; i++ {
		idx := int(c.uint32())
		t := c.tile()
		p.TileDeltas = append(p.TileDeltas, tileDelta{idx: idx, tile: t})
	}
	return p
}
