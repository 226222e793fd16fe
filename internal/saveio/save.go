package saveio

import (
	"os"

	"github.com/talgya/iso-citysim/internal/cityworld"
	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/simulate"
)

// SaveOptions controls how EncodeWorld lays out a save.
type SaveOptions struct {
	// Version selects the on-disk layout. VersionFullNoCRC writes every
	// tile; VersionDeltaNoCRC and VersionDeltaCRC write only tiles that
	// differ from a baseline regenerated from (seed, width, height,
	// ProcGenConfig) — the generator is pure, so the baseline never needs
	// to be stored. Versions below VersionDeltaCRC omit the trailing CRC.
	Version uint32
	// ProcGenConfig is stored inline (every save is self-describing,
	// SPEC_FULL.md §6) and, for delta versions, is also the baseline the
	// delta is computed against.
	ProcGenConfig procgen.Config
}

// DefaultSaveOptions writes the current version (delta + CRC).
func DefaultSaveOptions(cfg procgen.Config) SaveOptions {
	return SaveOptions{Version: CurrentVersion, ProcGenConfig: cfg}
}

// EncodeWorld serializes w into the binary save format of SPEC_FULL.md
// §4.7: header, inline ProcGenConfig and SimConfig blobs, packed Stats,
// then either a full tile array (v1) or a delta list against a
// regenerated baseline (v2+), with a trailing CRC32 for v3+.
func EncodeWorld(w *cityworld.World, opts SaveOptions, simCfg simulate.Config) ([]byte, error) {
	procBlob, err := encodeProcGenConfig(opts.ProcGenConfig)
	if err != nil {
		return nil, err
	}
	simBlob, err := encodeSimConfig(simCfg)
	if err != nil {
		return nil, err
	}
	return encodeWorldWithBlobs(w, opts, procBlob, simBlob)
}

func encodeWorldWithBlobs(w *cityworld.World, opts SaveOptions, procBlob, simBlob []byte) ([]byte, error) {
	version := opts.Version
	if version == 0 {
		version = CurrentVersion
	}

	var buf []byte
	buf = append(buf, Magic[:]...)
	buf = appendUint32(buf, version)
	buf = appendUint32(buf, uint32(w.Width))
	buf = appendUint32(buf, uint32(w.Height))
	buf = appendUint64(buf, w.SeedValue)
	buf = appendBlob(buf, procBlob)
	buf = appendBlob(buf, simBlob)
	buf = append(buf, encodeStats(w.Stats)...)

	if version == VersionFullNoCRC {
		for _, t := range w.Tiles {
			tb := encodeTile(t)
			buf = append(buf, tb[:]...)
		}
	} else {
		baseline := procgen.Generate(w.Width, w.Height, w.SeedValue, opts.ProcGenConfig)
		deltas := diffTiles(baseline, w)
		buf = appendUint32(buf, uint32(len(deltas)))
		for _, d := range deltas {
			buf = appendUint32(buf, uint32(d.idx))
			tb := encodeTile(d.tile)
			buf = append(buf, tb[:]...)
		}
	}

	if version >= VersionDeltaCRC {
		buf = appendUint32(buf, crcOf(buf))
	}
	return buf, nil
}

type tileDelta struct {
	idx  int
	tile cityworld.Tile
}

func diffTiles(baseline, w *cityworld.World) []tileDelta {
	var out []tileDelta
	for i := range w.Tiles {
		if w.Tiles[i] != baseline.Tiles[i] {
			out = append(out, tileDelta{idx: i, tile: w.Tiles[i]})
		}
	}
	return out
}

// DecodedWorld is the result of DecodeWorld (and ReadFile): the reconstructed world
// plus the inline configs every save carries (SPEC_FULL.md §6: a save is
// self-describing and replayable without external metadata).
type DecodedWorld struct {
	World         *cityworld.World
	ProcGenConfig procgen.Config
	SimConfig     simulate.Config
	Version       uint32
}

// DecodeWorld parses the binary save format, verifying magic, version,
// and (for v3+) the trailing CRC32 before touching tile data. Any
// malformed input yields a *cityworld.EngineError with Kind == FormatError,
// never a panic (SPEC_FULL.md §7).
func DecodeWorld(data []byte) (*DecodedWorld, error) {
	if len(data) < 12 {
		return nil, cityworld.NewFormatError("truncated stream")
	}
	if version := getUint32(data[8:12]); version >= VersionDeltaCRC {
		if len(data) < 4 {
			return nil, cityworld.NewFormatError("truncated stream")
		}
		body := data[:len(data)-4]
		want := getUint32(data[len(data)-4:])
		if crcOf(body) != want {
			return nil, cityworld.NewFormatError("crc mismatch")
		}
		data = body
	}

	c := newCursor(data)
	magic := c.bytes(8)
	if c.err != nil {
		return nil, c.err
	}
	if string(magic) != string(Magic[:]) {
		return nil, cityworld.NewFormatError("bad magic")
	}
	version := c.uint32()
	width := int(c.uint32())
	height := int(c.uint32())
	seed := c.uint64()
	procBlob := c.blob()
	simBlob := c.blob()
	if c.err != nil {
		return nil, c.err
	}
	if version == 0 || version > CurrentVersion {
		return nil, cityworld.NewFormatError("unsupported version")
	}

	procCfg, err := decodeProcGenConfig(procBlob)
	if err != nil {
		return nil, cityworld.NewFormatError("bad procgen config blob: " + err.Error())
	}
	simCfg, err := decodeSimConfig(simBlob)
	if err != nil {
		return nil, cityworld.NewFormatError("bad sim config blob: " + err.Error())
	}

	stats := decodeStats(c)
	if c.err != nil {
		return nil, c.err
	}

	var w *cityworld.World
	if version == VersionFullNoCRC {
		w = cityworld.NewWorld(width, height, seed)
		for i := range w.Tiles {
			w.Tiles[i] = c.tile()
		}
		if c.err != nil {
			return nil, c.err
		}
	} else {
		w = procgen.Generate(width, height, seed, procCfg)
		if w.Width != width || w.Height != height {
			return nil, cityworld.NewFormatError("baseline dimension mismatch")
		}
		count := c.uint32()
		for i := uint32(0); i < count; i++ {
			idx := int(c.uint32())
			t := c.tile()
			if c.err != nil {
				return nil, c.err
			}
			if idx < 0 || idx >= len(w.Tiles) {
				return nil, cityworld.NewFormatError("delta index out of range")
			}
			w.Tiles[idx] = t
		}
		if c.err != nil {
			return nil, c.err
		}
	}
	w.Stats = stats

	return &DecodedWorld{World: w, ProcGenConfig: procCfg, SimConfig: simCfg, Version: version}, nil
}

// WriteFile writes a save encoded by EncodeWorld to path, flushing and
// closing before returning (transactional at the call boundary,
// SPEC_FULL.md §5).
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cityworld.NewIoError(path, err)
	}
	return nil
}

// ReadFile reads a save file and decodes it.
func ReadFile(path string) (*DecodedWorld, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cityworld.NewIoError(path, err)
	}
	return DecodeWorld(data)
}
