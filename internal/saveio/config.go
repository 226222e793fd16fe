package saveio

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/talgya/iso-citysim/internal/procgen"
	"github.com/talgya/iso-citysim/internal/simulate"
)

// ProcGenConfig and SimConfig are each written as a length-prefixed binary
// blob (SPEC_FULL.md §4.7's format diagram). encoding/gob is the blob
// codec: both configs are plain exported-field structs (maps included),
// gob round-trips them without a hand-rolled field-by-field encoder for
// every config the generator or simulator ever grows, and every save
// remains self-describing per SPEC_FULL.md §6.
func encodeProcGenConfig(cfg procgen.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode procgen config: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeProcGenConfig(b []byte) (procgen.Config, error) {
	var cfg procgen.Config
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode procgen config: %w", err)
	}
	return cfg, nil
}

func encodeSimConfig(cfg simulate.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode sim config: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSimConfig(b []byte) (simulate.Config, error) {
	var cfg simulate.Config
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode sim config: %w", err)
	}
	return cfg, nil
}
