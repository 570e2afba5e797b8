// Package harness runs the per-opcode conformance corpus against the
// CPU core: load a register+RAM snapshot, execute exactly one
// instruction, and read the machine back.
package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/oisee/sm83/pkg/cpu"
)

// Case mirrors one object of the corpus: a name plus the machine state
// before and after a single instruction.
type Case struct {
	Name    string `json:"name"`
	Initial State  `json:"initial"`
	Final   State  `json:"final"`
}

// State is the corpus's register layout: individual byte registers and
// sparse RAM as [address, byte] pairs. 16-bit registers arrive split
// into their halves and are recomposed little-endian.
type State struct {
	PC  uint16      `json:"pc"`
	SP  uint16      `json:"sp"`
	A   uint8       `json:"a"`
	B   uint8       `json:"b"`
	C   uint8       `json:"c"`
	D   uint8       `json:"d"`
	E   uint8       `json:"e"`
	F   uint8       `json:"f"`
	H   uint8       `json:"h"`
	L   uint8       `json:"l"`
	RAM [][2]uint16 `json:"ram"`
}

// Snapshot converts the corpus state into the core's snapshot form.
// The flag byte is passed through as-is; masking its low nibble is the
// core's job.
func (s *State) Snapshot() cpu.Snapshot {
	out := cpu.Snapshot{
		PC: s.PC,
		SP: s.SP,
		AF: uint16(s.A)<<8 | uint16(s.F),
		BC: uint16(s.B)<<8 | uint16(s.C),
		DE: uint16(s.D)<<8 | uint16(s.E),
		HL: uint16(s.H)<<8 | uint16(s.L),
	}
	if len(s.RAM) > 0 {
		out.Mem = make([]cpu.MemCell, 0, len(s.RAM))
		for _, pair := range s.RAM {
			out.Mem = append(out.Mem, cpu.MemCell{Addr: pair[0], Val: uint8(pair[1])})
		}
	}
	return out
}

// Load decodes a corpus file: a JSON array of cases.
func Load(r io.Reader) ([]Case, error) {
	var cases []Case
	if err := json.NewDecoder(r).Decode(&cases); err != nil {
		return nil, fmt.Errorf("harness: decoding corpus: %w", err)
	}
	return cases, nil
}

// LoadFile loads a corpus from disk.
func LoadFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("harness: opening corpus: %w", err)
	}
	defer f.Close()
	return Load(f)
}
