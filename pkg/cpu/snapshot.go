package cpu

import (
	"encoding/gob"
	"os"
)

// MemCell is one (address, byte) pair of a snapshot's sparse memory
// list.
type MemCell struct {
	Addr uint16
	Val  uint8
}

// Snapshot captures the architectural registers plus a sparse list of
// memory bytes. It is the currency of the conformance harness: load
// one, step once, compare against another.
type Snapshot struct {
	PC, SP, AF, BC, DE, HL uint16
	Mem                    []MemCell
}

// SetState loads the snapshot: registers first, then every memory pair
// through the bus. The AF word goes through the masking accessor, so a
// flag byte with junk in its low nibble loads clean.
func (c *CPU) SetState(s Snapshot) {
	r := &c.Regs
	r.PC = s.PC
	r.SP = s.SP
	r.SetAF(s.AF)
	r.SetBC(s.BC)
	r.SetDE(s.DE)
	r.SetHL(s.HL)
	for _, m := range s.Mem {
		c.Bus.Write(m.Addr, m.Val)
	}
}

// CompareState reports whether every register matches the snapshot and
// every address on its memory list reads back the listed byte.
func (c *CPU) CompareState(s Snapshot) bool {
	r := &c.Regs
	if r.PC != s.PC || r.SP != s.SP ||
		r.AF() != s.AF || r.BC() != s.BC || r.DE() != s.DE || r.HL() != s.HL {
		return false
	}
	for _, m := range s.Mem {
		if c.Bus.Read(m.Addr) != m.Val {
			return false
		}
	}
	return true
}

// StateForDebug returns the current CPU as a snapshot, with the memory
// list re-sampled at the addresses the given snapshot names. Handy for
// printing got-vs-want when a conformance case fails.
func (c *CPU) StateForDebug(want Snapshot) Snapshot {
	r := &c.Regs
	out := Snapshot{
		PC: r.PC,
		SP: r.SP,
		AF: r.AF(),
		BC: r.BC(),
		DE: r.DE(),
		HL: r.HL(),
	}
	if len(want.Mem) > 0 {
		out.Mem = make([]MemCell, 0, len(want.Mem))
		for _, m := range want.Mem {
			out.Mem = append(out.Mem, MemCell{Addr: m.Addr, Val: c.Bus.Read(m.Addr)})
		}
	}
	return out
}

// SaveState is a full machine save: the register file, the IME bit and
// a complete image of the 64 KiB address space as the bus presents it.
type SaveState struct {
	Regs Registers
	IME  bool
	Mem  []uint8
}

// Save captures the machine and gob-encodes it to path. The memory
// image is read through the bus, one byte per address.
func (c *CPU) Save(path string) error {
	st := SaveState{Regs: c.Regs, IME: c.ime, Mem: make([]uint8, 0x10000)}
	for addr := 0; addr < 0x10000; addr++ {
		st.Mem[addr] = c.Bus.Read(uint16(addr))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(&st)
}

// Restore loads a save written by Save, writing the memory image back
// through the bus before restoring registers.
func (c *CPU) Restore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var st SaveState
	if err := gob.NewDecoder(f).Decode(&st); err != nil {
		return err
	}
	for addr, v := range st.Mem {
		c.Bus.Write(uint16(addr), v)
	}
	c.Regs = st.Regs
	c.Regs.SetF(st.Regs.F)
	c.ime = st.IME
	return nil
}
