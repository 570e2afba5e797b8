package cpu

// The SM83 encoding is block-structured: the top two opcode bits pick
// a block, and small sub-fields inside the byte select registers,
// conditions and ALU operations. The helpers here pin down those
// sub-field decodings in one place.

// R8 names one slot of the 3-bit register-select field. Index 6 is the
// (HL) indirection: reads and writes for that slot go through the bus
// at the address in HL, which is why slot access lives on the CPU and
// not on Registers.
type R8 uint8

const (
	RegB R8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	IndHL
	RegA
)

// r8Slot extracts a register slot from the low three bits of a field.
// Callers shift the opcode first when the field sits at bits 5..3.
func r8Slot(bits uint8) R8 { return R8(bits & 0x07) }

// Condition codes, bits 4..3 of the conditional-branch opcodes.
const (
	condNZ = iota
	condZ
	condNC
	condC
)

func (c *CPU) readR8(slot R8) uint8 {
	r := &c.Regs
	switch slot {
	case RegB:
		return r.B
	case RegC:
		return r.C
	case RegD:
		return r.D
	case RegE:
		return r.E
	case RegH:
		return r.H
	case RegL:
		return r.L
	case IndHL:
		return c.Bus.Read(r.HL())
	case RegA:
		return r.A
	}
	panic("cpu: register slot out of range")
}

func (c *CPU) writeR8(slot R8, v uint8) {
	r := &c.Regs
	switch slot {
	case RegB:
		r.B = v
	case RegC:
		r.C = v
	case RegD:
		r.D = v
	case RegE:
		r.E = v
	case RegH:
		r.H = v
	case RegL:
		r.L = v
	case IndHL:
		c.Bus.Write(r.HL(), v)
	case RegA:
		r.A = v
	default:
		panic("cpu: register slot out of range")
	}
}

// r16 reads the {BC,DE,HL,SP} group selected by bits 5..4 of the
// opcode (LD r16,nn / INC / DEC / ADD HL).
func (c *CPU) r16(op uint8) uint16 {
	switch (op >> 4) & 0x03 {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		return c.Regs.HL()
	default:
		return c.Regs.SP
	}
}

func (c *CPU) setR16(op uint8, v uint16) {
	switch (op >> 4) & 0x03 {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		c.Regs.SetHL(v)
	default:
		c.Regs.SP = v
	}
}

// r16stk is the PUSH/POP group: AF takes SP's place at index 3.
func (c *CPU) r16stk(op uint8) uint16 {
	switch (op >> 4) & 0x03 {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		return c.Regs.HL()
	default:
		return c.Regs.AF()
	}
}

func (c *CPU) setR16stk(op uint8, v uint16) {
	switch (op >> 4) & 0x03 {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		c.Regs.SetHL(v)
	default:
		c.Regs.SetAF(v)
	}
}

// r16memAddr resolves the block-00 (r16mem) addressing group
// {BC,DE,HL+,HL-}. The selector is strictly bits 5..4 — masking wider
// than two bits reads garbage from bits 6..7. For the HL+/HL- forms
// the post-increment/decrement is applied here, after the address is
// taken.
func (c *CPU) r16memAddr(op uint8) uint16 {
	switch (op >> 4) & 0x03 {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		addr := c.Regs.HL()
		c.Regs.SetHL(addr + 1)
		return addr
	default:
		addr := c.Regs.HL()
		c.Regs.SetHL(addr - 1)
		return addr
	}
}

// cond evaluates the condition-code field of a conditional branch.
func (c *CPU) cond(op uint8) bool {
	switch (op >> 3) & 0x03 {
	case condNZ:
		return !c.Regs.Flag(FlagZ)
	case condZ:
		return c.Regs.Flag(FlagZ)
	case condNC:
		return !c.Regs.Flag(FlagC)
	default:
		return c.Regs.Flag(FlagC)
	}
}
