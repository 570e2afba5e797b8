package cpu

// UnknownOpcode is the sentinel Step returns for the eleven holes in
// the main opcode map. It never fires for conformant code; it exists
// so a harness can stop and point at the offending byte.
const UnknownOpcode = -1

// instruction is the per-step fetch record: the opcode plus the two
// bytes after it, pre-read unconditionally. Operations that need zero
// or one immediate ignore the rest.
type instruction struct {
	opcode uint8
	imm1   uint8
	imm2   uint8
}

// CPU is a cycle-counted SM83 interpreter. It owns the register file
// and borrows the bus for the duration of each Step; it keeps no
// mirror of memory. The zero register file (PC=0) is the power-on
// state.
type CPU struct {
	Regs Registers
	Bus  Bus

	// ime is the interrupt master enable. DI, EI and RETI maintain it,
	// but no delivery is wired yet, so it is bookkeeping only and not
	// part of the architectural snapshot.
	ime bool

	instr  instruction
	cycles int
}

// New returns a CPU wired to the given bus.
func New(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// IME reports the interrupt master enable bookkeeping bit.
func (c *CPU) IME() bool { return c.ime }

// Step executes exactly one instruction: fetch the opcode and both
// immediate bytes, advance PC past the opcode, dispatch, and return
// the m-cycles consumed. Handlers advance PC by their remaining
// operand length and taken branches add their cycle delta. Unknown
// opcodes return UnknownOpcode with PC left after the fetch.
func (c *CPU) Step() int {
	pc := c.Regs.PC
	c.instr.opcode = c.Bus.Read(pc)
	c.instr.imm1 = c.Bus.Read(pc + 1)
	c.instr.imm2 = c.Bus.Read(pc + 2)
	c.Regs.PC++

	if c.instr.opcode == 0xCB {
		c.Regs.PC++
		c.execCB(c.instr.imm1)
		return int(cbCycles[c.instr.imm1])
	}

	c.cycles = int(mainCycles[c.instr.opcode])
	if !c.exec(c.instr.opcode) {
		return UnknownOpcode
	}
	return c.cycles
}

// imm16 composes the two pre-read immediate bytes little-endian.
func (c *CPU) imm16() uint16 {
	return uint16(c.instr.imm2)<<8 | uint16(c.instr.imm1)
}

// signExt widens the 8-bit relative displacement to a PC offset.
func signExt(v uint8) uint16 {
	return uint16(int16(int8(v)))
}

// pushWord writes the high byte at SP-1 and the low byte at SP-2, in
// that order, then lowers SP by two. The ordering is observable on the
// bus and test corpora check it.
func (c *CPU) pushWord(w uint16) {
	c.Bus.Write(c.Regs.SP-1, uint8(w>>8))
	c.Bus.Write(c.Regs.SP-2, uint8(w))
	c.Regs.SP -= 2
}

// popWord reads the low byte at SP and the high byte at SP+1, then
// raises SP by two.
func (c *CPU) popWord() uint16 {
	lo := c.Bus.Read(c.Regs.SP)
	hi := c.Bus.Read(c.Regs.SP + 1)
	c.Regs.SP += 2
	return uint16(hi)<<8 | uint16(lo)
}

// aluA applies one of the eight-way ALU operations (bits 5..3 of the
// block-10 opcodes, reused by the C6/CE/...(n) immediate forms) to A.
func (c *CPU) aluA(sel, v uint8) {
	r := &c.Regs
	var res, f uint8
	switch sel & 0x07 {
	case 0:
		res, f = aluAdd(r.A, v)
	case 1:
		res, f = aluAdc(r.A, v, r.F)
	case 2:
		res, f = aluSub(r.A, v)
	case 3:
		res, f = aluSbc(r.A, v, r.F)
	case 4:
		res, f = aluAnd(r.A, v)
	case 5:
		res, f = aluXor(r.A, v)
	case 6:
		res, f = aluOr(r.A, v)
	case 7:
		r.SetF(aluCp(r.A, v))
		return
	}
	r.A = res
	r.SetF(f)
}

// exec dispatches one main-page opcode. It reports false only for the
// unused encodings. Blocks 01 and 10 share two generic paths in the
// default arm; everything else is listed explicitly, grouped the way
// the encoding groups them.
func (c *CPU) exec(op uint8) bool {
	r := &c.Regs
	switch op {

	// --- block 00 ---

	case 0x00: // NOP

	case 0x10: // STOP: decoded, no low-power behavior modeled

	case 0x01, 0x11, 0x21, 0x31: // LD r16,nn
		c.setR16(op, c.imm16())
		r.PC += 2

	case 0x02, 0x12, 0x22, 0x32: // LD (r16mem),A
		c.Bus.Write(c.r16memAddr(op), r.A)

	case 0x0A, 0x1A, 0x2A, 0x3A: // LD A,(r16mem)
		r.A = c.Bus.Read(c.r16memAddr(op))

	case 0x08: // LD (nn),SP
		addr := c.imm16()
		c.Bus.Write(addr, uint8(r.SP))
		c.Bus.Write(addr+1, uint8(r.SP>>8))
		r.PC += 2

	case 0x03, 0x13, 0x23, 0x33: // INC r16: no flags
		c.setR16(op, c.r16(op)+1)

	case 0x0B, 0x1B, 0x2B, 0x3B: // DEC r16: no flags
		c.setR16(op, c.r16(op)-1)

	case 0x09, 0x19, 0x29, 0x39: // ADD HL,r16
		hl, f := aluAddHL(r.HL(), c.r16(op), r.F)
		r.SetHL(hl)
		r.SetF(f)

	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C: // INC r8
		slot := r8Slot(op >> 3)
		v, f := aluInc(c.readR8(slot), r.F)
		c.writeR8(slot, v)
		r.SetF(f)

	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D: // DEC r8
		slot := r8Slot(op >> 3)
		v, f := aluDec(c.readR8(slot), r.F)
		c.writeR8(slot, v)
		r.SetF(f)

	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E: // LD r8,n
		c.writeR8(r8Slot(op>>3), c.instr.imm1)
		r.PC++

	case 0x07: // RLCA: Z forced clear on the accumulator rotates
		v, f := aluRlc(r.A)
		r.A = v
		r.SetF(f &^ FlagZ)

	case 0x0F: // RRCA
		v, f := aluRrc(r.A)
		r.A = v
		r.SetF(f &^ FlagZ)

	case 0x17: // RLA
		v, f := aluRl(r.A, r.F)
		r.A = v
		r.SetF(f &^ FlagZ)

	case 0x1F: // RRA
		v, f := aluRr(r.A, r.F)
		r.A = v
		r.SetF(f &^ FlagZ)

	case 0x27: // DAA
		v, f := aluDaa(r.A, r.F)
		r.A = v
		r.SetF(f)

	case 0x2F: // CPL
		r.A = ^r.A
		r.SetF(r.F | FlagN | FlagH)

	case 0x37: // SCF
		r.SetF(r.F&FlagZ | FlagC)

	case 0x3F: // CCF
		r.SetF(r.F&FlagZ | (r.F&FlagC)^FlagC)

	case 0x18: // JR e
		r.PC += 1 + signExt(c.instr.imm1)

	case 0x20, 0x28, 0x30, 0x38: // JR cc,e
		r.PC++
		if c.cond(op) {
			r.PC += signExt(c.instr.imm1)
			c.cycles++
		}

	// --- block 01: only the HALT hole is irregular ---

	case 0x76: // HALT: decoded, no low-power behavior modeled

	// --- block 11 ---

	case 0xC1, 0xD1, 0xE1, 0xF1: // POP r16stk
		c.setR16stk(op, c.popWord())

	case 0xC5, 0xD5, 0xE5, 0xF5: // PUSH r16stk
		c.pushWord(c.r16stk(op))

	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE: // ALU A,n
		c.aluA(op>>3, c.instr.imm1)
		r.PC++

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST n
		c.pushWord(r.PC)
		r.PC = uint16(op & 0x38)

	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		if c.cond(op) {
			r.PC = c.popWord()
			c.cycles += 3
		}

	case 0xC9: // RET
		r.PC = c.popWord()

	case 0xD9: // RETI
		r.PC = c.popWord()
		c.ime = true

	case 0xC3: // JP nn
		r.PC = c.imm16()

	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,nn
		r.PC += 2
		if c.cond(op) {
			r.PC = c.imm16()
			c.cycles++
		}

	case 0xCD: // CALL nn: the pushed word is the byte after the call
		r.PC += 2
		c.pushWord(r.PC)
		r.PC = c.imm16()

	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,nn
		r.PC += 2
		if c.cond(op) {
			c.pushWord(r.PC)
			r.PC = c.imm16()
			c.cycles += 3
		}

	case 0xE9: // JP HL
		r.PC = r.HL()

	case 0xE0: // LDH (n),A
		c.Bus.Write(0xFF00+uint16(c.instr.imm1), r.A)
		r.PC++

	case 0xF0: // LDH A,(n)
		r.A = c.Bus.Read(0xFF00 + uint16(c.instr.imm1))
		r.PC++

	case 0xE2: // LDH (C),A
		c.Bus.Write(0xFF00+uint16(r.C), r.A)

	case 0xF2: // LDH A,(C)
		r.A = c.Bus.Read(0xFF00 + uint16(r.C))

	case 0xEA: // LD (nn),A
		c.Bus.Write(c.imm16(), r.A)
		r.PC += 2

	case 0xFA: // LD A,(nn)
		r.A = c.Bus.Read(c.imm16())
		r.PC += 2

	case 0xE8: // ADD SP,e
		sp, f := aluAddSP(r.SP, c.instr.imm1)
		r.SP = sp
		r.SetF(f)
		r.PC++

	case 0xF8: // LD HL,SP+e
		hl, f := aluAddSP(r.SP, c.instr.imm1)
		r.SetHL(hl)
		r.SetF(f)
		r.PC++

	case 0xF9: // LD SP,HL
		r.SP = r.HL()

	case 0xF3: // DI
		c.ime = false

	case 0xFB: // EI
		c.ime = true

	default:
		switch op >> 6 {
		case 1: // LD r8,r8 (0x76 is HALT, handled above)
			c.writeR8(r8Slot(op>>3), c.readR8(r8Slot(op)))
		case 2: // ALU A,r8
			c.aluA(op>>3, c.readR8(r8Slot(op)))
		default:
			return false
		}
	}
	return true
}

// execCB runs one CB-page opcode. The byte partitions into a family
// (top two bits), a rotate selector or bit index (bits 5..3) and the
// target slot (bits 2..0), where (b&7)==6 uniformly means (HL).
func (c *CPU) execCB(b uint8) {
	r := &c.Regs
	slot := r8Slot(b)
	switch b >> 6 {
	case 0: // rotate / shift / swap
		v := c.readR8(slot)
		var res, f uint8
		switch (b >> 3) & 0x07 {
		case 0:
			res, f = aluRlc(v)
		case 1:
			res, f = aluRrc(v)
		case 2:
			res, f = aluRl(v, r.F)
		case 3:
			res, f = aluRr(v, r.F)
		case 4:
			res, f = aluSla(v)
		case 5:
			res, f = aluSra(v)
		case 6:
			res, f = aluSwap(v)
		case 7:
			res, f = aluSrl(v)
		}
		c.writeR8(slot, res)
		r.SetF(f)
	case 1: // BIT n: flags only, target untouched
		r.SetF(aluBit(c.readR8(slot), (b>>3)&0x07, r.F))
	case 2: // RES n
		c.writeR8(slot, c.readR8(slot)&^(1<<((b>>3)&0x07)))
	case 3: // SET n
		c.writeR8(slot, c.readR8(slot)|1<<((b>>3)&0x07))
	}
}
