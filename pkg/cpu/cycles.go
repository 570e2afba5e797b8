package cpu

// mainCycles holds the base m-cycle cost of every main-page opcode.
// Conditional branches carry their untaken cost here; Step adds the
// taken delta (+1 for JR cc and JP cc, +3 for CALL cc and RET cc).
// Entry 0xCB is the prefix byte itself; CB-page costs come from
// cbCycles. The unused encodings hold zero and are never charged.
var mainCycles = [256]uint8{
	// 0x0_
	1, 3, 2, 2, 1, 1, 2, 1, 5, 2, 2, 2, 1, 1, 2, 1,
	// 0x1_
	1, 3, 2, 2, 1, 1, 2, 1, 3, 2, 2, 2, 1, 1, 2, 1,
	// 0x2_
	2, 3, 2, 2, 1, 1, 2, 1, 2, 2, 2, 2, 1, 1, 2, 1,
	// 0x3_
	2, 3, 2, 2, 3, 3, 3, 1, 2, 2, 2, 2, 1, 1, 2, 1,
	// 0x4_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0x5_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0x6_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0x7_
	2, 2, 2, 2, 2, 2, 1, 2, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0x8_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0x9_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0xA_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0xB_
	1, 1, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1, 1, 1, 2, 1,
	// 0xC_
	2, 3, 3, 4, 3, 4, 2, 4, 2, 4, 3, 1, 3, 6, 2, 4,
	// 0xD_
	2, 3, 3, 0, 3, 4, 2, 4, 2, 4, 3, 0, 3, 0, 2, 4,
	// 0xE_
	3, 3, 2, 0, 0, 4, 2, 4, 4, 1, 4, 0, 0, 0, 2, 4,
	// 0xF_
	3, 3, 2, 1, 0, 4, 2, 4, 3, 2, 4, 1, 0, 0, 2, 4,
}

// cbCycles holds the full cost of every CB-page opcode: 2 m-cycles for
// register targets, 4 for the (HL) forms, except BIT n,(HL) which only
// reads and costs 3.
var cbCycles [256]uint8

func init() {
	for b := 0; b < 256; b++ {
		cbCycles[b] = 2
		if b&0x07 == 0x06 {
			if b>>6 == 1 {
				cbCycles[b] = 3
			} else {
				cbCycles[b] = 4
			}
		}
	}
}
