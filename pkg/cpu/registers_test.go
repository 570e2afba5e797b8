package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPairs(t *testing.T) {
	var r Registers
	r.SetBC(0x1234)
	assert.Equal(t, uint8(0x12), r.B)
	assert.Equal(t, uint8(0x34), r.C)
	assert.Equal(t, uint16(0x1234), r.BC())

	r.SetDE(0xBEEF)
	r.SetHL(0xCAFE)
	assert.Equal(t, uint16(0xBEEF), r.DE())
	assert.Equal(t, uint16(0xCAFE), r.HL())
}

func TestAFMasksLowNibble(t *testing.T) {
	var r Registers
	r.SetAF(0x12FF)
	assert.Equal(t, uint8(0x12), r.A)
	assert.Equal(t, uint8(0xF0), r.F)
	assert.Equal(t, uint16(0x12F0), r.AF())

	r.SetF(0xAB)
	assert.Equal(t, uint8(0xA0), r.F)
}

func TestFlagHelpers(t *testing.T) {
	var r Registers
	r.SetZNHC(true, false, true, false)
	assert.Equal(t, uint8(FlagZ|FlagH), r.F)
	assert.True(t, r.Flag(FlagZ))
	assert.False(t, r.Flag(FlagC))

	r.SetFlag(FlagC, true)
	assert.Equal(t, uint8(FlagZ|FlagH|FlagC), r.F)
	r.SetFlag(FlagZ, false)
	assert.Equal(t, uint8(FlagH|FlagC), r.F)
}
