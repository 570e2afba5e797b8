package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const corpus = `[
  {
    "name": "00 0100",
    "initial": {"pc": 256, "sp": 65534, "a": 1, "b": 0, "c": 19, "d": 0, "e": 216, "f": 176, "h": 1, "l": 77,
                "ram": [[256, 0]]},
    "final":   {"pc": 257, "sp": 65534, "a": 1, "b": 0, "c": 19, "d": 0, "e": 216, "f": 176, "h": 1, "l": 77,
                "ram": [[256, 0]]}
  },
  {
    "name": "80 broken-expectation",
    "initial": {"pc": 0, "sp": 65534, "a": 15, "b": 1, "c": 0, "d": 0, "e": 0, "f": 0, "h": 0, "l": 0,
                "ram": [[0, 128]]},
    "final":   {"pc": 1, "sp": 65534, "a": 255, "b": 1, "c": 0, "d": 0, "e": 0, "f": 0, "h": 0, "l": 0,
                "ram": [[0, 128]]}
  }
]`

func TestStateSnapshotComposition(t *testing.T) {
	s := State{PC: 0x0100, SP: 0xFFFE, A: 0x01, F: 0xB0, B: 0x00, C: 0x13, RAM: [][2]uint16{{0xC000, 0x7F}}}
	snap := s.Snapshot()
	assert.Equal(t, uint16(0x01B0), snap.AF)
	assert.Equal(t, uint16(0x0013), snap.BC)
	require.Len(t, snap.Mem, 1)
	assert.Equal(t, uint16(0xC000), snap.Mem[0].Addr)
	assert.Equal(t, uint8(0x7F), snap.Mem[0].Val)
}

func TestRunnerReportsFailures(t *testing.T) {
	cases, err := Load(strings.NewReader(corpus))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	report := (&Runner{Workers: 2}).Run(cases)
	assert.Equal(t, 2, report.Total())
	assert.False(t, report.OK())

	failures := report.Failures()
	require.Len(t, failures, 1)
	// ADD A,B with A=0x0F, B=0x01 yields 0x10, not the 0xFF the broken
	// case demands
	assert.Equal(t, "80 broken-expectation", failures[0].Case)
	assert.False(t, failures[0].Unknown)
	assert.Equal(t, 1, failures[0].Cycles)
	assert.Equal(t, uint16(0x1020), failures[0].Got.AF)
}

func TestRunnerFlagsUnknownOpcode(t *testing.T) {
	cases := []Case{{
		Name:    "D3 0000",
		Initial: State{RAM: [][2]uint16{{0, 0xD3}}},
		Final:   State{PC: 1, RAM: [][2]uint16{{0, 0xD3}}},
	}}
	report := (&Runner{Workers: 1}).Run(cases)
	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.True(t, failures[0].Unknown)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load(strings.NewReader("{not json"))
	assert.Error(t, err)
}
