package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/sm83/pkg/cpu"
	"github.com/oisee/sm83/pkg/memory"
)

func TestLineFormat(t *testing.T) {
	bus := memory.NewRAM()
	c := cpu.New(bus)
	c.SetState(cpu.Snapshot{
		PC: 0x0100, SP: 0xFFFE,
		AF: 0x01B0, BC: 0x0013, DE: 0x00D8, HL: 0x014D,
		Mem: []cpu.MemCell{
			{Addr: 0x0100, Val: 0x00},
			{Addr: 0x0101, Val: 0xC3},
			{Addr: 0x0102, Val: 0x13},
			{Addr: 0x0103, Val: 0x02},
		},
	})

	var sb strings.Builder
	require.NoError(t, New(&sb).Step(c))

	want := "A: 01 F: B0 B: 00 C: 13 D: 00 E: D8 H: 01 L: 4D SP: FFFE PC: 00:0100 (00 C3 13 02)\n"
	assert.Equal(t, want, sb.String())
}
