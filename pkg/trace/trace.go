// Package trace writes one line of CPU state per executed instruction
// in the layout of the Gameboy-logs reference corpus, so a run can be
// diffed byte-for-byte against a known-good execution log.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/oisee/sm83/pkg/cpu"
)

// Logger is the trace sink. The line format is fixed; anything that
// wants levels or structure belongs in the diagnostics logger, not
// here.
type Logger struct {
	w io.Writer
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// File is a Logger over a buffered file, created truncating.
type File struct {
	Logger
	bw *bufio.Writer
	f  *os.File
}

// NewFile opens path for tracing.
func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	bw := bufio.NewWriter(f)
	return &File{Logger: Logger{w: bw}, bw: bw, f: f}, nil
}

// Close flushes and closes the underlying file.
func (t *File) Close() error {
	if err := t.bw.Flush(); err != nil {
		t.f.Close()
		return err
	}
	return t.f.Close()
}

// Step logs the machine state before executing the instruction at PC.
// The four trailing bytes are the bus contents at PC..PC+3, read here
// so callers just hand over the CPU.
func (l *Logger) Step(c *cpu.CPU) error {
	r := &c.Regs
	var next [4]uint8
	for i := range next {
		next[i] = c.Bus.Read(r.PC + uint16(i))
	}
	_, err := fmt.Fprintf(l.w,
		"A: %02X F: %02X B: %02X C: %02X D: %02X E: %02X H: %02X L: %02X SP: %04X PC: 00:%04X (%02X %02X %02X %02X)\n",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC,
		next[0], next[1], next[2], next[3])
	return err
}
