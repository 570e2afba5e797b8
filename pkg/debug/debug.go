// Package debug is an interactive single-step debugger: a terminal UI
// showing the memory around PC, the register file, flags, and the
// decoded instruction about to run.
package debug

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/oisee/sm83/pkg/cpu"
	"github.com/oisee/sm83/pkg/isa"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

type model struct {
	cpu *cpu.CPU

	prevPC  uint16
	steps   int
	cycles  int
	unknown bool // last Step hit the sentinel
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j", "n":
			if m.unknown {
				return m, tea.Quit
			}
			m.prevPC = m.cpu.Regs.PC
			n := m.cpu.Step()
			if n == cpu.UnknownOpcode {
				m.unknown = true
				return m, nil
			}
			m.steps++
			m.cycles += n
		}
	}
	return m, nil
}

// renderRow renders one 16-byte line of memory, bracketing the byte at
// PC.
func (m model) renderRow(start uint16) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b := m.cpu.Bus.Read(start + i)
		if start+i == m.cpu.Regs.PC {
			fmt.Fprintf(&sb, "[%02x] ", b)
		} else {
			fmt.Fprintf(&sb, " %02x  ", b)
		}
	}
	return sb.String()
}

func (m model) memView() string {
	header := "addr | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	rows := []string{headerStyle.Render(header)}

	base := m.cpu.Regs.PC &^ 0x000F
	for off := -2; off <= 5; off++ {
		rows = append(rows, m.renderRow(base+uint16(off*16)))
	}
	return strings.Join(rows, "\n")
}

func (m model) statusView() string {
	r := &m.cpu.Regs
	var flags string
	for _, set := range []bool{r.Flag(cpu.FlagZ), r.Flag(cpu.FlagN), r.Flag(cpu.FlagH), r.Flag(cpu.FlagC)} {
		if set {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (%04x)
SP: %04x
AF: %04x
BC: %04x
DE: %04x
HL: %04x
Z N H C
%s
steps: %d  m-cycles: %d
`, r.PC, m.prevPC, r.SP, r.AF(), r.BC(), r.DE(), r.HL(), flags, m.steps, m.cycles)
}

func (m model) View() string {
	r := &m.cpu.Regs
	op := m.cpu.Bus.Read(r.PC)
	imm1 := m.cpu.Bus.Read(r.PC + 1)
	imm2 := m.cpu.Bus.Read(r.PC + 2)

	next := fmt.Sprintf("next: %s", isa.Disassemble(op, imm1, imm2))
	if m.unknown {
		next = fmt.Sprintf("unknown opcode %02x -- press any step key to quit", m.cpu.Bus.Read(m.prevPC))
	}

	var info interface{} = isa.Main[op]
	if op == 0xCB {
		info = isa.CB[imm1]
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.memView(),
			m.statusView(),
		),
		headerStyle.Render(next),
		dimStyle.Render(spew.Sdump(info)),
		dimStyle.Render("space/j: step   q: quit"),
	)
}

// Run starts the interactive debugger over the given CPU and blocks
// until the user quits.
func Run(c *cpu.CPU) error {
	m, err := tea.NewProgram(model{cpu: c}).Run()
	if err != nil {
		return err
	}
	if final := m.(model); final.unknown {
		return fmt.Errorf("debug: unknown opcode %#02x at %#04x", c.Bus.Read(final.prevPC), final.prevPC)
	}
	return nil
}
