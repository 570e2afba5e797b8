package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oisee/sm83/pkg/cpu"
	"github.com/oisee/sm83/pkg/debug"
	"github.com/oisee/sm83/pkg/harness"
	"github.com/oisee/sm83/pkg/isa"
	"github.com/oisee/sm83/pkg/memory"
	"github.com/oisee/sm83/pkg/trace"
)

func main() {
	log := logrus.New()

	rootCmd := &cobra.Command{
		Use:   "sm83",
		Short: "SM83 core — cycle-counted interpreter and test tooling",
	}

	// conform command
	var workers int
	var verbose bool

	conformCmd := &cobra.Command{
		Use:   "conform <corpus.json>...",
		Short: "Run per-opcode conformance corpora against the core",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &harness.Runner{Workers: workers}
			if verbose {
				runner.Log = log
			}
			failed := 0
			for _, path := range args {
				cases, err := harness.LoadFile(path)
				if err != nil {
					return err
				}
				report := runner.Run(cases)
				if report.OK() {
					log.WithFields(logrus.Fields{"corpus": path, "cases": report.Total()}).Info("passed")
					continue
				}
				failed += len(report.Failures())
				for _, f := range report.Failures() {
					entry := log.WithField("case", f.Case)
					if f.Unknown {
						entry.Error("opcode not implemented")
						continue
					}
					entry.WithFields(logrus.Fields{
						"cycles": f.Cycles,
						"got":    fmt.Sprintf("%+v", f.Got),
						"want":   fmt.Sprintf("%+v", f.Want),
					}).Error("state mismatch")
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d conformance case(s) failed", failed)
			}
			return nil
		},
	}
	conformCmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (0 = one per CPU core)")
	conformCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each failing case as it happens")
	rootCmd.AddCommand(conformCmd)

	// run command
	var maxSteps int
	var tracePath string
	var stateOut string

	runCmd := &cobra.Command{
		Use:   "run <rom>",
		Short: "Execute a ROM image, optionally writing an instruction trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, header, err := memory.LoadROM(args[0])
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"title":    header.Title,
				"type":     fmt.Sprintf("%#02x", header.CartridgeType),
				"rom_size": header.ROMSize,
				"ram_size": header.RAMSize,
			}).Info("loaded cartridge")

			c := cpu.New(memory.NewROMBus(data))

			var tr *trace.File
			if tracePath != "" {
				tr, err = trace.NewFile(tracePath)
				if err != nil {
					return err
				}
				defer tr.Close()
			}

			steps, cycles := 0, 0
			for maxSteps <= 0 || steps < maxSteps {
				if tr != nil {
					if err := tr.Step(c); err != nil {
						return err
					}
				}
				n := c.Step()
				if n == cpu.UnknownOpcode {
					log.WithFields(logrus.Fields{
						"pc":     fmt.Sprintf("%#04x", c.Regs.PC-1),
						"opcode": fmt.Sprintf("%#02x", c.Bus.Read(c.Regs.PC-1)),
					}).Error("unknown opcode")
					return fmt.Errorf("unknown opcode after %d step(s)", steps)
				}
				steps++
				cycles += n
			}
			log.WithFields(logrus.Fields{"steps": steps, "m_cycles": cycles}).Info("run finished")

			if stateOut != "" {
				if err := c.Save(stateOut); err != nil {
					return err
				}
				log.WithField("path", stateOut).Info("saved machine state")
			}
			return nil
		},
	}
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Stop after this many instructions (0 = run until failure)")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Write a per-instruction state trace to this file")
	runCmd.Flags().StringVar(&stateOut, "state-out", "", "Save the final machine state to this file")
	rootCmd.AddCommand(runCmd)

	// disasm command
	var offset uint16
	var count int

	disasmCmd := &cobra.Command{
		Use:   "disasm <rom>",
		Short: "Disassemble instructions from a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			at := func(a uint16) uint8 {
				if int(a) < len(data) {
					return data[a]
				}
				return 0xFF
			}
			pc := offset
			for i := 0; i < count; i++ {
				op := at(pc)
				text := isa.Disassemble(op, at(pc+1), at(pc+2))
				fmt.Printf("%04X  %s\n", pc, text)
				if n := isa.Length(op); n > 0 {
					pc += uint16(n)
				} else {
					pc++
				}
			}
			return nil
		},
	}
	disasmCmd.Flags().Uint16Var(&offset, "offset", 0x0100, "Address to start disassembling at")
	disasmCmd.Flags().IntVar(&count, "count", 16, "Number of instructions to print")
	rootCmd.AddCommand(disasmCmd)

	// debug command
	var stateIn string

	debugCmd := &cobra.Command{
		Use:   "debug <rom>",
		Short: "Step through a ROM in an interactive terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := memory.LoadROM(args[0])
			if err != nil {
				return err
			}
			c := cpu.New(memory.NewROMBus(data))
			if stateIn != "" {
				if err := c.Restore(stateIn); err != nil {
					return err
				}
			}
			return debug.Run(c)
		},
	}
	debugCmd.Flags().StringVar(&stateIn, "state-in", "", "Restore a saved machine state before starting")
	rootCmd.AddCommand(debugCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
