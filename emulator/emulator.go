// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	stdio "io"
	"iter"
	"log"
	"os"

	"github.com/ezrec/tiny86/cpu"
	"github.com/ezrec/tiny86/internal"
	"github.com/ezrec/tiny86/io"
	"github.com/ezrec/tiny86/translate"
)

// Emulator state. CPU + program image + display window.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the loaded program, if assembled.

	Rom     io.Rom       // Program image.
	Display io.Display   // Text window, dumped after the program halts.
	Output  stdio.Writer // Destination of reports and the display dump.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Display: *io.NewDisplay(),
		Output:  os.Stdout,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Display.Defines(),
	)
}

// LoadFile loads a raw program image. There is no listing for it.
func (emu *Emulator) LoadFile(path string) (err error) {
	emu.Rom.Verbose = emu.Verbose
	err = emu.Rom.LoadFile(path)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{}

	return
}

// Assemble assembles a program, with the emulator defines as equates, and
// uses it as the program image.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Rom.Data = prog.Binary()

	return
}

// Reset the cpu, and load the program image.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Load(emu.Rom.Data)
}

// Ticks returns the number of instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode, or 0 if
// there is no listing for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
//
// done is set once the program has halted, or has reached an unsupported
// opcode. An unsupported opcode is reported to Output. Decode failures are
// returned as an ErrRuntime.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Cpu.Ip
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()

	var unsupported cpu.ErrOpcodeUnsupported
	switch {
	case err == nil:
	case errors.Is(err, cpu.ErrHalt):
		err = nil
		done = true
	case errors.As(err, &unsupported):
		err = translate.Fprintln(emu.Output, "unsupported opcode %#x", uint8(unsupported))
		done = true
	default:
		if emu.Verbose {
			log.Printf("%v", emu.Cpu.String())
		}
	}

	return
}

// Run ticks the emulator until the program is done, or limit instructions
// have been attempted. A limit of zero is unbounded.
func (emu *Emulator) Run(limit int) (steps int, err error) {
	start := emu.Cpu.Ticks
	defer func() {
		steps = emu.Cpu.Ticks - start
	}()

	for n := 0; limit == 0 || n < limit; n++ {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = ErrStepLimit

	return
}

// Dump writes the display window to Output.
func (emu *Emulator) Dump() (err error) {
	err = emu.Display.Dump(emu.Output, emu.Cpu.Memory[:])
	return
}
