package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"SEGMENT_SIZE": fmt.Sprintf("%#x", SEGMENT_SIZE),
	"ARENA_CODE":   fmt.Sprintf("%#x", ARENA_CODE),
	"ARENA_STACK":  fmt.Sprintf("%#x", ARENA_STACK),
}

// Cpu is the processor state: memory segment, register file, flags and IP.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [SEGMENT_SIZE]uint8       // Memory segment.
	Register [REGISTER_FILE_SIZE]uint8 // Register file, 2 bytes per register.
	Ip       uint16                    // Address of the next opcode.

	CF bool // Carry flag.
	ZF bool // Zero flag.
	SF bool // Sign flag.

	Halted bool // Set once execution has stopped.
	Ticks  int  // Executed instruction counter.
}

// NewCpu creates a new CPU in its reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Zeros memory, registers and flags.
// - Sets IP to ARENA_CODE.
// - Sets SP to ARENA_STACK.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Ip = ARENA_CODE
	cpu.CF = false
	cpu.ZF = false
	cpu.SF = false
	cpu.Halted = false
	cpu.Ticks = 0

	cpu.Write16(Register(REG_SP), ARENA_STACK)
}

// Load copies a program image into memory at ARENA_CODE, truncated to the
// end of the segment, and returns the number of bytes loaded.
func (cpu *Cpu) Load(image []uint8) (n int) {
	n = copy(cpu.Memory[ARENA_CODE:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %v bytes", n)
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"ip",
		"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
		"cf", "zf", "sf",
		"stack",
	}
	for n, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("%04x", cpu.Ip)
		case "cf", "zf", "sf":
			flag := map[string]bool{"cf": cpu.CF, "zf": cpu.ZF, "sf": cpu.SF}[reg]
			strval = "false"
			if flag {
				strval = "true"
			}
		case "stack":
			strval = fmt.Sprintf("%04x", cpu.Peek16())
		default:
			strval = fmt.Sprintf("%04x", cpu.Read16(Register(CodeReg(n-1))))
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Tick executes a single instruction.
//
// Returns nil if execution can continue, ErrHalt once halted, or
// ErrOpcodeUnsupported for an opcode with no instruction. Any other error
// is a decode failure of the instruction at the reported IP.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalt
		return
	}

	ip := cpu.Ip
	opcode := cpu.fetch8()
	inst := Decode(opcode)

	if cpu.Verbose {
		log.Printf("%04x: %02x %v", ip, opcode, inst.Name)
	}

	err = inst.Exec(cpu, opcode)
	switch {
	case err == nil:
		cpu.Ticks++
	case errors.Is(err, ErrHalt):
		cpu.Ticks++
		cpu.Halted = true
	case errors.Is(err, ErrOpcodeUnsupported(0)):
		cpu.Halted = true
	default:
		cpu.Halted = true
		err = errors.Join(ErrOpcode{Ip: ip, Opcode: opcode}, err)
	}

	return
}
