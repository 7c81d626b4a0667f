package cpu

import (
	"fmt"
)

// OperandSpace selects the address space of an Operand.
type OperandSpace int

const (
	OPERAND_REGISTER = OperandSpace(0) // Register file, by byte offset.
	OPERAND_MEMORY   = OperandSpace(1) // Memory segment, by address.
)

// Operand is a resolved operand location.
type Operand struct {
	Space  OperandSpace
	Offset uint16
}

// Register returns the operand of a 16-bit register, numbered modulo 8.
func Register(reg CodeReg) Operand {
	return Operand{
		Space:  OPERAND_REGISTER,
		Offset: uint16(reg&7) * REG_WIDTH,
	}
}

// Memory returns the operand of a memory address.
func Memory(addr uint16) Operand {
	return Operand{
		Space:  OPERAND_MEMORY,
		Offset: addr,
	}
}

// next is the operand of the following byte. Offsets wrap inside their own
// space; a register operand never spills into memory.
func (op Operand) next() Operand {
	op.Offset++
	if op.Space == OPERAND_REGISTER {
		op.Offset %= REGISTER_FILE_SIZE
	}
	return op
}

// String returns the assembly notation of the operand.
func (op Operand) String() string {
	if op.Space == OPERAND_REGISTER {
		reg := CodeReg(op.Offset/REG_WIDTH) & 7
		if op.Offset%REG_WIDTH != 0 {
			return fmt.Sprintf("%v+1", reg)
		}
		return reg.String()
	}

	return fmt.Sprintf("[0x%04x]", op.Offset)
}
