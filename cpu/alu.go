package cpu

// Width is the operand width of an ALU operation, in bits.
type Width uint

const (
	WIDTH_8  = Width(8)
	WIDTH_16 = Width(16)
)

func (w Width) mask() uint32 {
	return (1 << w) - 1
}

func (w Width) sign() uint32 {
	return 1 << (w - 1)
}

// SignExtend widens a two's-complement byte to a word.
func SignExtend(value uint8) uint16 {
	return uint16(int16(int8(value)))
}

// Alu performs an operation on two operands of the given width, and
// updates CF, ZF and SF from the result.
//
// Carry is computed from the unwrapped sum or difference, including the
// incoming carry for adc and sbb: it is set when an addition exceeds the
// width, or when a subtraction borrows. Logical operations clear it.
//
// Compare returns op1, with the flags of the subtraction.
func (cpu *Cpu) Alu(op Operation, width Width, op1, op2 uint16) (result uint16) {
	mask := width.mask()
	a := uint32(op1) & mask
	b := uint32(op2) & mask

	var carry uint32
	if cpu.CF && (op == ALU_OP_ADC || op == ALU_OP_SBB) {
		carry = 1
	}

	var output uint32
	switch op {
	case ALU_OP_ADD, ALU_OP_ADC:
		output = a + b + carry
		cpu.CF = output > mask
	case ALU_OP_SUB, ALU_OP_SBB, ALU_OP_CMP:
		output = a - b - carry
		cpu.CF = a < b+carry
	case ALU_OP_AND:
		output = a & b
		cpu.CF = false
	case ALU_OP_OR:
		output = a | b
		cpu.CF = false
	case ALU_OP_XOR:
		output = a ^ b
		cpu.CF = false
	}

	output &= mask
	cpu.setFlags(output, width)

	result = uint16(output)
	if op == ALU_OP_CMP {
		result = op1
	}

	return
}

// setFlags sets ZF and SF from a result of the given width.
func (cpu *Cpu) setFlags(value uint32, width Width) {
	cpu.ZF = value&width.mask() == 0
	cpu.SF = value&width.sign() != 0
}
