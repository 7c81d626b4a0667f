package cpu

// Operation is an ALU operation, selected by a 3-bit code.
type Operation int

//go:generate go tool stringer -linecomment -type=Operation
const (
	ALU_OP_ADD = Operation(0) // add
	ALU_OP_OR  = Operation(1) // or
	ALU_OP_ADC = Operation(2) // adc
	ALU_OP_SBB = Operation(3) // sbb
	ALU_OP_AND = Operation(4) // and
	ALU_OP_SUB = Operation(5) // sub
	ALU_OP_XOR = Operation(6) // xor
	ALU_OP_CMP = Operation(7) // cmp
)

// OperationOf converts a 3-bit operation code into an Operation.
// Codes of 8 and above are rejected with ErrOperation.
func OperationOf(code uint8) (op Operation, err error) {
	if code >= 8 {
		err = ErrOperation(code)
		return
	}

	op = Operation(code)
	return
}

// CodeReg is a 3-bit register number.
type CodeReg int

//go:generate go tool stringer -linecomment -type=CodeReg
const (
	REG_AX = CodeReg(0) // ax
	REG_CX = CodeReg(1) // cx
	REG_DX = CodeReg(2) // dx
	REG_BX = CodeReg(3) // bx
	REG_SP = CodeReg(4) // sp
	REG_BP = CodeReg(5) // bp
	REG_SI = CodeReg(6) // si
	REG_DI = CodeReg(7) // di
)

var _byteRegName = [8]string{"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil"}

// ByteName is the name of the low byte of the register.
func (reg CodeReg) ByteName() string {
	return _byteRegName[reg&7]
}
