package cpu

// Instruction is the opcode table entry for a single opcode byte.
type Instruction struct {
	// Mnemonic, for traces.
	Name string
	// Executes the instruction once its opcode has been fetched.
	Exec func(cpu *Cpu, opcode uint8) (err error)
}

// opcodeTable maps every opcode byte to an instruction. Entries without a
// supported instruction report ErrOpcodeUnsupported.
var opcodeTable [256]Instruction

func init() {
	// 0x00-0x3d: ALU grid, operation in bits 3..5
	for code := range uint8(8) {
		op := Operation(code)
		base := code << 3
		for form := range uint8(6) {
			exec := execAluModRM
			if form >= 4 {
				exec = execAluAccumulator
			}
			opcodeTable[base|form] = Instruction{Name: op.String(), Exec: exec}
		}
	}

	for reg := range uint8(8) {
		opcodeTable[0x40+reg] = Instruction{Name: "inc", Exec: execIncDec16}
		opcodeTable[0x48+reg] = Instruction{Name: "dec", Exec: execIncDec16}
		opcodeTable[0x50+reg] = Instruction{Name: "push", Exec: execPush16}
		opcodeTable[0x58+reg] = Instruction{Name: "pop", Exec: execPop16}
		opcodeTable[0xb0+reg] = Instruction{Name: "mov", Exec: execMovImm8}
		opcodeTable[0xb8+reg] = Instruction{Name: "mov", Exec: execMovImm16}
	}

	for opcode, jmp := range jumpTable {
		opcodeTable[opcode] = Instruction{Name: jmp.name, Exec: execJumpShort}
	}

	opcodeTable[0x80] = Instruction{Name: "alu", Exec: execAluImmediate}
	opcodeTable[0x81] = Instruction{Name: "alu", Exec: execAluImmediate}
	opcodeTable[0x83] = Instruction{Name: "alu", Exec: execAluImmediate}
	opcodeTable[0x86] = Instruction{Name: "xchg", Exec: execXchg8}
	opcodeTable[0x88] = Instruction{Name: "mov", Exec: execMovModRM}
	opcodeTable[0x89] = Instruction{Name: "mov", Exec: execMovModRM}
	opcodeTable[0x8a] = Instruction{Name: "mov", Exec: execMovModRM}
	opcodeTable[0x8b] = Instruction{Name: "mov", Exec: execMovModRM}
	opcodeTable[0x90] = Instruction{Name: "nop", Exec: execNop}
	for reg := uint8(1); reg < 8; reg++ {
		opcodeTable[0x90+reg] = Instruction{Name: "xchg", Exec: execXchgAx}
	}
	opcodeTable[0xc3] = Instruction{Name: "ret", Exec: execRet}
	opcodeTable[0xc6] = Instruction{Name: "mov", Exec: execMovImmModRM}
	opcodeTable[0xc7] = Instruction{Name: "mov", Exec: execMovImmModRM}
	opcodeTable[0xe8] = Instruction{Name: "call", Exec: execCall}
	opcodeTable[0xf4] = Instruction{Name: "hlt", Exec: execHalt}
	opcodeTable[0xf9] = Instruction{Name: "stc", Exec: execStc}
	opcodeTable[0xfe] = Instruction{Name: "inc/dec", Exec: execIncDec8}

	for n := range opcodeTable {
		if opcodeTable[n].Exec == nil {
			opcodeTable[n] = Instruction{Name: "(bad)", Exec: execUnsupported}
		}
	}
}

// Decode returns the instruction for an opcode.
func Decode(opcode uint8) Instruction {
	return opcodeTable[opcode]
}

// Supported returns true if the opcode has an instruction.
func Supported(opcode uint8) bool {
	return opcodeTable[opcode].Name != "(bad)"
}

// jump is a short jump condition.
type jump struct {
	name  string
	taken func(cpu *Cpu) bool
}

var jumpTable = map[uint8]jump{
	0x72: {"jb", func(cpu *Cpu) bool { return cpu.CF }},
	0x74: {"jz", func(cpu *Cpu) bool { return cpu.ZF }},
	0x75: {"jnz", func(cpu *Cpu) bool { return !cpu.ZF }},
	0x76: {"jbe", func(cpu *Cpu) bool { return cpu.CF || cpu.ZF }},
	0x77: {"ja", func(cpu *Cpu) bool { return !cpu.CF && !cpu.ZF }},
	0x79: {"jns", func(cpu *Cpu) bool { return !cpu.SF }},
	0xeb: {"jmp", func(cpu *Cpu) bool { return true }},
}

// alu8 performs a byte operation on sign-extended operands at word width,
// so flags follow the 16-bit result, and returns the low byte.
func (cpu *Cpu) alu8(op Operation, op1, op2 uint8) uint8 {
	return uint8(cpu.Alu(op, WIDTH_16, SignExtend(op1), SignExtend(op2)))
}

func execUnsupported(cpu *Cpu, opcode uint8) (err error) {
	return ErrOpcodeUnsupported(opcode)
}

// execAluModRM handles the four register and r/m forms:
//
//	form 0: r/m8  op= reg8
//	form 1: r/m16 op= reg16
//	form 2: reg8  op= r/m8
//	form 3: reg16 op= r/m16
func execAluModRM(cpu *Cpu, opcode uint8) (err error) {
	op, err := OperationOf((opcode >> 3) & 0b111)
	if err != nil {
		return
	}

	rm, reg, err := cpu.resolve()
	if err != nil {
		return
	}

	dst, src := rm, Register(CodeReg(reg))
	if opcode&0b010 != 0 {
		dst, src = src, dst
	}

	if opcode&0b001 == 0 {
		cpu.Write8(dst, cpu.alu8(op, cpu.Read8(dst), cpu.Read8(src)))
	} else {
		result := cpu.Alu(op, WIDTH_16, cpu.Read16(dst), cpu.Read16(src))
		cpu.Write16(dst, result)
	}

	return
}

// execAluAccumulator handles al op= imm8 (form 4), and ax op= imm16 (form 5).
func execAluAccumulator(cpu *Cpu, opcode uint8) (err error) {
	op, err := OperationOf((opcode >> 3) & 0b111)
	if err != nil {
		return
	}

	ax := Register(REG_AX)
	if opcode&0b001 == 0 {
		cpu.Write8(ax, cpu.alu8(op, cpu.Read8(ax), cpu.fetch8()))
	} else {
		result := cpu.Alu(op, WIDTH_16, cpu.Read16(ax), cpu.fetch16())
		cpu.Write16(ax, result)
	}

	return
}

// execAluImmediate handles the immediate group, with the operation in the
// reg field: 0x80 r/m8 imm8, 0x81 r/m16 imm16, 0x83 r/m16 sign-extended imm8.
func execAluImmediate(cpu *Cpu, opcode uint8) (err error) {
	rm, code, err := cpu.resolve()
	if err != nil {
		return
	}

	op, err := OperationOf(code)
	if err != nil {
		return
	}

	switch opcode {
	case 0x80:
		cpu.Write8(rm, cpu.alu8(op, cpu.Read8(rm), cpu.fetch8()))
	case 0x81:
		result := cpu.Alu(op, WIDTH_16, cpu.Read16(rm), cpu.fetch16())
		cpu.Write16(rm, result)
	case 0x83:
		result := cpu.Alu(op, WIDTH_16, cpu.Read16(rm), SignExtend(cpu.fetch8()))
		cpu.Write16(rm, result)
	}

	return
}

func execIncDec16(cpu *Cpu, opcode uint8) (err error) {
	reg := Register(CodeReg(opcode))
	value := cpu.Read16(reg)
	if opcode < 0x48 {
		value++
	} else {
		value--
	}

	cpu.setFlags(uint32(value), WIDTH_16)
	cpu.Write16(reg, value)

	return
}

// execIncDec8 increments (reg field 0) or decrements (reg field 1) a r/m8.
func execIncDec8(cpu *Cpu, opcode uint8) (err error) {
	rm, field, err := cpu.resolve()
	if err != nil {
		return
	}

	value := cpu.Read8(rm)
	switch field {
	case 0:
		value++
	case 1:
		value--
	default:
		err = ErrField{Opcode: opcode, Field: field}
		return
	}

	cpu.setFlags(uint32(value), WIDTH_8)
	cpu.Write8(rm, value)

	return
}

func execPush16(cpu *Cpu, opcode uint8) (err error) {
	cpu.Push16(cpu.Read16(Register(CodeReg(opcode))))
	return
}

func execPop16(cpu *Cpu, opcode uint8) (err error) {
	value := cpu.Pop16()
	cpu.Write16(Register(CodeReg(opcode)), value)
	return
}

// execJumpShort always consumes the signed displacement, and applies it only
// when the condition holds.
func execJumpShort(cpu *Cpu, opcode uint8) (err error) {
	disp := SignExtend(cpu.fetch8())
	if jumpTable[opcode].taken(cpu) {
		cpu.Ip += disp
	}
	return
}

func execXchg8(cpu *Cpu, opcode uint8) (err error) {
	rm, reg, err := cpu.resolve()
	if err != nil {
		return
	}

	other := Register(CodeReg(reg))
	a := cpu.Read8(rm)
	b := cpu.Read8(other)
	cpu.Write8(rm, b)
	cpu.Write8(other, a)

	return
}

func execXchgAx(cpu *Cpu, opcode uint8) (err error) {
	ax := Register(REG_AX)
	other := Register(CodeReg(opcode))

	a := cpu.Read16(ax)
	b := cpu.Read16(other)
	cpu.Write16(ax, b)
	cpu.Write16(other, a)

	return
}

// execMovModRM handles 0x88 r/m8=reg8, 0x89 r/m16=reg16, 0x8a reg8=r/m8 and
// 0x8b reg16=r/m16.
func execMovModRM(cpu *Cpu, opcode uint8) (err error) {
	rm, reg, err := cpu.resolve()
	if err != nil {
		return
	}

	dst, src := rm, Register(CodeReg(reg))
	if opcode&0b010 != 0 {
		dst, src = src, dst
	}

	if opcode&0b001 == 0 {
		cpu.Write8(dst, cpu.Read8(src))
	} else {
		cpu.Write16(dst, cpu.Read16(src))
	}

	return
}

// execMovImm8 stores into the low byte of the register only.
func execMovImm8(cpu *Cpu, opcode uint8) (err error) {
	cpu.Write8(Register(CodeReg(opcode)), cpu.fetch8())
	return
}

func execMovImm16(cpu *Cpu, opcode uint8) (err error) {
	cpu.Write16(Register(CodeReg(opcode)), cpu.fetch16())
	return
}

// execMovImmModRM handles 0xc6 r/m8=imm8 and 0xc7 r/m16=imm16. The reg field
// is not checked.
func execMovImmModRM(cpu *Cpu, opcode uint8) (err error) {
	rm, _, err := cpu.resolve()
	if err != nil {
		return
	}

	if opcode == 0xc6 {
		cpu.Write8(rm, cpu.fetch8())
	} else {
		cpu.Write16(rm, cpu.fetch16())
	}

	return
}

func execCall(cpu *Cpu, opcode uint8) (err error) {
	offset := cpu.fetch16()
	cpu.Push16(cpu.Ip)
	cpu.Ip += offset
	return
}

func execRet(cpu *Cpu, opcode uint8) (err error) {
	cpu.Ip = cpu.Pop16()
	return
}

func execNop(cpu *Cpu, opcode uint8) (err error) {
	return
}

func execStc(cpu *Cpu, opcode uint8) (err error) {
	cpu.CF = true
	return
}

func execHalt(cpu *Cpu, opcode uint8) (err error) {
	return ErrHalt
}
