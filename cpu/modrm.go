package cpu

// ModRM splits an addressing-mode byte into its mod, reg and r/m fields.
func ModRM(modrm uint8) (mod, reg, rm uint8) {
	mod = modrm >> 6
	reg = (modrm >> 3) & 0b111
	rm = modrm & 0b111
	return
}

// resolve decodes the addressing-mode byte at IP into an operand, consuming
// any displacement that follows it. The reg field is returned unchanged for
// use as a second register or an opcode extension.
//
// Supported encodings:
//
//	mod r/m  operand
//	00  001  [bx+di]
//	00  110  [disp16]
//	00  111  [bx]
//	01  011  [bp+di+disp8]  (disp8 is signed)
//	10  101  [di+disp16]
//	10  111  [bx+disp16]
//	11  any  register
func (cpu *Cpu) resolve() (operand Operand, reg uint8, err error) {
	modrm := cpu.fetch8()
	mod, reg, rm := ModRM(modrm)

	bx := func() uint16 { return cpu.Read16(Register(REG_BX)) }
	bp := func() uint16 { return cpu.Read16(Register(REG_BP)) }
	di := func() uint16 { return cpu.Read16(Register(REG_DI)) }

	switch {
	case mod == 0b00 && rm == 0b001:
		operand = Memory(bx() + di())
	case mod == 0b00 && rm == 0b110:
		operand = Memory(cpu.fetch16())
	case mod == 0b00 && rm == 0b111:
		operand = Memory(bx())
	case mod == 0b01 && rm == 0b011:
		disp := SignExtend(cpu.fetch8())
		operand = Memory(bp() + di() + disp)
	case mod == 0b10 && rm == 0b101:
		disp := cpu.fetch16()
		operand = Memory(di() + disp)
	case mod == 0b10 && rm == 0b111:
		disp := cpu.fetch16()
		operand = Memory(bx() + disp)
	case mod == 0b11:
		operand = Register(CodeReg(rm))
	default:
		err = ErrModRM(modrm)
	}

	return
}
