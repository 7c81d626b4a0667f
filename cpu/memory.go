package cpu

// Read8 reads the byte at an operand.
func (cpu *Cpu) Read8(op Operand) (value uint8) {
	switch op.Space {
	case OPERAND_REGISTER:
		value = cpu.Register[op.Offset%REGISTER_FILE_SIZE]
	case OPERAND_MEMORY:
		value = cpu.Memory[op.Offset]
	}
	return
}

// Write8 writes the byte at an operand.
func (cpu *Cpu) Write8(op Operand, value uint8) {
	switch op.Space {
	case OPERAND_REGISTER:
		cpu.Register[op.Offset%REGISTER_FILE_SIZE] = value
	case OPERAND_MEMORY:
		cpu.Memory[op.Offset] = value
	}
}

// Read16 reads the little-endian word at an operand.
func (cpu *Cpu) Read16(op Operand) uint16 {
	lo := cpu.Read8(op)
	hi := cpu.Read8(op.next())

	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes the little-endian word at an operand.
func (cpu *Cpu) Write16(op Operand, value uint16) {
	cpu.Write8(op, uint8(value))
	cpu.Write8(op.next(), uint8(value>>8))
}

// fetch8 reads the byte at IP, and advances IP.
func (cpu *Cpu) fetch8() (value uint8) {
	value = cpu.Memory[cpu.Ip]
	cpu.Ip++
	return
}

// fetch16 reads the little-endian word at IP, and advances IP.
func (cpu *Cpu) fetch16() uint16 {
	lo := cpu.fetch8()
	hi := cpu.fetch8()

	return uint16(hi)<<8 | uint16(lo)
}
