package cpu

// The stack grows down from SP. A byte push stores at SP and then
// decrements SP; a byte pop increments SP and then loads. SP wraps silently.

// Push8 pushes a byte onto the stack.
func (cpu *Cpu) Push8(value uint8) {
	sp := cpu.Read16(Register(REG_SP))
	cpu.Write8(Memory(sp), value)
	cpu.Write16(Register(REG_SP), sp-1)
}

// Pop8 pops a byte from the stack.
func (cpu *Cpu) Pop8() (value uint8) {
	sp := cpu.Read16(Register(REG_SP)) + 1
	value = cpu.Read8(Memory(sp))
	cpu.Write16(Register(REG_SP), sp)
	return
}

// Push16 pushes a word, high byte first, so that it sits little-endian
// at SP+1 afterwards.
func (cpu *Cpu) Push16(value uint16) {
	cpu.Push8(uint8(value >> 8))
	cpu.Push8(uint8(value))
}

// Pop16 pops a word pushed by Push16.
func (cpu *Cpu) Pop16() uint16 {
	lo := cpu.Pop8()
	hi := cpu.Pop8()

	return uint16(hi)<<8 | uint16(lo)
}

// Peek16 returns the word on top of the stack without popping it.
func (cpu *Cpu) Peek16() uint16 {
	sp := cpu.Read16(Register(REG_SP))
	return cpu.Read16(Memory(sp + 1))
}
