package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// run executes a program image until the cpu halts, or the limit is reached.
func run(code []uint8, limit int) (cpu *Cpu, err error) {
	cpu = NewCpu()
	cpu.Load(code)

	for range limit {
		err = cpu.Tick()
		if err != nil {
			break
		}
	}

	return
}

func TestTickHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Load([]uint8{0xb8, 0x05, 0x00, 0xf4})

	assert.NoError(cpu.Tick())
	assert.Equal(uint16(5), cpu.Read16(Register(REG_AX)))
	assert.Equal(uint16(3), cpu.Ip)

	assert.ErrorIs(cpu.Tick(), ErrHalt)
	assert.True(cpu.Halted)
	assert.Equal(2, cpu.Ticks)

	// Once halted, nothing more executes.
	assert.ErrorIs(cpu.Tick(), ErrHalt)
	assert.Equal(2, cpu.Ticks)
	assert.Equal(uint16(4), cpu.Ip)
}

func TestTickUnsupported(t *testing.T) {
	assert := assert.New(t)

	cpu, err := run([]uint8{0xf1}, 10)
	assert.ErrorIs(err, ErrOpcodeUnsupported(0))
	assert.Equal(ErrOpcodeUnsupported(0xf1), err)
	assert.True(cpu.Halted)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(uint16(1), cpu.Ip)
}

func TestTickFatal(t *testing.T) {
	assert := assert.New(t)

	cpu, err := run([]uint8{0x90, 0x8b, 0x00}, 10)
	assert.ErrorIs(err, ErrModRM(0))
	assert.ErrorIs(err, ErrOpcode{})

	var opErr ErrOpcode
	assert.True(errors.As(err, &opErr))
	assert.Equal(ErrOpcode{Ip: 1, Opcode: 0x8b}, opErr)
	assert.True(cpu.Halted)
	assert.Equal(1, cpu.Ticks)

	_, err = run([]uint8{0xfe, 0xd0}, 10)
	assert.ErrorIs(err, ErrField{})
	assert.ErrorIs(err, ErrOpcode{})
}

func TestPrograms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		code  []uint8
		ticks int
		check func(cpu *Cpu)
	}){
		{"mov imm8 low byte only", []uint8{0xb8, 0x34, 0x12, 0xb0, 0x02, 0xb0, 0x03, 0x90, 0xf4}, 5, func(cpu *Cpu) {
			assert.Equal(uint16(0x1203), cpu.Read16(Register(REG_AX)))
		}},
		{"inc wrap", []uint8{0xb8, 0xff, 0xff, 0x40, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.ZF)
		}},
		{"dec wrap", []uint8{0x49, 0xf4}, 2, func(cpu *Cpu) {
			assert.Equal(uint16(0xffff), cpu.Read16(Register(REG_CX)))
			assert.True(cpu.SF)
		}},
		{"inc dec leave carry", []uint8{0xf9, 0x40, 0x48, 0xf4}, 4, func(cpu *Cpu) {
			assert.True(cpu.CF)
			assert.True(cpu.ZF)
		}},
		{"inc byte memory", []uint8{0xfe, 0x06, 0x00, 0x20, 0xfe, 0x06, 0x00, 0x20, 0xfe, 0x0e, 0x01, 0x20, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint8(2), cpu.Memory[0x2000])
			assert.Equal(uint8(0xff), cpu.Memory[0x2001])
		}},
		{"jcc not taken", []uint8{0x74, 0x05, 0xf4}, 2, func(cpu *Cpu) {
			assert.Equal(uint16(3), cpu.Ip)
		}},
		{"jcc taken", []uint8{0x31, 0xc0, 0x74, 0x01, 0xf1, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(6), cpu.Ip)
		}},
		{"jmp backwards", []uint8{0xeb, 0x02, 0xf4, 0xf1, 0xeb, 0xfc}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(3), cpu.Ip)
		}},
		{"call ret", []uint8{0xe8, 0x02, 0x00, 0xf4, 0xf1, 0xb8, 0x07, 0x00, 0xc3}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(7), cpu.Read16(Register(REG_AX)))
			assert.Equal(uint16(ARENA_STACK), cpu.Read16(Register(REG_SP)))
			assert.Equal(uint16(4), cpu.Ip)
		}},
		{"or grid", []uint8{0xb8, 0x0f, 0x00, 0xbb, 0xf0, 0x00, 0x09, 0xd8, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(0x00ff), cpu.Read16(Register(REG_AX)))
		}},
		{"add al carry", []uint8{0xb0, 0xff, 0x04, 0x01, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.CF)
			assert.True(cpu.ZF)
		}},
		{"sub sign extended", []uint8{0xb8, 0x05, 0x00, 0x83, 0xe8, 0x01, 0x83, 0xc0, 0xff, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(3), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.CF)
		}},
		{"cmp keeps destination", []uint8{0xb8, 0x05, 0x00, 0x3d, 0x05, 0x00, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(5), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.ZF)
		}},
		{"mov to memory", []uint8{0xb8, 0x34, 0x12, 0x89, 0x06, 0x00, 0x20, 0x8a, 0x1e, 0x01, 0x20, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint8(0x34), cpu.Memory[0x2000])
			assert.Equal(uint8(0x12), cpu.Memory[0x2001])
			assert.Equal(uint16(0x0012), cpu.Read16(Register(REG_BX)))
		}},
		{"mov imm to memory", []uint8{0xc6, 0x06, 0x00, 0x30, 0xab, 0xc7, 0x06, 0x02, 0x30, 0x34, 0x12, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint8(0xab), cpu.Memory[0x3000])
			assert.Equal(uint8(0x00), cpu.Memory[0x3001])
			assert.Equal(uint16(0x1234), cpu.Read16(Memory(0x3002)))
		}},
		{"push pop", []uint8{0xb8, 0x34, 0x12, 0x50, 0x5b, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(0x1234), cpu.Read16(Register(REG_BX)))
			assert.Equal(uint16(ARENA_STACK), cpu.Read16(Register(REG_SP)))
		}},
		{"xchg ax", []uint8{0xb8, 0x01, 0x00, 0xbb, 0x02, 0x00, 0x93, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(2), cpu.Read16(Register(REG_AX)))
			assert.Equal(uint16(1), cpu.Read16(Register(REG_BX)))
		}},
		{"xchg byte", []uint8{0xb0, 0x01, 0xb3, 0x02, 0x86, 0xc3, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(2), cpu.Read16(Register(REG_AX)))
			assert.Equal(uint16(1), cpu.Read16(Register(REG_BX)))
		}},
		{"stc", []uint8{0xf9, 0xf4}, 2, func(cpu *Cpu) {
			assert.True(cpu.CF)
		}},
		{"cmp al sign extended", []uint8{0xb0, 0x80, 0x3c, 0x01, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0x0080), cpu.Read16(Register(REG_AX)))
			assert.False(cpu.CF)
			assert.False(cpu.ZF)
			assert.True(cpu.SF)
		}},
		{"add al sign extended", []uint8{0xb0, 0x80, 0x04, 0x80, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0x0000), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.CF)
			assert.False(cpu.ZF)
			assert.True(cpu.SF)
		}},
		{"alu r/m8 imm8 register", []uint8{0xb0, 0x7f, 0x80, 0xc0, 0x01, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0x0080), cpu.Read16(Register(REG_AX)))
			assert.False(cpu.CF)
			assert.False(cpu.ZF)
			assert.False(cpu.SF)
		}},
		{"alu r/m8 imm8 memory sub", []uint8{0xc6, 0x06, 0x00, 0x20, 0xf0, 0x80, 0x2e, 0x00, 0x20, 0x10, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint8(0xe0), cpu.Memory[0x2000])
			assert.Equal(uint8(0x00), cpu.Memory[0x2001])
			assert.False(cpu.CF)
			assert.False(cpu.ZF)
			assert.True(cpu.SF)
		}},
		{"alu r/m8 imm8 memory and", []uint8{0xc6, 0x06, 0x00, 0x20, 0xf0, 0xf9, 0x80, 0x26, 0x00, 0x20, 0x0f, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint8(0x00), cpu.Memory[0x2000])
			assert.False(cpu.CF)
			assert.True(cpu.ZF)
			assert.False(cpu.SF)
		}},
		{"alu r/m16 imm16 register", []uint8{0xb8, 0x00, 0x80, 0x81, 0xc0, 0x00, 0x80, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0x0000), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.CF)
			assert.True(cpu.ZF)
			assert.False(cpu.SF)
		}},
		{"alu r/m16 imm16 memory", []uint8{0xc7, 0x06, 0x00, 0x20, 0x01, 0x00, 0x81, 0x2e, 0x00, 0x20, 0x02, 0x00, 0xf4}, 3, func(cpu *Cpu) {
			assert.Equal(uint16(0xffff), cpu.Read16(Memory(0x2000)))
			assert.True(cpu.CF)
			assert.False(cpu.ZF)
			assert.True(cpu.SF)
		}},
		{"alu r/m8 memory destination", []uint8{
			0xc6, 0x06, 0x00, 0x20, 0x05, // mov byte [0x2000], 5
			0xb0, 0x03,                   // mov al, 3
			0x00, 0x06, 0x00, 0x20,       // add [0x2000], al
			0x28, 0x06, 0x00, 0x20,       // sub [0x2000], al
			0x22, 0x06, 0x00, 0x20,       // and al, [0x2000]
			0xf4,
		}, 6, func(cpu *Cpu) {
			assert.Equal(uint8(0x05), cpu.Memory[0x2000])
			assert.Equal(uint16(0x0001), cpu.Read16(Register(REG_AX)))
			assert.False(cpu.CF)
			assert.False(cpu.ZF)
			assert.False(cpu.SF)
		}},
		{"alu r/m8 register carry", []uint8{0xb0, 0xff, 0xb3, 0x01, 0x00, 0xd8, 0xf4}, 4, func(cpu *Cpu) {
			assert.Equal(uint16(0x0000), cpu.Read16(Register(REG_AX)))
			assert.True(cpu.CF)
			assert.True(cpu.ZF)
		}},
	}

	for _, entry := range table {
		cpu, err := run(entry.code, 100)
		assert.ErrorIs(err, ErrHalt, entry.name)
		assert.Equal(entry.ticks, cpu.Ticks, entry.name)
		entry.check(cpu)
	}
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		opcode uint8
		name   string
	}){
		{0x00, "add"},
		{0x09, "or"},
		{0x15, "adc"},
		{0x1b, "sbb"},
		{0x21, "and"},
		{0x2c, "sub"},
		{0x31, "xor"},
		{0x38, "cmp"},
		{0x3d, "cmp"},
		{0x06, "(bad)"},
		{0x0f, "(bad)"},
		{0x41, "inc"},
		{0x4f, "dec"},
		{0x75, "jnz"},
		{0xeb, "jmp"},
		{0x90, "nop"},
		{0x97, "xchg"},
		{0xf1, "(bad)"},
		{0xff, "(bad)"},
	}

	for _, entry := range table {
		assert.Equal(entry.name, Decode(entry.opcode).Name, "%#x", entry.opcode)
		assert.Equal(entry.name != "(bad)", Supported(entry.opcode), "%#x", entry.opcode)
	}

	for opcode := range 256 {
		assert.NotNil(Decode(uint8(opcode)).Exec)
	}
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := run([]uint8{0xb8, 0x05, 0x00, 0xf9, 0xf4}, 10)
	assert.True(cpu.Halted)

	cpu.Reset()
	assert.False(cpu.Halted)
	assert.False(cpu.CF)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(uint16(ARENA_CODE), cpu.Ip)
	assert.Equal(uint16(0), cpu.Read16(Register(REG_AX)))
	assert.Equal(uint16(ARENA_STACK), cpu.Read16(Register(REG_SP)))
	assert.Equal(uint8(0), cpu.Memory[0])

	n := cpu.Load(make([]uint8, SEGMENT_SIZE+16))
	assert.Equal(SEGMENT_SIZE, n)
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	text := cpu.String()

	assert.True(strings.Contains(text, "   ip: 0000\n"), text)
	assert.True(strings.Contains(text, "   sp: 0100\n"), text)
	assert.True(strings.Contains(text, "   cf: false\n"), text)
	assert.True(strings.HasSuffix(text, "stack: 0000\n"), text)
}
