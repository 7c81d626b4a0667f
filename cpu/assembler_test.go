package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, lines ...string) (prog *Program) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, len(prog.Binary()))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0x10000", asm.Equate["SEGMENT_SIZE"])
	assert.Equal("0x100", asm.Equate["ARENA_STACK"])
}

func TestAssemblerEncoding(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line  string
		bytes []uint8
	}){
		{"mov ax, 5", []uint8{0xb8, 0x05, 0x00}},
		{"mov al, 3", []uint8{0xb0, 0x03}},
		{"mov bl, 'A'", []uint8{0xb3, 0x41}},
		{"mov dil, '\\n'", []uint8{0xb7, 0x0a}},
		{"mov cx, -1", []uint8{0xb9, 0xff, 0xff}},
		{"add ax, bx", []uint8{0x01, 0xd8}},
		{"or ax, bx", []uint8{0x09, 0xd8}},
		{"xor ax, ax", []uint8{0x31, 0xc0}},
		{"add ax, 1", []uint8{0x05, 0x01, 0x00}},
		{"and al, 0x0f", []uint8{0x24, 0x0f}},
		{"add bx, 1", []uint8{0x83, 0xc3, 0x01}},
		{"sub bx, -2", []uint8{0x83, 0xeb, 0xfe}},
		{"add bx, 300", []uint8{0x81, 0xc3, 0x2c, 0x01}},
		{"cmp byte [bx], 7", []uint8{0x80, 0x3f, 0x07}},
		{"cmp word ptr [0x1000], 1", []uint8{0x83, 0x3e, 0x00, 0x10, 0x01}},
		{"sub cx, [bx+di]", []uint8{0x2b, 0x09}},
		{"adc [di+2], dl", []uint8{0x10, 0x95, 0x02, 0x00}},
		{"mov [0x8000], al", []uint8{0x88, 0x06, 0x00, 0x80}},
		{"mov word [di+0x10], 0x1234", []uint8{0xc7, 0x85, 0x10, 0x00, 0x34, 0x12}},
		{"mov byte [bx], 0", []uint8{0xc6, 0x07, 0x00}},
		{"mov al, [bp+di-2]", []uint8{0x8a, 0x43, 0xfe}},
		{"mov al, [di+bp]", []uint8{0x8a, 0x43, 0x00}},
		{"mov [bx+4], cx", []uint8{0x89, 0x8f, 0x04, 0x00}},
		{"xchg ax, cx", []uint8{0x91}},
		{"xchg bx, ax", []uint8{0x93}},
		{"xchg al, bl", []uint8{0x86, 0xd8}},
		{"inc di", []uint8{0x47}},
		{"dec cx", []uint8{0x49}},
		{"inc byte [bx]", []uint8{0xfe, 0x07}},
		{"dec al", []uint8{0xfe, 0xc8}},
		{"push ax", []uint8{0x50}},
		{"pop bx", []uint8{0x5b}},
		{"nop", []uint8{0x90}},
		{"hlt", []uint8{0xf4}},
		{"stc", []uint8{0xf9}},
		{"ret", []uint8{0xc3}},
		{"RET ; return", []uint8{0xc3}},
		{".db 1, 2, \"hi\"", []uint8{0x01, 0x02, 0x68, 0x69}},
		{".db ';', \"a;b\" ; comment", []uint8{0x3b, 0x61, 0x3b, 0x62}},
		{".dw 0x1234, -1", []uint8{0x34, 0x12, 0xff, 0xff}},
		{"mov ax, $(2*ARENA_STACK)", []uint8{0xb8, 0x00, 0x02}},
		{"jmp 0", []uint8{0xeb, 0xfe}},
		{"call 3", []uint8{0xe8, 0x00, 0x00}},
	}

	for _, entry := range table {
		prog := assemble(t, entry.line)
		assert.Equal(entry.bytes, prog.Binary(), entry.line)
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"start:  mov ax, 0",
		"loop:   inc ax",
		"        cmp ax, 10",
		"        jnz loop",
		"        call func",
		"        hlt",
		"func:   ret",
	)

	expected := []uint8{
		0xb8, 0x00, 0x00,
		0x40,
		0x3d, 0x0a, 0x00,
		0x75, 0xfa,
		0xe8, 0x01, 0x00,
		0xf4,
		0xc3,
	}
	assert.Equal(expected, prog.Binary())

	cpu := NewCpu()
	cpu.Load(prog.Binary())

	var err error
	for range 100 {
		err = cpu.Tick()
		if err != nil {
			break
		}
	}
	assert.ErrorIs(err, ErrHalt)
	assert.Equal(uint16(10), cpu.Read16(Register(REG_AX)))
	assert.Equal(34, cpu.Ticks)

	dbg := prog.Debug(8)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(1, dbg.Index)
	assert.Equal([]string{"jnz", "loop"}, dbg.Words)

	assert.Nil(prog.Debug(0x100).Opcode)
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"        mov bx, msg",
		"        mov al, [bx+1]",
		"        hlt",
		".org 0x10",
		"msg:    .db \"ok\"",
	)

	bins := prog.Binary()
	assert.Equal(0x12, len(bins))
	assert.Equal([]uint8{0xbb, 0x10, 0x00}, bins[0:3])
	assert.Equal([]uint8{0x8a, 0x87, 0x01, 0x00}, bins[3:7])
	assert.Equal(uint8(0xf4), bins[7])
	assert.Equal([]uint8{0, 0, 0, 0, 0, 0, 0, 0}, bins[8:0x10])
	assert.Equal([]uint8("ok"), bins[0x10:])

	prog = assemble(t,
		"hlt",
		".org 0x20",
	)
	assert.Equal(0x20, len(prog.Binary()))
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SCREEN", "0x8000")

	program := []string{
		".equ COUNT 5",
		".equ PTR bx",
		"mov cx, COUNT",
		"mov al, [PTR]",
		"mov [SCREEN+1], al",
		"mov dx, LINENO",
		"mov ax, $(COUNT*3+SCREEN)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		return
	}

	expected := []uint8{
		0xb9, 0x05, 0x00,
		0x8a, 0x07,
		0x88, 0x06, 0x01, 0x80,
		0xba, 0x06, 0x00,
		0xb8, 0x0f, 0x80,
	}
	assert.Equal(expected, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program string
		lineno  int
		err     error
	}){
		{"foo ax", 1, ErrInstructionInvalid},
		{"mov [bx], 1", 1, ErrOperandSize},
		{"mov ax, bl", 1, ErrOperandSize},
		{"mov al, 300", 1, ErrImmediateRange},
		{"mov ax, [si]", 1, ErrAddressingInvalid},
		{"mov ax, [bx+bx]", 1, ErrAddressingInvalid},
		{"mov ax, [bp+di+200]", 1, ErrImmediateRange},
		{"mov 1, ax", 1, ErrOperandInvalid},
		{"mov [bx], [di+1]", 1, ErrOperandInvalid},
		{"push al", 1, ErrOperandInvalid},
		{"mov ax", 1, ErrOpcodeMissing},
		{"hlt ax", 1, ErrOpcodeExtraArgs},
		{"nop\njmp nowhere", 2, ErrLabelMissing("nowhere")},
		{"jmp 0x1000", 1, ErrBranchRange},
		{"a:\na:", 2, ErrLabelDuplicate},
		{".equ X", 1, ErrEquateSyntax},
		{".equ X 1\n.equ X 2", 2, ErrEquateDuplicate},
		{".org 0x10\n.org 0x8", 2, ErrOrgBackwards},
		{".org 0x10001", 1, ErrSegmentOverflow},
		{".org 0xffff\n.dw 0", 2, ErrSegmentOverflow},
		{"mov ax, zz!", 1, ErrParseNumber("zz!")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.program))
		assert.ErrorIs(err, entry.err, entry.program)

		var synErr *ErrSyntax
		if assert.True(errors.As(err, &synErr), entry.program) {
			assert.Equal(entry.lineno, synErr.LineNo, entry.program)
		}
	}
}
