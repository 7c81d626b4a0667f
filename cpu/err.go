package cpu

import (
	"errors"

	"github.com/ezrec/tiny86/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalt = errors.New(f("halt"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOrgBackwards       = errors.New(f(".org moves backwards"))
	ErrSegmentOverflow    = errors.New(f("program exceeds segment"))
	ErrStringSyntax       = errors.New(f("string syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrOperandSize        = errors.New(f("operand size mismatch or unknown"))
	ErrAddressingInvalid  = errors.New(f("addressing mode not supported"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrBranchRange        = errors.New(f("branch target out of range"))
)

// ErrOpcodeUnsupported is an opcode byte with no instruction.
type ErrOpcodeUnsupported uint8

func (eu ErrOpcodeUnsupported) Error() string {
	return f("unsupported opcode %#x", uint8(eu))
}

func (eu ErrOpcodeUnsupported) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcodeUnsupported)
	return
}

// ErrModRM is an addressing-mode byte that does not resolve to an operand.
type ErrModRM uint8

func (em ErrModRM) Error() string {
	mod, _, rm := ModRM(uint8(em))
	return f("unsupported mod %02b r/m %03b", mod, rm)
}

func (em ErrModRM) Is(err error) (ok bool) {
	_, ok = err.(ErrModRM)
	return
}

// ErrField is an opcode extension field with no defined meaning.
type ErrField struct {
	Opcode uint8
	Field  uint8
}

func (ef ErrField) Error() string {
	return f("unsupported field %v for opcode %#x", ef.Field, ef.Opcode)
}

func (ef ErrField) Is(err error) (ok bool) {
	_, ok = err.(ErrField)
	return
}

// ErrOperation is an ALU operation code outside of the 3-bit range.
type ErrOperation uint8

func (eo ErrOperation) Error() string {
	return f("alu operation %v invalid", uint8(eo))
}

// ErrOpcode locates a failing instruction.
type ErrOpcode struct {
	Ip     uint16
	Opcode uint8
}

func (eo ErrOpcode) Error() string {
	return f("opcode %#x at %04x", eo.Opcode, eo.Ip)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
