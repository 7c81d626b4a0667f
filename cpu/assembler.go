// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a single pass assembler for the tiny86 instruction subset.
// Label references are linked once the whole input has been read.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Predefined system equates
func sysEquate() (equ map[string]string) {
	equ = maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return
}

var reg16Map = map[string]CodeReg{
	"ax": REG_AX,
	"cx": REG_CX,
	"dx": REG_DX,
	"bx": REG_BX,
	"sp": REG_SP,
	"bp": REG_BP,
	"si": REG_SI,
	"di": REG_DI,
}

// reg8Map names the low byte of each register.
var reg8Map = map[string]CodeReg{
	"al":  REG_AX,
	"cl":  REG_CX,
	"dl":  REG_DX,
	"bl":  REG_BX,
	"spl": REG_SP,
	"bpl": REG_BP,
	"sil": REG_SI,
	"dil": REG_DI,
}

var aluMap = map[string]Operation{
	"add": ALU_OP_ADD,
	"or":  ALU_OP_OR,
	"adc": ALU_OP_ADC,
	"sbb": ALU_OP_SBB,
	"and": ALU_OP_AND,
	"sub": ALU_OP_SUB,
	"xor": ALU_OP_XOR,
	"cmp": ALU_OP_CMP,
}

var jumpMap = map[string]uint8{
	"jc":   0x72,
	"jb":   0x72,
	"jnae": 0x72,
	"jz":   0x74,
	"je":   0x74,
	"jnz":  0x75,
	"jne":  0x75,
	"jbe":  0x76,
	"jna":  0x76,
	"ja":   0x77,
	"jnbe": 0x77,
	"jns":  0x79,
	"jmp":  0xeb,
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// expand replaces a word by its equate, following chains of equates.
func (asm *Assembler) expand(word string) string {
	for range 16 {
		equate, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = equate
	}

	return word
}

// valueOf returns the value of a simple word. Identifiers that are not
// equates are returned as labels, to be linked later.
func (asm *Assembler) valueOf(word string) (value int64, label string, err error) {
	word = asm.expand(word)

	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}

	if !invert && identifierRe.MatchString(word) {
		label = word
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	for key := range asm.Equate {
		v, label, _err := asm.valueOf(key)
		if _err != nil || len(label) != 0 {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// stripComment removes a ';' comment, ignoring quoted semicolons.
func stripComment(text string) string {
	var quote rune
	escaped := false
	for n, c := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && c == '\\':
			escaped = true
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			// quoted
		case c == '"' || c == '\'':
			quote = c
		case c == ';':
			return text[:n]
		}
	}

	return text
}

// splitOperands splits an operand list on commas outside of quotes and brackets.
func splitOperands(text string) (words []string) {
	if len(strings.TrimSpace(text)) == 0 {
		return
	}

	var quote rune
	escaped := false
	depth := 0
	start := 0
	for n, c := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && c == '\\':
			escaped = true
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			// quoted
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == ',' && depth == 0:
			words = append(words, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}
	words = append(words, strings.TrimSpace(text[start:]))

	return
}

// cutSpace splits off the first whitespace separated word.
func cutSpace(text string) (head, rest string) {
	text = strings.TrimSpace(text)
	n := strings.IndexFunc(text, unicode.IsSpace)
	if n < 0 {
		head = text
		return
	}

	head = text[:n]
	rest = strings.TrimSpace(text[n:])
	return
}

// parseLine parses a single line into a mnemonic and its operands.
func (asm *Assembler) parseLine(text string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line := strings.TrimSpace(stripComment(text))

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	head, rest := cutSpace(line)
	for strings.HasSuffix(head, ":") {
		label := head[:len(head)-1]
		_, ok := asm.Label[label]
		if ok || !identifierRe.MatchString(label) {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentIp()
		head, rest = cutSpace(rest)
	}

	if len(head) == 0 {
		return
	}

	mnemonic := strings.ToLower(head)

	// .equ CONST VALUE
	if mnemonic == ".equ" {
		name, value := cutSpace(rest)
		if len(name) == 0 || len(value) == 0 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[name]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[name] = value
		return
	}

	words = append([]string{mnemonic}, splitOperands(rest)...)

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return ARENA_CODE
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Bytes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = sysEquate()
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		for _, link := range op.Links {
			err = asm.link(op, link)
			if err != nil {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				return
			}
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches a single label reference into an opcode.
func (asm *Assembler) link(op *Opcode, link Link) (err error) {
	target := link.Addend
	if len(link.Label) != 0 {
		ip, ok := asm.Label[link.Label]
		if !ok {
			err = ErrLabelMissing(link.Label)
			return
		}
		target += ip
	}

	next := op.Ip + len(op.Bytes)

	switch link.Kind {
	case LINK_ABS16:
		op.Bytes[link.Index] = uint8(target)
		op.Bytes[link.Index+1] = uint8(target >> 8)
	case LINK_REL8:
		rel := target - next
		if rel < -128 || rel > 127 {
			err = ErrBranchRange
			return
		}
		op.Bytes[link.Index] = uint8(rel)
	case LINK_REL16:
		rel := target - next
		op.Bytes[link.Index] = uint8(rel)
		op.Bytes[link.Index+1] = uint8(rel >> 8)
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	enc := &encoder{}

	defer func() {
		if err != nil || len(enc.bytes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: words, Bytes: enc.bytes, Links: enc.links}
		asm.Opcode = append(asm.Opcode, opcode)
		if asm.currentIp() > SEGMENT_SIZE {
			err = ErrSegmentOverflow
		}
	}()

	mnemonic, args := words[0], words[1:]

	switch mnemonic {
	case ".db":
		err = asm.parseData(enc, args, WIDTH_8)
		return
	case ".dw":
		err = asm.parseData(enc, args, WIDTH_16)
		return
	case ".org":
		err = asm.parseOrg(words, lineno)
		return
	}

	opds := make([]operand, len(args))
	for n, arg := range args {
		opds[n], err = asm.parseOperand(arg)
		if err != nil {
			return
		}
	}

	need := func(count int) error {
		switch {
		case len(opds) < count:
			return ErrOpcodeMissing
		case len(opds) > count:
			return ErrOpcodeExtraArgs
		}
		return nil
	}

	if op, ok := aluMap[mnemonic]; ok {
		if err = need(2); err != nil {
			return
		}
		err = enc.alu(op, opds[0], opds[1])
		return
	}

	if opcode, ok := jumpMap[mnemonic]; ok {
		if err = need(1); err != nil {
			return
		}
		err = enc.branch(opcode, LINK_REL8, opds[0])
		return
	}

	switch mnemonic {
	case "mov":
		if err = need(2); err != nil {
			return
		}
		err = enc.mov(opds[0], opds[1])
	case "xchg":
		if err = need(2); err != nil {
			return
		}
		err = enc.xchg(opds[0], opds[1])
	case "inc", "dec":
		if err = need(1); err != nil {
			return
		}
		err = enc.incDec(mnemonic == "dec", opds[0])
	case "push", "pop":
		if err = need(1); err != nil {
			return
		}
		if opds[0].kind != kindReg16 {
			err = ErrOperandInvalid
			return
		}
		base := uint8(0x50)
		if mnemonic == "pop" {
			base = 0x58
		}
		enc.emit(base + uint8(opds[0].reg))
	case "call":
		if err = need(1); err != nil {
			return
		}
		err = enc.branch(0xe8, LINK_REL16, opds[0])
	case "ret", "nop", "hlt", "stc":
		if err = need(0); err != nil {
			return
		}
		enc.emit(map[string]uint8{"ret": 0xc3, "nop": 0x90, "hlt": 0xf4, "stc": 0xf9}[mnemonic])
	default:
		err = ErrInstructionInvalid
	}

	return
}

// parseData handles .db and .dw. Double quoted strings emit their bytes.
func (asm *Assembler) parseData(enc *encoder, args []string, width Width) (err error) {
	if len(args) == 0 {
		err = ErrOpcodeMissing
		return
	}

	for _, arg := range args {
		if strings.HasPrefix(arg, `"`) {
			var str string
			str, err = strconv.Unquote(arg)
			if err != nil || width != WIDTH_8 {
				err = ErrStringSyntax
				return
			}
			enc.emit([]uint8(str)...)
			continue
		}

		var opd operand
		opd, err = asm.parseOperand(arg)
		if err != nil {
			return
		}
		if opd.kind != kindImm {
			err = ErrOperandInvalid
			return
		}

		if width == WIDTH_8 {
			err = enc.imm8(opd)
		} else {
			err = enc.imm16(opd)
		}
		if err != nil {
			return
		}
	}

	return
}

// parseOrg moves the current address forward.
func (asm *Assembler) parseOrg(words []string, lineno int) (err error) {
	if len(words) != 2 {
		err = ErrOpcodeMissing
		return
	}

	value, label, err := asm.valueOf(words[1])
	if err != nil {
		return
	}
	if len(label) != 0 {
		err = ErrOperandInvalid
		return
	}

	switch {
	case value < int64(asm.currentIp()):
		err = ErrOrgBackwards
	case value > SEGMENT_SIZE:
		err = ErrSegmentOverflow
	default:
		asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Ip: int(value), Words: words})
	}

	return
}

// operandKind is the syntactic class of an operand.
type operandKind int

const (
	kindImm = operandKind(iota)
	kindReg8
	kindReg16
	kindMem
)

// operand is a parsed assembly operand.
type operand struct {
	kind  operandKind
	reg   CodeReg   // Register, for kindReg8 and kindReg16.
	value int64     // Immediate, or memory displacement.
	label string    // Label to add to value at link time.
	width Width     // Memory width from a size prefix, or zero.
	base  []CodeReg // Memory base registers.
}

// parseOperand parses a register, immediate or memory operand.
func (asm *Assembler) parseOperand(text string) (opd operand, err error) {
	text = strings.TrimSpace(text)

	var width Width
	head, rest := cutSpace(text)
	switch strings.ToLower(head) {
	case "byte":
		width = WIDTH_8
	case "word":
		width = WIDTH_16
	}
	if width != 0 {
		text = rest
		head, rest = cutSpace(text)
		if strings.ToLower(head) == "ptr" {
			text = rest
		}
	}

	if strings.HasPrefix(text, "[") {
		if !strings.HasSuffix(text, "]") {
			err = ErrOperandInvalid
			return
		}
		opd.kind = kindMem
		opd.width = width
		err = asm.parseAddress(&opd, text[1:len(text)-1])
		return
	}

	if width != 0 {
		err = ErrOperandInvalid
		return
	}

	word := asm.expand(text)
	if reg, ok := reg16Map[strings.ToLower(word)]; ok {
		opd = operand{kind: kindReg16, reg: reg}
		return
	}
	if reg, ok := reg8Map[strings.ToLower(word)]; ok {
		opd = operand{kind: kindReg8, reg: reg}
		return
	}

	opd.kind = kindImm
	opd.value, opd.label, err = asm.valueOf(word)

	return
}

// parseAddress parses the inside of a memory operand: a sum of base
// registers, numbers and at most one label.
func (asm *Assembler) parseAddress(opd *operand, inner string) (err error) {
	var term strings.Builder
	sign := int64(1)

	flush := func() error {
		word := asm.expand(strings.TrimSpace(term.String()))
		term.Reset()

		if reg, ok := reg16Map[strings.ToLower(word)]; ok {
			if sign < 0 || slices.Contains(opd.base, reg) {
				return ErrAddressingInvalid
			}
			opd.base = append(opd.base, reg)
			return nil
		}

		value, label, err := asm.valueOf(word)
		if err != nil {
			return err
		}
		if len(label) != 0 {
			if sign < 0 || len(opd.label) != 0 {
				return ErrAddressingInvalid
			}
			opd.label = label
		}
		opd.value += sign * value
		return nil
	}

	expectTerm := true
	for _, c := range inner {
		switch {
		case c != '+' && c != '-':
			term.WriteRune(c)
			if !unicode.IsSpace(c) {
				expectTerm = false
			}
		case expectTerm:
			// unary sign
			if c == '-' {
				sign = -sign
			}
		default:
			err = flush()
			if err != nil {
				return
			}
			sign = 1
			if c == '-' {
				sign = -1
			}
			expectTerm = true
		}
	}

	if expectTerm {
		err = ErrAddressingInvalid
		return
	}

	err = flush()
	return
}

// widthOf returns the operand width, or zero if it is not implied.
func (opd operand) widthOf() Width {
	switch opd.kind {
	case kindReg8:
		return WIDTH_8
	case kindReg16:
		return WIDTH_16
	case kindMem:
		return opd.width
	}
	return 0
}

func (opd operand) isReg() bool {
	return opd.kind == kindReg8 || opd.kind == kindReg16
}

// pairWidth returns the common width of two operands.
func pairWidth(dst, src operand) (width Width, err error) {
	a, b := dst.widthOf(), src.widthOf()
	switch {
	case a == 0 && b == 0:
		err = ErrOperandSize
	case a == 0:
		width = b
	case b == 0 || a == b:
		width = a
	default:
		err = ErrOperandSize
	}
	return
}

// encoder accumulates the bytes and links of a single opcode.
type encoder struct {
	bytes []uint8
	links []Link
}

func (enc *encoder) emit(values ...uint8) {
	enc.bytes = append(enc.bytes, values...)
}

func (enc *encoder) imm8(opd operand) (err error) {
	if len(opd.label) != 0 || opd.value < -128 || opd.value > 0xff {
		err = ErrImmediateRange
		return
	}
	enc.emit(uint8(opd.value))
	return
}

func (enc *encoder) imm16(opd operand) (err error) {
	if opd.value < -0x8000 || opd.value > 0xffff {
		err = ErrImmediateRange
		return
	}
	if len(opd.label) != 0 {
		enc.links = append(enc.links, Link{Label: opd.label, Addend: int(opd.value), Kind: LINK_ABS16, Index: len(enc.bytes)})
		enc.emit(0, 0)
		return
	}
	enc.emit(uint8(opd.value), uint8(opd.value>>8))
	return
}

// modrm encodes the addressing-mode byte for a register or memory operand,
// and any displacement it needs.
func (enc *encoder) modrm(reg uint8, rm operand) (err error) {
	if rm.isReg() {
		enc.emit(0b11<<6 | reg<<3 | uint8(rm.reg))
		return
	}
	if rm.kind != kindMem {
		err = ErrOperandInvalid
		return
	}

	base := slices.Clone(rm.base)
	slices.Sort(base)
	direct := rm.value == 0 && len(rm.label) == 0
	disp := operand{value: rm.value, label: rm.label}

	switch {
	case len(base) == 0:
		enc.emit(0b00<<6 | reg<<3 | 0b110)
		err = enc.imm16(disp)
	case slices.Equal(base, []CodeReg{REG_BX, REG_DI}) && direct:
		enc.emit(0b00<<6 | reg<<3 | 0b001)
	case slices.Equal(base, []CodeReg{REG_BX}) && direct:
		enc.emit(0b00<<6 | reg<<3 | 0b111)
	case slices.Equal(base, []CodeReg{REG_BP, REG_DI}):
		if len(rm.label) != 0 || rm.value < -128 || rm.value > 127 {
			err = ErrImmediateRange
			return
		}
		enc.emit(0b01<<6|reg<<3|0b011, uint8(rm.value))
	case slices.Equal(base, []CodeReg{REG_DI}):
		enc.emit(0b10<<6 | reg<<3 | 0b101)
		err = enc.imm16(disp)
	case slices.Equal(base, []CodeReg{REG_BX}):
		enc.emit(0b10<<6 | reg<<3 | 0b111)
		err = enc.imm16(disp)
	default:
		err = ErrAddressingInvalid
	}

	return
}

// immediate encodes an immediate of the given width.
func (enc *encoder) immediate(width Width, opd operand) error {
	if width == WIDTH_8 {
		return enc.imm8(opd)
	}
	return enc.imm16(opd)
}

func (enc *encoder) alu(op Operation, dst, src operand) (err error) {
	if dst.kind == kindImm || (dst.kind == kindMem && src.kind == kindMem) {
		err = ErrOperandInvalid
		return
	}

	width, err := pairWidth(dst, src)
	if err != nil {
		return
	}

	base := uint8(op) << 3
	var w uint8
	if width == WIDTH_16 {
		w = 1
	}

	switch {
	case src.kind == kindImm && dst.isReg() && dst.reg == REG_AX:
		enc.emit(base | 0b100 | w)
		err = enc.immediate(width, src)
	case src.kind == kindImm && width == WIDTH_8:
		enc.emit(0x80)
		if err = enc.modrm(uint8(op), dst); err != nil {
			return
		}
		err = enc.imm8(src)
	case src.kind == kindImm && len(src.label) == 0 && src.value >= -128 && src.value <= 127:
		enc.emit(0x83)
		if err = enc.modrm(uint8(op), dst); err != nil {
			return
		}
		enc.emit(uint8(src.value))
	case src.kind == kindImm:
		enc.emit(0x81)
		if err = enc.modrm(uint8(op), dst); err != nil {
			return
		}
		err = enc.imm16(src)
	case src.isReg():
		enc.emit(base | w)
		err = enc.modrm(uint8(src.reg), dst)
	default:
		enc.emit(base | 0b010 | w)
		err = enc.modrm(uint8(dst.reg), src)
	}

	return
}

func (enc *encoder) mov(dst, src operand) (err error) {
	if dst.kind == kindImm || (dst.kind == kindMem && src.kind == kindMem) {
		err = ErrOperandInvalid
		return
	}

	width, err := pairWidth(dst, src)
	if err != nil {
		return
	}

	var w uint8
	if width == WIDTH_16 {
		w = 1
	}

	switch {
	case src.kind == kindImm && dst.isReg():
		enc.emit(0xb0 | w<<3 | uint8(dst.reg))
		err = enc.immediate(width, src)
	case src.kind == kindImm:
		enc.emit(0xc6 | w)
		if err = enc.modrm(0, dst); err != nil {
			return
		}
		err = enc.immediate(width, src)
	case src.isReg():
		enc.emit(0x88 | w)
		err = enc.modrm(uint8(src.reg), dst)
	default:
		enc.emit(0x8a | w)
		err = enc.modrm(uint8(dst.reg), src)
	}

	return
}

func (enc *encoder) xchg(dst, src operand) (err error) {
	width, err := pairWidth(dst, src)
	if err != nil {
		return
	}

	switch {
	case width == WIDTH_16 && dst.kind == kindReg16 && src.kind == kindReg16 && dst.reg == REG_AX:
		enc.emit(0x90 + uint8(src.reg))
	case width == WIDTH_16 && dst.kind == kindReg16 && src.kind == kindReg16 && src.reg == REG_AX:
		enc.emit(0x90 + uint8(dst.reg))
	case width == WIDTH_8 && src.kind == kindReg8:
		enc.emit(0x86)
		err = enc.modrm(uint8(src.reg), dst)
	case width == WIDTH_8 && dst.kind == kindReg8:
		enc.emit(0x86)
		err = enc.modrm(uint8(dst.reg), src)
	default:
		err = ErrOperandInvalid
	}

	return
}

func (enc *encoder) incDec(dec bool, dst operand) (err error) {
	var field uint8
	if dec {
		field = 1
	}

	switch {
	case dst.kind == kindReg16:
		enc.emit(0x40 | field<<3 | uint8(dst.reg))
	case dst.kind == kindImm:
		err = ErrOperandInvalid
	case dst.widthOf() == WIDTH_8:
		enc.emit(0xfe)
		err = enc.modrm(field, dst)
	case dst.widthOf() == 0:
		err = ErrOperandSize
	default:
		err = ErrOperandInvalid
	}

	return
}

// branch encodes a relative jump or call to a label or absolute address.
func (enc *encoder) branch(opcode uint8, kind LinkKind, target operand) (err error) {
	if target.kind != kindImm {
		err = ErrOperandInvalid
		return
	}

	enc.emit(opcode)
	enc.links = append(enc.links, Link{Label: target.label, Addend: int(target.value), Kind: kind, Index: len(enc.bytes)})
	if kind == LINK_REL8 {
		enc.emit(0)
	} else {
		enc.emit(0, 0)
	}

	return
}
