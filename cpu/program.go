package cpu

import (
	"iter"
)

// LinkKind is the encoding of a label reference.
type LinkKind int

const (
	LINK_ABS16 = LinkKind(0) // Absolute word.
	LINK_REL8  = LinkKind(1) // Signed byte displacement from the end of the opcode.
	LINK_REL16 = LinkKind(2) // Word displacement from the end of the opcode.
)

// Link is a reference to a label, patched into the opcode bytes once all
// labels are known. The target address is the label's address, or zero for
// an empty label, plus the addend.
type Link struct {
	Label  string
	Addend int
	Kind   LinkKind
	Index  int // Index of the patched bytes in Opcode.Bytes.
}

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo int
	Ip     int
	Words  []string
	Bytes  []uint8
	Links  []Link
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates a byte of the program listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing entry covering an address. The Opcode is nil if
// no entry covers it.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the program image, starting at ARENA_CODE. Gaps left by
// .org are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	for ip, value := range prog.Bytes() {
		for len(bins) <= int(ip) {
			bins = append(bins, 0)
		}
		bins[ip] = value
	}

	// Trailing .org
	for _, op := range prog.Opcodes {
		for len(bins) < op.Ip {
			bins = append(bins, 0)
		}
	}

	return
}

// Bytes iterates over the assembled bytes and their addresses.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(ip uint16, value uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(uint16(op.Ip+n), value) {
					return
				}
			}
		}
	}
}
