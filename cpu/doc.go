// Package cpu implements the processor core and assembler for tiny86.
//
// The CPU models a single 64KB memory segment, a 16-byte register file
// holding eight 16-bit registers (ax, cx, dx, bx, sp, bp, si, di), the
// carry, zero and sign flags, and a 16-bit instruction pointer (IP).
// Instruction operands resolve to an Operand, which addresses either the
// register file or the memory segment, so every load and store goes through
// the same pair of primitives.
//
// The assembler provides an Intel-style assembly language for the supported
// opcode subset, with labels, equates and compile-time expression evaluation.
package cpu
