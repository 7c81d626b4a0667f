package cpu

const (
	SEGMENT_SIZE       = 0x1_0000 // Size of the single memory segment.
	REGISTER_FILE_SIZE = 16       // Bytes in the register file.
	REG_WIDTH          = 2        // Bytes per register.

	ARENA_CODE  = 0x0000 // Program image load address.
	ARENA_STACK = 0x0100 // Initial stack pointer.
)
