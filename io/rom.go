package io

import (
	"io"
	"log"
	"os"
)

// SEGMENT_SIZE is the largest program image, the size of the memory segment.
const SEGMENT_SIZE = 0x1_0000

// Rom is a raw program image, loaded at the start of memory.
type Rom struct {
	Verbose bool    // If set, logs image loads.
	Data    []uint8 // Image bytes.
}

// Load reads a program image. Bytes past the end of the segment are
// ignored. An empty image is valid, and leaves memory zeroed.
func (rom *Rom) Load(input io.Reader) (err error) {
	data, err := io.ReadAll(io.LimitReader(input, SEGMENT_SIZE))
	if err != nil {
		return
	}

	if rom.Verbose {
		log.Printf("rom: %v bytes", len(data))
	}

	rom.Data = data

	return
}

// LoadFile reads a program image from a file.
func (rom *Rom) LoadFile(path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	err = rom.Load(inf)

	return
}

// Save writes the program image.
func (rom *Rom) Save(output io.Writer) (err error) {
	_, err = output.Write(rom.Data)
	return
}
