package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"strings"

	"github.com/gdamore/tcell"
)

const (
	DISPLAY_BASE    = 0x8000 // Address of the first character cell.
	DISPLAY_COLUMNS = 80
	DISPLAY_ROWS    = 25
)

var _display_defines = map[string]string{
	"DISPLAY_BASE":    fmt.Sprintf("%#x", DISPLAY_BASE),
	"DISPLAY_COLUMNS": fmt.Sprintf("%v", DISPLAY_COLUMNS),
	"DISPLAY_ROWS":    fmt.Sprintf("%v", DISPLAY_ROWS),
}

// Display is a text window mapped into memory, one byte per character cell,
// row after row.
type Display struct {
	Base    uint16 // Address of the top left cell.
	Columns int    // Cells per row.
	Rows    int    // Rows in the window.
}

// NewDisplay returns the standard 80x25 window at DISPLAY_BASE.
func NewDisplay() *Display {
	return &Display{
		Base:    DISPLAY_BASE,
		Columns: DISPLAY_COLUMNS,
		Rows:    DISPLAY_ROWS,
	}
}

// Defines returns the display layout as assembler equates.
func (disp *Display) Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// cell returns the character at a cell. Zero bytes, and addresses outside
// of memory, are blank.
func (disp *Display) cell(memory []uint8, row, col int) rune {
	addr := int(disp.Base + uint16(row*disp.Columns+col))
	if addr >= len(memory) || memory[addr] == 0 {
		return ' '
	}

	return rune(memory[addr])
}

// Lines iterates over the rows of the window.
func (disp *Display) Lines(memory []uint8) iter.Seq[string] {
	return func(yield func(line string) bool) {
		for row := range disp.Rows {
			var line strings.Builder
			for col := range disp.Columns {
				line.WriteRune(disp.cell(memory, row, col))
			}
			if !yield(line.String()) {
				return
			}
		}
	}
}

// Dump writes the window, one line per row.
func (disp *Display) Dump(output io.Writer, memory []uint8) (err error) {
	for line := range disp.Lines(memory) {
		_, err = fmt.Fprintln(output, line)
		if err != nil {
			return
		}
	}

	return
}

// Show draws the window into the top left of a terminal screen.
func (disp *Display) Show(screen tcell.Screen, memory []uint8) {
	style := tcell.StyleDefault

	screen.Clear()
	for row := range disp.Rows {
		for col := range disp.Columns {
			screen.SetContent(col, row, disp.cell(memory, row, col), nil, style)
		}
	}
	screen.Show()
}
