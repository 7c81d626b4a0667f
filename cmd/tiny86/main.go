// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/gdamore/tcell"
	"golang.org/x/term"

	"github.com/ezrec/tiny86/emulator"
	"github.com/ezrec/tiny86/io"
)

// view shows the display window until a key is pressed.
func view(emu *emulator.Emulator) (err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return
	}

	err = screen.Init()
	if err != nil {
		return
	}
	defer screen.Fini()

	emu.Display.Show(screen, emu.Cpu.Memory[:])

	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventKey:
			return
		case *tcell.EventResize:
			emu.Display.Show(screen, emu.Cpu.Memory[:])
		}
	}
}

func main() {
	var compile string
	var save string
	var verbose bool
	var viewer bool
	var limit int

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&save, "s", "", "Save assembled image to file, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&viewer, "view", false, "Show the display in the terminal")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to execute (0 for no limit)")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		binary := "codegolf.bin"
		if flag.NArg() == 1 {
			binary = flag.Arg(0)
		}

		err := emu.LoadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		err = emu.Rom.Save(ouf)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	emu.Reset()
	steps, err := emu.Run(limit)
	if verbose {
		log.Printf("%v steps", steps)
	}
	if err != nil {
		log.Print(emu.Cpu.String())
		log.Fatal(err)
	}

	stdout := int(os.Stdout.Fd())
	if viewer {
		if !term.IsTerminal(stdout) {
			log.Fatalf("%v: -view needs a terminal", os.Args[0])
		}
		err = view(emu)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if term.IsTerminal(stdout) {
		width, _, err := term.GetSize(stdout)
		if err == nil && width < io.DISPLAY_COLUMNS {
			log.Printf("terminal is %v columns, display is %v", width, io.DISPLAY_COLUMNS)
		}
	}

	err = emu.Dump()
	if err != nil {
		log.Fatal(err)
	}
}
