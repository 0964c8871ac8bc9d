package third

import (
	"fmt"
	"io"

	"github.com/oneearedrabbit/forth-playground/internal/runeio"
)

// emit implements EMIT: write one code point to the output stream, escaping
// C1 controls to their classic 7-bit ESC form the way the teacher's own
// EMIT does, so a stray control byte on the heap doesn't corrupt a
// terminal.
func (vm *VM) emit(v int32) {
	if _, err := runeio.WriteANSIRune(vm.out, rune(v)); err != nil {
		vm.halt(err)
	}
}

// print implements PRINT: write a number's decimal form, with no leading
// or trailing separator — spec.md §8's scenarios concatenate successive
// PRINT calls directly (e.g. two digits back to back), so any separator
// belongs to the surface program, not to PRINT itself.
func (vm *VM) print(v int32) {
	if _, err := fmt.Fprintf(vm.out, "%d", v); err != nil {
		vm.halt(err)
	}
}

const dumpWidth = 16

// dump implements DUMP ( addr len -- ): a host-level hex+ASCII memory dump
// over n bytes starting at addr, 16 bytes per row: an uppercase hex address,
// four groups of four hex bytes (a "-" separating the middle two groups),
// then the printable ASCII rendering. Matches spec.md §6's literal example:
//
//	A00000: 00 01 02 03  04 05 06 07 - 08 09 0a 0b  0c 0d 0e 0f  ................
func (vm *VM) dump(addr uint, n uint) {
	if err := vm.dumpTo(vm.out, addr, n); err != nil {
		vm.halt(err)
	}
	if err := vm.out.Flush(); err != nil {
		vm.halt(err)
	}
}

// DumpHeap writes the same hex+ASCII dump format as the DUMP primitive to w,
// for hosts (like cmd/third's --dump flag) that want a post-mortem view of
// the heap without going through the data stack.
func (vm *VM) DumpHeap(w io.Writer, addr, n uint) error {
	return vm.dumpTo(w, addr, n)
}

func (vm *VM) dumpTo(w io.Writer, addr uint, n uint) error {
	for off := uint(0); off < n; off += dumpWidth {
		rowLen := dumpWidth
		if remaining := n - off; remaining < dumpWidth {
			rowLen = int(remaining)
		}

		row := make([]byte, rowLen)
		for i := range row {
			row[i] = vm.loadByte(addr + off + uint(i))
		}

		if _, err := fmt.Fprintf(w, "%X:", addr+off); err != nil {
			return err
		}
		for i := 0; i < dumpWidth; i++ {
			switch i {
			case 4, 12:
				fmt.Fprint(w, "  ")
			case 8:
				fmt.Fprint(w, " - ")
			default:
				fmt.Fprint(w, " ")
			}
			if i < len(row) {
				fmt.Fprintf(w, "%02x", row[i])
			} else {
				fmt.Fprint(w, "  ")
			}
		}
		fmt.Fprint(w, "  ")
		for _, b := range row {
			if b >= 0x20 && b < 0x7f {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// words implements WORDS: a word-level structured dictionary dump, walking
// the current vocabulary's link chain from its head (most recent definition
// first) and writing each visible name, space-separated. Hidden entries are
// skipped, mirroring find's own visibility rule.
func (vm *VM) words() {
	for addr := vm.vocabHead(); addr != 0; addr = uint(vm.loadCell(addr)) {
		flagsLen := vm.loadByte(addr + Cell)
		if flagsLen&flagHidden != 0 {
			continue
		}
		namelen := uint(flagsLen & maxNameLen)
		base := addr + Cell + 1
		for i := uint(0); i < namelen; i++ {
			fmt.Fprintf(vm.out, "%c", vm.loadByte(base+i))
		}
		fmt.Fprint(vm.out, " ")
	}
	if _, err := fmt.Fprint(vm.out, "\n"); err != nil {
		vm.halt(err)
	}
	if err := vm.out.Flush(); err != nil {
		vm.halt(err)
	}
}
