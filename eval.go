package third

import (
	"strconv"
	"strings"
	"unicode"
)

// evaluate implements the EVALUATE primitive: read one token, then find,
// compile, or execute it. It is itself compiled into the three-cell
// top-level loop built by topLoop, so the outer interpreter is really just
// this function called forever until input runs out.
func (vm *VM) evaluate() {
	tok, ok := vm.nextToken()
	if !ok {
		vm.ip = -1 // clean end of input, not a fault
		return
	}

	if addr, found := vm.find(tok); found {
		cfa := vm.headerCFA(addr)
		immediate := vm.loadByte(addr+Cell)&flagImmediate != 0
		if vm.state() && !immediate {
			vm.comma(int32(cfa))
		} else {
			vm.execute(cfa)
		}
		return
	}

	n, ok := parseNumber(tok)
	if !ok {
		vm.halt(UnknownWordError(tok))
		return
	}
	if vm.state() {
		vm.comma(int32(vm.cfaOf("LIT")))
		vm.comma(n)
	} else {
		vm.push(n)
	}
}

// parseNumber accepts decimal (with an optional leading "-"), "0x" hex, and
// "0b" binary literals per spec.md §6/§4.8. This deliberately does not use
// strconv.ParseInt's base-0 inference: that treats a bare leading "0" (e.g.
// "010") as octal, which would silently misparse a decimal literal the spec
// never asks to be anything but base 10.
func parseNumber(tok string) (int32, bool) {
	s := tok
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	}
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	n := int32(v)
	if neg {
		n = -n
	}
	return n, true
}

// nextToken reads one whitespace-delimited token, reporting false if input
// is exhausted before a token starts. Comments are not special here: "#" is
// an ordinary word, made to discard the rest of its line by the bootstrap
// program via PARSE (see parseDelim), not by the tokenizer.
func (vm *VM) nextToken() (string, bool) {
	r, ok := vm.skipBlanks()
	if !ok {
		return "", false
	}

	var b []byte
	for {
		b = append(b, string(r)...)
		r, ok = vm.readRune()
		if !ok {
			break
		}
		if unicode.IsSpace(r) {
			break
		}
	}
	return string(b), true
}

func (vm *VM) skipBlanks() (rune, bool) {
	for {
		r, ok := vm.readRune()
		if !ok {
			return 0, false
		}
		if !unicode.IsSpace(r) {
			return r, true
		}
	}
}

// parseDelim implements the body of PARSE ( delim-char -- addr len ):
// consume runes up to and including delim (or end of stream), returning the
// text before delim, without skipping any leading delimiter or whitespace
// first.
func (vm *VM) parseDelim(delim byte) string {
	var b []byte
	for {
		r, ok := vm.readRune()
		if !ok {
			break
		}
		if byte(r) == delim {
			break
		}
		b = append(b, string(r)...)
	}
	return string(b)
}

// readRune pulls one rune from the queued input sources. ReadRune returns a
// bare NUL with a nil error exactly at the boundary between two queued
// readers (it has just switched streams but not yet read from the new
// one); that sentinel is not itself a character and must be read past
// rather than handed to the tokenizer.
func (vm *VM) readRune() (rune, bool) {
	r, _, err := vm.Input.ReadRune()
	for r == 0 && err == nil {
		r, _, err = vm.Input.ReadRune()
	}
	if err != nil {
		return 0, false
	}
	return r, true
}
