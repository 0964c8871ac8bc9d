// Package third implements a minimal stack-oriented, concatenative,
// dictionary-threaded language in the Forth lineage: a byte-addressable
// heap, data and return stacks, a single-vocabulary dictionary, and the
// handful of primitives needed to bootstrap the rest of the language from
// a plain-text program evaluated by the outer interpreter.
package third

import (
	"io"

	"github.com/oneearedrabbit/forth-playground/internal/fileinput"
	"github.com/oneearedrabbit/forth-playground/internal/flushio"
	"github.com/oneearedrabbit/forth-playground/internal/mem"
)

// Cell is the heap's unit of addressing: a 32-bit signed integer, aliased
// over 4 bytes of the underlying byte-addressable heap.
const Cell = 4

// Register cell addresses, given in cells per the data model; cellAddr
// converts a cell index to the byte address used by the heap.
const (
	regFORTH   = 0x04 // head of the single vocabulary's dictionary chain
	regCONTEXT = 0x19 // address of the vocabulary cell used for lookup
	regCURRENT = 0x1b // address of the vocabulary cell new defs link into
	regLATEST  = 0x1c // absolute address of the most recently begun header
	regHERE    = 0x1d // next free heap byte
	regSTATE   = 0x20 // 0 interpreting, nonzero compiling
)

// initialHere is where the dictionary proper begins, leaving the register
// block (and a little slack) inviolate.
const initialHere = 0x23 * Cell

// Dictionary header flag bits, packed into the byte following the link
// cell alongside a 5-bit name length.
const (
	flagImmediate = 1 << 7
	flagHidden    = 1 << 5

	maxNameLen = 1<<5 - 1 // 5 bits of length remain: 0..31
)

func cellAddr(reg uint) uint { return reg * Cell }

// VM holds the interpreter state: heap, stacks, dictionary registers, and
// the I/O plumbing used by primitives like EMIT, PRINT, and DUMP.
type VM struct {
	fileinput.Input
	logging

	heap mem.Bytes
	ip   int // -1 once halted by BYE or end of input

	stack  []int32
	rstack []int32

	stackLimit  int
	rstackLimit int

	out           flushio.WriteFlusher
	closers       []io.Closer
	skipBootstrap bool
}

type logging struct {
	logf func(mess string, args ...interface{})
}

func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logging.logf != nil {
		vm.logging.logf(mess, args...)
	}
}

// Close closes any resources (input files, wrapped writers) opened while
// configuring the VM.
func (vm *VM) Close() error {
	var err error
	for i := len(vm.closers) - 1; i >= 0; i-- {
		if cerr := vm.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	vm.closers = nil
	return err
}
