package third

import (
	"context"

	"github.com/oneearedrabbit/forth-playground/internal/panicerr"
)

// dispatch executes the word whose codeword cell lives at cfa: entering a
// colon body (OpDocol), pushing a data address (OpDovar/OpDoreturn), or
// invoking a primitive directly. This is the single place that interprets
// the fixed codewords; everything else in the table is an ordinary
// primitive with no further indirection.
//
// The spec describes the inner interpreter in terms of a pair (ip, np): an
// instruction pointer naming the codeword currently executing, and a next
// pointer into the caller's body. This implementation collapses that pair
// into the single ip register below, the same way the codeword transition
// is "entering a procedure" for DOCOL: ip already points past the call
// cell that produced cfa, so pushing it onto the return stack before
// moving ip into the callee's body is the entire effect of a call.
func (vm *VM) dispatch(cfa uint) {
	codeword := vm.loadCell(cfa)
	switch codeword {
	case OpDocol:
		vm.pushr(int32(vm.ip))
		vm.ip = int(cfa + 2*Cell)
	case OpDovar:
		vm.push(int32(cfa + 2*Cell))
	case OpDoreturn:
		vm.push(int32(cfa + 2*Cell))
		vm.pushr(int32(vm.ip))
		vm.ip = int(vm.loadCell(cfa + Cell))
	default:
		if codeword < 0 || int(codeword) >= len(primTable) || primTable[codeword] == nil {
			vm.halt(BadOpcodeError(codeword))
			return
		}
		primTable[codeword](vm, cfa)
	}
}

// step fetches the next threaded cell from the current body, advances ip
// past it, and dispatches through it.
func (vm *VM) step() {
	cfa := uint(vm.loadCell(uint(vm.ip)))
	if vm.logging.logf != nil {
		vm.logf("step @%v -> %v", vm.ip, cfa)
	}
	vm.ip += Cell
	vm.dispatch(cfa)
}

// execute transfers control directly to cfa, as EVALUATE does for a word
// found by name rather than threaded into a body.
func (vm *VM) execute(cfa uint) { vm.dispatch(cfa) }

// topLoop lays down the three-cell loop EVALUATE runs inside: call
// EVALUATE, branch back to the call. Each EVALUATE call handles one token;
// once input runs out it sets ip negative, which ends the run instead of
// branching back.
func (vm *VM) topLoop() uint {
	start := vm.here()
	vm.comma(int32(vm.cfaOf("EVALUATE")))
	vm.comma(int32(vm.cfaOf("BRANCH")))
	vm.comma(int32(start))
	return start
}

// Run drives the interpreter from a freshly built top-level loop until
// EVALUATE runs out of input or BYE is executed, isolating the run so a
// stray panic or runtime.Goexit surfaces as a normal error.
func (vm *VM) Run(ctx context.Context) error {
	return panicerr.Recover("third.VM.Run", func() error {
		return vm.run(ctx)
	})
}

func (vm *VM) run(ctx context.Context) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if he, ok := e.(haltError); ok {
				err = he.Unwrap()
				return
			}
			panic(e)
		}
	}()

	vm.ip = int(vm.topLoop())
	for vm.ip >= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		vm.step()
	}
	return nil
}
