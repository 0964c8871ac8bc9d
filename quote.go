package third

// Quotations ("{ ... }") are anonymous colon-like bodies: pushing their
// CFA is equivalent to "'" on a word that has no name. When a quotation is
// opened while already compiling, the surrounding word must jump over its
// body at run time, so quoteOpen additionally compiles a BRANCH with a
// placeholder that quoteClose patches once the body's end is known.
//
// Unlike IF/ELSE/THEN (built as ordinary bootstrap words around `'` and
// the heap primitives), quotations are implemented directly in Go: the
// bookkeeping they need — juggling "were we already compiling", a branch
// target, and the quotation's own CFA together on the data stack — reads
// more clearly as a few lines of Go than as a further exercise in
// tick-and-comma bootstrap plumbing.
func (vm *VM) quoteOpen() {
	wasCompiling := vm.state()

	var branchTarget uint
	if wasCompiling {
		vm.comma(int32(vm.cfaOf("BRANCH")))
		branchTarget = vm.here()
		vm.comma(0)
	}

	qcfa := vm.here()
	vm.comma(OpDocol)
	vm.comma(0)

	if wasCompiling {
		vm.push(1)
	} else {
		vm.push(0)
	}
	vm.push(int32(branchTarget))
	vm.push(int32(qcfa))

	vm.setState(true)
}

func (vm *VM) quoteClose() {
	qcfa := uint(vm.pop())
	branchTarget := uint(vm.pop())
	wasCompiling := vm.pop() != 0

	vm.comma(int32(vm.cfaOf("EXIT")))
	if branchTarget != 0 {
		// the skip lands back in the enclosing word's flow
		vm.storCell(branchTarget, int32(vm.here()))
	}

	vm.setState(wasCompiling)
	if wasCompiling {
		// push the quotation's CFA when the enclosing word runs, not now
		vm.comma(int32(vm.cfaOf("LIT")))
		vm.comma(int32(qcfa))
	} else {
		vm.push(int32(qcfa))
	}
}
