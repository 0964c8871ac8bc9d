package third

// Dictionary entry layout:
//
//	+0            link cell: address of the previous header, or 0
//	+Cell         flags (top 3 bits) | name length (low 5 bits)
//	+Cell+1       name bytes
//	..align..
//	CFA           codeword cell
//	CFA+Cell      reserved cell (DOES> action address, once RETURN runs)
//	CFA+2*Cell    body: threaded cells, for colon definitions

// headerCFA computes a header's CFA from its link-cell address.
func (vm *VM) headerCFA(addr uint) uint {
	flagsLen := vm.loadByte(addr + Cell)
	p := addr + Cell + 1 + uint(flagsLen&maxNameLen)
	if rem := p % Cell; rem != 0 {
		p += Cell - rem
	}
	return p
}

// create writes a new dictionary header for name with the given codeword
// and returns its CFA. The new entry becomes LATEST but is deliberately
// left unpublished: it is not yet visible to find, since CURRENT's head
// cell is untouched. Callers publish it themselves, immediately (CREATE,
// builtin, constant) or deferred until END (DEF), per spec.md §4.3/§4.7 —
// this is how a colon definition's own name stays hidden from its body
// while it is being compiled.
func (vm *VM) create(name string, codeword int32) uint {
	if len(name) > maxNameLen {
		vm.halt(NameTooLongError(name))
	}

	addr := vm.here()
	vm.comma(int32(vm.vocabHead()))
	vm.cComma(byte(len(name)))
	vm.nameComma(name)
	vm.align()

	cfa := vm.here()
	vm.comma(codeword)
	vm.comma(0)

	vm.setLatest(addr)
	return cfa
}

// find walks the dictionary chain looking for name, skipping hidden
// entries, and returns its header address.
func (vm *VM) find(name string) (uint, bool) {
	for addr := vm.vocabHead(); addr != 0; addr = uint(vm.loadCell(addr)) {
		flagsLen := vm.loadByte(addr + Cell)
		if flagsLen&flagHidden != 0 {
			continue
		}
		namelen := uint(flagsLen & maxNameLen)
		if int(namelen) != len(name) {
			continue
		}
		base := addr + Cell + 1
		match := true
		for i := uint(0); i < namelen; i++ {
			if vm.loadByte(base+i) != name[i] {
				match = false
				break
			}
		}
		if match {
			return addr, true
		}
	}
	return 0, false
}

// setImmediate flags the most recently created header as IMMEDIATE.
func (vm *VM) setImmediate() {
	p := vm.latest() + Cell
	vm.storByte(p, vm.loadByte(p)|flagImmediate)
}

// setReturn patches the most recently created header's codeword to
// OpDoreturn and installs the DOES>-style action address in its reserved
// cell, implementing the RETURN primitive. It then pops the return stack
// into ip, ending the *defining* word's own execution right here: the code
// following RETURN in the defining word's body is never run as part of
// defining the word, only later, when the created word's OpDoreturn
// codeword jumps ip straight to the reserved action address.
func (vm *VM) setReturn(action uint) {
	if len(vm.rstack) == 0 {
		vm.halt(BadReturnStateError("empty return stack"))
	}
	addr := vm.latest()
	if addr == 0 {
		vm.halt(BadReturnStateError("no latest definition"))
	}
	cfa := vm.headerCFA(addr)
	if vm.loadCell(cfa) != OpDovar {
		vm.halt(BadReturnStateError("latest definition is not a data word"))
	}
	vm.storCell(cfa, OpDoreturn)
	vm.storCell(cfa+Cell, int32(action))
	vm.ip = int(vm.popr())
}
