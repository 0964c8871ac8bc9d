package third

// Heap writers implement the compiler's byte/cell append primitives: ",",
// "c,", "align", and "name,", all advancing HERE as they go.

func (vm *VM) halt(cause error) {
	panic(haltError{cause})
}

func (vm *VM) loadCell(addr uint) int32 {
	v, err := vm.heap.LoadCell(addr)
	if err != nil {
		vm.halt(err)
	}
	return v
}

func (vm *VM) storCell(addr uint, v int32) {
	if err := vm.heap.StorCell(addr, v); err != nil {
		vm.halt(HeapOverflowError{Addr: addr})
	}
}

func (vm *VM) loadByte(addr uint) byte {
	b, err := vm.heap.Load(addr)
	if err != nil {
		vm.halt(err)
	}
	return b
}

func (vm *VM) storByte(addr uint, b byte) {
	if err := vm.heap.Stor(addr, b); err != nil {
		vm.halt(HeapOverflowError{Addr: addr})
	}
}

func (vm *VM) reg(r uint) uint { return uint(vm.loadCell(cellAddr(r))) }

func (vm *VM) setReg(r uint, v uint) { vm.storCell(cellAddr(r), int32(v)) }

func (vm *VM) here() uint     { return vm.reg(regHERE) }
func (vm *VM) setHere(v uint) { vm.setReg(regHERE, v) }

// HERE returns the current compile pointer: the heap byte offset one past
// the last byte written so far. Useful for hosts that want to bound a
// DumpHeap call to the live portion of the heap.
func (vm *VM) HERE() uint { return vm.here() }

func (vm *VM) state() bool { return vm.reg(regSTATE) != 0 }
func (vm *VM) setState(compiling bool) {
	if compiling {
		vm.setReg(regSTATE, 1)
	} else {
		vm.setReg(regSTATE, 0)
	}
}

func (vm *VM) latest() uint     { return vm.reg(regLATEST) }
func (vm *VM) setLatest(v uint) { vm.setReg(regLATEST, v) }

// vocabHead returns the head of the dictionary chain used for lookup,
// following CONTEXT's indirection to the vocabulary cell (FORTH).
func (vm *VM) vocabHead() uint { return uint(vm.loadCell(uint(vm.reg(regCONTEXT)))) }

// publish links addr into the vocabulary CURRENT points into, making it
// visible to find for the first time.
func (vm *VM) publish(addr uint) {
	vocab := uint(vm.reg(regCURRENT))
	vm.storCell(vocab, int32(addr))
}

// comma compiles one cell at HERE, advancing HERE by Cell.
func (vm *VM) comma(v int32) {
	h := vm.here()
	vm.storCell(h, v)
	vm.setHere(h + Cell)
}

// cComma compiles one byte at HERE, advancing HERE by 1.
func (vm *VM) cComma(b byte) {
	h := vm.here()
	vm.storByte(h, b)
	vm.setHere(h + 1)
}

// align rounds HERE up to the next cell boundary.
func (vm *VM) align() {
	h := vm.here()
	if rem := h % Cell; rem != 0 {
		vm.setHere(h + (Cell - rem))
	}
}

// nameComma compiles a name's raw bytes at HERE; the length/flags byte in
// front of them is written separately (by create, via cComma).
func (vm *VM) nameComma(name string) {
	for i := 0; i < len(name); i++ {
		vm.cComma(name[i])
	}
}
