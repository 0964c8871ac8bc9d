package third

// Data and return stacks are plain host slices: push/pop is the entire
// primitive surface the kernel needs (spec: "no random-access peek is
// required by the kernel; surface words build DUP, OVER, SWAP, ROT on
// top" using the heap instead).

func (vm *VM) push(v int32) {
	if vm.stackLimit > 0 && len(vm.stack) >= vm.stackLimit {
		vm.halt(StackOverflowError("data"))
		return
	}
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() int32 {
	if n := len(vm.stack); n > 0 {
		v := vm.stack[n-1]
		vm.stack = vm.stack[:n-1]
		return v
	}
	vm.halt(StackUnderflowError("data"))
	return 0
}

func (vm *VM) pushr(v int32) {
	if vm.rstackLimit > 0 && len(vm.rstack) >= vm.rstackLimit {
		vm.halt(StackOverflowError("return"))
		return
	}
	vm.rstack = append(vm.rstack, v)
}

func (vm *VM) popr() int32 {
	if n := len(vm.rstack); n > 0 {
		v := vm.rstack[n-1]
		vm.rstack = vm.rstack[:n-1]
		return v
	}
	vm.halt(StackUnderflowError("return"))
	return 0
}
