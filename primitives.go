package third

// Primitive opcodes. OpDocol, OpDovar, and OpDoreturn are fixed per the
// data model, followed by OpConst, the codeword shared by the register
// constants; the rest are listed in the order initPrimitives registers
// the kernel's built-in words.
const (
	OpDocol = iota
	OpDovar
	OpDoreturn

	OpConst // pushes the constant in its reserved cell (registers, etc)

	OpExit    // pops the return stack into ip
	OpLit     // pushes the literal compiled in the following cell
	OpBranch  // unconditional jump to the compiled target
	Op0Branch // pops a flag; jumps to the compiled target if zero

	OpCreate    // reads the next token, creates a variable-style header
	OpDef       // reads the next token, begins a colon definition
	OpEnd       // compiles EXIT, leaves compiling state
	OpReturn    // DOES>: patches the latest header to OpDoreturn
	OpImmediate // flags the latest header IMMEDIATE

	OpToR   // >R: data stack to return stack
	OpRFrom // R>: return stack to data stack

	OpFetch // @
	OpStore // !
	OpCFetch // C@
	OpCStore // C!

	OpAdd   // +
	OpSub   // -
	OpMul   // *
	OpDiv   // /
	OpLess0 // 0<
	OpEq0   // 0=

	OpComma  // ,
	OpCComma // C,
	OpAlign  // ALIGN

	OpTick // ': reads the next token, pushes (or compiles) its CFA
	OpFind // FIND: reads the next token, pushes >CFA(find(word)) even on a miss

	OpParse // PARSE: pops a delim char, pushes (addr len) of the text up to it

	OpQuoteOpen  // {: opens a quotation
	OpQuoteClose // }: closes a quotation
	OpExecute    // pops a CFA and transfers control to it

	OpEmit  // pops a char, writes it to output
	OpPrint // pops a number, writes its decimal form
	OpDump  // pops (addr len), writes a hex+ASCII dump
	OpWords // walks the dictionary chain, writing each visible name

	OpEvaluate // one outer-interpreter step: reads a token, then executes or compiles it
	OpBye      // halts cleanly

	opcodeCount
)

// primitiveFunc is invoked with the CFA of the word being executed, so that
// OpConst (and anything else that reads its own reserved cell) can find it
// without a second dictionary lookup.
type primitiveFunc func(vm *VM, cfa uint)

var primTable [opcodeCount]primitiveFunc

func init() {
	primTable[OpConst] = func(vm *VM, cfa uint) {
		vm.push(vm.loadCell(cfa + Cell))
	}
	primTable[OpLit] = func(vm *VM, _ uint) {
		vm.push(vm.loadCell(uint(vm.ip)))
		vm.ip += Cell
	}
	primTable[OpBranch] = func(vm *VM, _ uint) {
		vm.ip = int(vm.loadCell(uint(vm.ip)))
	}
	primTable[Op0Branch] = func(vm *VM, _ uint) {
		target := vm.loadCell(uint(vm.ip))
		if vm.pop() == 0 {
			vm.ip = int(target)
		} else {
			vm.ip += Cell
		}
	}
	primTable[OpExit] = func(vm *VM, _ uint) {
		vm.ip = int(vm.popr())
	}

	primTable[OpCreate] = func(vm *VM, _ uint) {
		name := vm.nextWordOrHalt()
		vm.create(name, OpDovar)
		vm.publish(vm.latest())
	}
	primTable[OpDef] = func(vm *VM, _ uint) {
		name := vm.nextWordOrHalt()
		vm.create(name, OpDocol) // published by END, not here: see create's doc comment
		vm.setState(true)
	}
	primTable[OpEnd] = func(vm *VM, _ uint) {
		vm.comma(int32(vm.cfaOf("EXIT")))
		vm.setState(false)
		vm.publish(vm.latest())
	}
	primTable[OpReturn] = func(vm *VM, _ uint) {
		vm.setReturn(uint(vm.ip))
	}
	primTable[OpImmediate] = func(vm *VM, _ uint) {
		vm.setImmediate()
	}

	primTable[OpToR] = func(vm *VM, _ uint) { vm.pushr(vm.pop()) }
	primTable[OpRFrom] = func(vm *VM, _ uint) { vm.push(vm.popr()) }

	primTable[OpFetch] = func(vm *VM, _ uint) { vm.push(vm.loadCell(uint(vm.pop()))) }
	primTable[OpStore] = func(vm *VM, _ uint) {
		addr := uint(vm.pop())
		v := vm.pop()
		vm.storCell(addr, v)
	}
	primTable[OpCFetch] = func(vm *VM, _ uint) { vm.push(int32(vm.loadByte(uint(vm.pop())))) }
	primTable[OpCStore] = func(vm *VM, _ uint) {
		addr := uint(vm.pop())
		v := vm.pop()
		vm.storByte(addr, byte(v))
	}

	primTable[OpAdd] = func(vm *VM, _ uint) { b := vm.pop(); a := vm.pop(); vm.push(a + b) }
	primTable[OpSub] = func(vm *VM, _ uint) { b := vm.pop(); a := vm.pop(); vm.push(a - b) }
	primTable[OpMul] = func(vm *VM, _ uint) { b := vm.pop(); a := vm.pop(); vm.push(a * b) }
	primTable[OpDiv] = func(vm *VM, _ uint) {
		b := vm.pop()
		a := vm.pop()
		if b == 0 {
			vm.halt(DivideByZeroError{})
			return
		}
		vm.push(a / b) // truncating division; see SPEC_FULL.md open questions
	}
	primTable[OpLess0] = func(vm *VM, _ uint) {
		if vm.pop() < 0 {
			vm.push(-1)
		} else {
			vm.push(0)
		}
	}
	primTable[OpEq0] = func(vm *VM, _ uint) {
		if vm.pop() == 0 {
			vm.push(-1)
		} else {
			vm.push(0)
		}
	}

	primTable[OpComma] = func(vm *VM, _ uint) { vm.comma(vm.pop()) }
	primTable[OpCComma] = func(vm *VM, _ uint) { vm.cComma(byte(vm.pop())) }
	primTable[OpAlign] = func(vm *VM, _ uint) { vm.align() }

	primTable[OpTick] = func(vm *VM, _ uint) {
		name := vm.nextWordOrHalt()
		cfa := vm.cfaOf(name)
		if vm.state() {
			vm.comma(int32(vm.cfaOf("LIT")))
			vm.comma(int32(cfa))
		} else {
			vm.push(int32(cfa))
		}
	}

	primTable[OpFind] = func(vm *VM, _ uint) {
		name := vm.nextWordOrHalt()
		addr, _ := vm.find(name) // a miss yields addr 0, so this pushes >CFA(0), a nonsensical address, unchecked
		vm.push(int32(vm.headerCFA(addr)))
	}

	primTable[OpParse] = func(vm *VM, _ uint) {
		delim := byte(vm.pop())
		text := vm.parseDelim(delim)
		addr := vm.here()
		for i := 0; i < len(text); i++ {
			vm.storByte(addr+uint(i), text[i])
		}
		vm.push(int32(addr))
		vm.push(int32(len(text)))
	}

	primTable[OpQuoteOpen] = func(vm *VM, _ uint) { vm.quoteOpen() }
	primTable[OpQuoteClose] = func(vm *VM, _ uint) { vm.quoteClose() }
	primTable[OpExecute] = func(vm *VM, _ uint) { vm.execute(uint(vm.pop())) }

	primTable[OpEmit] = func(vm *VM, _ uint) { vm.emit(vm.pop()) }
	primTable[OpPrint] = func(vm *VM, _ uint) { vm.print(vm.pop()) }
	primTable[OpDump] = func(vm *VM, _ uint) {
		n := vm.pop()
		addr := uint(vm.pop())
		vm.dump(addr, uint(n))
	}
	primTable[OpWords] = func(vm *VM, _ uint) { vm.words() }

	primTable[OpEvaluate] = func(vm *VM, _ uint) { vm.evaluate() }
	primTable[OpBye] = func(vm *VM, _ uint) { vm.ip = -1 }
}

// DivideByZeroError is raised by / when the divisor is zero.
type DivideByZeroError struct{}

func (DivideByZeroError) Error() string { return "divide by zero" }

// cfaOf looks up name and returns its CFA, halting with UnknownWordError
// if it isn't defined. Used by Go-side primitives (END, the literal
// compiler) that need another word's call address.
func (vm *VM) cfaOf(name string) uint {
	addr, ok := vm.find(name)
	if !ok {
		vm.halt(UnknownWordError(name))
	}
	return vm.headerCFA(addr)
}

// builtin registers one kernel primitive under name, giving it a header
// whose own codeword cell holds op directly: executing the word invokes
// the primitive with no further indirection.
func (vm *VM) builtin(name string, op int32) {
	vm.create(name, op)
	vm.publish(vm.latest())
}

// constant registers a named word that always pushes value, by way of
// OpConst and a reserved cell.
func (vm *VM) constant(name string, value int32) {
	cfa := vm.create(name, OpConst)
	vm.storCell(cfa+Cell, value)
	vm.publish(vm.latest())
}

func (vm *VM) nextWordOrHalt() string {
	tok, ok := vm.nextToken()
	if !ok {
		vm.halt(UnexpectedEOFError{})
	}
	return tok
}
