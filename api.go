package third

// initRegisters zeros the register block and wires CONTEXT/CURRENT at the
// single vocabulary's address, leaving HERE pointing past the register
// block per the data model.
func (vm *VM) initRegisters() {
	vm.setReg(regFORTH, 0)
	vm.setReg(regCONTEXT, cellAddr(regFORTH))
	vm.setReg(regCURRENT, cellAddr(regFORTH))
	vm.setReg(regLATEST, 0)
	vm.setHere(initialHere)
	vm.setState(false)
}

// initPrimitives populates the dictionary with every kernel primitive, in
// the order their opcodes are listed, followed by the named registers.
func (vm *VM) initPrimitives() {
	vm.builtin("EXIT", OpExit)
	vm.builtin("LIT", OpLit)
	vm.builtin("BRANCH", OpBranch)
	vm.builtin("0BRANCH", Op0Branch)

	vm.builtin("CREATE", OpCreate)
	vm.builtin("DEF", OpDef)
	vm.builtin("END", OpEnd)
	vm.setImmediate() // END must run at compile time to close the definition
	vm.builtin("RETURN", OpReturn)
	vm.builtin("IMMEDIATE", OpImmediate)
	vm.setImmediate() // IMMEDIATE must apply to itself, right after DEF

	vm.builtin(">R", OpToR)
	vm.builtin("R>", OpRFrom)

	vm.builtin("@", OpFetch)
	vm.builtin("!", OpStore)
	vm.builtin("C@", OpCFetch)
	vm.builtin("C!", OpCStore)

	vm.builtin("+", OpAdd)
	vm.builtin("-", OpSub)
	vm.builtin("*", OpMul)
	vm.builtin("/", OpDiv)
	vm.builtin("0<", OpLess0)
	vm.builtin("0=", OpEq0)

	vm.builtin(",", OpComma)
	vm.builtin("C,", OpCComma)
	vm.builtin("ALIGN", OpAlign)

	vm.builtin("'", OpTick)
	vm.setImmediate()
	vm.builtin("FIND", OpFind)

	vm.builtin("PARSE", OpParse)

	vm.builtin("{", OpQuoteOpen)
	vm.setImmediate()
	vm.builtin("}", OpQuoteClose)
	vm.setImmediate()
	vm.builtin("EXECUTE", OpExecute)

	vm.builtin("EMIT", OpEmit)
	vm.builtin("PRINT", OpPrint)
	vm.builtin("DUMP", OpDump)
	vm.builtin("WORDS", OpWords)

	vm.builtin("EVALUATE", OpEvaluate)
	vm.builtin("BYE", OpBye)

	vm.constant("CELL", Cell)
	vm.constant("FORTH", int32(cellAddr(regFORTH)))
	vm.constant("CONTEXT", int32(cellAddr(regCONTEXT)))
	vm.constant("CURRENT", int32(cellAddr(regCURRENT)))
	vm.constant("LATEST", int32(cellAddr(regLATEST)))
	vm.constant("HERE", int32(cellAddr(regHERE)))
	vm.constant("STATE", int32(cellAddr(regSTATE)))
}
