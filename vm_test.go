package third

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vmTestCase is a fluent builder for exercising a VM end to end: build
// options accumulate until run, which constructs the VM, drives it to
// completion, checks the expected error (if any), then runs every expect
// function against the halted VM.
type vmTestCase struct {
	name    string
	opts    []VMOption
	expect  []func(t *testing.T, vm *VM, out *bytes.Buffer)
	wantErr error
	timeout time.Duration
}

func vmTest(name string) vmTestCase { return vmTestCase{name: name} }

// optFunc adapts a plain VM mutator into a VMOption, for test setup that
// needs direct field access (stack contents, etc) rather than an existing
// public option.
func optFunc(f func(vm *VM)) VMOption {
	return func(vm *VM) error {
		f(vm)
		return nil
	}
}

// apply threads vmt through a sequence of wrapper functions, letting table
// entries compose independently generated expect/with wrappers (see
// vm_expects_test.go) instead of chaining builder methods by hand.
func (vmt vmTestCase) apply(wraps ...func(vmTestCase) vmTestCase) vmTestCase {
	for _, wrap := range wraps {
		vmt = wrap(vmt)
	}
	return vmt
}

func (vmt vmTestCase) withOptions(opts ...VMOption) vmTestCase {
	vmt.opts = append(vmt.opts, opts...)
	return vmt
}

func (vmt vmTestCase) withoutBootstrap() vmTestCase {
	vmt.opts = append(vmt.opts, WithoutBootstrap)
	return vmt
}

func (vmt vmTestCase) withSource(src string) vmTestCase {
	vmt.opts = append(vmt.opts, WithSource(vmt.name, src))
	return vmt
}

func (vmt vmTestCase) withStack(values ...int32) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) { vm.stack = append(vm.stack, values...) }))
	return vmt
}

func (vmt vmTestCase) withRStack(values ...int32) vmTestCase {
	vmt.opts = append(vmt.opts, optFunc(func(vm *VM) { vm.rstack = append(vm.rstack, values...) }))
	return vmt
}

func (vmt vmTestCase) withMemLimit(limit uint) vmTestCase {
	vmt.opts = append(vmt.opts, WithMemLimit(limit))
	return vmt
}

func (vmt vmTestCase) withStackLimit(n int) vmTestCase {
	vmt.opts = append(vmt.opts, WithStackLimit(n))
	return vmt
}

func (vmt vmTestCase) withTimeout(d time.Duration) vmTestCase {
	vmt.timeout = d
	return vmt
}

func (vmt vmTestCase) expectError(err error) vmTestCase {
	vmt.wantErr = err
	return vmt
}

func (vmt vmTestCase) expectStack(values ...int32) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *bytes.Buffer) {
		assert.Equal(t, values, vm.stack, "data stack")
	})
	return vmt
}

func (vmt vmTestCase) expectRStack(values ...int32) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *bytes.Buffer) {
		assert.Equal(t, values, vm.rstack, "return stack")
	})
	return vmt
}

func (vmt vmTestCase) expectOutput(output string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, _ *VM, out *bytes.Buffer) {
		assert.Equal(t, output, out.String(), "output")
	})
	return vmt
}

func (vmt vmTestCase) expectMemAt(addr uint, values ...int32) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *bytes.Buffer) {
		got := make([]int32, len(values))
		for i := range got {
			got[i] = vm.loadCell(addr + uint(i)*Cell)
		}
		assert.Equal(t, values, got, "memory at %#x", addr)
	})
	return vmt
}

func (vmt vmTestCase) expectDefined(name string) vmTestCase {
	vmt.expect = append(vmt.expect, func(t *testing.T, vm *VM, _ *bytes.Buffer) {
		_, ok := vm.find(name)
		assert.True(t, ok, "expected %q to be defined", name)
	})
	return vmt
}

func (vmt vmTestCase) run(t *testing.T) {
	var out bytes.Buffer
	opts := append([]VMOption{WithOutput(&out)}, vmt.opts...)

	vm, err := New(opts...)
	require.NoError(t, err)
	defer vm.Close()

	timeout := vmt.timeout
	if timeout == 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	runErr := vm.Run(ctx)
	if vmt.wantErr != nil {
		assert.True(t, errors.Is(runErr, vmt.wantErr), "expected error %v, got %v", vmt.wantErr, runErr)
	} else {
		assert.NoError(t, runErr)
	}

	if !t.Failed() {
		for _, expect := range vmt.expect {
			expect(t, vm, &out)
		}
	}
}

type vmTestCases []vmTestCase

func (vmts vmTestCases) run(t *testing.T) {
	for _, vmt := range vmts {
		t.Run(vmt.name, vmt.run)
	}
}

func TestKernelArithmetic(t *testing.T) {
	vmTestCases{
		vmTest("add").withoutBootstrap().withSource("1 2 + BYE").expectStack(3),
		vmTest("sub").withoutBootstrap().withSource("5 2 - BYE").expectStack(3),
		vmTest("mul").withoutBootstrap().withSource("4 5 * BYE").expectStack(20),
		vmTest("div truncates toward zero").withoutBootstrap().withSource("-7 2 / BYE").expectStack(-3),
		vmTest("divide by zero").withoutBootstrap().withSource("1 0 / BYE").expectError(DivideByZeroError{}),
		vmTest("0< true").withoutBootstrap().withSource("-1 0< BYE").expectStack(-1),
		vmTest("0< false").withoutBootstrap().withSource("0 0< BYE").expectStack(0),
		vmTest("0= true").withoutBootstrap().withSource("0 0= BYE").expectStack(-1),
		vmTest("0= false").withoutBootstrap().withSource("1 0= BYE").expectStack(0),
	}.run(t)
}

func TestKernelStacks(t *testing.T) {
	vmTestCases{
		vmTest("toR rFrom round-trips").withoutBootstrap().withSource(">R R> BYE").
			withStack(42).expectStack(42),
		vmTest("data underflow").withoutBootstrap().withSource("+ BYE").
			expectError(StackUnderflowError("data")),
		vmTest("return underflow").withoutBootstrap().withSource("R> BYE").
			expectError(StackUnderflowError("return")),
		vmTest("data overflow").withoutBootstrap().withStackLimit(1).withSource("1 2 BYE").
			expectError(StackOverflowError("data")),
	}.run(t)
}

func TestKernelDictionary(t *testing.T) {
	vmTestCases{
		vmTest("create and fetch a variable").withoutBootstrap().
			withSource("CREATE V 7 , V @ BYE").expectStack(7),
		vmTest("unknown word").withoutBootstrap().withSource("NOSUCHWORD BYE").
			expectError(UnknownWordError("NOSUCHWORD")),
		vmTest("colon definition executes its body").withoutBootstrap().
			withSource("DEF ADD1 1 + END 5 ADD1 BYE").expectStack(6),
		vmTest("find misses return a bounded CFA, never crash").withoutBootstrap().
			withSource("FIND THIS-WORD-DOES-NOT-EXIST BYE"),
	}.run(t)
}

// TestKernelHeapOverflow sets the heap limit after construction (a
// WithMemLimit applied at New time would starve the dictionary before any
// user source even runs, since initPrimitives itself needs heap space).
func TestKernelHeapOverflow(t *testing.T) {
	vm, err := New(WithoutBootstrap, WithSource("test", "CREATE TOOBIG 1 , BYE"))
	require.NoError(t, err)
	defer vm.Close()

	vm.heap.Limit = vm.here() + 2

	err = vm.Run(context.Background())
	var heapErr HeapOverflowError
	assert.True(t, errors.As(err, &heapErr), "expected a heap overflow, got %v", err)
}

// TestWithTee checks that WithTee fans output out to an additional sink
// without disturbing the sink WithOutput already installed.
func TestWithTee(t *testing.T) {
	var primary, secondary bytes.Buffer

	vm, err := New(
		WithoutBootstrap,
		WithOutput(&primary),
		WithTee(&secondary),
		WithSource("test", "42 EMIT BYE"),
	)
	require.NoError(t, err)
	defer vm.Close()

	require.NoError(t, vm.Run(context.Background()))
	assert.Equal(t, "*", primary.String())
	assert.Equal(t, primary.String(), secondary.String())
}
