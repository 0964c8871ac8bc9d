package third

import (
	"io"
	"os"
	"strings"

	"github.com/oneearedrabbit/forth-playground/internal/flushio"
	"github.com/oneearedrabbit/forth-playground/internal/mem"
)

// DefaultStackLimit and DefaultReturnStackLimit bound the data and return
// stacks unless overridden by WithStackLimit/WithReturnStackLimit.
const (
	DefaultStackLimit       = 4096
	DefaultReturnStackLimit = 4096
)

// VMOption configures a VM at construction time.
type VMOption func(*VM) error

// WithMemLimit caps the heap at limit bytes; 0 (the default) leaves it
// unbounded.
func WithMemLimit(limit uint) VMOption {
	return func(vm *VM) error {
		vm.heap.Limit = limit
		return nil
	}
}

// WithStackLimit caps the data stack depth.
func WithStackLimit(n int) VMOption {
	return func(vm *VM) error {
		vm.stackLimit = n
		return nil
	}
}

// WithReturnStackLimit caps the return stack depth.
func WithReturnStackLimit(n int) VMOption {
	return func(vm *VM) error {
		vm.rstackLimit = n
		return nil
	}
}

// WithOutput directs EMIT, PRINT, and DUMP output to w instead of stdout.
func WithOutput(w io.Writer) VMOption {
	return func(vm *VM) error {
		vm.out = flushio.NewWriteFlusher(w)
		return nil
	}
}

// WithTee additionally writes EMIT/PRINT/DUMP output to w, alongside
// whatever sink is already installed (stdout by default, or an earlier
// WithOutput). Useful for a CLI that wants both a transcript file and the
// terminal to see the same output.
func WithTee(w io.Writer) VMOption {
	return func(vm *VM) error {
		vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(w))
		return nil
	}
}

// WithInput appends r to the input queue, read after the bootstrap program
// and any previously queued input.
func WithInput(r io.Reader) VMOption {
	return func(vm *VM) error {
		vm.Input.Queue = append(vm.Input.Queue, r)
		return nil
	}
}

// WithSource queues a named in-memory program, primarily for tests.
func WithSource(name, src string) VMOption {
	return WithInput(namedReader{strings.NewReader(src), name})
}

// WithLogf installs a leveled logging function, used for trace output; if
// unset, logging is a no-op.
func WithLogf(logf func(mess string, args ...interface{})) VMOption {
	return func(vm *VM) error {
		vm.logging.logf = logf
		return nil
	}
}

// WithoutBootstrap skips loading the surface-language bootstrap program,
// leaving only the kernel primitives defined. Mainly useful for tests that
// exercise the kernel in isolation.
func WithoutBootstrap(vm *VM) error {
	vm.skipBootstrap = true
	return nil
}

type namedReader struct {
	*strings.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

// New constructs a VM: kernel primitives, register block, and (unless
// WithoutBootstrap is given) the surface-language bootstrap program are
// all installed before any caller-supplied input is read.
func New(opts ...VMOption) (*VM, error) {
	vm := &VM{
		stackLimit:  DefaultStackLimit,
		rstackLimit: DefaultReturnStackLimit,
	}
	vm.heap.PageSize = mem.DefaultBytesPageSize
	vm.out = flushio.NewWriteFlusher(os.Stdout)

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(vm); err != nil {
			return nil, err
		}
	}

	vm.initRegisters()
	vm.initPrimitives()
	if !vm.skipBootstrap {
		vm.Input.Queue = append([]io.Reader{namedReader{strings.NewReader(bootstrapSource), "bootstrap"}}, vm.Input.Queue...)
	}
	return vm, nil
}
