// Package panicerr isolates goroutines so that a panic or a stray
// runtime.Goexit call surfaces as a normal error return instead of
// crashing, or silently losing, the calling goroutine.
package panicerr

import (
	"context"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Recover runs f in a new goroutine, isolated by an errgroup.Group of one, so
// that any panic or abnormal runtime.Goexit surfaces as a non-nil error
// return rather than taking down the calling goroutine.
func Recover(name string, f func() error) error {
	var eg errgroup.Group
	eg.Go(isolate(name, f))
	return eg.Wait()
}

// Group is a goroutine group like errgroup.Group, except that every function
// passed to Go is additionally isolated the way Recover isolates a single
// function: panics and runtime.Goexit calls become errors instead of
// crashing the group.
type Group struct {
	name string
	eg   *errgroup.Group
}

// NewGroup returns an isolated Group along with a context that is canceled
// as soon as any goroutine in the group returns a non-nil error.
func NewGroup(ctx context.Context, name string) (*Group, context.Context) {
	eg, ctx := errgroup.WithContext(ctx)
	return &Group{name: name, eg: eg}, ctx
}

// Go runs f in a new goroutine under the group, isolating panics and
// runtime.Goexit as described on Recover.
func (g *Group) Go(f func() error) {
	g.eg.Go(isolate(g.name, f))
}

// Wait blocks until all goroutines in the group have returned, then returns
// the first non-nil error (if any).
func (g *Group) Wait() error {
	return g.eg.Wait()
}

func isolate(name string, f func() error) func() error {
	// run executes f in a goroutine of its own and hands back the result over
	// errc, so that a runtime.Goexit ends only that goroutine and its error
	// still reaches the caller.
	run := func(errc chan<- error) {
		var err error
		done := false
		defer func() {
			if !done {
				err = exitError(name)
			}
			errc <- err
		}()
		defer func() {
			if e := recover(); e != nil {
				err = panicError{name: name, e: e, stack: debug.Stack()}
				done = true
			}
		}()
		err = f()
		done = true
	}
	return func() error {
		errc := make(chan error, 1)
		go run(errc)
		return <-errc
	}
}
