package cmd

import "context"

// Runner executes one invocation of a command.
type Runner func(ctx context.Context, inv *Invocation) error

// Middleware wraps a runner (logging, access gating, metrics). The command is
// passed alongside so a wrapper can read metadata; the result stays a Runner.
type Middleware func(c Command, next Runner) Runner

// Chain applies middlewares around a runner; the first in the list is the
// outermost.
func Chain(c Command, r Runner, mws ...Middleware) Runner {
	for i := len(mws) - 1; i >= 0; i-- {
		r = mws[i](c, r)
	}
	return r
}
