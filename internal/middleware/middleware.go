// Package middleware provides runner wrappers applied around every command
// execution.
package middleware

import (
	"context"
	"log"
	"time"

	"server-warden/pkg/cmd"
)

// ExecutionLog logs every command run with trigger, actor, and outcome.
// Failures are only echoed at debug level here; the dispatcher owns
// error-level reporting and the user-facing reply.
func ExecutionLog() cmd.Middleware {
	return func(c cmd.Command, next cmd.Runner) cmd.Runner {
		return func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := next(ctx, inv)
			elapsed := time.Since(start).Round(time.Millisecond)
			if err != nil {
				log.Printf("[DEBUG] %s command %q by %s failed after %v: %v", inv.Trigger, c.Name(), inv.UserID, elapsed, err)
			} else {
				log.Printf("[DEBUG] %s command %q by %s completed in %v", inv.Trigger, c.Name(), inv.UserID, elapsed)
			}
			return err
		}
	}
}
