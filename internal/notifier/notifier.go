// Package notifier is the fire-and-forget email collaborator. It is
// invoked only after a successful commit, never from inside a
// structural transaction.
package notifier

import "context"

// Notifier delivers one-way notifications. Failures are logged by the
// implementation and never propagated into request handling.
type Notifier interface {
	ProgramAssigned(ctx context.Context, toEmail, toName, programTitle string) error
}

// Noop is used when no email provider is configured.
type Noop struct{}

func (Noop) ProgramAssigned(ctx context.Context, toEmail, toName, programTitle string) error {
	return nil
}
