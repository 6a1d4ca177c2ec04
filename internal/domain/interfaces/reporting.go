package interfaces

import "context"

// ErrorReporter receives failed remote calls and decides how they are
// surfaced to the user.
type ErrorReporter interface {
	Report(ctx context.Context, err error)
}
