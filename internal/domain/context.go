package domain

import "context"

type attemptIDKey struct{}

// WithAttemptID tags ctx with the id of an export submission attempt.
func WithAttemptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, attemptIDKey{}, id)
}

// AttemptID returns the submission attempt id carried by ctx, if any.
func AttemptID(ctx context.Context) string {
	id, _ := ctx.Value(attemptIDKey{}).(string)
	return id
}
