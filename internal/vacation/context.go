package vacation

import "context"

type ctxKey int

const ctxKeyInvocation ctxKey = iota

// WithInvocationID tags ctx with the id of the tool invocation it serves.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyInvocation, id)
}

// InvocationID returns the invocation id stored in ctx, or "".
func InvocationID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyInvocation).(string)
	return v
}
