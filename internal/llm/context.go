package llm

import "context"

// Caller identifies who a chat call is made for. It is recorded with every
// call but never sent to the model.
type Caller struct {
	Purpose string
	UserID  string
}

type callerKey struct{}

// WithCaller attaches c to the context for event logging.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller attached to ctx. Purpose defaults to
// "unknown" and UserID to "anonymous".
func CallerFrom(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	if c.Purpose == "" {
		c.Purpose = "unknown"
	}
	if c.UserID == "" {
		c.UserID = "anonymous"
	}
	return c
}
