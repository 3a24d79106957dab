package ctxutil

import "context"

// Default returns ctx, or context.Background() for callers that pass nil.
func Default(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
