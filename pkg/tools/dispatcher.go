package tools

import "context"

// ToolFunc defines a function executed asynchronously.
type ToolFunc func(ctx context.Context) error

// Dispatch runs the provided tool in a separate goroutine. Fire-and-forget;
// the name is kept for call-site readability only.
func Dispatch(ctx context.Context, _ string, fn ToolFunc) {
	go func() {
		_ = fn(ctx)
	}()
}
