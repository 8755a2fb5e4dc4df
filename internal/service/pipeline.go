package service

import "context"

// Request is implemented by every command and query sent through the pipeline.
type Request interface {
	RequestName() string
	// Transactional reports whether the request must run inside a unit-of-work transaction.
	Transactional() bool
}

// HandlerFunc executes a single use case.
type HandlerFunc[Req Request, Res any] func(ctx context.Context, req Req) (Result[Res], error)

// Behavior wraps a handler with cross-cutting logic. It decides whether and
// when to call next.
type Behavior[Req Request, Res any] func(ctx context.Context, req Req, next HandlerFunc[Req, Res]) (Result[Res], error)

// Chain composes behaviors around handler. behaviors[0] is the outermost.
func Chain[Req Request, Res any](handler HandlerFunc[Req, Res], behaviors ...Behavior[Req, Res]) HandlerFunc[Req, Res] {
	h := handler
	for i := len(behaviors) - 1; i >= 0; i-- {
		b, next := behaviors[i], h
		h = func(ctx context.Context, req Req) (Result[Res], error) {
			return b(ctx, req, next)
		}
	}
	return h
}
