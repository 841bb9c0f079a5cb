package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

type spanCtxKey struct{}

// SpanFromContext returns the innermost span attached to ctx. The result
// is never nil; without a span it is a disabled root span.
func SpanFromContext(ctx context.Context) *Span {
	if ctx != nil {
		if s, ok := ctx.Value(spanCtxKey{}).(*Span); ok && s != nil {
			return s
		}
	}
	return &Span{tracer: FromContext(ctx)}
}

// WithSpan attaches s as the current span.
func WithSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanCtxKey{}, s)
}
