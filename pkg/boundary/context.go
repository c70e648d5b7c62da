package boundary

import (
	"context"
	"fmt"
)

type contextKey struct{}

// NewContext returns a context carrying l as the active loader.
func NewContext(ctx context.Context, l Loader) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the active loader, if any.
func FromContext(ctx context.Context) (Loader, bool) {
	l, ok := ctx.Value(contextKey{}).(Loader)
	return l, ok && l != nil
}

// Symbol loads name through the context's loader and asserts its type.
func Symbol[T any](ctx context.Context, name string) (T, error) {
	var zero T
	l, ok := FromContext(ctx)
	if !ok {
		return zero, ErrNoContextBoundary
	}
	v, err := l.LoadSymbol(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("symbol %s is %T, not %T", name, v, zero)
	}
	return t, nil
}
