package principal

import "context"

type principalContextKey struct{}

// NewContext stores the principal in context.
func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// FromContext extracts the principal from context. It returns nil when no
// reconstruction ran for the request.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
