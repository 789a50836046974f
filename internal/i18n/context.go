package i18n

import "context"

type contextKey string

const storeContextKey contextKey = "i18n_store"

// WithStore makes a store available to everything downstream of ctx
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

// FromContext extracts the store from ctx
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(storeContextKey).(*Store)
	return store, ok && store != nil
}

// MustFromContext extracts the store and panics when none was provided.
// Reading content without a localization provider is a programming error.
func MustFromContext(ctx context.Context) *Store {
	store, ok := FromContext(ctx)
	if !ok {
		panic("i18n: no localization store in context")
	}
	return store
}
