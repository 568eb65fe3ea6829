// Package prefetch provides the fetch-through caching used to warm peer
// metadata referenced by normalized messages before consumers render them.
package prefetch

import (
	"context"

	"tgcanon/pkg/canon"
)

// Fetcher resolves a value by key. Cache implementations wrap a fallback
// Fetcher and memoize its results.
type Fetcher[K comparable, V any] interface {
	Fetch(ctx context.Context, key K) (V, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Fetch calls f.
func (f FetcherFunc[K, V]) Fetch(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

// PeerRecord is the peer metadata record the pipeline consumers need when
// rendering a message's peer references.
type PeerRecord struct {
	ID       canon.PeerID
	Title    string
	Username string
	// IsForum marks forum supergroups; the pipeline needs it to resolve
	// threads for the peer's messages.
	IsForum bool
}
