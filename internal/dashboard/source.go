package dashboard

// Source identifies where a reconciled field came from. Reconciliation
// precedence is fixed: live chain state first, the backend's cached
// pool/dashboard value second, a hardcoded default last. The same
// ordering applies to every field of the view model.
type Source string

const (
	SourceChain   Source = "chain"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

// candidate is one possible value for a field, tagged with whether its
// originating query actually supplied it.
type candidate[T any] struct {
	value T
	ok    bool
}

func fromQuery[T any](v T, ok bool) candidate[T] {
	return candidate[T]{value: v, ok: ok}
}

func absent[T any]() candidate[T] {
	return candidate[T]{}
}

// resolve applies the precedence order to one field.
func resolve[T any](chain, cache candidate[T], fallback T) (T, Source) {
	if chain.ok {
		return chain.value, SourceChain
	}
	if cache.ok {
		return cache.value, SourceCache
	}
	return fallback, SourceDefault
}
