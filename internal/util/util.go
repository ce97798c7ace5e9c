package util

// Map transforms a slice element-wise, preserving order.
func Map[T any, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

// Filter returns the elements for which keep returns true, in order.
func Filter[T any](in []T, keep func(T) bool) []T {
	var out []T
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// DefaultMap is a map that materializes missing values on first read.
type DefaultMap[K comparable, V any] struct {
	items   map[K]V
	factory func() V
}

func NewDefaultMap[K comparable, V any](factory func() V) *DefaultMap[K, V] {
	return &DefaultMap[K, V]{
		items:   make(map[K]V),
		factory: factory,
	}
}

func (d *DefaultMap[K, V]) Get(key K) V {
	if v, ok := d.items[key]; ok {
		return v
	}
	v := d.factory()
	d.items[key] = v
	return v
}

func (d *DefaultMap[K, V]) Set(key K, value V) {
	d.items[key] = value
}

// Items exposes the underlying map for iteration.
func (d *DefaultMap[K, V]) Items() map[K]V {
	return d.items
}
