package ecs

import "sort"

type resourceMap struct {
	values map[string]any
}

func newResourceContainer() *resourceMap {
	return &resourceMap{values: make(map[string]any)}
}

func (r *resourceMap) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *resourceMap) Set(name string, value any) {
	r.values[name] = value
}

func (r *resourceMap) Delete(name string) {
	delete(r.values, name)
}

// Range visits resources in name order until fn returns false.
func (r *resourceMap) Range(fn func(string, any) bool) {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !fn(name, r.values[name]) {
			return
		}
	}
}

// Resource returns the named resource asserted to T.
func Resource[T any](rc ResourceContainer, name string) (T, bool) {
	var zero T
	v, ok := rc.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

var _ ResourceContainer = (*resourceMap)(nil)
