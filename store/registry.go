package store

import (
	"sync"

	"github.com/google/uuid"

	"render-vector/config"
)

/*
Handle is an opaque identifier for a registered vector.

A handle is issued on creation, exclusively owns one RenderVector inside
the registry, and stays valid until released.
*/
type Handle string

/*
Registry is an arena of RenderVector objects keyed by opaque handles.

It replaces host-runtime pointer ownership with explicit lifetimes: Create
transfers ownership of a new vector to the registry, and Release ends it.
*/
type Registry struct {
	vectors map[Handle]*RenderVector
	mu      sync.RWMutex
	config  *config.Config
}

/*
NewRegistry creates a new vector registry
*/
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{
		vectors: make(map[Handle]*RenderVector),
		config:  cfg,
	}
}

/*
Create allocates a new vector initialized from data and returns its handle.

Returns ErrRegistryFull when the configured capacity has been reached.
*/
func (r *Registry) Create(data []float64) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if max := r.config.Registry.MaxVectors; max > 0 && len(r.vectors) >= max {
		return "", ErrRegistryFull
	}

	h := Handle(uuid.NewString())
	r.vectors[h] = NewRenderVector(data)
	return h, nil
}

/*
Update writes value at the given index of the vector owned by h
*/
func (r *Registry) Update(h Handle, index int, value float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.vectors[h]
	if !exists {
		return ErrHandleNotFound
	}

	return v.Update(index, value)
}

/*
Data returns a full copy of the contents of the vector owned by h
*/
func (r *Registry) Data(h Handle) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.vectors[h]
	if !exists {
		return nil, ErrHandleNotFound
	}

	return v.Data(), nil
}

/*
Len returns the element count of the vector owned by h
*/
func (r *Registry) Len(h Handle) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.vectors[h]
	if !exists {
		return 0, ErrHandleNotFound
	}

	return v.Len(), nil
}

/*
Release removes the vector owned by h from the registry.

The handle is invalid afterwards; further operations on it return
ErrHandleNotFound.
*/
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.vectors[h]; !exists {
		return ErrHandleNotFound
	}

	delete(r.vectors, h)
	return nil
}

/*
ListHandles returns the handles of all live vectors
*/
func (r *Registry) ListHandles() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]Handle, 0, len(r.vectors))
	for h := range r.vectors {
		handles = append(handles, h)
	}
	return handles
}

/*
Count returns the number of live vectors
*/
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.vectors)
}

/*
Restore installs a vector under a previously issued handle.

Used when loading a snapshot, so handles stay stable across restarts. The
capacity check applies; an existing vector under the same handle is
replaced.
*/
func (r *Registry) Restore(h Handle, data []float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.vectors[h]; !exists {
		if max := r.config.Registry.MaxVectors; max > 0 && len(r.vectors) >= max {
			return ErrRegistryFull
		}
	}

	r.vectors[h] = NewRenderVector(data)
	return nil
}

/*
Export returns a copy of all registry contents keyed by handle.

Used by snapshot persistence; the returned slices are copies and never
alias registry storage.
*/
func (r *Registry) Export() map[Handle][]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Handle][]float64, len(r.vectors))
	for h, v := range r.vectors {
		out[h] = v.Data()
	}
	return out
}
