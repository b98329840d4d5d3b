package store

/*
RenderVector is an in-memory container of double-precision values.

The container owns its data exclusively: construction copies the input
slice, and read-back returns a fresh copy, so callers can never alias the
internal storage. Updates are single-element writes addressed by a
zero-based index; the incoming value is single-precision and is widened on
write.
*/
type RenderVector struct {
	data []float64
}

/*
NewRenderVector creates a container initialized from the given values.

An empty or nil input yields a valid empty container.
*/
func NewRenderVector(data []float64) *RenderVector {
	owned := make([]float64, len(data))
	copy(owned, data)
	return &RenderVector{data: owned}
}

/*
Update writes value at the given zero-based index, widening it to float64.

Returns ErrIndexOutOfRange for a negative or too-large index; the contents
are left unchanged in that case.
*/
func (v *RenderVector) Update(index int, value float32) error {
	if index < 0 || index >= len(v.data) {
		return ErrIndexOutOfRange
	}
	v.data[index] = float64(value)
	return nil
}

/*
Data returns a full copy of the container contents.

Repeated calls on an unmodified container return equal slices, and the
caller is free to mutate the result.
*/
func (v *RenderVector) Data() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

/*
Len returns the number of elements in the container.
*/
func (v *RenderVector) Len() int {
	return len(v.data)
}
