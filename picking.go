package tilepass

import (
	"sync"

	"github.com/google/uuid"
)

// InstanceId identifies one pickable instance (a tile, a sprite).
type InstanceId string

func NewInstanceId() InstanceId {
	return InstanceId(uuid.NewString())
}

// PickingRegistry hands out a unique picking color per instance and resolves
// colors read back from a picking pass to their instance. Index 0 is never
// allocated, so a cleared background can never resolve to an instance.
// Released colors are recycled before new indexes are minted.
//
// Safe for concurrent use; registration happens on the scene side while
// readback resolution can run from the render side.
type PickingRegistry struct {
	mu               sync.Mutex
	colorsByInstance map[InstanceId]uint32
	instancesByColor map[uint32]InstanceId
	freeIndexes      []uint32
	nextIndex        uint32
}

func NewPickingRegistry() *PickingRegistry {
	return &PickingRegistry{
		colorsByInstance: map[InstanceId]uint32{},
		instancesByColor: map[uint32]InstanceId{},
		nextIndex:        1,
	}
}

// Register returns the picking color for the instance, allocating one on
// first sight. Repeated calls return the same color.
func (r *PickingRegistry) Register(id InstanceId) Color {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, ok := r.colorsByInstance[id]; ok {
		return ColorFromIndex(index)
	}

	var index uint32
	if n := len(r.freeIndexes); n > 0 {
		index = r.freeIndexes[0]
		r.freeIndexes = r.freeIndexes[1:]
	} else {
		index = r.nextIndex
		r.nextIndex++
	}
	r.colorsByInstance[id] = index
	r.instancesByColor[index] = id
	return ColorFromIndex(index)
}

// Color returns the registered picking color of the instance, if any.
func (r *PickingRegistry) Color(id InstanceId) (Color, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.colorsByInstance[id]
	if !ok {
		return Color{}, false
	}
	return ColorFromIndex(index), true
}

// Resolve maps a color read back from the picking pass to its instance.
// Colors that never came from Register (the background, another pass's
// output) resolve to nothing.
func (r *PickingRegistry) Resolve(c Color) (InstanceId, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.instancesByColor[c.Index()]
	return id, ok
}

// Release frees the instance's color for reuse. Releasing an unknown
// instance is a no-op.
func (r *PickingRegistry) Release(id InstanceId) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, ok := r.colorsByInstance[id]
	if !ok {
		return
	}
	delete(r.colorsByInstance, id)
	delete(r.instancesByColor, index)
	r.freeIndexes = append(r.freeIndexes, index)
}

// Len reports how many instances currently hold a picking color.
func (r *PickingRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.colorsByInstance)
}
