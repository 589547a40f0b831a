package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCapacity is the number of geometry slots allocated when no capacity is configured.
const DefaultCapacity = 1000

// Flags toggles per-frame rendering modes of the scene.
type Flags struct {
	// Segmentation replaces geometry colors with an encoding of their segmentation id.
	Segmentation bool
}

type sceneImpl struct {
	mu *sync.Mutex

	geoms    []Geom
	count    int
	capacity int
	released bool

	view       mgl32.Mat4
	projection mgl32.Mat4
	eye        mgl32.Vec3
	flags      Flags
}

// Scene is the per-frame geometry arena. Slots are allocated once at creation and reused;
// the live count never exceeds the capacity fixed at construction.
type Scene interface {
	// Append copies g into the next free slot.
	//
	// Parameters:
	//   - g: the geometry to append
	//
	// Returns:
	//   - error: *common.CapacityError when the arena is full, common.ErrReleased after Release
	Append(g Geom) error

	// Reset empties the arena without freeing its slots.
	Reset()

	// Truncate rolls the live count back to n. Values of n at or above the live count are ignored.
	//
	// Parameters:
	//   - n: the live count to restore
	Truncate(n int)

	// Len returns the live geometry count.
	//
	// Returns:
	//   - int: number of live geometries
	Len() int

	// Capacity returns the fixed slot count.
	//
	// Returns:
	//   - int: the arena capacity
	Capacity() int

	// Geoms returns a copy of the live geometries in insertion order.
	//
	// Returns:
	//   - []Geom: the live geometries
	Geoms() []Geom

	// At returns the live geometry at index i.
	//
	// Parameters:
	//   - i: slot index
	//
	// Returns:
	//   - Geom: the geometry
	//   - bool: false if i is out of range
	At(i int) (Geom, bool)

	// SetCamera stores the camera transforms used to draw this frame.
	//
	// Parameters:
	//   - view: world to eye transform
	//   - projection: eye to clip transform
	//   - eye: world-space eye position
	SetCamera(view, projection mgl32.Mat4, eye mgl32.Vec3)

	// View returns the stored view matrix.
	View() mgl32.Mat4

	// Projection returns the stored projection matrix.
	Projection() mgl32.Mat4

	// Eye returns the stored eye position.
	Eye() mgl32.Vec3

	// SetFlags replaces the rendering flags.
	//
	// Parameters:
	//   - flags: the new flags
	SetFlags(flags Flags)

	// Flags returns the current rendering flags.
	Flags() Flags

	// Release frees the slot storage. Later appends fail with common.ErrReleased.
	Release()
}

var _ Scene = &sceneImpl{}

// NewScene allocates a scene arena.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the allocated scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:         &sync.Mutex{},
		capacity:   DefaultCapacity,
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
	for _, option := range options {
		option(s)
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	s.geoms = make([]Geom, s.capacity)
	return s
}

func (s *sceneImpl) Append(g Geom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return fmt.Errorf("append to scene: %w", common.ErrReleased)
	}
	if s.count >= s.capacity {
		return &common.CapacityError{Capacity: s.capacity}
	}
	s.geoms[s.count] = g
	s.count++
	return nil
}

func (s *sceneImpl) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = 0
}

func (s *sceneImpl) Truncate(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n < s.count {
		s.count = n
	}
}

func (s *sceneImpl) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *sceneImpl) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

func (s *sceneImpl) Geoms() []Geom {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Geom, s.count)
	copy(out, s.geoms[:s.count])
	return out
}

func (s *sceneImpl) At(i int) (Geom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= s.count {
		return Geom{}, false
	}
	return s.geoms[i], true
}

func (s *sceneImpl) SetCamera(view, projection mgl32.Mat4, eye mgl32.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	s.projection = projection
	s.eye = eye
}

func (s *sceneImpl) View() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *sceneImpl) Projection() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projection
}

func (s *sceneImpl) Eye() mgl32.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eye
}

func (s *sceneImpl) SetFlags(flags Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = flags
}

func (s *sceneImpl) Flags() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

func (s *sceneImpl) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.geoms = nil
	s.count = 0
}
