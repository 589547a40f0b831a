package sim

import (
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is an in-memory Simulation holding a fixed set of geometry states. Its forward
// pass only recomputes the statistics from the current geometry.
type Snapshot interface {
	Simulation

	// SetGeoms replaces the geometry state.
	SetGeoms(geoms []GeomState)

	// SetCameras replaces the model cameras.
	SetCameras(cameras []CameraDef)

	// SetTextures replaces the model textures.
	SetTextures(textures []common.Texture)

	// SetRenderCallback installs the callback run before each render. Nil removes it.
	SetRenderCallback(cb RenderCallback)

	// ForwardCount returns how many forward passes ran.
	ForwardCount() int
}

type snapshotImpl struct {
	mu *sync.Mutex

	geoms    []GeomState
	cameras  []CameraDef
	textures []common.Texture

	stats      Statistic
	fixedStats bool
	forward    func() error
	forwards   int

	offscreenWidth  int
	offscreenHeight int

	contexts []RenderContext
	callback RenderCallback
}

var _ Snapshot = &snapshotImpl{}

// NewSnapshot creates a Snapshot with the given options.
// The offscreen size hint defaults to 640x480.
//
// Parameters:
//   - options: variadic list of SnapshotBuilderOption functions to configure the snapshot
//
// Returns:
//   - Snapshot: the snapshot
func NewSnapshot(options ...SnapshotBuilderOption) Snapshot {
	s := &snapshotImpl{
		mu:              &sync.Mutex{},
		offscreenWidth:  640,
		offscreenHeight: 480,
		stats:           Statistic{Extent: 1},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *snapshotImpl) Forward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forwards++
	if s.forward != nil {
		if err := s.forward(); err != nil {
			return err
		}
	}
	if !s.fixedStats {
		s.stats = computeStats(s.geoms)
	}
	return nil
}

// computeStats bounds every geometry by its sphere and reports the box center and the
// half diagonal of the box.
func computeStats(geoms []GeomState) Statistic {
	if len(geoms) == 0 {
		return Statistic{Extent: 1}
	}
	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := lo.Mul(-1)
	for _, g := range geoms {
		r := max(g.Size[0], g.Size[1], g.Size[2])
		for i := range 3 {
			lo[i] = min(lo[i], g.Pos[i]-r)
			hi[i] = max(hi[i], g.Pos[i]+r)
		}
	}
	extent := hi.Sub(lo).Len() / 2
	if extent <= 0 {
		extent = 1
	}
	return Statistic{Center: lo.Add(hi).Mul(0.5), Extent: extent}
}

func (s *snapshotImpl) Geoms() []GeomState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.geoms)
}

func (s *snapshotImpl) SetGeoms(geoms []GeomState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geoms = slices.Clone(geoms)
}

func (s *snapshotImpl) Cameras() []CameraDef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cameras)
}

func (s *snapshotImpl) SetCameras(cameras []CameraDef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameras = slices.Clone(cameras)
}

func (s *snapshotImpl) Stats() Statistic {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *snapshotImpl) OffscreenSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offscreenWidth, s.offscreenHeight
}

func (s *snapshotImpl) SetOffscreenSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offscreenWidth, s.offscreenHeight = width, height
}

func (s *snapshotImpl) Textures() []common.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.textures)
}

func (s *snapshotImpl) SetTextures(textures []common.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textures = slices.Clone(textures)
}

func (s *snapshotImpl) AddRenderContext(rc RenderContext) {
	if rc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.contexts {
		if existing.ID() == rc.ID() {
			return
		}
	}
	s.contexts = append(s.contexts, rc)
}

func (s *snapshotImpl) RenderContexts() []RenderContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contexts)
}

func (s *snapshotImpl) RenderCallback() RenderCallback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callback
}

func (s *snapshotImpl) SetRenderCallback(cb RenderCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = cb
}

func (s *snapshotImpl) ForwardCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forwards
}
