package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/camera"
	"github.com/Carmen-Shannon/oxy-render/engine/marker"
	"github.com/Carmen-Shannon/oxy-render/engine/overlay"
	"github.com/Carmen-Shannon/oxy-render/engine/profiler"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/Carmen-Shannon/oxy-render/engine/sim"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// RenderOptions parameterize a single Render call.
type RenderOptions struct {
	// Width and Height are the viewport size. Zero takes the surface buffer size.
	Width, Height int

	// CameraID overrides the camera for this render only: -1 is the free camera, any other
	// value a model camera. Nil keeps the current camera.
	CameraID *int

	// Visible presents the frame after drawing. Only meaningful for onscreen contexts.
	Visible bool

	// Segmentation replaces geometry colors with encoded object ids and disables shading.
	Segmentation bool
}

// CameraID returns a pointer to id for RenderOptions.CameraID.
func CameraID(id int) *int {
	return &id
}

// motionSource is implemented by surface contexts that queue pointer-driven camera motions.
type motionSource interface {
	DrainMotions() []camera.Motion
}

// RenderContext draws a bound simulation into an owned surface. It owns the scene arena, the
// camera, the marker pool and the overlay board, and guards all of them with one mutex, so
// concurrent callers serialize.
type RenderContext struct {
	mu          *sync.Mutex
	releaseOnce sync.Once

	id     uuid.UUID
	logger *slog.Logger
	mode   surface.Mode

	cfg             Config
	env             func(string) (string, bool)
	registry        *surface.Registry
	readbackWorkers int

	sim        sim.Simulation
	binding    surface.Binding
	scene      scene.Scene
	camera     camera.Camera
	markers    marker.Pool
	overlay    overlay.Board
	rasterizer renderer.Rasterizer
	profiler   *profiler.Profiler

	released bool
}

var _ sim.RenderContext = &RenderContext{}

// NewRenderContext creates a render context bound to s and drawing into a surface of the
// given mode. It allocates the scene and the surface, runs one forward pass, frames the free
// camera on the model and registers itself with the simulation.
//
// Parameters:
//   - s: the simulation to draw
//   - mode: the buffer target, fixed for the life of the context
//   - options: functional options applied after the defaults
//
// Returns:
//   - *RenderContext: the context
//   - error: ErrPrecondition for a nil simulation, ErrConfiguration when no surface supports
//     the mode or the device id is invalid, or the forward pass error. Everything allocated
//     before the failure is released.
func NewRenderContext(s sim.Simulation, mode surface.Mode, options ...RenderContextOption) (*RenderContext, error) {
	if s == nil {
		return nil, fmt.Errorf("new render context: nil simulation: %w", common.ErrPrecondition)
	}
	rc := &RenderContext{
		mu:       &sync.Mutex{},
		id:       uuid.New(),
		logger:   Logger(),
		cfg:      DefaultConfig(),
		registry: surface.DefaultRegistry(),
		sim:      s,
	}
	for _, opt := range options {
		opt(rc)
	}
	rc.mode = mode
	rc.cfg.Mode = mode
	rc.logger = rc.logger.With("context", rc.id)

	if err := rc.init(); err != nil {
		_ = rc.Release()
		return nil, err
	}
	rc.logger.Info("render context created",
		"mode", rc.mode,
		"provider", rc.binding.Context().Name(),
		"capacity", rc.scene.Capacity(),
	)
	return rc, nil
}

func (rc *RenderContext) init() error {
	if err := rc.cfg.Validate(); err != nil {
		return err
	}
	device, err := ResolveDeviceID(rc.cfg.DeviceID, rc.env)
	if err != nil {
		return err
	}

	rc.scene = scene.NewScene(scene.WithCapacity(rc.cfg.Capacity))
	rc.markers = marker.NewPool()
	rc.overlay = overlay.NewBoard()
	rc.rasterizer = renderer.NewRasterizer(
		renderer.WithFontScale(rc.cfg.FontScale),
		renderer.WithLogger(rc.logger),
	)
	rc.camera = camera.NewCamera(camera.WithPoseSource(rc.cameraPose))
	if rc.cfg.Profiling {
		rc.profiler = profiler.NewProfiler(profiler.WithLogger(rc.logger))
	}

	width, height := rc.cfg.Width, rc.cfg.Height
	if rc.mode == surface.ModeOffscreen {
		hw, hh := rc.sim.OffscreenSize()
		width, height = max(width, hw), max(height, hh)
	}
	bindingOptions := []surface.BindingBuilderOption{
		surface.WithRegistry(rc.registry),
		surface.WithProvider(rc.cfg.Provider),
		surface.WithSize(width, height),
		surface.WithDeviceID(device),
		surface.WithTitle(rc.cfg.Title),
		surface.WithSizeHint(rc.sizeHint),
		surface.WithLogger(rc.logger),
	}
	if rc.readbackWorkers > 0 {
		bindingOptions = append(bindingOptions, surface.WithReadbackWorkers(rc.readbackWorkers))
	}
	if rc.binding, err = surface.NewBinding(rc.mode, bindingOptions...); err != nil {
		return err
	}

	if err := rc.sim.Forward(); err != nil {
		return fmt.Errorf("initial forward pass: %w", err)
	}
	rc.frameCamera()
	rc.sim.AddRenderContext(rc)
	return nil
}

// sizeHint forwards buffer reallocations to the simulation currently bound.
func (rc *RenderContext) sizeHint(width, height int) {
	rc.sim.SetOffscreenSize(width, height)
}

// cameraPose resolves model cameras of the simulation currently bound.
func (rc *RenderContext) cameraPose(id int) (camera.Pose, bool) {
	cams := rc.sim.Cameras()
	if id < 0 || id >= len(cams) {
		return camera.Pose{}, false
	}
	c := cams[id]
	return camera.Pose{Pos: c.Pos, Mat: c.Mat, Fovy: c.Fovy}, true
}

// frameCamera points the free camera at the per-axis median of the geometry positions,
// backed off by the model extent.
func (rc *RenderContext) frameCamera() {
	stats := rc.sim.Stats()
	extent := stats.Extent
	if extent <= 0 {
		extent = 1
	}
	lookat := stats.Center
	if geoms := rc.sim.Geoms(); len(geoms) > 0 {
		lookat = medianPosition(geoms)
	}
	rc.camera.Frame(lookat, extent, extent)
	rc.logger.Debug("free camera framed", "lookat", lookat, "distance", extent)
}

func medianPosition(geoms []sim.GeomState) mgl32.Vec3 {
	var out mgl32.Vec3
	axis := make([]float32, len(geoms))
	for i := range 3 {
		for j, g := range geoms {
			axis[j] = g.Pos[i]
		}
		slices.Sort(axis)
		n := len(axis)
		if n%2 == 1 {
			out[i] = axis[n/2]
		} else {
			out[i] = (axis[n/2-1] + axis[n/2]) / 2
		}
	}
	return out
}

// ID returns the identity the context registers with simulations under.
func (rc *RenderContext) ID() uuid.UUID {
	return rc.id
}

// Mode returns the buffer target fixed at construction.
func (rc *RenderContext) Mode() surface.Mode {
	return rc.mode
}

// Simulation returns the bound simulation.
func (rc *RenderContext) Simulation() sim.Simulation {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.sim
}

// Camera returns the context camera.
func (rc *RenderContext) Camera() camera.Camera {
	return rc.camera
}

// Scene returns the scene arena composed by the last render.
func (rc *RenderContext) Scene() scene.Scene {
	return rc.scene
}

// BufferSize returns the drawable size of the surface.
func (rc *RenderContext) BufferSize() (width, height int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return 0, 0
	}
	return rc.binding.BufferSize()
}

// ShouldClose reports whether the window asked to close. Always true after Release.
func (rc *RenderContext) ShouldClose() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.released || rc.binding.ShouldClose()
}

// Render composes the bound simulation state, the pending markers and the overlay into the
// surface. The simulation's render callback runs first, outside the context lock, so it may
// add markers or overlay text.
//
// Parameters:
//   - opts: viewport size, camera override, presentation and segmentation flags
//
// Returns:
//   - error: ErrReleased after Release, ValidationError for an unknown camera id or a
//     non-positive size, CapacityError when the scene overflows, ErrValidation for a bad
//     marker, ErrConfiguration if buffer growth loses the target
func (rc *RenderContext) Render(opts RenderOptions) error {
	rc.mu.Lock()
	if rc.released {
		rc.mu.Unlock()
		return fmt.Errorf("render: %w", common.ErrReleased)
	}
	s := rc.sim
	rc.mu.Unlock()

	if cb := s.RenderCallback(); cb != nil {
		cb(s, rc)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return fmt.Errorf("render: %w", common.ErrReleased)
	}
	if rc.mode == surface.ModeOnscreen && rc.binding.ShouldClose() {
		rc.logger.Warn("window requested close, skipping render")
		return nil
	}
	if err := rc.binding.MakeCurrent(); err != nil {
		return err
	}

	width, height := opts.Width, opts.Height
	if width == 0 || height == 0 {
		bw, bh := rc.binding.BufferSize()
		if width == 0 {
			width = bw
		}
		if height == 0 {
			height = bh
		}
	}
	if width <= 0 || height <= 0 {
		return &common.ValidationError{Field: "size", Reason: fmt.Sprintf("cannot render %dx%d", width, height)}
	}

	if aw, ah := rc.binding.Allocated(); width > aw || height > ah {
		hw, hh := rc.sim.OffscreenSize()
		if err := rc.binding.Resize(max(width, hw), max(height, hh)); err != nil {
			return err
		}
	}

	rc.applyMotions()
	rc.camera.SetAspect(float32(width) / float32(height))

	cameraID := camera.NoOverride
	if opts.CameraID != nil {
		cameraID = *opts.CameraID
	}
	err := rc.camera.Use(cameraID, func() error {
		return rc.compose(width, height, opts.Segmentation)
	})
	if err != nil {
		return err
	}

	if opts.Visible && rc.mode == surface.ModeOnscreen {
		if err := rc.binding.Swap(); err != nil {
			return err
		}
	}
	if rc.profiler != nil {
		rc.profiler.Tick()
	}
	return nil
}

// applyMotions applies camera motions queued by the surface's pointer input.
func (rc *RenderContext) applyMotions() {
	src, ok := rc.binding.Context().(motionSource)
	if !ok {
		return
	}
	for _, m := range src.DrainMotions() {
		rc.camera.Move(m.Action, m.DX, m.DY)
	}
}

// compose rebuilds the scene and draws it into the width x height viewport. Caller must hold
// the mutex.
func (rc *RenderContext) compose(width, height int, segmentation bool) error {
	rc.scene.Reset()
	for _, g := range rc.sim.Geoms() {
		if err := rc.scene.Append(g.Geom()); err != nil {
			rc.scene.Truncate(0)
			return fmt.Errorf("compose simulation geometry: %w", err)
		}
	}
	if err := rc.markers.Inject(rc.scene); err != nil {
		return err
	}

	rc.scene.SetCamera(rc.camera.ViewMatrix(), rc.camera.ProjectionMatrix(), rc.camera.Eye())
	rc.scene.SetFlags(scene.Flags{Segmentation: segmentation})
	defer rc.scene.SetFlags(scene.Flags{})

	fb := rc.binding.Framebuffer()
	vp := common.Rect{Width: width, Height: height}
	if err := rc.rasterizer.Draw(fb, vp, rc.scene); err != nil {
		return err
	}
	if !segmentation {
		rc.rasterizer.DrawOverlay(fb, vp, rc.overlay.Entries())
	}
	rc.logger.Debug("scene rendered", "width", width, "height", height, "geoms", rc.scene.Len(), "segmentation", segmentation)
	return nil
}

// ReadPixels reads the bottom-left width x height region of the buffer, bottom row first.
//
// Parameters:
//   - width, height: the region size
//   - includeDepth: also read depth
//
// Returns:
//   - []byte: width*height*3 RGB bytes
//   - []float32: width*height depth values, nil unless requested
//   - error: ErrPrecondition if the region exceeds the allocated buffer
func (rc *RenderContext) ReadPixels(width, height int, includeDepth bool) ([]byte, []float32, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return nil, nil, fmt.Errorf("read pixels: %w", common.ErrReleased)
	}
	return rc.binding.ReadPixels(width, height, includeDepth)
}

// ReadDepthInto reads the depth of the bottom-left width x height region into buf.
func (rc *RenderContext) ReadDepthInto(buf []float32, width, height int) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return fmt.Errorf("read depth: %w", common.ErrReleased)
	}
	return rc.binding.ReadDepthInto(buf, width, height)
}

// DecodeSegmentation converts a segmentation readback into per-pixel object ids, -1 marking
// pixels no object covers.
func (rc *RenderContext) DecodeSegmentation(colors []byte) []int {
	return renderer.DecodeSegmentation(colors)
}

// UploadTexture makes the surface current and uploads the model texture with the given id
// so geometries referring to it are drawn textured.
//
// Parameters:
//   - textureID: the model texture id
//
// Returns:
//   - error: ValidationError if the model has no such texture
func (rc *RenderContext) UploadTexture(textureID int) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return fmt.Errorf("upload texture: %w", common.ErrReleased)
	}
	if err := rc.binding.MakeCurrent(); err != nil {
		return err
	}
	for _, tex := range rc.sim.Textures() {
		if tex.ID == textureID {
			return rc.rasterizer.UploadTexture(tex)
		}
	}
	return &common.ValidationError{Field: "texture", Reason: fmt.Sprintf("model has no texture with id %d", textureID)}
}

// DrawPixels writes RGB rows into the buffer with the image's first row at bottom, clipping
// whatever falls outside.
//
// Parameters:
//   - img: width*height*3 RGB bytes
//   - width, height: the image size
//   - left, bottom: buffer position of the image's first pixel
//
// Returns:
//   - error: ValidationError if img has the wrong length
func (rc *RenderContext) DrawPixels(img []byte, width, height, left, bottom int) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return fmt.Errorf("draw pixels: %w", common.ErrReleased)
	}
	return rc.binding.DrawPixels(img, width, height, left, bottom)
}

// MoveCamera applies a mouse-style motion to the free camera. Ignored while a fixed camera
// is active.
func (rc *RenderContext) MoveCamera(action camera.Action, dx, dy float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.camera.Move(action, float32(dx), float32(dy))
}

// AddOverlayText appends a caption pair to the overlay at pos.
func (rc *RenderContext) AddOverlayText(pos overlay.GridPos, a, b string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.overlay.Add(pos, a, b)
}

// ClearOverlay removes all overlay text.
func (rc *RenderContext) ClearOverlay() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.overlay.Clear()
}

// Overlay returns a copy of the pending overlay entries in drawing order.
func (rc *RenderContext) Overlay() []overlay.Entry {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.overlay.Entries()
}

// AddMarker queues a decorative geometry drawn on every render until ClearMarkers.
// Fields are validated when the marker is injected at render time.
func (rc *RenderContext) AddMarker(p *marker.Params) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.markers.Add(p)
}

// ClearMarkers removes all pending markers.
func (rc *RenderContext) ClearMarkers() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.markers.Clear()
}

// Markers returns the number of pending markers.
func (rc *RenderContext) Markers() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.markers.Len()
}

// Resize grows the drawing buffer to at least width x height. Smaller requests are no-ops.
//
// Returns:
//   - error: ErrConfiguration if the reallocated surface lost its target
func (rc *RenderContext) Resize(width, height int) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.released {
		return fmt.Errorf("resize: %w", common.ErrReleased)
	}
	return rc.binding.Resize(width, height)
}

// Rebind points the context at another simulation. The drawing buffer is reallocated for the
// new simulation's offscreen size hint, and every context registered on the old simulation,
// this one included, is registered on the new one. Rebinding the bound simulation is a no-op.
//
// Parameters:
//   - s: the new simulation
//
// Returns:
//   - error: ErrPrecondition for a nil simulation, or the reallocation error
func (rc *RenderContext) Rebind(s sim.Simulation) error {
	if s == nil {
		return fmt.Errorf("rebind: nil simulation: %w", common.ErrPrecondition)
	}
	rc.mu.Lock()
	if rc.released {
		rc.mu.Unlock()
		return fmt.Errorf("rebind: %w", common.ErrReleased)
	}
	old := rc.sim
	if old == s {
		rc.mu.Unlock()
		return nil
	}
	// sizeHint reads rc.sim, so the new simulation is bound during reallocation.
	rc.sim = s
	w, h := s.OffscreenSize()
	if err := rc.binding.Reallocate(w, h); err != nil {
		rc.sim = old
		rc.mu.Unlock()
		return err
	}
	rc.mu.Unlock()

	for _, other := range old.RenderContexts() {
		s.AddRenderContext(other)
	}
	s.AddRenderContext(rc)
	rc.logger.Info("render context rebound", "contexts", len(s.RenderContexts()))
	return nil
}

// Release tears the context down. Safe after a partial construction; later calls return nil.
func (rc *RenderContext) Release() error {
	var err error
	rc.releaseOnce.Do(func() {
		rc.mu.Lock()
		defer rc.mu.Unlock()
		rc.released = true
		if rc.rasterizer != nil {
			rc.rasterizer.ReleaseTextures()
		}
		if rc.scene != nil {
			rc.scene.Release()
		}
		if rc.binding != nil {
			err = rc.binding.Release()
		}
		rc.logger.Info("render context released")
	})
	return err
}
