// Package sim defines the simulation collaborator a render context draws from, and an
// in-memory Snapshot implementation of it.
package sim

import (
	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// GeomState is the per-frame state of one model geometry after a forward pass.
type GeomState struct {
	ObjID    int
	DataID   int
	Type     common.GeomType
	Category common.GeomCategory

	Size mgl32.Vec3
	Pos  mgl32.Vec3
	Mat  mgl32.Mat3
	Rgba mgl32.Vec4

	TexID int
	Label string
}

// Geom converts the state into a scene geometry record.
//
// Returns:
//   - scene.Geom: the scene record, owned by the geometry's object id
func (g GeomState) Geom() scene.Geom {
	return scene.Geom{
		Type:      g.Type,
		DataID:    g.DataID,
		ObjType:   common.ObjGeom,
		ObjID:     g.ObjID,
		Category:  g.Category,
		TexID:     g.TexID,
		TexRepeat: [2]float32{1, 1},
		Size:      g.Size,
		Pos:       g.Pos,
		Mat:       g.Mat,
		Rgba:      g.Rgba,
		Specular:  0.5,
		Shininess: 0.5,
		Label:     g.Label,
		SegID:     -1,
	}
}

// CameraDef is a camera declared by the model.
type CameraDef struct {
	Name string
	Pos  mgl32.Vec3

	// Mat is the world orientation with columns right, up and back.
	Mat mgl32.Mat3

	// Fovy is the vertical field of view in radians.
	Fovy float32
}

// Statistic summarizes the spatial layout of the model.
type Statistic struct {
	Center mgl32.Vec3
	Extent float32
}

// RenderContext is the simulation's view of a context registered to draw it.
type RenderContext interface {
	ID() uuid.UUID
}

// RenderCallback runs at the start of every render of a context bound to the simulation.
type RenderCallback func(s Simulation, rc RenderContext)

// Simulation is the state provider a render context is bound to.
type Simulation interface {
	// Forward recomputes derived state such as geometry placement and statistics.
	Forward() error

	// Geoms returns the geometry state of the last forward pass.
	Geoms() []GeomState

	// Cameras returns the cameras declared by the model, indexed by camera id.
	Cameras() []CameraDef

	// Stats returns the model statistics of the last forward pass.
	Stats() Statistic

	// OffscreenSize returns the model's offscreen buffer size hint.
	OffscreenSize() (width, height int)

	// SetOffscreenSize records a new offscreen buffer size hint.
	SetOffscreenSize(width, height int)

	// Textures returns the model textures.
	Textures() []common.Texture

	// AddRenderContext registers rc if no context with the same id is registered yet.
	AddRenderContext(rc RenderContext)

	// RenderContexts returns the registered contexts in registration order.
	RenderContexts() []RenderContext

	// RenderCallback returns the callback run before each render, or nil.
	RenderCallback() RenderCallback
}
