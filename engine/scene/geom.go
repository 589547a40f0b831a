package scene

import (
	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Geom is one drawable slot of the scene arena. It mirrors the per-frame abstract geometry
// record: shape, placement, material and the ids that tie it back to the model.
type Geom struct {
	Type     common.GeomType
	DataID   int
	ObjType  common.ObjType
	ObjID    int
	Category common.GeomCategory

	TexID      int
	TexUniform int
	TexRepeat  [2]float32

	// Size holds the shape-specific half extents or radii.
	Size mgl32.Vec3

	// Pos is the world-space center.
	Pos mgl32.Vec3

	// Mat is the world-space orientation.
	Mat mgl32.Mat3

	Rgba mgl32.Vec4

	Emission    float32
	Specular    float32
	Shininess   float32
	Reflectance float32

	Label string

	// SegID is the segmentation id assigned during composition.
	SegID int
}

// Radius returns the bounding-sphere radius of the geometry.
//
// Returns:
//   - float32: the largest size component
func (g Geom) Radius() float32 {
	return max(g.Size[0], g.Size[1], g.Size[2])
}
