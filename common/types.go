// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// GeomType identifies the primitive shape of a scene geometry. Values match the MuJoCo geom codes
// so that model data can be passed through unchanged.
type GeomType int

const (
	GeomPlane     GeomType = 0
	GeomHField    GeomType = 1
	GeomSphere    GeomType = 2
	GeomCapsule   GeomType = 3
	GeomEllipsoid GeomType = 4
	GeomCylinder  GeomType = 5
	GeomBox       GeomType = 6
	GeomMesh      GeomType = 7

	// Decoration-only shapes, never produced by the simulation model.
	GeomArrow  GeomType = 100
	GeomArrow1 GeomType = 101
	GeomArrow2 GeomType = 102
	GeomLine   GeomType = 103
	GeomSkin   GeomType = 104
	GeomLabel  GeomType = 105

	GeomNone GeomType = 1001
)

// ObjType identifies the kind of model object a geometry was generated from.
type ObjType int

const (
	ObjUnknown ObjType = 0
	ObjBody    ObjType = 1
	ObjGeom    ObjType = 5
	ObjSite    ObjType = 6
	ObjCamera  ObjType = 7
)

// GeomCategory is a bitmask classifying geometry for visibility filtering.
type GeomCategory int

const (
	CategoryStatic  GeomCategory = 1
	CategoryDynamic GeomCategory = 2
	CategoryDecor   GeomCategory = 4
)

// Rect is an axis-aligned pixel rectangle with its origin at the bottom-left corner.
type Rect struct {
	Left, Bottom  int
	Width, Height int
}

// Texture holds decoded RGBA pixel data for a model texture pending upload.
type Texture struct {
	// ID is the model-level texture index referenced by geometry TexID fields.
	ID int

	// Width is the texture width in pixels.
	Width int

	// Height is the texture height in pixels.
	Height int

	// Pixels is the RGBA data, 4 bytes per pixel, top row first.
	Pixels []byte
}

// At returns the RGBA color of the texel nearest to normalized coordinates (u, v), wrapping
// coordinates outside [0, 1].
//
// Parameters:
//   - u, v: texture coordinates
//
// Returns:
//   - r, g, b, a: the texel channels
func (t Texture) At(u, v float32) (r, g, b, a byte) {
	if t.Width == 0 || t.Height == 0 {
		return 0, 0, 0, 0
	}
	x := int(u*float32(t.Width)) % t.Width
	y := int(v*float32(t.Height)) % t.Height
	if x < 0 {
		x += t.Width
	}
	if y < 0 {
		y += t.Height
	}
	i := (y*t.Width + x) * 4
	return t.Pixels[i], t.Pixels[i+1], t.Pixels[i+2], t.Pixels[i+3]
}

// NewTexture converts an arbitrary image into an RGBA Texture.
//
// Parameters:
//   - id: the model-level texture index
//   - img: the source image
//
// Returns:
//   - Texture: the converted texture
func NewTexture(id int, img image.Image) Texture {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return Texture{
		ID:     id,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}

// DecodeTexture decodes PNG or JPEG bytes into a Texture.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - id: the model-level texture index
//   - data: encoded image bytes
//
// Returns:
//   - Texture: the decoded texture
//   - error: error if decoding fails
func DecodeTexture(id int, data []byte) (Texture, error) {
	if len(data) == 0 {
		return Texture{}, fmt.Errorf("texture %d has no data", id)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Texture{}, fmt.Errorf("failed to decode texture %d: %w", id, err)
	}
	return NewTexture(id, img), nil
}
