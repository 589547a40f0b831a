package marker

import (
	"fmt"
	"unicode/utf8"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLabelLength is the byte limit applied to label values. Truncation keeps whole runes.
const MaxLabelLength = 100

// fieldSpec describes how one marker field accepts and applies a value.
type fieldSpec struct {
	kind  Kind
	shape int // element count for KindVector, 0 otherwise
	apply func(g *scene.Geom, v Value)
}

func intField(set func(g *scene.Geom, n int)) fieldSpec {
	return fieldSpec{kind: KindScalar, apply: func(g *scene.Geom, v Value) {
		set(g, int(v.scalar))
	}}
}

func floatField(set func(g *scene.Geom, f float32)) fieldSpec {
	return fieldSpec{kind: KindScalar, apply: func(g *scene.Geom, v Value) {
		set(g, float32(v.scalar))
	}}
}

func vectorField(shape int, set func(g *scene.Geom, f []float32)) fieldSpec {
	return fieldSpec{kind: KindVector, shape: shape, apply: func(g *scene.Geom, v Value) {
		f := make([]float32, len(v.vector))
		for i, x := range v.vector {
			f[i] = float32(x)
		}
		set(g, f)
	}}
}

// schema is the complete table of overridable marker fields.
var schema = map[string]fieldSpec{
	"type":       intField(func(g *scene.Geom, n int) { g.Type = common.GeomType(n) }),
	"dataid":     intField(func(g *scene.Geom, n int) { g.DataID = n }),
	"objtype":    intField(func(g *scene.Geom, n int) { g.ObjType = common.ObjType(n) }),
	"objid":      intField(func(g *scene.Geom, n int) { g.ObjID = n }),
	"category":   intField(func(g *scene.Geom, n int) { g.Category = common.GeomCategory(n) }),
	"texid":      intField(func(g *scene.Geom, n int) { g.TexID = n }),
	"texuniform": intField(func(g *scene.Geom, n int) { g.TexUniform = n }),
	"segid":      intField(func(g *scene.Geom, n int) { g.SegID = n }),

	"emission":    floatField(func(g *scene.Geom, f float32) { g.Emission = f }),
	"specular":    floatField(func(g *scene.Geom, f float32) { g.Specular = f }),
	"shininess":   floatField(func(g *scene.Geom, f float32) { g.Shininess = f }),
	"reflectance": floatField(func(g *scene.Geom, f float32) { g.Reflectance = f }),

	"texrepeat": vectorField(2, func(g *scene.Geom, f []float32) { g.TexRepeat = [2]float32{f[0], f[1]} }),
	"size":      vectorField(3, func(g *scene.Geom, f []float32) { g.Size = mgl32.Vec3{f[0], f[1], f[2]} }),
	"pos":       vectorField(3, func(g *scene.Geom, f []float32) { g.Pos = mgl32.Vec3{f[0], f[1], f[2]} }),
	"rgba":      vectorField(4, func(g *scene.Geom, f []float32) { g.Rgba = mgl32.Vec4{f[0], f[1], f[2], f[3]} }),
	"mat": vectorField(9, func(g *scene.Geom, f []float32) {
		g.Mat = mgl32.Mat3FromRows(
			mgl32.Vec3{f[0], f[1], f[2]},
			mgl32.Vec3{f[3], f[4], f[5]},
			mgl32.Vec3{f[6], f[7], f[8]},
		)
	}),

	"label": {kind: KindLabel, apply: func(g *scene.Geom, v Value) {
		s := v.label
		if len(s) > MaxLabelLength {
			n := MaxLabelLength
			for n > 0 && !utf8.RuneStart(s[n]) {
				n--
			}
			s = s[:n]
		}
		g.Label = s
	}},
}

// DefaultGeom returns the primitive every marker starts from before its overrides are applied.
//
// Returns:
//   - scene.Geom: a 0.1 decoration box, opaque white, with no data or texture association
func DefaultGeom() scene.Geom {
	return scene.Geom{
		Type:        common.GeomBox,
		DataID:      -1,
		ObjType:     common.ObjUnknown,
		ObjID:       -1,
		Category:    common.CategoryDecor,
		TexID:       -1,
		TexUniform:  0,
		TexRepeat:   [2]float32{1, 1},
		Size:        mgl32.Vec3{0.1, 0.1, 0.1},
		Mat:         mgl32.Ident3(),
		Rgba:        mgl32.Vec4{1, 1, 1, 1},
		Emission:    0,
		Specular:    0.5,
		Shininess:   0.5,
		Reflectance: 0,
		SegID:       -1,
	}
}

// Build applies p on top of DefaultGeom.
//
// Parameters:
//   - p: the marker record
//
// Returns:
//   - scene.Geom: the composed geometry
//   - error: *common.ValidationError naming the first rejected field
func Build(p Params) (scene.Geom, error) {
	g := DefaultGeom()
	for _, f := range p.fields {
		if err := applyField(&g, f); err != nil {
			return scene.Geom{}, err
		}
	}
	return g, nil
}

func applyField(g *scene.Geom, f Field) error {
	spec, ok := schema[f.Name]
	if !ok {
		return &common.ValidationError{Field: f.Name, Reason: "unknown marker field"}
	}
	if f.Value.kind != spec.kind {
		if f.Value.kind == KindLabel {
			return &common.ValidationError{Field: f.Name, Reason: "string values are only accepted for label"}
		}
		return &common.ValidationError{
			Field:  f.Name,
			Reason: fmt.Sprintf("expects a %s value, got %s", spec.kind, f.Value.kind),
		}
	}
	if spec.kind == KindVector && len(f.Value.vector) != spec.shape {
		return &common.ValidationError{
			Field:  f.Name,
			Reason: fmt.Sprintf("cannot reshape %d values into shape (%d)", len(f.Value.vector), spec.shape),
		}
	}
	spec.apply(g, f.Value)
	return nil
}
