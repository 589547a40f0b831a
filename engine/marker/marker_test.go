package marker

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_SetReplacesInPlace(t *testing.T) {
	p := NewParams().
		Set("pos", Vector(1, 2, 3)).
		Set("rgba", Vector(1, 0, 0, 1)).
		Set("pos", Vector(4, 5, 6))

	fields := p.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "pos", fields[0].Name)
	assert.Equal(t, []float64{4, 5, 6}, fields[0].Value.Floats())

	v, ok := p.Get("rgba")
	require.True(t, ok)
	assert.Equal(t, KindVector, v.Kind())
	_, ok = p.Get("size")
	assert.False(t, ok)
}

func TestBuild_defaults(t *testing.T) {
	g, err := Build(Params{})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeom(), g)
	assert.Equal(t, common.GeomBox, g.Type)
	assert.Equal(t, mgl32.Vec3{0.1, 0.1, 0.1}, g.Size)
	assert.Equal(t, mgl32.Ident3(), g.Mat)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, g.Rgba)
	assert.Equal(t, -1, g.DataID)
	assert.Equal(t, -1, g.TexID)
	assert.Equal(t, common.CategoryDecor, g.Category)
	assert.Equal(t, [2]float32{1, 1}, g.TexRepeat)
}

func TestBuild_overrides(t *testing.T) {
	rot := mgl32.Rotate3DZ(mgl32.DegToRad(90))
	p := NewParams(
		Field{Name: "type", Value: Scalar(float64(common.GeomSphere))},
		Field{Name: "objid", Value: Scalar(4.9)},
		Field{Name: "emission", Value: Scalar(0.25)},
		Field{Name: "size", Value: Vector(0.2, 0.2, 0.2)},
		Field{Name: "pos", Value: Vector(1, 2, 3)},
		Field{Name: "mat", Value: Matrix(rot)},
		Field{Name: "texrepeat", Value: Vector(2, 4)},
		Field{Name: "label", Value: Label("goal")},
	)

	g, err := Build(*p)
	require.NoError(t, err)
	assert.Equal(t, common.GeomSphere, g.Type)
	assert.Equal(t, 4, g.ObjID, "integer fields truncate")
	assert.Equal(t, float32(0.25), g.Emission)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, g.Pos)
	assert.True(t, g.Mat.ApproxEqual(rot))
	assert.Equal(t, [2]float32{2, 4}, g.TexRepeat)
	assert.Equal(t, "goal", g.Label)
}

func TestBuild_labelTruncated(t *testing.T) {
	g, err := Build(*NewParams().Set("label", Label(strings.Repeat("x", 150))))
	require.NoError(t, err)
	assert.Len(t, g.Label, MaxLabelLength)

	g, err = Build(*NewParams().Set("label", Label("a"+strings.Repeat("é", 60))))
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(g.Label))
	assert.Len(t, g.Label, MaxLabelLength-1)
}

func TestBuild_validation(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value Value
	}{
		{name: "shape mismatch", field: "size", value: Vector(1, 2)},
		{name: "rgba too long", field: "rgba", value: Vector(1, 1, 1, 1, 1)},
		{name: "unknown field", field: "colour", value: Vector(1, 1, 1, 1)},
		{name: "string on numeric field", field: "pos", value: Label("up")},
		{name: "scalar on vector field", field: "size", value: Scalar(1)},
		{name: "vector on scalar field", field: "objid", value: Vector(1)},
		{name: "number on label", field: "label", value: Scalar(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(*NewParams().Set(tt.field, tt.value))
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrValidation))

			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestPool_AddCopiesRecord(t *testing.T) {
	pool := NewPool()
	p := NewParams().Set("pos", Vector(0, 0, 1))
	pool.Add(p)
	pool.Add(nil)
	p.Set("pos", Vector(9, 9, 9))

	require.Equal(t, 1, pool.Len())
	v, _ := pool.Markers()[0].Get("pos")
	assert.Equal(t, []float64{0, 0, 1}, v.Floats())

	pool.Clear()
	assert.Equal(t, 0, pool.Len())
}

func TestPool_InjectInOrder(t *testing.T) {
	s := scene.NewScene(scene.WithCapacity(10))
	require.NoError(t, s.Append(scene.Geom{ObjID: 100}))

	pool := NewPool()
	for i := range 3 {
		pool.Add(NewParams().Set("objid", Scalar(float64(i))))
	}

	require.NoError(t, pool.Inject(s))
	require.Equal(t, 4, s.Len())
	for i := range 3 {
		g, _ := s.At(i + 1)
		assert.Equal(t, i, g.ObjID)
	}

	// A second pass re-adds the whole pool.
	s.Truncate(1)
	require.NoError(t, pool.Inject(s))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 3, pool.Len())
}

func TestPool_InjectOverflowRollsBack(t *testing.T) {
	s := scene.NewScene(scene.WithCapacity(3))
	require.NoError(t, s.Append(scene.Geom{}))

	pool := NewPool()
	for range 3 {
		pool.Add(NewParams())
	}

	err := pool.Inject(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCapacity))
	assert.Equal(t, 1, s.Len())
}

func TestPool_InjectInvalidRollsBack(t *testing.T) {
	s := scene.NewScene(scene.WithCapacity(10))

	pool := NewPool()
	pool.Add(NewParams())
	pool.Add(NewParams().Set("size", Vector(1, 2)))

	err := pool.Inject(s)
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "size", ve.Field)
	assert.Equal(t, 0, s.Len())
}
