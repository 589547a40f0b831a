package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/overlay"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const size = 64

func newTestScene(t *testing.T, geoms ...scene.Geom) scene.Scene {
	t.Helper()
	s := scene.NewScene()
	eye := mgl32.Vec3{0, 0, 5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	s.SetCamera(view, proj, eye)
	for _, g := range geoms {
		require.NoError(t, s.Append(g))
	}
	return s
}

func sphere(pos mgl32.Vec3, rgba mgl32.Vec4, objID int) scene.Geom {
	return scene.Geom{
		Type:      common.GeomSphere,
		ObjType:   common.ObjGeom,
		ObjID:     objID,
		TexID:     -1,
		TexRepeat: [2]float32{1, 1},
		Size:      mgl32.Vec3{0.5, 0.5, 0.5},
		Pos:       pos,
		Mat:       mgl32.Ident3(),
		Rgba:      rgba,
	}
}

func draw(t *testing.T, r Rasterizer, s scene.Scene) *surface.Framebuffer {
	t.Helper()
	fb := surface.NewFramebuffer(size, size)
	require.NoError(t, r.Draw(fb, common.Rect{Width: size, Height: size}, s))
	return fb
}

func TestRasterizer_emptySceneClearsToBackground(t *testing.T) {
	r := NewRasterizer(WithBackground(10, 20, 30))
	fb := draw(t, r, newTestScene(t))

	for _, p := range [][2]int{{0, 0}, {32, 32}, {63, 63}} {
		cr, cg, cb := fb.Pixel(p[0], p[1])
		assert.Equal(t, [3]byte{10, 20, 30}, [3]byte{cr, cg, cb})
		assert.Equal(t, float32(1), fb.DepthAt(p[0], p[1]))
	}
}

func TestRasterizer_drawsVisibleSphere(t *testing.T) {
	r := NewRasterizer(WithBackground(0, 0, 0))
	fb := draw(t, r, newTestScene(t, sphere(mgl32.Vec3{}, mgl32.Vec4{1, 0, 0, 1}, 0)))

	cr, cg, cb := fb.Pixel(32, 32)
	assert.Greater(t, cr, byte(200))
	assert.Equal(t, byte(0), cg)
	assert.Equal(t, byte(0), cb)
	assert.Less(t, fb.DepthAt(32, 32), float32(1))

	cr, _, _ = fb.Pixel(2, 2)
	assert.Equal(t, byte(0), cr, "corner stays background")
}

func TestRasterizer_culling(t *testing.T) {
	r := NewRasterizer(WithBackground(0, 0, 0))
	tests := []struct {
		name string
		pos  mgl32.Vec3
	}{
		{name: "behind camera", pos: mgl32.Vec3{0, 0, 10}},
		{name: "far left", pos: mgl32.Vec3{-50, 0, 0}},
		{name: "beyond far plane", pos: mgl32.Vec3{0, 0, -200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := draw(t, r, newTestScene(t, sphere(tt.pos, mgl32.Vec4{1, 1, 1, 1}, 0)))
			for i, v := range fb.Depth {
				if v != 1 {
					t.Fatalf("pixel %d written", i)
				}
			}
		})
	}
}

func TestRasterizer_depthOrderIndependent(t *testing.T) {
	r := NewRasterizer()
	near := sphere(mgl32.Vec3{0, 0, 0}, mgl32.Vec4{1, 0, 0, 1}, 0)
	far := sphere(mgl32.Vec3{0, 0, -2}, mgl32.Vec4{0, 1, 0, 1}, 1)

	for _, order := range [][]scene.Geom{{near, far}, {far, near}} {
		fb := draw(t, r, newTestScene(t, order...))
		cr, cg, _ := fb.Pixel(32, 32)
		assert.Greater(t, cr, byte(200))
		assert.Equal(t, byte(0), cg)
	}
}

func TestRasterizer_segmentation(t *testing.T) {
	r := NewRasterizer(WithBackground(90, 90, 90))
	s := newTestScene(t, sphere(mgl32.Vec3{}, mgl32.Vec4{1, 1, 1, 1}, 4))
	s.SetFlags(scene.Flags{Segmentation: true})
	fb := draw(t, r, s)

	ids := DecodeSegmentation(fb.Color)
	require.Len(t, ids, size*size)
	assert.Equal(t, 4, ids[32*size+32])
	assert.Equal(t, -1, ids[0])
}

func TestSegmentation_encodeDecode(t *testing.T) {
	for _, id := range []int{-1, 0, 1, 255, 256, 70000} {
		cr, cg, cb := EncodeSegmentation(id)
		assert.Equal(t, []int{id}, DecodeSegmentation([]byte{cr, cg, cb}))
	}
	assert.Empty(t, DecodeSegmentation([]byte{1, 2}))
}

func TestRasterizer_textureRequiresUpload(t *testing.T) {
	r := NewRasterizer(WithBackground(0, 0, 0))
	box := sphere(mgl32.Vec3{}, mgl32.Vec4{1, 1, 1, 1}, 0)
	box.Type = common.GeomBox
	box.TexID = 3

	fb := draw(t, r, newTestScene(t, box))
	cr, _, cb := fb.Pixel(32, 32)
	assert.Equal(t, cr, cb, "flat white without the texture")
	assert.False(t, r.HasTexture(3))

	blue := common.Texture{ID: 3, Width: 2, Height: 2, Pixels: []byte{
		0, 0, 255, 255, 0, 0, 255, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}}
	require.NoError(t, r.UploadTexture(blue))
	assert.True(t, r.HasTexture(3))

	fb = draw(t, r, newTestScene(t, box))
	cr, _, cb = fb.Pixel(32, 32)
	assert.Equal(t, byte(0), cr)
	assert.Greater(t, cb, byte(200))

	r.ReleaseTextures()
	assert.False(t, r.HasTexture(3))
}

func TestRasterizer_uploadTextureValidates(t *testing.T) {
	r := NewRasterizer()
	err := r.UploadTexture(common.Texture{ID: 1, Width: 2, Height: 2, Pixels: make([]byte, 3)})
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestRasterizer_drawNil(t *testing.T) {
	r := NewRasterizer()
	assert.True(t, errors.Is(r.Draw(nil, common.Rect{}, scene.NewScene()), common.ErrPrecondition))
}

func TestRasterizer_drawOverlayCorners(t *testing.T) {
	tests := []struct {
		pos         overlay.GridPos
		left, lower bool
	}{
		{pos: overlay.GridTopLeft, left: true},
		{pos: overlay.GridTopRight},
		{pos: overlay.GridBottomLeft, left: true, lower: true},
		{pos: overlay.GridBottomRight, lower: true},
	}
	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			r := NewRasterizer()
			fb := surface.NewFramebuffer(200, 100)
			fb.Clear(0, 0, 0)
			r.DrawOverlay(fb, common.Rect{Width: 200, Height: 100}, []overlay.Entry{
				{Pos: tt.pos, TextA: "FPS\n", TextB: "60\n"},
			})

			inside, outside := 0, 0
			for y := 0; y < fb.Height; y++ {
				for x := 0; x < fb.Width; x++ {
					if cr, _, _ := fb.Pixel(x, y); cr == 0 {
						continue
					}
					if (x < 100) == tt.left && (y < 50) == tt.lower {
						inside++
					} else {
						outside++
					}
				}
			}
			assert.Positive(t, inside)
			assert.Zero(t, outside)
		})
	}
}

func TestRasterizer_drawOverlaySkipsEmpty(t *testing.T) {
	r := NewRasterizer(WithFontScale(2))
	fb := surface.NewFramebuffer(32, 32)
	r.DrawOverlay(fb, common.Rect{Width: 32, Height: 32}, []overlay.Entry{{Pos: overlay.GridTopLeft}})
	assert.Equal(t, make([]byte, 32*32*3), fb.Color)
}
