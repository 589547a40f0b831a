package renderer

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/overlay"
	"github.com/Carmen-Shannon/oxy-render/engine/scene"
	"github.com/Carmen-Shannon/oxy-render/engine/surface"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Rasterizer draws a composed scene and its overlay text into a surface framebuffer.
//
// Geometries are splatted as screen-space impostors around their projected centers:
// boxes, planes, meshes and height fields as squares, every other shape as a shaded disc.
// Each splat is depth tested against the framebuffer and alpha blended by its rgba.
type Rasterizer interface {
	// Draw clears fb and draws every geometry of s into the viewport using the scene's
	// camera matrices. When the scene's segmentation flag is set, colors are replaced by the
	// encoded object id and shading is disabled.
	//
	// Parameters:
	//   - fb: the target framebuffer
	//   - viewport: the region to draw into, clipped to fb
	//   - s: the composed scene
	//
	// Returns:
	//   - error: error if fb or s is nil
	Draw(fb *surface.Framebuffer, viewport common.Rect, s scene.Scene) error

	// DrawOverlay composites overlay entries into the corners of the viewport, in the order
	// given.
	//
	// Parameters:
	//   - fb: the target framebuffer
	//   - viewport: the region whose corners anchor the entries
	//   - entries: the overlay entries
	DrawOverlay(fb *surface.Framebuffer, viewport common.Rect, entries []overlay.Entry)

	// UploadTexture stores a texture so geometries referring to its id sample it.
	// Uploading the same id again replaces the previous pixels.
	//
	// Parameters:
	//   - tex: the texture
	//
	// Returns:
	//   - error: ValidationError if the pixel buffer does not match the dimensions
	UploadTexture(tex common.Texture) error

	// HasTexture reports whether a texture with the given id has been uploaded.
	HasTexture(id int) bool

	// ReleaseTextures drops every uploaded texture.
	ReleaseTextures()
}

type rasterizerImpl struct {
	mu     *sync.Mutex
	logger *slog.Logger

	background [3]byte
	fontScale  int
	face       font.Face

	textures map[int]common.Texture
	warned   map[int]bool
}

var _ Rasterizer = &rasterizerImpl{}

// NewRasterizer creates a Rasterizer with the given options.
//
// Parameters:
//   - options: variadic list of RasterizerBuilderOption functions to configure the rasterizer
//
// Returns:
//   - Rasterizer: the rasterizer
func NewRasterizer(options ...RasterizerBuilderOption) Rasterizer {
	r := &rasterizerImpl{
		mu:         &sync.Mutex{},
		logger:     slog.New(slog.DiscardHandler),
		background: [3]byte{26, 26, 38},
		fontScale:  1,
		face:       basicfont.Face7x13,
		textures:   make(map[int]common.Texture),
		warned:     make(map[int]bool),
	}
	for _, opt := range options {
		opt(r)
	}
	r.fontScale = max(r.fontScale, 1)
	return r
}

// EncodeSegmentation packs an object id into the color written by segmentation draws.
// Id -1 (no object) encodes to black, which is also the segmentation background.
func EncodeSegmentation(id int) (r, g, b byte) {
	v := id + 1
	if v < 0 {
		v = 0
	}
	return byte(v), byte(v >> 8), byte(v >> 16)
}

// DecodeSegmentation converts an RGB8 segmentation readback into per-pixel object ids,
// -1 marking the background.
//
// Parameters:
//   - colors: RGB8 pixels, 3 bytes per pixel
//
// Returns:
//   - []int: one id per complete pixel
func DecodeSegmentation(colors []byte) []int {
	ids := make([]int, len(colors)/3)
	for i := range ids {
		c := colors[i*3 : i*3+3]
		ids[i] = (int(c[0]) | int(c[1])<<8 | int(c[2])<<16) - 1
	}
	return ids
}

func (r *rasterizerImpl) Draw(fb *surface.Framebuffer, viewport common.Rect, s scene.Scene) error {
	if fb == nil || s == nil {
		return fmt.Errorf("draw scene: %w", common.ErrPrecondition)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	vp := clipRect(viewport, fb)
	segmentation := s.Flags().Segmentation
	if segmentation {
		fb.Clear(0, 0, 0)
	} else {
		fb.Clear(r.background[0], r.background[1], r.background[2])
	}
	if vp.Width <= 0 || vp.Height <= 0 {
		return nil
	}

	proj := s.Projection()
	viewProj := proj.Mul4(s.View())
	frustum := common.ExtractFrustum(viewProj)
	focal := proj.At(1, 1)

	var labels []label
	for _, g := range s.Geoms() {
		if g.Type == common.GeomNone {
			continue
		}
		radius := g.Radius()
		if g.Type == common.GeomPlane && radius <= 0 {
			// infinite planes have no finite footprint
			continue
		}
		if !frustum.ContainsSphere(g.Pos, radius) {
			continue
		}
		clip := viewProj.Mul4x1(g.Pos.Vec4(1))
		if clip[3] <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip[3])
		sp := splat{
			cx:     float32(vp.Left) + (ndc[0]+1)/2*float32(vp.Width),
			cy:     float32(vp.Bottom) + (ndc[1]+1)/2*float32(vp.Height),
			depth:  common.Clamp(ndc[2]*0.5+0.5, 0, 1),
			radius: max(radius*focal/clip[3]*float32(vp.Height)/2, 0.5),
		}
		if g.Label != "" && !segmentation {
			labels = append(labels, label{text: g.Label, x: int(sp.cx + sp.radius), y: int(sp.cy)})
		}
		if g.Type == common.GeomLabel {
			continue
		}
		r.splatGeom(fb, vp, g, sp, segmentation)
	}

	for _, l := range labels {
		img := r.textBlock(splitLines(l.text), nil, false)
		r.blit(fb, vp, img, l.x, l.y)
	}
	return nil
}

type splat struct {
	cx, cy float32
	depth  float32
	radius float32
}

type label struct {
	text string
	x, y int
}

func (r *rasterizerImpl) splatGeom(fb *surface.Framebuffer, vp common.Rect, g scene.Geom, sp splat, segmentation bool) {
	var tex *common.Texture
	if !segmentation && g.TexID >= 0 {
		if t, ok := r.textures[g.TexID]; ok {
			tex = &t
		} else if !r.warned[g.TexID] {
			r.warned[g.TexID] = true
			r.logger.Warn("texture not uploaded, drawing flat color", "texid", g.TexID)
		}
	}

	square := isSquare(g.Type)
	x0 := max(int(math.Floor(float64(sp.cx-sp.radius))), vp.Left)
	x1 := min(int(math.Ceil(float64(sp.cx+sp.radius))), vp.Left+vp.Width)
	y0 := max(int(math.Floor(float64(sp.cy-sp.radius))), vp.Bottom)
	y1 := min(int(math.Ceil(float64(sp.cy+sp.radius))), vp.Bottom+vp.Height)

	alpha := g.Rgba[3]
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := (float32(x) + 0.5 - sp.cx) / sp.radius
			dy := (float32(y) + 0.5 - sp.cy) / sp.radius
			shade := float32(0.85)
			if square {
				if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
					continue
				}
			} else {
				d2 := dx*dx + dy*dy
				if d2 > 1 {
					continue
				}
				shade = 0.4 + 0.6*float32(math.Sqrt(float64(1-d2)))
			}

			if alpha >= 1 {
				if !fb.DepthTest(x, y, sp.depth) {
					continue
				}
			} else if sp.depth >= fb.DepthAt(x, y) {
				continue
			}

			if segmentation {
				cr, cg, cb := EncodeSegmentation(g.ObjID)
				fb.SetPixel(x, y, cr, cg, cb)
				continue
			}

			c := mgl32.Vec3{g.Rgba[0], g.Rgba[1], g.Rgba[2]}
			if tex != nil {
				u := (dx + 1) / 2 * g.TexRepeat[0]
				v := (1 - dy) / 2 * g.TexRepeat[1]
				tr, tg, tb, _ := tex.At(u, v)
				c = mgl32.Vec3{c[0] * float32(tr) / 255, c[1] * float32(tg) / 255, c[2] * float32(tb) / 255}
			}
			light := common.Clamp(shade+g.Emission, 0, 1)
			fb.BlendPixel(x, y, toByte(c[0]*light), toByte(c[1]*light), toByte(c[2]*light), alpha)
		}
	}
}

func (r *rasterizerImpl) DrawOverlay(fb *surface.Framebuffer, viewport common.Rect, entries []overlay.Entry) {
	if fb == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	vp := clipRect(viewport, fb)
	margin := 4 * r.fontScale
	for _, e := range entries {
		a, b := splitLines(e.TextA), splitLines(e.TextB)
		if len(a) == 0 && len(b) == 0 {
			continue
		}
		img := r.textBlock(a, b, true)
		w, h := img.Bounds().Dx(), img.Bounds().Dy()

		left := vp.Left + margin
		top := vp.Bottom + vp.Height - 1 - margin
		switch e.Pos {
		case overlay.GridTopRight:
			left = vp.Left + vp.Width - margin - w
		case overlay.GridBottomLeft:
			top = vp.Bottom + margin + h - 1
		case overlay.GridBottomRight:
			left = vp.Left + vp.Width - margin - w
			top = vp.Bottom + margin + h - 1
		}
		r.blit(fb, vp, img, left, top)
	}
}

// textBlock renders two text columns into a top-down RGBA image scaled by the font scale.
func (r *rasterizerImpl) textBlock(colA, colB []string, backdrop bool) *image.RGBA {
	metrics := r.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	pad := 0
	if backdrop {
		pad = 3
	}

	widthA, widthB := columnWidth(r.face, colA), columnWidth(r.face, colB)
	gap := 0
	if widthB > 0 {
		gap = font.MeasureString(r.face, "  ").Ceil()
	}
	rows := max(len(colA), len(colB))
	img := image.NewRGBA(image.Rect(0, 0, widthA+gap+widthB+2*pad, rows*lineHeight+2*pad))
	if backdrop {
		xdraw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{A: 128}}, image.Point{}, xdraw.Src)
	}

	d := &font.Drawer{Dst: img, Src: image.White, Face: r.face}
	for i, line := range colA {
		d.Dot = fixed.P(pad, pad+i*lineHeight+ascent)
		d.DrawString(line)
	}
	for i, line := range colB {
		d.Dot = fixed.P(pad+widthA+gap, pad+i*lineHeight+ascent)
		d.DrawString(line)
	}

	if r.fontScale == 1 {
		return img
	}
	b := img.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*r.fontScale, b.Dy()*r.fontScale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)
	return scaled
}

// blit composites a top-down image into the bottom-up framebuffer with its top-left pixel
// at (left, top), clipped to the viewport.
func (r *rasterizerImpl) blit(fb *surface.Framebuffer, vp common.Rect, img *image.RGBA, left, top int) {
	b := img.Bounds()
	for iy := 0; iy < b.Dy(); iy++ {
		y := top - iy
		if y < vp.Bottom || y >= vp.Bottom+vp.Height {
			continue
		}
		for ix := 0; ix < b.Dx(); ix++ {
			x := left + ix
			if x < vp.Left || x >= vp.Left+vp.Width {
				continue
			}
			c := img.RGBAAt(b.Min.X+ix, b.Min.Y+iy)
			if c.A == 0 {
				continue
			}
			// image.RGBA is alpha premultiplied
			a := uint32(c.A)
			fb.BlendPixel(x, y,
				byte(uint32(c.R)*255/a), byte(uint32(c.G)*255/a), byte(uint32(c.B)*255/a),
				float32(c.A)/255)
		}
	}
}

func (r *rasterizerImpl) UploadTexture(tex common.Texture) error {
	if tex.Width <= 0 || tex.Height <= 0 || len(tex.Pixels) != tex.Width*tex.Height*4 {
		return &common.ValidationError{
			Field:  "texture",
			Reason: fmt.Sprintf("%d bytes do not describe a %dx%d RGBA image", len(tex.Pixels), tex.Width, tex.Height),
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textures[tex.ID] = tex
	delete(r.warned, tex.ID)
	r.logger.Debug("texture uploaded", "texid", tex.ID, "width", tex.Width, "height", tex.Height)
	return nil
}

func (r *rasterizerImpl) HasTexture(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.textures[id]
	return ok
}

func (r *rasterizerImpl) ReleaseTextures() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.textures)
	clear(r.warned)
}

func isSquare(t common.GeomType) bool {
	switch t {
	case common.GeomBox, common.GeomPlane, common.GeomMesh, common.GeomHField:
		return true
	}
	return false
}

func clipRect(vp common.Rect, fb *surface.Framebuffer) common.Rect {
	left, bottom := max(vp.Left, 0), max(vp.Bottom, 0)
	right := min(vp.Left+vp.Width, fb.Width)
	top := min(vp.Bottom+vp.Height, fb.Height)
	return common.Rect{Left: left, Bottom: bottom, Width: max(right-left, 0), Height: max(top-bottom, 0)}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func columnWidth(face font.Face, lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, font.MeasureString(face, l).Ceil())
	}
	return w
}

func toByte(v float32) byte {
	return byte(common.Clamp(v, 0, 1)*255 + 0.5)
}
