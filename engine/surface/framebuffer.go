package surface

// Framebuffer is the CPU-side drawing target of a surface: RGB8 color and float32 depth.
// Rows are stored bottom row first to match the readback convention, so (0, 0) is the
// bottom-left pixel.
type Framebuffer struct {
	Width  int
	Height int

	// Color holds Width*Height*3 bytes.
	Color []byte

	// Depth holds Width*Height values in [0, 1], 1 being the far plane.
	Depth []float32
}

// NewFramebuffer allocates a cleared framebuffer.
//
// Parameters:
//   - width, height: dimensions in pixels
//
// Returns:
//   - *Framebuffer: the framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]byte, width*height*3),
		Depth:  make([]float32, width*height),
	}
	fb.ClearDepth()
	return fb
}

// Contains reports whether (x, y) lies inside the buffer.
func (fb *Framebuffer) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < fb.Width && y < fb.Height
}

// Clear fills the color buffer and resets depth to the far plane.
//
// Parameters:
//   - r, g, b: the fill color
func (fb *Framebuffer) Clear(r, g, b byte) {
	for i := 0; i < len(fb.Color); i += 3 {
		fb.Color[i], fb.Color[i+1], fb.Color[i+2] = r, g, b
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth value to the far plane.
func (fb *Framebuffer) ClearDepth() {
	for i := range fb.Depth {
		fb.Depth[i] = 1
	}
}

// Pixel returns the color at (x, y). The point must be inside the buffer.
func (fb *Framebuffer) Pixel(x, y int) (r, g, b byte) {
	i := (y*fb.Width + x) * 3
	return fb.Color[i], fb.Color[i+1], fb.Color[i+2]
}

// SetPixel writes the color at (x, y), ignoring points outside the buffer.
func (fb *Framebuffer) SetPixel(x, y int, r, g, b byte) {
	if !fb.Contains(x, y) {
		return
	}
	i := (y*fb.Width + x) * 3
	fb.Color[i], fb.Color[i+1], fb.Color[i+2] = r, g, b
}

// BlendPixel composites a color with the given alpha over (x, y), ignoring points outside
// the buffer.
func (fb *Framebuffer) BlendPixel(x, y int, r, g, b byte, alpha float32) {
	if !fb.Contains(x, y) {
		return
	}
	if alpha >= 1 {
		fb.SetPixel(x, y, r, g, b)
		return
	}
	if alpha <= 0 {
		return
	}
	i := (y*fb.Width + x) * 3
	mix := func(dst, src byte) byte {
		return byte(float32(src)*alpha + float32(dst)*(1-alpha) + 0.5)
	}
	fb.Color[i] = mix(fb.Color[i], r)
	fb.Color[i+1] = mix(fb.Color[i+1], g)
	fb.Color[i+2] = mix(fb.Color[i+2], b)
}

// DepthAt returns the stored depth at (x, y), or the far plane outside the buffer.
func (fb *Framebuffer) DepthAt(x, y int) float32 {
	if !fb.Contains(x, y) {
		return 1
	}
	return fb.Depth[y*fb.Width+x]
}

// DepthTest reports whether depth z passes the less-than test at (x, y) and, if so, stores it.
func (fb *Framebuffer) DepthTest(x, y int, z float32) bool {
	if !fb.Contains(x, y) {
		return false
	}
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	return true
}

// copyRows copies rows [y0, y1) of the width x region anchored at the origin into dst
// buffers laid out with that width.
func (fb *Framebuffer) copyRows(color []byte, depth []float32, width, y0, y1 int) {
	for y := y0; y < y1; y++ {
		src := y * fb.Width
		dst := y * width
		copy(color[dst*3:(dst+width)*3], fb.Color[src*3:(src+width)*3])
		if depth != nil {
			copy(depth[dst:dst+width], fb.Depth[src:src+width])
		}
	}
}
