package renderer

import (
	"log/slog"

	"golang.org/x/image/font"
)

// RasterizerBuilderOption is a functional option applied to a rasterizer during construction via NewRasterizer.
type RasterizerBuilderOption func(*rasterizerImpl)

// WithBackground sets the clear color used outside segmentation draws.
//
// Parameters:
//   - r, g, b: the clear color
//
// Returns:
//   - RasterizerBuilderOption: a function that applies the background option to a rasterizer
func WithBackground(r, g, b byte) RasterizerBuilderOption {
	return func(ri *rasterizerImpl) {
		ri.background = [3]byte{r, g, b}
	}
}

// WithFontScale sets the integer magnification applied to overlay and label text.
//
// Parameters:
//   - scale: the magnification, values below 1 are raised to 1
//
// Returns:
//   - RasterizerBuilderOption: a function that applies the font scale option to a rasterizer
func WithFontScale(scale int) RasterizerBuilderOption {
	return func(ri *rasterizerImpl) {
		ri.fontScale = scale
	}
}

// WithFace replaces the default 7x13 bitmap face used for text.
//
// Parameters:
//   - face: the font face
//
// Returns:
//   - RasterizerBuilderOption: a function that applies the face option to a rasterizer
func WithFace(face font.Face) RasterizerBuilderOption {
	return func(ri *rasterizerImpl) {
		if face != nil {
			ri.face = face
		}
	}
}

// WithLogger routes rasterizer diagnostics to l.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - RasterizerBuilderOption: a function that applies the logger option to a rasterizer
func WithLogger(l *slog.Logger) RasterizerBuilderOption {
	return func(ri *rasterizerImpl) {
		if l != nil {
			ri.logger = l
		}
	}
}
