package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_wrapsSentinel(t *testing.T) {
	err := fmt.Errorf("marker 3: %w", &ValidationError{Field: "size", Reason: "expects 3 values, got 2"})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrCapacity))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "size", ve.Field)
	assert.Contains(t, err.Error(), `"size"`)
}

func TestCapacityError_wrapsSentinel(t *testing.T) {
	err := error(&CapacityError{Capacity: 1000})

	assert.True(t, errors.Is(err, ErrCapacity))
	assert.Contains(t, err.Error(), "1000")
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "b", Coalesce("", "b"))
	assert.Equal(t, 0, Coalesce[int]())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-4, 1, 5))
	assert.Equal(t, 5, Clamp(9, 1, 5))
	assert.Equal(t, float32(2.5), Clamp(float32(2.5), 1, 5))
}

func TestFrustum_ContainsSphere(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	f := ExtractFrustum(proj.Mul4(view))

	assert.True(t, f.ContainsSphere(mgl32.Vec3{}, 0.5))
	assert.False(t, f.ContainsSphere(mgl32.Vec3{0, 0, 10}, 0.5), "behind the eye")
	assert.False(t, f.ContainsSphere(mgl32.Vec3{50, 0, 0}, 0.5), "far to the right")
	assert.True(t, f.ContainsSphere(mgl32.Vec3{0, 0, 6}, 1.5), "straddles the near plane")
}

func TestDecodeTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := DecodeTexture(7, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 7, tex.ID)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Len(t, tex.Pixels, 16)

	r, _, _, a := tex.At(0, 0)
	assert.Equal(t, byte(255), r)
	assert.Equal(t, byte(255), a)
	_, _, b, _ := tex.At(0.75, 0.75)
	assert.Equal(t, byte(255), b)
	_, _, b, _ = tex.At(1.75, -0.75)
	assert.Equal(t, byte(255), b, "coordinates wrap")

	_, err = DecodeTexture(1, nil)
	assert.Error(t, err)
	_, err = DecodeTexture(1, []byte("not an image"))
	assert.Error(t, err)
}
