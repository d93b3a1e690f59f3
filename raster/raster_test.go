package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8((y*w + x) % 256), G: 10, B: 20, A: 255})
		}
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadDimensionsAndPixels(t *testing.T) {
	path := writeTestPNG(t, 16, 8)
	r, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, r.Width)
	require.Equal(t, 8, r.Height)

	px := r.At(3, 2)
	require.Equal(t, uint8((2*16+3)%256), px[0])
	require.Equal(t, uint8(10), px[1])
	require.Equal(t, uint8(20), px[2])
}

func TestEncodePNGSignature(t *testing.T) {
	path := writeTestPNG(t, 4, 4)
	r, err := Load(path)
	require.NoError(t, err)

	out, err := EncodePNG(r)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), 8)
	require.Equal(t, PNGSignature, out[:8])
}

func TestToRGBFromRGBRoundTrip(t *testing.T) {
	path := writeTestPNG(t, 5, 5)
	r, err := Load(path)
	require.NoError(t, err)

	rgb := r.ToRGB()
	rebuilt := FromRGB(r.Width, r.Height, rgb)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			orig := r.At(x, y)
			got := rebuilt.At(x, y)
			require.Equal(t, orig[:3], got[:3])
		}
	}
}

func TestApplyOrientationRotate90(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 1, A: 255})
	src.Set(1, 0, color.RGBA{R: 2, A: 255})

	rotated := applyOrientation(src, 6)
	require.Equal(t, 1, rotated.Bounds().Dx())
	require.Equal(t, 2, rotated.Bounds().Dy())
}
