package lsb

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanicar/stegstr"
	"github.com/zanicar/stegstr/frame"
	"github.com/zanicar/stegstr/raster"
)

func writeGradientPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := (y*w + x) % 256
			img.Set(x, y, color.RGBA{R: uint8(v), G: uint8(v + 1), B: uint8(v + 2), A: 255})
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

func TestRoundTripGradientCover(t *testing.T) {
	cover := writeGradientPNG(t, 256, 256)
	payload := []byte("Hello, Stegstr!")

	codec := New()
	pngBytes, err := codec.Encode(cover, payload)
	require.NoError(t, err)

	outPath := filepath.Join(filepath.Dir(cover), "out.png")
	require.NoError(t, os.WriteFile(outPath, pngBytes, 0o644))

	got, err := codec.Decode(outPath)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEncodeTooLarge(t *testing.T) {
	cover := writeGradientPNG(t, 4, 4)
	codec := New()
	_, err := codec.Encode(cover, make([]byte, 1024))
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindTooLarge, stegErr.Kind)
}

func TestDecodeNotFound(t *testing.T) {
	cover := writeGradientPNG(t, 32, 32)
	codec := New()
	_, err := codec.Decode(cover)
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindNotFound, stegErr.Kind)
}

func TestDecodeSlidingAlignment(t *testing.T) {
	// Embed the frame starting at a non-zero, non-byte-aligned bit offset
	// (bypassing Codec.Encode, which always starts at bit 0) to simulate
	// a transport that shifts where bit position 0 of the stream lands;
	// frame.Search's sliding loop must still find the magic mid-stream.
	cover := writeGradientPNG(t, 64, 64)
	payload := []byte("shifted")
	framed := frame.Wrap(payload)
	totalBits := len(framed) * 8

	r, err := raster.Load(cover)
	require.NoError(t, err)

	const shift = 17
	bitIdx := 0
	for y := 0; y < r.Height && bitIdx < shift+totalBits; y++ {
		for x := 0; x < r.Width && bitIdx < shift+totalBits; x++ {
			px := r.At(x, y)
			for ch := 0; ch < 3 && bitIdx < shift+totalBits; ch++ {
				var bit byte
				if bitIdx >= shift && frame.BitAt(framed, bitIdx-shift) {
					bit = 1
				}
				px[ch] = (px[ch] &^ 1) | bit
				bitIdx++
			}
		}
	}

	pngBytes, err := raster.EncodePNG(r)
	require.NoError(t, err)
	outPath := filepath.Join(filepath.Dir(cover), "shifted.png")
	require.NoError(t, os.WriteFile(outPath, pngBytes, 0o644))

	codec := New()
	got, err := codec.Decode(outPath)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
