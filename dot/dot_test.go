package dot

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
)

func writeCoverPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 7) % 256),
				G: uint8((y * 11) % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
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

func TestRoundTripCover(t *testing.T) {
	cover := writeCoverPNG(t, 600, 600)
	payload := []byte("dot-offset payload")

	codec := New()
	out, err := codec.Encode(cover, payload)
	require.NoError(t, err)

	outPath := filepath.Join(filepath.Dir(cover), "out.png")
	require.NoError(t, os.WriteFile(outPath, out, 0o644))

	got, err := codec.Decode(outPath)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMaxPayloadBytesFor600Cover(t *testing.T) {
	// STEP=6, OFFSET=2 over a 600x600 image yields a 100x100 = 10000-cell
	// grid: capacity_bits = (10000*2)/3 = 6666, capacity_bytes = 6666/8 =
	// 833, minus the 2+7+4 header overhead = 820.
	assert.Equal(t, 10000, len(cellPositions(600, 600)))
	assert.Equal(t, 820, maxPayloadBytesFor(600, 600))

	cover := writeCoverPNG(t, 600, 600)
	codec := New()
	got, err := codec.MaxPayloadBytes(cover)
	require.NoError(t, err)
	assert.Equal(t, 820, got)
}

func TestEncodeTooLarge(t *testing.T) {
	cover := writeCoverPNG(t, 20, 20)
	codec := New()
	_, err := codec.Encode(cover, make([]byte, 1024))
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindTooLarge, stegErr.Kind)
}

func TestDecodeNotFound(t *testing.T) {
	cover := writeCoverPNG(t, 300, 300)
	codec := New()
	_, err := codec.Decode(cover)
	require.Error(t, err)
	var stegErr *stegstr.Error
	require.ErrorAs(t, err, &stegErr)
	assert.Equal(t, stegstr.KindNotFound, stegErr.Kind)
}

func TestShufflePositionsDeterministic(t *testing.T) {
	a := shufflePositions(cellPositions(120, 120))
	b := shufflePositions(cellPositions(120, 120))
	assert.Equal(t, a, b)
}
