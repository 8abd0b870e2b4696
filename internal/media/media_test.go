package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweet2sky/pkg/logger"
)

// noisyPNG encodes random pixels, which compress poorly, to reliably produce
// an over-budget payload.
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizePassesThroughUnderBudget(t *testing.T) {
	n := New(Opts{Logger: logger.NewNop()})

	in := []byte("not even an image, stays untouched")
	out, err := n.Normalize(in, 1024)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNormalizeFitsBudgetAndKeepsAspectRatio(t *testing.T) {
	n := New(Opts{Logger: logger.NewNop()})

	in := noisyPNG(t, 800, 400)
	budget := 64 * 1024
	require.Greater(t, len(in), budget, "fixture must exceed the budget")

	out, err := n.Normalize(in, budget)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), budget)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	wantRatio := 800.0 / 400.0
	gotRatio := float64(cfg.Width) / float64(cfg.Height)
	assert.InDelta(t, wantRatio, gotRatio, 0.05)

	wantFactor := math.Sqrt(float64(budget) / float64(len(in)))
	assert.Equal(t, int(math.Floor(800*wantFactor)), cfg.Width)
	assert.Equal(t, int(math.Floor(400*wantFactor)), cfg.Height)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := New(Opts{Logger: logger.NewNop()})

	in := noisyPNG(t, 400, 300)
	budget := 16 * 1024

	first, err := n.Normalize(in, budget)
	require.NoError(t, err)
	second, err := n.Normalize(in, budget)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeRejectsUndecodableOversizedInput(t *testing.T) {
	n := New(Opts{Logger: logger.NewNop()})

	in := bytes.Repeat([]byte{0xAB}, 2048)
	_, err := n.Normalize(in, 1024)
	assert.Error(t, err)
}

func TestDetectMime(t *testing.T) {
	assert.Equal(t, "image/png", DetectMime(noisyPNG(t, 4, 4)))
}
