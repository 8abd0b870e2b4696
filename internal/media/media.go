package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"net/http"

	_ "image/gif"
	_ "image/png"

	"go.uber.org/fx"

	"golang.org/x/image/draw"

	"tweet2sky/pkg/logger"
)

const (
	// MaxBlobSize is the per-image size budget of the target platform.
	MaxBlobSize = 976 * 1024

	jpegQuality = 80
)

// Normalizer re-encodes oversized images to fit the platform size budget
// while preserving aspect ratio.
type Normalizer interface {
	Normalize(b []byte, budget int) ([]byte, error)
}

type Opts struct {
	fx.In

	Logger logger.Logger
}

type Impl struct {
	Logger logger.Logger
}

func New(opts Opts) *Impl {
	return &Impl{Logger: opts.Logger.WithComponent("MediaNormalizer")}
}

var _ Normalizer = (*Impl)(nil)

// Normalize returns b unchanged when it fits the budget. Otherwise the image
// is downscaled by sqrt(budget/size) on both dimensions, which preserves
// aspect ratio because area scales with the square of linear dimension, and
// re-encoded as JPEG at a fixed quality.
func (n *Impl) Normalize(b []byte, budget int) ([]byte, error) {
	if len(b) <= budget {
		return b, nil
	}

	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	factor := math.Sqrt(float64(budget) / float64(len(b)))
	newW := int(math.Floor(float64(w) * factor))
	newH := int(math.Floor(float64(h) * factor))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	n.Logger.Info("Image downscaled to fit budget",
		"original_bytes", len(b),
		"encoded_bytes", buf.Len(),
		"width", newW,
		"height", newH,
	)

	return buf.Bytes(), nil
}

// DetectMime sniffs the content type of an image payload.
func DetectMime(b []byte) string {
	return http.DetectContentType(b)
}
