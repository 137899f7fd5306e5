package encoder

import (
	"image"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// WebPEncoder encodes images to WebP through libwebp.
type WebPEncoder struct {
	Lossless bool
	Quality  int // lossy only
}

func (e *WebPEncoder) Format() sniff.Format { return sniff.WebP }
func (e *WebPEncoder) Extension() string    { return "webp" }

func (e *WebPEncoder) Encode(w io.Writer, img image.Image) error {
	// Lossless keeps the colour of fully transparent pixels too.
	opts := &webp.Options{Lossless: e.Lossless, Exact: e.Lossless}
	if !e.Lossless {
		quality := e.Quality
		if quality <= 0 || quality > 100 {
			quality = 82
		}
		opts.Quality = float32(quality)
	}
	return webp.Encode(w, straightRGBA(img), opts)
}

// straightRGBA returns the non-premultiplied pixels of img behind an
// *image.RGBA header. libwebp takes straight alpha, and webp.Encode only
// passes *image.RGBA through without converting it.
func straightRGBA(img image.Image) *image.RGBA {
	n := imaging.Clone(img)
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}
