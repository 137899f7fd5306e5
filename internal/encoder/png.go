package encoder

import (
	"image"
	"image/png"
	"io"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// PNGEncoder encodes images to PNG using Go's standard library.
// BestSpeed is used for previews, BestCompression for full conversions.
type PNGEncoder struct {
	Compression png.CompressionLevel
}

func (e *PNGEncoder) Format() sniff.Format { return sniff.PNG }
func (e *PNGEncoder) Extension() string    { return "png" }

func (e *PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := &png.Encoder{CompressionLevel: e.Compression}
	return enc.Encode(w, img)
}
