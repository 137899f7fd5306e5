package encoder

import (
	"image"
	"io"

	"github.com/gen2brain/avif"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// AVIFEncoder encodes images to AVIF.
// Speed is 0 (slowest) to 10 (fastest); Quality is 0-100.
type AVIFEncoder struct {
	Speed   int
	Quality int
}

func (e *AVIFEncoder) Format() sniff.Format { return sniff.AVIF }
func (e *AVIFEncoder) Extension() string    { return "avif" }

func (e *AVIFEncoder) Encode(w io.Writer, img image.Image) error {
	return avif.Encode(w, img, avif.Options{
		Quality:           e.Quality,
		QualityAlpha:      e.Quality,
		Speed:             e.Speed,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
}
