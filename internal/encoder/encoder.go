package encoder

import (
	"fmt"
	"image"
	"io"

	"github.com/Rochumback/wasm-image-converter/internal/profile"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// Encoder writes a decoded image in one output format.
type Encoder interface {
	// Format returns the container this encoder produces.
	Format() sniff.Format

	// Encode writes img to w. On failure, w may already hold a partial
	// output.
	Encode(w io.Writer, img image.Image) error

	// Extension returns the file extension without dot.
	Extension() string
}

// New builds the encoder described by t.
func New(t profile.Target) (Encoder, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	switch t.Format {
	case sniff.PNG:
		return &PNGEncoder{Compression: t.Compression}, nil
	case sniff.JPEG:
		return &JPEGEncoder{Quality: t.Quality}, nil
	case sniff.WebP:
		return &WebPEncoder{Lossless: t.Lossless, Quality: t.Quality}, nil
	case sniff.AVIF:
		return &AVIFEncoder{Speed: t.Speed, Quality: t.Quality}, nil
	case sniff.ICO:
		return &ICOEncoder{}, nil
	case sniff.BMP:
		return &BMPEncoder{}, nil
	case sniff.GIF:
		return &GIFEncoder{Speed: t.Speed}, nil
	case sniff.TIFF, sniff.Unknown:
	}
	return nil, fmt.Errorf("no encoder for %s", t.Format)
}
