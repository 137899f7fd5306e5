package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"io"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

// jfifHeader is an APP0 segment (JFIF 1.01, no density, no thumbnail).
// image/jpeg omits it, and without it the output would not carry the
// FF D8 FF E0 signature the sniffer expects.
var jfifHeader = []byte{
	0xff, 0xe0, 0x00, 0x10,
	'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01,
	0x00,
	0x00, 0x01, 0x00, 0x01,
	0x00, 0x00,
}

// JPEGEncoder encodes images to baseline JFIF JPEG.
type JPEGEncoder struct {
	Quality int
}

func (e *JPEGEncoder) Format() sniff.Format { return sniff.JPEG }
func (e *JPEGEncoder) Extension() string    { return "jpg" }

func (e *JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	quality := e.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024) // pre-alloc 256KB, typical photo size

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		return errors.New("jpeg: encoder produced no SOI marker")
	}

	if _, err := w.Write(data[:2]); err != nil {
		return err
	}
	if _, err := w.Write(jfifHeader); err != nil {
		return err
	}
	_, err := w.Write(data[2:])
	return err
}
