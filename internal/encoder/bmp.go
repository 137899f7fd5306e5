package encoder

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"

	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

const (
	bmpFileHeaderLen = 14
	bmpV4HeaderLen   = 108
	biBitfields      = 3
	lcsSRGB          = 0x73524742 // 'sRGB'
)

// bmpV4Header is a BITMAPV4HEADER with the channel masks of 32-bit BGRA.
type bmpV4Header struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
	RedMask       uint32
	GreenMask     uint32
	BlueMask      uint32
	AlphaMask     uint32
	CSType        uint32
	Endpoints     [9]int32
	Gamma         [3]uint32
}

// BMPEncoder writes uncompressed BMP. Opaque images are stored as 24-bit
// BGR; images with transparency as 32-bit BGRA behind a V4 header, since
// readers ignore the alpha byte of plain 40-byte headers.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() sniff.Format { return sniff.BMP }
func (e *BMPEncoder) Extension() string    { return "bmp" }

func (e *BMPEncoder) Encode(w io.Writer, img image.Image) error {
	n := imaging.Clone(img)
	if n.Opaque() {
		return bmp.Encode(w, n)
	}
	return encodeBMPAlpha(w, n)
}

func encodeBMPAlpha(w io.Writer, img *image.NRGBA) error {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	pixLen := uint32(width * height * 4)
	offset := uint32(bmpFileHeaderLen + bmpV4HeaderLen)

	var hdr bytes.Buffer
	hdr.Grow(int(offset))
	hdr.WriteString("BM")
	binary.Write(&hdr, binary.LittleEndian, [3]uint32{offset + pixLen, 0, offset})
	binary.Write(&hdr, binary.LittleEndian, bmpV4Header{
		Size:        bmpV4HeaderLen,
		Width:       int32(width),
		Height:      int32(height), // bottom-up
		Planes:      1,
		BitCount:    32,
		Compression: biBitfields,
		SizeImage:   pixLen,
		RedMask:     0x00ff0000,
		GreenMask:   0x0000ff00,
		BlueMask:    0x000000ff,
		AlphaMask:   0xff000000,
		CSType:      lcsSRGB,
	})
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}

	row := make([]byte, width*4)
	for y := height - 1; y >= 0; y-- {
		src := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for i := 0; i < len(src); i += 4 {
			row[i+0] = src[i+2]
			row[i+1] = src[i+1]
			row[i+2] = src[i+0]
			row[i+3] = src[i+3]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
