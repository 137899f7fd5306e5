// Package ico reads and writes Windows icon files.
//
// Encode writes a single PNG-compressed entry. Decode accepts both PNG and
// DIB (BMP without file header) entries and returns the largest one.
package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// MaxSize is the largest width or height an icon entry can describe.
const MaxSize = 256

const (
	dirHeaderLen   = 6
	dirEntryLen    = 16
	bmpFileHdrLen  = 14
	iconTypeIcon   = 1
	maxEntries     = 64
	dibInfoHdrSize = 40
)

var (
	ErrTooLarge  = errors.New("ico: image exceeds 256x256")
	ErrNotIcon   = errors.New("ico: not an icon file")
	ErrNoEntries = errors.New("ico: no image entries")
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type dirEntry struct {
	Width, Height uint8
	Colors        uint8
	Reserved      uint8
	Planes        uint16
	BitCount      uint16
	Size          uint32
	Offset        uint32
}

func (e dirEntry) dims() (int, int) {
	w, h := int(e.Width), int(e.Height)
	if w == 0 {
		w = MaxSize
	}
	if h == 0 {
		h = MaxSize
	}
	return w, h
}

// Encode writes img as a one-entry icon with a PNG payload.
func Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > MaxSize || height > MaxSize {
		return fmt.Errorf("%w: got %dx%d", ErrTooLarge, width, height)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("ico: invalid dimensions %dx%d", width, height)
	}

	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return fmt.Errorf("ico: encode png entry: %w", err)
	}

	var hdr bytes.Buffer
	hdr.Grow(dirHeaderLen + dirEntryLen)
	binary.Write(&hdr, binary.LittleEndian, [3]uint16{0, iconTypeIcon, 1})
	binary.Write(&hdr, binary.LittleEndian, dirEntry{
		// 256 is stored as 0.
		Width:    uint8(width),
		Height:   uint8(height),
		Planes:   1,
		BitCount: 32,
		Size:     uint32(payload.Len()),
		Offset:   dirHeaderLen + dirEntryLen,
	})

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

// readDir parses the ICONDIR header and its entries.
func readDir(data []byte) ([]dirEntry, error) {
	if len(data) < dirHeaderLen {
		return nil, ErrNotIcon
	}
	var hdr [3]uint16
	if err := binary.Read(bytes.NewReader(data[:dirHeaderLen]), binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}
	if hdr[0] != 0 || hdr[1] != iconTypeIcon {
		return nil, ErrNotIcon
	}
	count := int(hdr[2])
	if count == 0 {
		return nil, ErrNoEntries
	}
	if count > maxEntries {
		return nil, fmt.Errorf("ico: too many entries (%d)", count)
	}
	end := dirHeaderLen + count*dirEntryLen
	if len(data) < end {
		return nil, io.ErrUnexpectedEOF
	}

	entries := make([]dirEntry, count)
	if err := binary.Read(bytes.NewReader(data[dirHeaderLen:end]), binary.LittleEndian, entries); err != nil {
		return nil, err
	}
	for i, e := range entries {
		if uint64(e.Offset)+uint64(e.Size) > uint64(len(data)) {
			return nil, fmt.Errorf("ico: entry %d out of bounds: %w", i, io.ErrUnexpectedEOF)
		}
	}
	return entries, nil
}

// largest picks the entry with the most pixels, then the deepest colour.
func largest(entries []dirEntry) dirEntry {
	best := entries[0]
	for _, e := range entries[1:] {
		bw, bh := best.dims()
		ew, eh := e.dims()
		if ew*eh > bw*bh || (ew*eh == bw*bh && e.BitCount > best.BitCount) {
			best = e
		}
	}
	return best
}

// Decode reads the largest image stored in an icon file.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	entries, err := readDir(data)
	if err != nil {
		return nil, err
	}
	e := largest(entries)
	payload := data[e.Offset : e.Offset+e.Size]
	if bytes.HasPrefix(payload, pngMagic) {
		return png.Decode(bytes.NewReader(payload))
	}
	return decodeDIB(payload)
}

// DecodeConfig returns the dimensions of the entry Decode would pick.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	entries, err := readDir(data)
	if err != nil {
		return image.Config{}, err
	}
	e := largest(entries)
	payload := data[e.Offset : e.Offset+e.Size]
	if bytes.HasPrefix(payload, pngMagic) {
		return png.DecodeConfig(bytes.NewReader(payload))
	}
	w, h := e.dims()
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// decodeDIB decodes an icon bitmap entry. The stored height covers both
// the XOR image and the AND mask that follows it. 32-bit entries carry
// their own alpha; lower depths take transparency from the mask.
func decodeDIB(dib []byte) (image.Image, error) {
	if len(dib) < dibInfoHdrSize {
		return nil, fmt.Errorf("ico: dib entry: %w", io.ErrUnexpectedEOF)
	}
	hdrSize := binary.LittleEndian.Uint32(dib[0:4])
	if hdrSize < dibInfoHdrSize || int(hdrSize) > len(dib) {
		return nil, fmt.Errorf("ico: unsupported dib header size %d", hdrSize)
	}
	width := int(int32(binary.LittleEndian.Uint32(dib[4:8])))
	height := int(int32(binary.LittleEndian.Uint32(dib[8:12]))) / 2
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ico: invalid dib dimensions %dx%d", width, height)
	}
	bitCount := binary.LittleEndian.Uint16(dib[14:16])
	colors := binary.LittleEndian.Uint32(dib[32:36])
	if colors == 0 && bitCount <= 8 {
		colors = 1 << bitCount
	}

	xorStart := int(hdrSize) + int(colors)*4
	xorLen := rowSize(width, int(bitCount)) * height
	if xorStart+xorLen > len(dib) {
		return nil, fmt.Errorf("ico: dib entry: %w", io.ErrUnexpectedEOF)
	}

	var img *image.NRGBA
	if bitCount == 32 {
		img = decodeBGRA(dib[xorStart:xorStart+xorLen], width, height)
		if hasAlpha(img) {
			return img, nil
		}
		// All-zero alpha: an old-style entry that relies on the mask.
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xff
		}
	} else {
		decoded, err := decodeBMP(dib, hdrSize, height, colors)
		if err != nil {
			return nil, err
		}
		img = imaging.Clone(decoded)
	}

	applyMask(img, dib[xorStart+xorLen:])
	return img, nil
}

// rowSize is the length of one DIB row padded to 32 bits.
func rowSize(width, bitCount int) int {
	return (width*bitCount + 31) / 32 * 4
}

// decodeBGRA reads bottom-up 32-bit BGRA rows as straight alpha.
func decodeBGRA(pix []byte, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride : (height-y)*stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+stride]
		for i := 0; i < stride; i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img
}

func hasAlpha(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}

// applyMask clears alpha wherever the 1-bit AND mask is set. A missing or
// short mask leaves the image opaque.
func applyMask(img *image.NRGBA, mask []byte) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	stride := rowSize(width, 1)
	if len(mask) < stride*height {
		return
	}
	for y := 0; y < height; y++ {
		row := mask[(height-1-y)*stride:]
		for x := 0; x < width; x++ {
			if row[x/8]&(0x80>>(x%8)) != 0 {
				img.Pix[y*img.Stride+x*4+3] = 0
			}
		}
	}
}

// decodeBMP wraps the XOR part of a palette or 24-bit entry in a BMP file
// header and decodes it.
func decodeBMP(dib []byte, hdrSize uint32, height int, colors uint32) (image.Image, error) {
	fixed := make([]byte, len(dib))
	copy(fixed, dib)
	binary.LittleEndian.PutUint32(fixed[8:12], uint32(height))
	pixelOffset := bmpFileHdrLen + hdrSize + colors*4

	var buf bytes.Buffer
	buf.Grow(bmpFileHdrLen + len(fixed))
	buf.WriteString("BM")
	binary.Write(&buf, binary.LittleEndian, uint32(bmpFileHdrLen+len(fixed)))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, pixelOffset)
	buf.Write(fixed)

	img, err := bmp.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("ico: dib entry: %w", err)
	}
	return img, nil
}
