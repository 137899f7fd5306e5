// Package sniff classifies raw image bytes by their leading signature.
//
// Classification never looks at file names or MIME hints. The signature
// table is fixed and ordered: the ISO-BMFF brand at offset 4 is checked
// before the offset-0 prefixes.
package sniff

import (
	"bytes"
	"strings"
)

// MinLength is the number of bytes Detect needs before it will classify.
const MinLength = 12

// Format is the closed set of containers the sniffer can recognise.
type Format uint8

const (
	Unknown Format = iota
	PNG
	JPEG
	GIF
	WebP
	TIFF
	BMP
	ICO
	AVIF
)

// Kind distinguishes the two ways detection can fail.
type Kind uint8

const (
	KindCorrupted Kind = iota + 1
	KindUnknown
)

// Error is returned by Detect. Its message is meant to be shown verbatim.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrCorrupted     = &Error{Kind: KindCorrupted, msg: "binary data corrupted"}
	ErrUnknownFormat = &Error{Kind: KindUnknown, msg: "unable to determine image format"}
)

// ftyp box brands at bytes 4..12.
var (
	avifBrand = [8]byte{0x66, 0x74, 0x79, 0x70, 0x61, 0x76, 0x69, 0x66} // ftypavif
	mif1Brand = [8]byte{0x66, 0x74, 0x79, 0x70, 0x6d, 0x69, 0x66, 0x31} // ftypmif1
)

type signature struct {
	magic  []byte
	format Format
}

// prefixes is matched top to bottom against data[0:4]. BMP only
// compares the first two bytes.
var prefixes = []signature{
	{[]byte{0x89, 0x50, 0x4e, 0x47}, PNG},
	{[]byte{0xff, 0xd8, 0xff, 0xe0}, JPEG},
	{[]byte{0x47, 0x49, 0x46, 0x38}, GIF},
	{[]byte{0x52, 0x49, 0x46, 0x46}, WebP}, // any RIFF container
	{[]byte{0x4e, 0x4e, 0x00, 0xa2}, TIFF},
	{[]byte{0x49, 0x49, 0x2a, 0x00}, TIFF},
	{[]byte{0x42, 0x4d}, BMP},
	{[]byte{0x00, 0x00, 0x01, 0x00}, ICO},
}

// Detect returns the format of data or one of ErrCorrupted and
// ErrUnknownFormat.
func Detect(data []byte) (Format, error) {
	if len(data) < MinLength {
		return Unknown, ErrCorrupted
	}
	head, brand := data[0:4], data[4:12]

	if bytes.Equal(brand, avifBrand[:]) || bytes.Equal(brand, mif1Brand[:]) {
		return AVIF, nil
	}
	for _, sig := range prefixes {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.format, nil
		}
	}
	return Unknown, ErrUnknownFormat
}

var names = [...]string{
	Unknown: "unknown",
	PNG:     "png",
	JPEG:    "jpeg",
	GIF:     "gif",
	WebP:    "webp",
	TIFF:    "tiff",
	BMP:     "bmp",
	ICO:     "ico",
	AVIF:    "avif",
}

var mimes = [...]string{
	Unknown: "application/octet-stream",
	PNG:     "image/png",
	JPEG:    "image/jpeg",
	GIF:     "image/gif",
	WebP:    "image/webp",
	TIFF:    "image/tiff",
	BMP:     "image/bmp",
	ICO:     "image/x-icon",
	AVIF:    "image/avif",
}

// String returns the lower-case codec name.
func (f Format) String() string {
	if int(f) < len(names) {
		return names[f]
	}
	return names[Unknown]
}

// MIME returns the canonical media type for f.
func (f Format) MIME() string {
	if int(f) < len(mimes) {
		return mimes[f]
	}
	return mimes[Unknown]
}

// Extension returns the file extension without dot.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return "jpg"
	case TIFF:
		return "tif"
	}
	return f.String()
}

// Formats lists every known format, Unknown excluded.
func Formats() []Format {
	return []Format{PNG, JPEG, GIF, WebP, TIFF, BMP, ICO, AVIF}
}

// ParseFormat maps a codec name or common extension to a Format.
func ParseFormat(name string) (Format, bool) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	switch name {
	case "jpg", "jpe", "jfif":
		return JPEG, true
	case "tif":
		return TIFF, true
	case "icon":
		return ICO, true
	}
	for _, f := range Formats() {
		if names[f] == name {
			return f, true
		}
	}
	return Unknown, false
}
