package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/Rochumback/wasm-image-converter/internal/codec"
	"github.com/Rochumback/wasm-image-converter/internal/encoder"
	"github.com/Rochumback/wasm-image-converter/internal/ico"
	"github.com/Rochumback/wasm-image-converter/internal/sniff"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: uint8(x * 255 / w)})
		}
	}
	return img
}

func encodeWith(t *testing.T, fn func(io.Writer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, img image.Image) []byte {
	return encodeWith(t, func(w io.Writer) error { return png.Encode(w, img) })
}

func animatedGIF(t *testing.T, frames int) []byte {
	t.Helper()
	pal := color.Palette{color.Black, color.White, color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255}}
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		fr := image.NewPaletted(image.Rect(0, 0, 10, 10), pal)
		for x := 0; x < 10; x++ {
			fr.SetColorIndex(x, i%10, uint8(1+i%3))
		}
		g.Image = append(g.Image, fr)
		g.Delay = append(g.Delay, 10)
	}
	return encodeWith(t, func(w io.Writer) error { return gif.EncodeAll(w, g) })
}

// fixtures returns one small valid input per decodable format.
func fixtures(t *testing.T) map[sniff.Format][]byte {
	t.Helper()
	src := gradient(24, 16)
	return map[sniff.Format][]byte{
		sniff.PNG: pngBytes(t, src),
		sniff.JPEG: encodeWith(t, func(w io.Writer) error {
			return (&encoder.JPEGEncoder{Quality: 90}).Encode(w, src)
		}),
		sniff.GIF: animatedGIF(t, 3),
		sniff.BMP: encodeWith(t, func(w io.Writer) error { return bmp.Encode(w, src) }),
		sniff.TIFF: encodeWith(t, func(w io.Writer) error {
			return tiff.Encode(w, src, nil)
		}),
		sniff.WebP: encodeWith(t, func(w io.Writer) error {
			return (&encoder.WebPEncoder{Lossless: true}).Encode(w, src)
		}),
		sniff.ICO: encodeWith(t, func(w io.Writer) error { return ico.Encode(w, src) }),
	}
}

func samePixels(t *testing.T, want, got image.Image) {
	t.Helper()
	if want.Bounds().Size() != got.Bounds().Size() {
		t.Fatalf("size: got %v, want %v", got.Bounds().Size(), want.Bounds().Size())
	}
	wb, gb := want.Bounds(), got.Bounds()
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := color.NRGBAModel.Convert(want.At(wb.Min.X+x, wb.Min.Y+y))
			g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y))
			if w != g {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestConvert_ShortInput(t *testing.T) {
	for _, data := range [][]byte{nil, {0x89, 0x50, 0x4e, 0x47}, make([]byte, 11)} {
		_, err := ToPNG(data)
		if !IsDetect(err) {
			t.Fatalf("len %d: got %v, want detect error", len(data), err)
		}
		if err.Error() != "binary data corrupted" {
			t.Errorf("message: %q", err.Error())
		}
		if !errors.Is(err, sniff.ErrCorrupted) {
			t.Error("should unwrap to sniff.ErrCorrupted")
		}
	}
}

func TestConvert_UnknownSignature(t *testing.T) {
	_, err := ToJPEG(make([]byte, 16))
	if !IsDetect(err) || IsDecode(err) {
		t.Fatalf("got %v, want detect error", err)
	}
	if err.Error() != "unable to determine image format" {
		t.Errorf("message: %q", err.Error())
	}
}

func TestConvert_CorruptBody(t *testing.T) {
	for f, data := range fixtures(t) {
		t.Run(f.String(), func(t *testing.T) {
			// Keep the signature and header, drop the pixel data.
			corrupt := append([]byte{}, data[:16]...)
			corrupt = append(corrupt, bytes.Repeat([]byte{0xa5}, 16)...)

			out, err := ToPNG(corrupt)
			if err == nil {
				t.Fatalf("expected decode error, got %d bytes", len(out))
			}
			if !IsDecode(err) {
				t.Errorf("got %v, want decode error", err)
			}
			if IsDetect(err) {
				t.Error("decode failure misreported as detection failure")
			}
		})
	}
}

func TestConvert_AllInputsToPNG(t *testing.T) {
	for f, data := range fixtures(t) {
		t.Run(f.String(), func(t *testing.T) {
			out, err := ToPNG(data)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not png: %v", err)
			}
			want := 24
			if f == sniff.GIF {
				want = 10
			}
			if img.Bounds().Dx() != want {
				t.Errorf("width: got %d, want %d", img.Bounds().Dx(), want)
			}
		})
	}
}

func TestConvert_LosslessRoundTrip(t *testing.T) {
	withHole := alphaGradient(33, 21)
	withHole.SetNRGBA(5, 5, color.NRGBA{R: 0, G: 0, B: 90, A: 0})
	withHole.SetNRGBA(6, 5, color.NRGBA{R: 150, G: 90, B: 90, A: 180})
	sources := map[string][]byte{
		"opaque":      pngBytes(t, gradient(33, 21)),
		"translucent": pngBytes(t, withHole),
	}

	decoders := map[string]func(io.Reader) (image.Image, error){
		"png":  png.Decode,
		"bmp":  bmp.Decode,
		"webp": webp.Decode,
	}
	for srcName, src := range sources {
		orig, err := codec.Decode(src, sniff.PNG)
		if err != nil {
			t.Fatal(err)
		}
		for name, decode := range decoders {
			t.Run(name+"/"+srcName, func(t *testing.T) {
				out, err := To(name, src, WithStrict())
				if err != nil {
					t.Fatalf("convert: %v", err)
				}
				got, err := decode(bytes.NewReader(out))
				if err != nil {
					t.Fatalf("decode output: %v", err)
				}
				samePixels(t, orig, got)
			})
		}
	}
}

func TestConvert_AlphaSurvivesPNG(t *testing.T) {
	src := alphaGradient(16, 4)
	out, err := ToPNG(pngBytes(t, src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	samePixels(t, src, got)
}

func TestToGIF_SingleFrame(t *testing.T) {
	for _, frames := range []int{1, 5} {
		out, err := ToGIF(animatedGIF(t, frames))
		if err != nil {
			t.Fatalf("%d frames: %v", frames, err)
		}
		g, err := gif.DecodeAll(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(g.Image) != 1 {
			t.Errorf("%d input frames: got %d output frames", frames, len(g.Image))
		}
	}

	out, err := ToGIF(pngBytes(t, gradient(20, 20)))
	if err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(out))
	if err != nil || len(g.Image) != 1 {
		t.Fatalf("png to gif: frames=%v err=%v", g, err)
	}
}

func TestToJPEG_Deterministic(t *testing.T) {
	src := pngBytes(t, gradient(40, 40))
	a, err := ToJPEG(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ToJPEG(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("jpeg output differs between calls")
	}
	if f, err := sniff.Detect(a); err != nil || f != sniff.JPEG {
		t.Errorf("jpeg output sniffed as (%v, %v)", f, err)
	}
}

func TestPreview(t *testing.T) {
	src := pngBytes(t, gradient(64, 64))
	prev, err := Preview(src)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := sniff.Detect(prev); f != sniff.PNG {
		t.Errorf("preview sniffed as %v", f)
	}
	full, err := ToPNG(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(full) > len(prev) {
		t.Errorf("best compression (%d) larger than fast (%d)", len(full), len(prev))
	}
}

func TestToICO(t *testing.T) {
	out, err := ToICO(pngBytes(t, gradient(300, 150)))
	if err != nil {
		t.Fatal(err)
	}
	info, err := Inspect(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Format != sniff.ICO || info.Width != 256 || info.Height != 128 {
		t.Errorf("got %+v", info)
	}
}

func TestToAVIF(t *testing.T) {
	if testing.Short() {
		t.Skip("avif encoding is slow")
	}
	out, err := ToAVIF(pngBytes(t, gradient(32, 32)), WithStrict())
	if err != nil {
		t.Fatal(err)
	}
	if f, err := sniff.Detect(out); err != nil || f != sniff.AVIF {
		t.Fatalf("avif output sniffed as (%v, %v)", f, err)
	}
	info, err := Inspect(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 32 || info.Height != 32 {
		t.Errorf("got %dx%d", info.Width, info.Height)
	}
}

// brokenEncoder writes a few bytes and then fails.
type brokenEncoder struct{}

var errBroken = errors.New("encoder exploded")

func (brokenEncoder) Format() sniff.Format { return sniff.PNG }
func (brokenEncoder) Extension() string    { return "png" }
func (brokenEncoder) Encode(w io.Writer, _ image.Image) error {
	w.Write([]byte("\x89PNG"))
	return errBroken
}

func TestConvert_EncodeFailureSwallowed(t *testing.T) {
	var logBuf bytes.Buffer
	log := zerolog.New(&logBuf)

	out, err := Convert(pngBytes(t, gradient(8, 8)), brokenEncoder{}, WithLogger(log))
	if err != nil {
		t.Fatalf("default mode should swallow encode errors, got %v", err)
	}
	if string(out) != "\x89PNG" {
		t.Errorf("partial output: got %q", out)
	}
	if !strings.Contains(logBuf.String(), "encoder exploded") {
		t.Errorf("expected warning in log, got %q", logBuf.String())
	}
}

func TestConvert_EncodeFailureStrict(t *testing.T) {
	out, err := Convert(pngBytes(t, gradient(8, 8)), brokenEncoder{}, WithStrict())
	if !IsEncode(err) {
		t.Fatalf("got %v, want encode error", err)
	}
	if !errors.Is(err, errBroken) {
		t.Error("should unwrap to the encoder error")
	}
	if out != nil {
		t.Errorf("strict mode returned %d bytes", len(out))
	}
}

func TestTo_UnknownTarget(t *testing.T) {
	_, err := To("heic", pngBytes(t, gradient(4, 4)))
	var ute *UnknownTargetError
	if !errors.As(err, &ute) || ute.Name != "heic" {
		t.Fatalf("got %v", err)
	}
}

func TestInspect(t *testing.T) {
	info, err := Inspect(animatedGIF(t, 4))
	if err != nil {
		t.Fatal(err)
	}
	if info.Format != sniff.GIF || info.Frames != 4 || info.Width != 10 {
		t.Errorf("gif: %+v", info)
	}

	info, err = Inspect(pngBytes(t, alphaGradient(8, 8)))
	if err != nil {
		t.Fatal(err)
	}
	if !info.HasAlpha || info.MIME != "image/png" || info.Frames != 1 {
		t.Errorf("png: %+v", info)
	}

	if _, err := Inspect([]byte("short")); !IsDetect(err) {
		t.Errorf("short input: %v", err)
	}
}

func TestConvert_ConcurrentCallsIndependent(t *testing.T) {
	inputs := [][]byte{
		pngBytes(t, gradient(16, 16)),
		pngBytes(t, alphaGradient(16, 16)),
		animatedGIF(t, 2),
	}
	want := make([][]byte, len(inputs))
	for i, in := range inputs {
		out, err := ToBMP(in)
		if err != nil {
			t.Fatal(err)
		}
		want[i] = out
	}

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for n := 0; n < 10; n++ {
		for i, in := range inputs {
			wg.Add(1)
			go func(i int, in []byte) {
				defer wg.Done()
				out, err := ToBMP(in)
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(out, want[i]) {
					errs <- errors.New("output differs under concurrency")
				}
			}(i, in)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
