package density

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/matzehuels/stipple/pkg/errors"
)

// Working width bounds applied to input images by default.
const (
	DefaultMinWidth = 400
	DefaultMaxWidth = 900
)

// Size limits for decoded and working images.
const (
	// MaxImagePixels bounds the decoded input image.
	MaxImagePixels = 50_000_000

	// MaxWorkingWidth bounds the width an image may be resampled to.
	MaxWorkingWidth = 8192

	// MaxWorkingPixels bounds the resampled image and the density field.
	MaxWorkingPixels = 1 << 24
)

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "read image")
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory image. The header is checked against
// MaxImagePixels before any pixel buffer is allocated.
func DecodeBytes(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidImage, "image has empty size %dx%d", cfg.Width, cfg.Height)
	}
	if err := errors.ValidatePixels(cfg.Width, cfg.Height, MaxImagePixels); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "image too large")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidImage, "image has empty bounds %v", b)
	}
	return img, format, nil
}

// ValidateWorkingSize rejects working sizes beyond MaxWorkingWidth or
// MaxWorkingPixels, as produced by extreme aspect ratios.
func ValidateWorkingSize(width, height int) error {
	if width > MaxWorkingWidth {
		return errors.New(errors.ErrCodeInvalidInput, "working width %d exceeds %d", width, MaxWorkingWidth)
	}
	if err := errors.ValidatePixels(width, height, MaxWorkingPixels); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "working image")
	}
	return nil
}

// Load opens and decodes the image at path.
func Load(path string) (image.Image, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := Decode(f)
	return img, err
}

// WorkingSize picks the size an image is resampled to before conversion.
// The width is clamped to [minWidth, maxWidth] and the height follows the
// aspect ratio. Non-positive bounds are ignored.
func WorkingSize(width, height, minWidth, maxWidth int) (int, int) {
	w := width
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	if minWidth > 0 && w < minWidth {
		w = minWidth
	}
	h := int(math.Round(float64(w) * float64(height) / float64(width)))
	if h < 1 {
		h = 1
	}
	return w, h
}

// Scale resamples img to width x height using Catmull-Rom interpolation.
// The image is returned as-is when it already has that size.
func Scale(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// FromImage converts every pixel of img with m.
func FromImage(img image.Image, m Model) *Field {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	f := &Field{width: w, height: h, values: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := m.Convert(img.At(b.Min.X+x, b.Min.Y+y))
			f.values[y*w+x] = v
			f.mass += v
		}
	}
	return f
}
