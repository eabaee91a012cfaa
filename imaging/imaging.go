// Package imaging shrinks uploaded images before they are forwarded to the
// content API.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 80
)

// Options controls Compress. Zero fields take the defaults.
type Options struct {
	MaxWidth int
	Quality  int
}

func (o *Options) setDefaults() {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
}

// Result is a compressed image ready for upload.
type Result struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Compress decodes data, scales it down to at most MaxWidth pixels wide and
// re-encodes it as JPEG. The returned name carries a .jpg extension.
func Compress(data []byte, name string, opts Options) (Result, error) {
	opts.setDefaults()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > opts.MaxWidth {
		newH := h * opts.MaxWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, opts.MaxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = opts.MaxWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return Result{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Result{
		Name:        jpegName(name),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
		Width:       w,
		Height:      h,
	}, nil
}

func jpegName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	return base + ".jpg"
}
