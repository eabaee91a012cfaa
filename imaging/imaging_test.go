package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"
)

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r := rand.New(rand.NewSource(1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressScalesWideImages(t *testing.T) {
	src := noisyPNG(t, 400, 200)
	res, err := Compress(src, "photos/Cover Shot.png", Options{MaxWidth: 100})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Width != 100 || res.Height != 50 {
		t.Fatalf("size = %dx%d, want 100x50", res.Width, res.Height)
	}
	if res.Name != "Cover Shot.jpg" {
		t.Fatalf("name = %q", res.Name)
	}
	if res.ContentType != "image/jpeg" {
		t.Fatalf("content type = %q", res.ContentType)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	if cfg.Width != 100 {
		t.Fatalf("decoded width = %d", cfg.Width)
	}
}

func TestCompressKeepsNarrowImages(t *testing.T) {
	src := noisyPNG(t, 64, 64)
	res, err := Compress(src, "a.png", Options{})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Width != 64 || res.Height != 64 {
		t.Fatalf("size = %dx%d, want 64x64", res.Width, res.Height)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	if _, err := Compress([]byte("not an image"), "a.png", Options{}); err == nil {
		t.Fatal("expected decode error")
	}
}
