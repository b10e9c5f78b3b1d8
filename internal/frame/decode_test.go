package frame

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func encodeTIFF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeRGBA64KeepsCodeValues(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(1000*x + 10*y),
				G: uint16(20000 + x),
				B: uint16(65535 - y),
				A: 0xffff,
			})
		}
	}

	buf, err := Decode(bytes.NewReader(encodeTIFF(t, img)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("unexpected dimensions %dx%d", buf.Width, buf.Height)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			i := (y*3 + x) * Channels
			want := img.RGBA64At(x, y)
			if buf.Pix[i] != want.R || buf.Pix[i+1] != want.G || buf.Pix[i+2] != want.B {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, buf.Pix[i:i+3], want)
			}
		}
	}
}

func TestDecodeGray16Replicates(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 4096})
	img.SetGray16(1, 0, color.Gray16{Y: 60160})

	buf, err := Decode(bytes.NewReader(encodeTIFF(t, img)))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	want := []uint16{4096, 4096, 4096, 60160, 60160, 60160}
	for i, v := range want {
		if buf.Pix[i] != v {
			t.Fatalf("sample %d = %d, want %d", i, buf.Pix[i], v)
		}
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := DecodeFile(filepath.Join(dir, "missing.tif")); err == nil {
		t.Fatal("expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.tif")
	if err := os.WriteFile(garbage, []byte("not a tiff"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if _, err := DecodeFile(garbage); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestDecodeFileReadsFromDisk(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	img.SetRGBA64(0, 0, color.RGBA64{R: 1, G: 2, B: 3, A: 0xffff})
	path := filepath.Join(t.TempDir(), "frame.tif")
	if err := os.WriteFile(path, encodeTIFF(t, img), 0o644); err != nil {
		t.Fatalf("write tiff: %v", err)
	}
	buf, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile returned error: %v", err)
	}
	if buf.Pix[0] != 1 || buf.Pix[1] != 2 || buf.Pix[2] != 3 {
		t.Fatalf("unexpected samples %v", buf.Pix)
	}
}
