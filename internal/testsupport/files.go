package testsupport

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte. The result is
// useful as a frame that cannot be decoded.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// Letterbox describes a synthetic frame: Height rows of Width pixels, black
// outside [BandStart, BandEnd). Inside the band the first pixel of each row
// is Peak on all channels and the rest stay black, so band rows are never
// uniform.
type Letterbox struct {
	Width     int
	Height    int
	BandStart int
	BandEnd   int
	Peak      uint16
}

// Image renders the frame.
func (l Letterbox) Image() *image.RGBA64 {
	width := max(l.Width, 2)
	img := image.NewRGBA64(image.Rect(0, 0, width, l.Height))
	black := color.RGBA64{A: 0xffff}
	peak := color.RGBA64{R: l.Peak, G: l.Peak, B: l.Peak, A: 0xffff}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA64(x, y, black)
		}
		if y >= l.BandStart && y < l.BandEnd {
			img.SetRGBA64(0, y, peak)
		}
	}
	return img
}

// WriteFrame encodes img as an uncompressed TIFF at path.
func WriteFrame(t testing.TB, path string, img image.Image) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := tiff.Encode(f, img, nil); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
