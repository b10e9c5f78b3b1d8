package frame

import "fmt"

// Channels is the number of interleaved samples per pixel.
const Channels = 3

// Buffer is a decoded frame of 16-bit RGB samples.
type Buffer struct {
	Width  int
	Height int
	// Pix holds Width*Height*Channels samples, row-major, R then G then B.
	Pix []uint16
}

// NewBuffer wraps pix after checking it matches the given dimensions.
func NewBuffer(width, height int, pix []uint16) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}
	if want := width * height * Channels; len(pix) != want {
		return nil, fmt.Errorf("frame %dx%d needs %d samples, got %d", width, height, want, len(pix))
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// Row returns the samples of row y.
func (b *Buffer) Row(y int) []uint16 {
	stride := b.Width * Channels
	return b.Pix[y*stride : (y+1)*stride]
}

// Region selects a horizontal band of rows. A usable Region has a positive
// RowCount.
type Region struct {
	RowOffset int
	RowCount  int
}

// Full returns the Region covering every row of a frame of the given height.
func Full(height int) Region {
	return Region{RowCount: height}
}

// Resolve returns the first row and row count of the band within a frame of
// the given height. ok is false when the band is empty or does not fit.
func (r Region) Resolve(height int) (start, count int, ok bool) {
	if r.RowOffset < 0 || r.RowCount <= 0 || height < 0 {
		return 0, 0, false
	}
	if r.RowOffset+r.RowCount > height {
		return 0, 0, false
	}
	return r.RowOffset, r.RowCount, true
}

func (r Region) String() string {
	return fmt.Sprintf("rows %d+%d", r.RowOffset, r.RowCount)
}
