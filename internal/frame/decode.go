package frame

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

// DecodeFunc turns a file path into a Buffer.
type DecodeFunc func(path string) (*Buffer, error)

// ErrEmptyFrame is returned for images without pixels.
var ErrEmptyFrame = errors.New("frame has no pixels")

// DecodeFile reads a TIFF file into a Buffer.
func DecodeFile(path string) (*Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return buf, nil
}

// Decode reads a TIFF stream into a Buffer. 16-bit RGB, RGBA and grey
// images keep their code values; 8-bit images are widened by replication.
// Alpha is discarded.
func Decode(r io.Reader) (*Buffer, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img)
}

// FromImage converts a decoded image into a Buffer.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyFrame
	}
	pix := make([]uint16, w*h*Channels)

	switch src := img.(type) {
	case *image.RGBA64:
		// Opaque TIFFs decode to RGBA64 with alpha at 0xffff, so the
		// premultiplied values are the stored code values.
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+w*8]
			out := pix[y*w*Channels:]
			for x := 0; x < w; x++ {
				s := row[x*8:]
				o := out[x*Channels:]
				o[0] = uint16(s[0])<<8 | uint16(s[1])
				o[1] = uint16(s[2])<<8 | uint16(s[3])
				o[2] = uint16(s[4])<<8 | uint16(s[5])
			}
		}
	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+w*8]
			out := pix[y*w*Channels:]
			for x := 0; x < w; x++ {
				s := row[x*8:]
				o := out[x*Channels:]
				o[0] = uint16(s[0])<<8 | uint16(s[1])
				o[1] = uint16(s[2])<<8 | uint16(s[3])
				o[2] = uint16(s[4])<<8 | uint16(s[5])
			}
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := src.Pix[off : off+w*2]
			out := pix[y*w*Channels:]
			for x := 0; x < w; x++ {
				v := uint16(row[x*2])<<8 | uint16(row[x*2+1])
				o := out[x*Channels:]
				o[0], o[1], o[2] = v, v, v
			}
		}
	default:
		model := color.NRGBA64Model
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
				i := (y*w + x) * Channels
				pix[i] = c.R
				pix[i+1] = c.G
				pix[i+2] = c.B
			}
		}
	}
	return &Buffer{Width: w, Height: h, Pix: pix}, nil
}
