package activearea

import (
	"fmt"
	"math"

	"hdrmeta/internal/frame"
	"hdrmeta/internal/pq"
)

// Observation is the band found in one frame. An invalid observation has
// RowOffset and RowCount of -1.
type Observation struct {
	RowOffset int
	RowCount  int
	// MinSample is the darkest code value seen in any channel. It is
	// math.MaxUint16 for an empty frame.
	MinSample uint16
}

// Invalid is the sentinel observation for frames without a detectable band.
var Invalid = Observation{RowOffset: -1, RowCount: -1, MinSample: math.MaxUint16}

// Valid reports whether the observation describes a band.
func (o Observation) Valid() bool {
	return o.RowOffset >= 0 && o.RowCount > 0
}

// Key is the tally key of the observation, "offset,count".
func (o Observation) Key() string {
	return fmt.Sprintf("%d,%d", o.RowOffset, o.RowCount)
}

// Region converts a valid observation to an analysis band.
func (o Observation) Region() frame.Region {
	return frame.Region{RowOffset: o.RowOffset, RowCount: o.RowCount}
}

// BelowLegalBlack reports whether the frame contains code values under the
// legal range black level, which suggests full range material.
func (o Observation) BelowLegalBlack() bool {
	return o.MinSample < pq.LegalBlack
}

// Detect finds the first non-uniform row and the first uniform row after
// it. A row is uniform when every sample in it, across all channels, has the
// same value. The band is invalid when no uniform row follows the first
// varied one.
func Detect(buf *frame.Buffer) Observation {
	if buf == nil || buf.Width == 0 || buf.Height == 0 {
		return Invalid
	}

	rowStart, rowEnd := -1, -1
	darkest := uint16(math.MaxUint16)
	for y := 0; y < buf.Height; y++ {
		lo, hi := rowRange(buf.Row(y))
		darkest = min(darkest, lo)
		flat := lo == hi

		if rowEnd == -1 && rowStart != -1 && flat {
			rowEnd = y
		}
		if !flat && rowStart == -1 {
			rowStart = y
		}
	}

	if rowEnd <= rowStart {
		return Observation{RowOffset: -1, RowCount: -1, MinSample: darkest}
	}
	return Observation{RowOffset: rowStart, RowCount: rowEnd - rowStart, MinSample: darkest}
}

func rowRange(row []uint16) (lo, hi uint16) {
	lo, hi = math.MaxUint16, 0
	for _, v := range row {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
