package lightlevel

import (
	"log/slog"

	"hdrmeta/internal/frame"
	"hdrmeta/internal/logging"
	"hdrmeta/internal/pq"
)

// Analyze measures the band of buf selected by region.
//
// Every column of every row in the band contributes. MaxFALL averages the
// per-pixel maximum channel luminance over width*rows; it does not use the
// weighted luma, which only feeds MeanLuma.
func Analyze(buf *frame.Buffer, region frame.Region, cs ColorSpace, table *pq.Table) Metrics {
	if buf == nil {
		return CannotOpen()
	}
	start, rows, ok := region.Resolve(buf.Height)
	if !ok {
		return InvalidRegion()
	}
	pixels := buf.Width * rows
	if pixels == 0 {
		return InvalidRegion()
	}

	k := cs.coefficients()
	var sumMax, sumLuma, peak float64
	for y := start; y < start+rows; y++ {
		row := buf.Row(y)
		for i := 0; i+2 < len(row); i += frame.Channels {
			r := float64(table.At(row[i]))
			g := float64(table.At(row[i+1]))
			b := float64(table.At(row[i+2]))

			lmax := max(r, g, b)
			sumMax += lmax
			sumLuma += k.r*r + k.g*g + k.b*b
			if lmax > peak {
				peak = lmax
			}
		}
	}

	n := float64(pixels)
	return Metrics{
		MaxFALL:  pq.Nits(sumMax / n),
		MaxCLL:   pq.Nits(peak),
		MeanLuma: pq.Nits(sumLuma / n),
		Status:   StatusOK,
	}
}

// FileAnalyzer decodes and analyzes frames with fixed settings. It is safe
// for concurrent use when Decode is.
type FileAnalyzer struct {
	Decode     frame.DecodeFunc
	Region     frame.Region
	ColorSpace ColorSpace
	Table      *pq.Table
	Logger     *slog.Logger
}

// AnalyzeFile returns the metrics for one file. Decode failures become
// StatusCannotOpen.
func (a *FileAnalyzer) AnalyzeFile(path string) Metrics {
	logger := a.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	decode := a.Decode
	if decode == nil {
		decode = frame.DecodeFile
	}

	buf, err := decode(path)
	if err != nil {
		logger.Warn("cannot open frame", logging.String("path", path), logging.Error(err))
		return CannotOpen()
	}
	m := Analyze(buf, a.Region, a.ColorSpace, a.Table)
	if m.Status == StatusInvalidRegion {
		logger.Warn("active area outside frame",
			logging.String("path", path),
			logging.Int("height", buf.Height),
			logging.Int("row_offset", a.Region.RowOffset),
			logging.Int("row_count", a.Region.RowCount),
		)
		return m
	}
	logger.Debug("frame analyzed",
		logging.String("path", path),
		logging.Float64("max_fall", m.MaxFALL),
		logging.Float64("max_cll", m.MaxCLL),
		logging.Float64("mean_luma", m.MeanLuma),
	)
	return m
}
