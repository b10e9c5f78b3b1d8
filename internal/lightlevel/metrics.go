package lightlevel

import "strconv"

// Status describes how a frame's metrics were obtained.
type Status int

const (
	StatusOK Status = iota
	// StatusCannotOpen means the file could not be read or decoded.
	StatusCannotOpen
	// StatusInvalidRegion means the analysis band falls outside the frame.
	StatusInvalidRegion
)

func (s Status) String() string {
	switch s {
	case StatusCannotOpen:
		return "cannot open"
	case StatusInvalidRegion:
		return "invalid active area"
	default:
		return "ok"
	}
}

// Metrics is the light level result for one frame. Values are in nits.
type Metrics struct {
	MaxFALL float64
	MaxCLL  float64
	// MeanLuma is the average color-space weighted luma of the band.
	MeanLuma float64
	Status   Status
}

// Sentinel value pairs written in place of metrics for failed frames.
const (
	cannotOpenValue    = -1
	invalidRegionValue = -2
)

// CannotOpen returns the metrics reported for an unreadable file.
func CannotOpen() Metrics {
	return Metrics{Status: StatusCannotOpen}
}

// InvalidRegion returns the metrics reported for an out-of-bounds band.
func InvalidRegion() Metrics {
	return Metrics{Status: StatusInvalidRegion}
}

// OK reports whether the metrics were measured.
func (m Metrics) OK() bool {
	return m.Status == StatusOK
}

// Values returns the (maxFALL, maxCLL) pair recorded in result files. Failed
// frames yield (-1,-1) for unreadable files and (-2,-2) for invalid regions.
func (m Metrics) Values() (maxFALL, maxCLL float64) {
	switch m.Status {
	case StatusCannotOpen:
		return cannotOpenValue, cannotOpenValue
	case StatusInvalidRegion:
		return invalidRegionValue, invalidRegionValue
	default:
		return m.MaxFALL, m.MaxCLL
	}
}

// FormatValue renders a metric the way result files store it: shortest
// representation with six significant digits.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
