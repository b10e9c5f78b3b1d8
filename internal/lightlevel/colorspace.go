package lightlevel

import (
	"fmt"
	"strings"
)

// ColorSpace selects the luma coefficients applied to PQ encoded channels.
type ColorSpace int

const (
	BT2020 ColorSpace = iota
	P3D65
)

type lumaCoefficients struct {
	r, g, b float64
}

func (c ColorSpace) coefficients() lumaCoefficients {
	if c == P3D65 {
		return lumaCoefficients{r: 0.228975, g: 0.691739, b: 0.0792869}
	}
	return lumaCoefficients{r: 0.2627, g: 0.6780, b: 0.0593}
}

func (c ColorSpace) String() string {
	if c == P3D65 {
		return "P3"
	}
	return "2020"
}

// ParseColorSpace accepts "2020"/"bt2020" or "p3"/"p3d65". An empty string
// selects BT2020.
func ParseColorSpace(value string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "2020", "bt2020", "rec2020":
		return BT2020, nil
	case "p3", "p3d65", "p3-d65":
		return P3D65, nil
	default:
		return BT2020, fmt.Errorf("unsupported color space %q (expected 2020 or P3)", value)
	}
}
