package pq

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// TableSize is the number of distinct 16-bit code values.
const TableSize = 1 << 16

// ErrNumericAnomaly marks a black/range pair that produces non-finite
// luminance somewhere in the code value domain.
var ErrNumericAnomaly = errors.New("pq: numeric anomaly")

// RangePolicy selects the code value range that maps to [0,1].
type RangePolicy int

const (
	// Full maps 0..65535 onto the transform input.
	Full RangePolicy = iota
	// Legal maps 4096..60160 onto the transform input.
	Legal
)

const (
	fullBlack  = 0
	fullRange  = 65535
	legalBlack = 4096
	legalRange = 60160 - legalBlack
)

// LegalBlack is the lowest code value of a legal (narrow) range signal.
const LegalBlack = legalBlack

// Levels returns the black level and range for the policy.
func (p RangePolicy) Levels() (black, rng float64) {
	if p == Legal {
		return legalBlack, legalRange
	}
	return fullBlack, fullRange
}

func (p RangePolicy) String() string {
	if p == Legal {
		return "legal"
	}
	return "full"
}

// ParseRangePolicy accepts "full" or "legal" in any case. An empty string
// selects Full.
func ParseRangePolicy(value string) (RangePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "full":
		return Full, nil
	case "legal":
		return Legal, nil
	default:
		return Full, fmt.Errorf("unsupported range %q (expected FULL or LEGAL)", value)
	}
}

// Table holds the transformed luminance of every 16-bit code value.
// A Table is immutable after construction.
type Table struct {
	values [TableSize]float32
	black  float64
	rng    float64
}

// NewTable builds the table for a range policy.
func NewTable(policy RangePolicy) (*Table, error) {
	black, rng := policy.Levels()
	return BuildTable(black, rng)
}

// BuildTable evaluates Transform((i-black)/rng) for every code value i.
func BuildTable(black, rng float64) (*Table, error) {
	if math.IsNaN(black) || math.IsInf(black, 0) || math.IsNaN(rng) || math.IsInf(rng, 0) {
		return nil, fmt.Errorf("%w: black=%v range=%v must be finite", ErrNumericAnomaly, black, rng)
	}
	if rng <= 0 {
		return nil, fmt.Errorf("%w: range %v must be positive", ErrNumericAnomaly, rng)
	}
	t := &Table{black: black, rng: rng}
	for i := range TableSize {
		l := Transform((float64(i) - black) / rng)
		v := float32(l)
		if math.IsNaN(l) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("%w: code value %d with black=%v range=%v", ErrNumericAnomaly, i, black, rng)
		}
		t.values[i] = v
	}
	return t, nil
}

// At returns the normalized luminance for a code value.
func (t *Table) At(code uint16) float32 {
	return t.values[code]
}

// Levels reports the black level and range the table was built with.
func (t *Table) Levels() (black, rng float64) {
	return t.black, t.rng
}
