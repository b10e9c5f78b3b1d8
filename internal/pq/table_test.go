package pq

import (
	"errors"
	"testing"
)

func TestBuildTableMatchesTransform(t *testing.T) {
	for _, policy := range []RangePolicy{Full, Legal} {
		t.Run(policy.String(), func(t *testing.T) {
			black, rng := policy.Levels()
			table, err := BuildTable(black, rng)
			if err != nil {
				t.Fatalf("BuildTable returned error: %v", err)
			}
			for i := range TableSize {
				want := float32(Transform((float64(i) - black) / rng))
				if got := table.At(uint16(i)); got != want {
					t.Fatalf("entry %d = %v, want %v", i, got, want)
				}
			}
			gotBlack, gotRange := table.Levels()
			if gotBlack != black || gotRange != rng {
				t.Fatalf("Levels() = (%v, %v), want (%v, %v)", gotBlack, gotRange, black, rng)
			}
		})
	}
}

func TestBuildTableFullRangeEndpoints(t *testing.T) {
	table, err := NewTable(Full)
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	if got := table.At(0); got != 0 {
		t.Fatalf("At(0) = %v, want 0", got)
	}
	if got := table.At(65535); got != 1 {
		t.Fatalf("At(65535) = %v, want 1", got)
	}
}

func TestBuildTableLegalClampsBelowBlack(t *testing.T) {
	table, err := NewTable(Legal)
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	for _, code := range []uint16{0, 1000, 4095, 4096} {
		if got := table.At(code); got != 0 {
			t.Fatalf("At(%d) = %v, want 0 at or below legal black", code, got)
		}
	}
	if got := table.At(60160); got < 0.999 || got > 1.001 {
		t.Fatalf("At(60160) = %v, want ~1", got)
	}
}

func TestBuildTableRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		black float64
		rng   float64
	}{
		{"zero range", 0, 0},
		{"negative range", 0, -10},
		{"range too narrow", 0, 30000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTable(tt.black, tt.rng)
			if !errors.Is(err, ErrNumericAnomaly) {
				t.Fatalf("expected ErrNumericAnomaly, got %v", err)
			}
		})
	}
}

func TestParseRangePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    RangePolicy
		wantErr bool
	}{
		{"", Full, false},
		{"FULL", Full, false},
		{"legal", Legal, false},
		{" LEGAL ", Legal, false},
		{"video", Full, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRangePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRangePolicy(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseRangePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
