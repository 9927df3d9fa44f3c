package clicklog

import (
	"errors"
	"strconv"
	"testing"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

func TestParseUint32(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint32
		wantPos int
		wantErr bool
	}{
		{name: "single digit", input: "7", want: 7, wantPos: 1},
		{name: "stops at space", input: "1241160900 109513", want: 1241160900, wantPos: 10},
		{name: "leading zeros", input: "0042:", want: 42, wantPos: 4},
		{name: "max uint32", input: "4294967295", want: 4294967295, wantPos: 10},
		{name: "overflow", input: "4294967296", wantErr: true},
		{name: "no digits", input: "|user", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "negative sign", input: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cursor{buf: []byte(tt.input)}
			got, err := parseUint32(c, "timestamp")

			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedNumber) {
					t.Fatalf("parseUint32(%q) err = %v, want ErrMalformedNumber", tt.input, err)
				}
				if c.pos != 0 {
					t.Errorf("cursor moved to %d on failure, want 0", c.pos)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseUint32(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseUint32(%q) = %d, want %d", tt.input, got, tt.want)
			}
			if c.pos != tt.wantPos {
				t.Errorf("cursor at %d, want %d", c.pos, tt.wantPos)
			}
		})
	}
}

func TestParseUint8_Overflow(t *testing.T) {
	c := &cursor{buf: []byte("256 |user")}
	_, err := parseUint8(c, "click flag")

	if !errors.Is(err, domain.ErrMalformedNumber) {
		t.Fatalf("err = %v, want ErrMalformedNumber", err)
	}
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("err = %v, want strconv.ErrRange as cause", err)
	}
}

func TestParseUint8_AnyValueCopied(t *testing.T) {
	// The click flag is not restricted to 0/1.
	c := &cursor{buf: []byte("2")}
	got, err := parseUint8(c, "click flag")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantPos int
		wantErr bool
	}{
		{name: "simple", input: "0.5", want: 0.5, wantPos: 3},
		{name: "long fraction", input: "0.000012 2:", want: 0.000012, wantPos: 8},
		{name: "integer part", input: "12.25", want: 12.25, wantPos: 5},
		{name: "one", input: "1.000000", want: 1, wantPos: 8},
		{name: "missing fraction", input: "1.", wantErr: true},
		{name: "missing point", input: "1", wantErr: true},
		{name: "missing integer part", input: ".5", wantErr: true},
		{name: "exponent not allowed", input: "1e5", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cursor{buf: []byte(tt.input)}
			got, err := parseDecimal(c, "feature value")

			if tt.wantErr {
				if !errors.Is(err, domain.ErrMalformedNumber) {
					t.Fatalf("parseDecimal(%q) err = %v, want ErrMalformedNumber", tt.input, err)
				}
				if c.pos != 0 {
					t.Errorf("cursor moved to %d on failure, want 0", c.pos)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDecimal(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseDecimal(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if c.pos != tt.wantPos {
				t.Errorf("cursor at %d, want %d", c.pos, tt.wantPos)
			}
		})
	}
}

func TestParseDigits_KeepsText(t *testing.T) {
	c := &cursor{buf: []byte("000109513 ")}
	got, err := parseDigits(c, "displayed article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "000109513" {
		t.Errorf("got %q, want leading zeros preserved", got)
	}
}
