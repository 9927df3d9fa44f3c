package clicklog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

func TestParseIndexedValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     domain.IndexedValue
		wantKind error
	}{
		{name: "valid", input: "3:1.2", want: domain.IndexedValue{Index: 3, Value: 1.2}},
		{name: "out of range index still parses", input: "7:3.0", want: domain.IndexedValue{Index: 7, Value: 3}},
		{name: "missing colon", input: "3 1.2", wantKind: domain.ErrMalformedIndexedValue},
		{name: "missing value", input: "3:", wantKind: domain.ErrMalformedIndexedValue},
		{name: "integer value", input: "3:1", wantKind: domain.ErrMalformedIndexedValue},
		{name: "missing index", input: ":1.2", wantKind: domain.ErrMalformedIndexedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cursor{buf: []byte(tt.input)}
			got, err := parseIndexedValue(c)

			if tt.wantKind != nil {
				if !errors.Is(err, tt.wantKind) {
					t.Fatalf("parseIndexedValue(%q) err = %v, want %v", tt.input, err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseIndexedValue(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseIndexedValue(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseIndexedValue_NumberCauseReachable(t *testing.T) {
	c := &cursor{buf: []byte("1:x")}
	_, err := parseIndexedValue(c)

	if !errors.Is(err, domain.ErrMalformedIndexedValue) {
		t.Fatalf("err = %v, want ErrMalformedIndexedValue", err)
	}
	if !errors.Is(err, domain.ErrMalformedNumber) {
		t.Errorf("err = %v, want ErrMalformedNumber reachable", err)
	}
}

func TestParseFeatureList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []domain.IndexedValue
		wantPos int
	}{
		{
			name:    "two pairs then article",
			input:   "1:0.5 3:1.2 |54321",
			want:    []domain.IndexedValue{{Index: 1, Value: 0.5}, {Index: 3, Value: 1.2}},
			wantPos: 11,
		},
		{
			name:    "runs to end",
			input:   "6:1.000000",
			want:    []domain.IndexedValue{{Index: 6, Value: 1}},
			wantPos: 10,
		},
		{
			name:    "empty list",
			input:   "|54321 2:0.9",
			want:    nil,
			wantPos: 0,
		},
		{
			name:    "trailing space left for caller",
			input:   "2:0.9 ",
			want:    []domain.IndexedValue{{Index: 2, Value: 0.9}},
			wantPos: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cursor{buf: []byte(tt.input)}
			got, err := parseFeatureList(c)
			if err != nil {
				t.Fatalf("parseFeatureList(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFeatureList(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if c.pos != tt.wantPos {
				t.Errorf("cursor at %d, want %d", c.pos, tt.wantPos)
			}
		})
	}
}

func TestParseFeatureList_BadElement(t *testing.T) {
	c := &cursor{buf: []byte("1:0.5 2:oops")}
	_, err := parseFeatureList(c)

	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *domain.ParseError", err)
	}
	if !errors.Is(err, domain.ErrMalformedIndexedValue) {
		t.Errorf("err = %v, want ErrMalformedIndexedValue", err)
	}
	if pe.Offset != 6 {
		t.Errorf("Offset = %d, want 6", pe.Offset)
	}
}
