package clicklog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

func TestParseArticle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantID   string
		want     []domain.IndexedValue
		wantPos  int
		wantKind error
	}{
		{
			name:    "single feature",
			input:   "|54321 2:0.9",
			wantID:  "54321",
			want:    []domain.IndexedValue{{Index: 2, Value: 0.9}},
			wantPos: 12,
		},
		{
			name:    "stops before next block",
			input:   "|109498 1:0.306008 6:1.000000 |109509 1:0.1",
			wantID:  "109498",
			want:    []domain.IndexedValue{{Index: 1, Value: 0.306008}, {Index: 6, Value: 1}},
			wantPos: 29,
		},
		{
			name:    "empty feature list",
			input:   "|54321 |54322 1:0.1",
			wantID:  "54321",
			want:    nil,
			wantPos: 7,
		},
		{
			name:    "id at end of line",
			input:   "|54321",
			wantID:  "54321",
			want:    nil,
			wantPos: 6,
		},
		{name: "missing marker", input: "54321 2:0.9", wantKind: domain.ErrMalformedArticleBlock},
		{name: "missing id", input: "| 2:0.9", wantKind: domain.ErrMalformedArticleBlock},
		{name: "user marker is not an article", input: "|user 1:0.5", wantKind: domain.ErrMalformedArticleBlock},
		{name: "id glued to feature", input: "|54321:0.9", wantKind: domain.ErrMalformedArticleBlock},
		{name: "bad feature", input: "|54321 2:x", wantKind: domain.ErrMalformedIndexedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cursor{buf: []byte(tt.input)}
			id, features, err := parseArticle(c)

			if tt.wantKind != nil {
				if !errors.Is(err, tt.wantKind) {
					t.Fatalf("parseArticle(%q) err = %v, want %v", tt.input, err, tt.wantKind)
				}
				if c.pos != 0 {
					t.Errorf("cursor moved to %d on failure, want 0", c.pos)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArticle(%q) unexpected error: %v", tt.input, err)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if !reflect.DeepEqual(features, tt.want) {
				t.Errorf("features = %+v, want %+v", features, tt.want)
			}
			if c.pos != tt.wantPos {
				t.Errorf("cursor at %d, want %d", c.pos, tt.wantPos)
			}
		})
	}
}
