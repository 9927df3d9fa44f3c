package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

// DayLabel returns the day label of a click-log file: the second
// dot-separated segment of its base name.
//
//	ydata-fp-td-clicks-v1_0.20090501.gz -> 20090501
func DayLabel(path string) (string, error) {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("day label of %q: %w", path, domain.ErrValidation)
	}
	return parts[1], nil
}

// OpenSource opens a click-log file for reading. Files ending in ".gz"
// are decompressed transparently.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return &gzipSource{Reader: zr, file: f}, nil
}

type gzipSource struct {
	*gzip.Reader
	file *os.File
}

func (s *gzipSource) Close() error {
	return errors.Join(s.Reader.Close(), s.file.Close())
}

// ExpandInputs returns the files matching glob in lexical order.
func ExpandInputs(glob string) ([]string, error) {
	if glob == "" {
		return nil, fmt.Errorf("input glob: %w", domain.ErrValidation)
	}
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("input glob %q: %w", glob, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("input glob %q: %w", glob, domain.ErrNotFound)
	}
	slices.Sort(paths)
	return paths, nil
}
