package clicklog

import "github.com/log0ymxm/parse-click-data/internal/domain"

// Materialize converts a sparse feature list into a dense vector of length dim.
// Index i (1-based) lands at position i-1; a later pair with the same index
// overwrites an earlier one. Indices outside 1..dim are dropped without error.
func Materialize(features []domain.IndexedValue, dim int) domain.DenseVector {
	dim = max(dim, 0)
	v := make(domain.DenseVector, dim)
	for _, f := range features {
		if f.Index < 1 || uint64(f.Index) > uint64(dim) {
			continue
		}
		v[f.Index-1] = f.Value
	}
	return v
}
