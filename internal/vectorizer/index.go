package vectorizer

import (
	"fmt"
	"math"
	"sort"
)

// FlatIndex is an exact nearest-neighbor index over a single concatenated
// array of vectors, searched exhaustively by L2 distance.
type FlatIndex struct {
	vectors   [][]float32
	dimension int
}

// NewFlatIndex builds an index over vectors. At least one vector is required
// and all vectors must agree in dimension.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no vectors to index")
	}
	dimension := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, fmt.Errorf("inconsistent vector dimension at %d: got %d, expected %d",
				i, len(vec), dimension)
		}
	}
	return &FlatIndex{vectors: vectors, dimension: dimension}, nil
}

// Size returns the number of indexed vectors.
func (f *FlatIndex) Size() int {
	return len(f.vectors)
}

// Dimension returns the vector dimension the index was built with.
func (f *FlatIndex) Dimension() int {
	return f.dimension
}

// Search returns the positions of the topK nearest vectors by L2 distance,
// nearest first. Fewer than topK positions are returned when the index
// holds fewer vectors.
func (f *FlatIndex) Search(query []float32, topK int) ([]int, error) {
	if len(query) != f.dimension {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d",
			len(query), f.dimension)
	}
	type scored struct {
		pos  int
		dist float64
	}
	scores := make([]scored, len(f.vectors))
	for i, vec := range f.vectors {
		scores[i] = scored{pos: i, dist: l2Distance(query, vec)}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].dist < scores[b].dist })

	if topK < 0 {
		topK = 0
	}
	if topK > len(scores) {
		topK = len(scores)
	}
	positions := make([]int, topK)
	for i := 0; i < topK; i++ {
		positions[i] = scores[i].pos
	}
	return positions, nil
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
