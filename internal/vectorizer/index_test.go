package vectorizer

import (
	"reflect"
	"testing"
)

func TestNewFlatIndexRequiresVectors(t *testing.T) {
	if _, err := NewFlatIndex(nil); err == nil {
		t.Error("expected an error for an empty vector set")
	}
}

func TestNewFlatIndexRejectsMixedDimensions(t *testing.T) {
	_, err := NewFlatIndex([][]float32{{1, 2}, {1, 2, 3}})
	if err == nil {
		t.Error("expected an error for mixed dimensions")
	}
}

func TestFlatIndexSearchOrdering(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{
		{0, 0},
		{1, 0},
		{3, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 || idx.Dimension() != 2 {
		t.Fatalf("size=%d dimension=%d", idx.Size(), idx.Dimension())
	}

	positions, err := idx.Search([]float32{0.9, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	// distances: 0.9, 0.1, 2.1 -> nearest first
	if want := []int{1, 0, 2}; !reflect.DeepEqual(positions, want) {
		t.Errorf("positions = %v, want %v", positions, want)
	}
}

func TestFlatIndexSearchClampsTopK(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{{0, 1}, {1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	positions, err := idx.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 {
		t.Errorf("expected all 2 positions, got %v", positions)
	}
	if positions[0] != 1 {
		t.Errorf("nearest position = %d, want 1", positions[0])
	}
}

func TestFlatIndexSearchDimensionMismatch(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{{0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Search([]float32{1, 2, 3}, 1); err == nil {
		t.Error("expected a dimension mismatch error")
	}
}
