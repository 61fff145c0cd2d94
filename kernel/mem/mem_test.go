package mem

import "testing"

func TestSizePages(t *testing.T) {
	specs := []struct {
		size Size
		want uint64
	}{
		{0, 0},
		{1, 1},
		{Size(PageSize), 1},
		{Size(PageSize) + 1, 2},
		{Size(PageSize) * 3, 3},
	}
	for _, s := range specs {
		if got := s.size.Pages(); got != s.want {
			t.Errorf("Size(%d).Pages() = %d, want %d", s.size, got, s.want)
		}
	}
}

func TestSizeAlign(t *testing.T) {
	if got := Size(1).AlignUp(); got != Size(PageSize) {
		t.Errorf("AlignUp(1) = %d, want %d", got, PageSize)
	}
	if got := Size(PageSize + 1).AlignDown(); got != Size(PageSize) {
		t.Errorf("AlignDown(PageSize+1) = %d, want %d", got, PageSize)
	}
}
