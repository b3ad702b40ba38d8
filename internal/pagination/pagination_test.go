package pagination

import (
	"math"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{" 2 ", 2},
		{"17", 17},
		{"2.5", 1},
		{"99999999999999999999999", 1},
	}
	for _, tt := range tests {
		if got := ParsePage(tt.raw); got != tt.want {
			t.Fatalf("ParsePage(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantSkip int
		wantTake int
		wantPage int
	}{
		{"first page", 1, 4, 0, 4, 1},
		{"third page", 3, 4, 8, 4, 3},
		{"zero page treated as first", 0, 4, 0, 4, 1},
		{"negative page treated as first", -1, 4, 0, 4, 1},
		{"default size", 2, 0, DefaultPageSize, DefaultPageSize, 2},
		{"huge page clamped", math.MaxInt, 4, (math.MaxInt/4 - 1) * 4, 4, math.MaxInt / 4},
		{"page just past the limit clamped", math.MaxInt/4 + 1, 4, (math.MaxInt/4 - 1) * 4, 4, math.MaxInt / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.page, tt.size)
			if w.Skip != tt.wantSkip || w.Take != tt.wantTake || w.Page != tt.wantPage {
				t.Fatalf("NewWindow(%d, %d) = %+v", tt.page, tt.size, w)
			}
			if w.Skip < 0 {
				t.Fatalf("NewWindow(%d, %d) skip overflowed: %d", tt.page, tt.size, w.Skip)
			}
			if !w.Paged() {
				t.Fatalf("window should be paged")
			}
		})
	}
}

func TestNewWindowFromLargeQuery(t *testing.T) {
	w := NewWindow(ParsePage("2305843009213693953"), 4)
	if w.Skip < 0 {
		t.Fatalf("skip overflowed: %+v", w)
	}
	if w.Page != math.MaxInt/4 {
		t.Fatalf("page = %d, want %d", w.Page, math.MaxInt/4)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{10, 4, 3},
		{8, 4, 2},
		{1, 4, 1},
		{0, 4, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestAllIsUnpaged(t *testing.T) {
	if All().Paged() {
		t.Fatalf("All() must not limit results")
	}
}
