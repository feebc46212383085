package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		page, limit int
		want        Params
	}{
		{1, 20, Params{Page: 1, Limit: 20, Offset: 0}},
		{3, 10, Params{Page: 3, Limit: 10, Offset: 20}},
		{0, 0, Params{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{-2, 500, Params{Page: 1, Limit: MaxLimit, Offset: 0}},
	}
	for _, tt := range tests {
		if got := Normalize(tt.page, tt.limit); got != tt.want {
			t.Errorf("Normalize(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, Normalize(2, 10), 25)
	if page.Meta.TotalPages != 3 || !page.Meta.HasNext || page.Meta.Total != 25 {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}

	last := NewPage(nil, Normalize(3, 10), 25)
	if last.Meta.HasNext {
		t.Fatal("last page should not have a next page")
	}

	empty := NewPage(nil, Normalize(1, 10), 0)
	if empty.Meta.TotalPages != 0 || empty.Meta.HasNext {
		t.Fatalf("unexpected empty meta %+v", empty.Meta)
	}
}
