package pagination

import "testing"

func TestCompute(t *testing.T) {
	cases := []struct {
		name                 string
		total, limit, offset int
		want                 Page
	}{
		{
			name: "middle page", total: 13, limit: 6, offset: 6,
			want: Page{Total: 13, TotalPages: 3, CurrentPage: 2, HasNextPage: true},
		},
		{
			name: "last page", total: 13, limit: 6, offset: 12,
			want: Page{Total: 13, TotalPages: 3, CurrentPage: 3, HasNextPage: false},
		},
		{
			name: "first page", total: 13, limit: 6, offset: 0,
			want: Page{Total: 13, TotalPages: 3, CurrentPage: 1, HasNextPage: true},
		},
		{
			name: "empty result set", total: 0, limit: 6, offset: 0,
			want: Page{Total: 0, TotalPages: 0, CurrentPage: 1, HasNextPage: false},
		},
		{
			name: "exact multiple", total: 12, limit: 6, offset: 6,
			want: Page{Total: 12, TotalPages: 2, CurrentPage: 2, HasNextPage: false},
		},
		{
			name: "offset beyond total", total: 5, limit: 6, offset: 12,
			want: Page{Total: 5, TotalPages: 1, CurrentPage: 3, HasNextPage: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.total, tc.limit, tc.offset)
			if got != tc.want {
				t.Fatalf("Compute(%d, %d, %d) = %+v, want %+v", tc.total, tc.limit, tc.offset, got, tc.want)
			}
		})
	}
}

func TestFilterWithDefaults(t *testing.T) {
	f := Filter{Offset: -3}.WithDefaults(6)
	if f.Limit != 6 || f.Offset != 0 {
		t.Fatalf("unexpected defaults: %+v", f)
	}

	f = Filter{Limit: 20, Offset: 40}.WithDefaults(6)
	if f.Limit != 20 || f.Offset != 40 {
		t.Fatalf("explicit values must be preserved: %+v", f)
	}
}
