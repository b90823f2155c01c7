package pagination

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{name: "zero values", in: Params{}, want: Params{Page: 1, PerPage: 12}},
		{name: "negative page", in: Params{Page: -3, PerPage: 24}, want: Params{Page: 1, PerPage: 24}},
		{name: "over cap", in: Params{Page: 2, PerPage: 500}, want: Params{Page: 2, PerPage: 96}},
		{name: "passthrough", in: Params{Page: 4, PerPage: 48}, want: Params{Page: 4, PerPage: 48}},
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Fatalf("%s: expected %+v got %+v", tt.name, tt.want, got)
		}
	}
}
