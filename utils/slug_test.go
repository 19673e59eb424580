package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Bali Escape", "bali-escape"},
		{"  Grand   Canyon  Tour ", "grand-canyon-tour"},
		{"Côte d'Azur!", "cte-dazur"},
		{"--Already-Slugged--", "already-slugged"},
		{"UPPER case 123", "upper-case-123"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"!!!", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := Slugify(c.title); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.title, got, c.want)
		}
	}
}
