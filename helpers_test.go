package bitebybits

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello, World!", "hello-world"},
		{"  Go  Tips  ", "go-tips"},
		{"already-slugged", "already-slugged"},
		{"C++ rocks", "c-rocks"},
		{"Web Dev", "web-dev"},
		{"2024 in review", "2024-in-review"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	got := BuildURL("https://example.com", "2024/01/15", "hello-world")
	want := "https://example.com/2024/01/15/hello-world/"
	if got != want {
		t.Errorf("BuildURL = %q, want %q", got, want)
	}

	if got := BuildURL("https://example.com"); got != "https://example.com" {
		t.Errorf("BuildURL with no segments = %q, want base unchanged", got)
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{" go ", "", "   ", "web"})
	if len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("FilterEmpty = %v, want [go web]", got)
	}
}

func TestTruncateWords(t *testing.T) {
	if got := TruncateWords("one two three", 5); got != "one two three" {
		t.Errorf("short input changed: %q", got)
	}
	if got := TruncateWords("one two three four", 2); got != "one two ..." {
		t.Errorf("TruncateWords = %q, want %q", got, "one two ...")
	}
	// Exact length gets no ellipsis.
	if got := TruncateWords("one two three", 3); got != "one two three" {
		t.Errorf("exact length changed: %q", got)
	}
	// Whitespace runs collapse to single spaces.
	if got := TruncateWords("one\n\ntwo   three", 10); got != "one two three" {
		t.Errorf("whitespace not collapsed: %q", got)
	}
}
