package bitebybits

import "testing"

func TestSitemapEntry(t *testing.T) {
	p := Post{Slug: "hello-world", Publish: day(2024, 1, 15)}

	entry := sitemapEntry("https://example.com", p)
	if entry.Loc != "https://example.com/2024/01/15/hello-world/" {
		t.Errorf("Loc = %q", entry.Loc)
	}
	if entry.LastMod != "2024-01-15" {
		t.Errorf("LastMod = %q, want publish date", entry.LastMod)
	}
	if entry.ChangeFreq != "monthly" {
		t.Errorf("ChangeFreq = %q, want monthly", entry.ChangeFreq)
	}
	if entry.Priority != "0.9" {
		t.Errorf("Priority = %q, want 0.9", entry.Priority)
	}
}
