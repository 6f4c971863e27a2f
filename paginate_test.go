package bitebybits

import (
	"strconv"
	"testing"
)

func makePosts(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i].Slug = "post-" + strconv.Itoa(i)
	}
	return posts
}

func TestPaginateSplitsIntoPages(t *testing.T) {
	posts := makePosts(10)

	pg := Paginate(posts, 5, "1")
	if pg.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", pg.PageCount)
	}
	if pg.Total != 10 {
		t.Errorf("Total = %d, want 10", pg.Total)
	}
	if len(pg.Items) != 5 || pg.Items[0].Slug != "post-0" {
		t.Errorf("page 1 items wrong: %d items, first %q", len(pg.Items), pg.Items[0].Slug)
	}
	if pg.HasPrev() {
		t.Error("page 1 should have no previous page")
	}
	if !pg.HasNext() {
		t.Error("page 1 should have a next page")
	}

	pg = Paginate(posts, 5, "2")
	if len(pg.Items) != 5 || pg.Items[0].Slug != "post-5" {
		t.Errorf("page 2 items wrong: %d items, first %q", len(pg.Items), pg.Items[0].Slug)
	}
	if !pg.HasPrev() || pg.HasNext() {
		t.Error("page 2 should have prev but no next")
	}
}

func TestPaginateUnevenLastPage(t *testing.T) {
	pg := Paginate(makePosts(7), 5, "2")
	if pg.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", pg.PageCount)
	}
	if len(pg.Items) != 2 {
		t.Errorf("last page has %d items, want 2", len(pg.Items))
	}
}

func TestPaginateBadParamFallsBackToFirstPage(t *testing.T) {
	for _, param := range []string{"", "abc", "0", "-3", "1.5"} {
		pg := Paginate(makePosts(10), 5, param)
		if pg.Number != 1 {
			t.Errorf("Paginate(%q): Number = %d, want 1", param, pg.Number)
		}
	}
}

func TestPaginateClampsPastEnd(t *testing.T) {
	pg := Paginate(makePosts(10), 5, "7")
	if pg.Number != 2 {
		t.Errorf("Number = %d, want clamp to 2", pg.Number)
	}
	if len(pg.Items) != 5 || pg.Items[0].Slug != "post-5" {
		t.Errorf("clamped page should be the last page, got first item %q", pg.Items[0].Slug)
	}
}

func TestPaginateEmptyList(t *testing.T) {
	pg := Paginate(nil, 5, "3")
	if pg.Number != 1 || pg.PageCount != 1 {
		t.Errorf("empty list: Number = %d, PageCount = %d, want 1 and 1", pg.Number, pg.PageCount)
	}
	if len(pg.Items) != 0 {
		t.Errorf("empty list returned %d items", len(pg.Items))
	}
	if pg.HasPrev() || pg.HasNext() {
		t.Error("empty list should have neither prev nor next")
	}
}
