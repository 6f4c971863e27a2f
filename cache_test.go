package bitebybits

import (
	"errors"
	"testing"
	"time"
)

func TestCacheServesSnapshotUntilInvalidated(t *testing.T) {
	s := setupTestStore(t)
	mustSavePost(t, s, "First", "first", day(2024, 1, 1), StatusPublished)

	cache := NewPostCache(s, time.Hour)
	posts, err := cache.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	// A write that bypasses Invalidate is not visible yet.
	mustSavePost(t, s, "Second", "second", day(2024, 1, 2), StatusPublished)
	posts, _ = cache.Posts()
	if len(posts) != 1 {
		t.Errorf("stale read returned %d posts, want 1", len(posts))
	}

	cache.Invalidate()
	posts, _ = cache.Posts()
	if len(posts) != 2 {
		t.Errorf("after Invalidate got %d posts, want 2", len(posts))
	}
}

func TestCacheFindTag(t *testing.T) {
	s := setupTestStore(t)
	mustSavePost(t, s, "Tagged", "tagged", day(2024, 2, 1), StatusPublished, "Go")

	cache := NewPostCache(s, time.Hour)
	tag, err := cache.FindTag("go")
	if err != nil {
		t.Fatalf("FindTag failed: %v", err)
	}
	if tag.Name != "Go" {
		t.Errorf("tag name = %q, want Go", tag.Name)
	}

	if _, err := cache.FindTag("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown tag: got %v, want ErrNotFound", err)
	}

	posts, err := cache.PostsForTag(tag)
	if err != nil {
		t.Fatalf("PostsForTag failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "tagged" {
		t.Errorf("PostsForTag = %v", posts)
	}
}

func TestCacheFindByDateAndSlug(t *testing.T) {
	s := setupTestStore(t)
	mustSavePost(t, s, "Hello", "hello", day(2024, 3, 10), StatusPublished)
	mustSavePost(t, s, "Hidden", "hidden", day(2024, 3, 10), StatusDraft)

	cache := NewPostCache(s, time.Hour)
	post, err := cache.FindByDateAndSlug(2024, 3, 10, "hello")
	if err != nil {
		t.Fatalf("FindByDateAndSlug failed: %v", err)
	}
	if post.Title != "Hello" {
		t.Errorf("Title = %q", post.Title)
	}

	if _, err := cache.FindByDateAndSlug(2024, 3, 10, "hidden"); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft lookup: got %v, want ErrNotFound", err)
	}
	if _, err := cache.FindByDateAndSlug(2024, 3, 11, "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong date: got %v, want ErrNotFound", err)
	}
}
