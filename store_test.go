package bitebybits

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustSavePost(t *testing.T, s *Store, title, slug string, publish time.Time, status Status, tags ...string) Post {
	t.Helper()
	p := Post{
		Title:   title,
		Slug:    slug,
		Body:    "Body of " + title + ".",
		Publish: publish,
		Status:  status,
		Tags:    tags,
	}
	if err := s.SavePost(&p); err != nil {
		t.Fatalf("SavePost %q: %v", slug, err)
	}
	return p
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	saved := mustSavePost(t, s, "First Post", "first-post", day(2024, 1, 15), StatusPublished, "Go", "Testing")
	if saved.ID == 0 {
		t.Fatal("expected SavePost to assign an ID")
	}
	if saved.Created.IsZero() {
		t.Fatal("expected SavePost to set Created")
	}

	got, err := s.GetPost(saved.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "First Post")
	}
	if got.Slug != "first-post" {
		t.Errorf("Slug = %q, want %q", got.Slug, "first-post")
	}
	if got.Status != StatusPublished {
		t.Errorf("Status = %q, want %q", got.Status, StatusPublished)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "Go" || got.Tags[1] != "Testing" {
		t.Errorf("Tags = %v, want [Go Testing]", got.Tags)
	}
}

func TestUpdatePostPreservesCreated(t *testing.T) {
	s := setupTestStore(t)

	saved := mustSavePost(t, s, "Original", "original", day(2024, 2, 1), StatusDraft)

	saved.Title = "Renamed"
	saved.Status = StatusPublished
	if err := s.SavePost(&saved); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := s.GetPost(saved.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q, want %q", got.Title, "Renamed")
	}
	if !got.Created.Equal(saved.Created) {
		t.Errorf("Created changed on update: %v != %v", got.Created, saved.Created)
	}
	if got.Updated.Before(got.Created) {
		t.Errorf("Updated %v is before Created %v", got.Updated, got.Created)
	}
}

func TestSavePostRejectsUnknownStatus(t *testing.T) {
	s := setupTestStore(t)

	p := Post{Title: "Bad", Slug: "bad", Body: "x", Publish: day(2024, 3, 1), Status: Status("archived")}
	if err := s.SavePost(&p); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestPublishedPostsExcludesDraftsAndTrashed(t *testing.T) {
	s := setupTestStore(t)

	mustSavePost(t, s, "Older", "older", day(2024, 1, 1), StatusPublished)
	mustSavePost(t, s, "Newer", "newer", day(2024, 1, 10), StatusPublished)
	mustSavePost(t, s, "Draft", "draft", day(2024, 1, 20), StatusDraft)
	mustSavePost(t, s, "Trashed", "trashed", day(2024, 1, 25), StatusTrashed)

	posts, err := s.PublishedPosts()
	if err != nil {
		t.Fatalf("PublishedPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].Slug != "newer" || posts[1].Slug != "older" {
		t.Errorf("order = [%s %s], want [newer older]", posts[0].Slug, posts[1].Slug)
	}

	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("ListAllPosts returned %d posts, want 4", len(all))
	}
}

func TestFindByDateAndSlug(t *testing.T) {
	s := setupTestStore(t)

	mustSavePost(t, s, "Hello", "hello", day(2024, 1, 15), StatusPublished)
	mustSavePost(t, s, "Hidden", "hidden", day(2024, 1, 15), StatusDraft)

	got, err := s.FindByDateAndSlug(2024, 1, 15, "hello")
	if err != nil {
		t.Fatalf("FindByDateAndSlug failed: %v", err)
	}
	if got.Title != "Hello" {
		t.Errorf("Title = %q, want %q", got.Title, "Hello")
	}

	// Wrong date.
	if _, err := s.FindByDateAndSlug(2024, 1, 16, "hello"); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong date: got %v, want ErrNotFound", err)
	}
	// A draft at the right coordinates looks exactly like a missing post.
	if _, err := s.FindByDateAndSlug(2024, 1, 15, "hidden"); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft lookup: got %v, want ErrNotFound", err)
	}
}

func TestSlugUniquePerPublishDay(t *testing.T) {
	s := setupTestStore(t)

	mustSavePost(t, s, "One", "repeat", day(2024, 5, 1), StatusPublished)

	dup := Post{Title: "Two", Slug: "repeat", Body: "x", Publish: day(2024, 5, 1), Status: StatusDraft}
	if err := s.SavePost(&dup); err == nil {
		t.Fatal("expected duplicate slug on the same day to fail")
	}

	// Same slug on another day is fine.
	mustSavePost(t, s, "Three", "repeat", day(2024, 5, 2), StatusPublished)
}

func TestTagsFollowPublication(t *testing.T) {
	s := setupTestStore(t)

	mustSavePost(t, s, "Visible", "visible", day(2024, 6, 1), StatusPublished, "Go", "Web Dev")
	mustSavePost(t, s, "Hidden", "hidden", day(2024, 6, 2), StatusDraft, "Secret")

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2 (draft-only tags must be hidden): %v", len(tags), tags)
	}
	if tags[0].Name != "Go" || tags[1].Name != "Web Dev" {
		t.Errorf("tags = [%s %s], want [Go, Web Dev]", tags[0].Name, tags[1].Name)
	}
	if tags[1].Slug != "web-dev" {
		t.Errorf("tag slug = %q, want %q", tags[1].Slug, "web-dev")
	}

	tag, err := s.FindTagBySlug("go")
	if err != nil {
		t.Fatalf("FindTagBySlug failed: %v", err)
	}
	posts, err := s.PostsForTag(tag)
	if err != nil {
		t.Fatalf("PostsForTag failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "visible" {
		t.Errorf("PostsForTag = %v, want just the published post", posts)
	}
}

func TestImagesCascadeWithPost(t *testing.T) {
	s := setupTestStore(t)

	p := mustSavePost(t, s, "Gallery", "gallery", day(2024, 7, 1), StatusPublished)

	img := PostImage{PostID: p.ID, Filename: "a.jpg", Title: "A", Author: "Me", Width: 800, Height: 600}
	if err := s.SaveImage(&img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	second := PostImage{PostID: p.ID, Filename: "b.jpg", Title: "B"}
	if err := s.SaveImage(&second); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	images, err := s.ImagesForPost(p.ID)
	if err != nil {
		t.Fatalf("ImagesForPost failed: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}

	removed, err := s.DeleteImage(img.ID)
	if err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if removed.Filename != "a.jpg" {
		t.Errorf("removed filename = %q, want %q", removed.Filename, "a.jpg")
	}

	if err := s.DeletePost(p.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	images, err = s.ImagesForPost(p.ID)
	if err != nil {
		t.Fatalf("ImagesForPost after delete failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("got %d images after post delete, want 0", len(images))
	}
}
