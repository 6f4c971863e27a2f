package bitebybits

import "time"

// Status is a post's publication state. Only StatusPublished posts are
// visible on any public surface; everything else fails closed.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusTrashed   Status = "trashed"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusTrashed:
		return true
	}
	return false
}

// Post is the core content type stored in SQLite and rendered by templates.
// The pair (Slug, publish day) is unique, which is what makes the
// /:year/:month/:day/:slug/ address scheme work.
type Post struct {
	ID       int64
	Title    string
	Subtitle string
	Slug     string
	Author   string
	Body     string // markdown source
	Publish  time.Time
	Created  time.Time
	Updated  time.Time
	Status   Status
	Tags     []string
}

// Link returns the canonical site-relative path for the post.
func (p Post) Link() string {
	return "/" + p.Publish.Format("2006/01/02") + "/" + p.Slug + "/"
}

// PostImage is an image attachment owned by a post. Rows and files are
// removed together when the owning post is hard-deleted.
type PostImage struct {
	ID          int64
	PostID      int64
	Filename    string
	Title       string
	Author      string
	Description string
	Width       int
	Height      int
	Created     time.Time
}

// Tag is a label attached to zero or more posts.
type Tag struct {
	ID   int64
	Slug string
	Name string
}
