package bitebybits

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested post or tag does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrIntegrity is returned when more than one published post matches a
// (slug, publish day) coordinate. The unique index makes this unreachable
// under normal operation; the lookup still checks so corruption surfaces as
// a server error instead of an arbitrary pick.
var ErrIntegrity = errors.New("store: multiple posts match slug and publish day")

// Store wraps a SQLite database and provides the query surface for posts,
// tags, and post images.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and turn
	// on foreign keys so post_tags and post_images cascade with their post.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    subtitle TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    publish TEXT NOT NULL,
    created TEXT NOT NULL,
    updated TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft'
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_slug_publish_day ON posts(slug, date(publish));
CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS post_tags (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (post_id, tag_id)
);
CREATE TABLE IF NOT EXISTS post_images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    filename TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    created TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, title, subtitle, slug, author, body, publish, created, updated, status`

func scanPost(scan func(...any) error) (Post, error) {
	var p Post
	var publish, created, updated string
	var status string
	if err := scan(&p.ID, &p.Title, &p.Subtitle, &p.Slug, &p.Author, &p.Body,
		&publish, &created, &updated, &status); err != nil {
		return Post{}, err
	}
	var err error
	if p.Publish, err = parseTime(publish); err != nil {
		return Post{}, err
	}
	if p.Created, err = parseTime(created); err != nil {
		return Post{}, err
	}
	if p.Updated, err = parseTime(updated); err != nil {
		return Post{}, err
	}
	p.Status = Status(status)
	return p, nil
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339, v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// PublishedPosts is the publication policy: exactly the posts whose status is
// "published", ordered by publish time descending. Every public read surface
// (listing, tag listing, feed, sitemap) goes through this one query so
// visibility rules cannot drift apart. Any other status value, including
// unrecognized ones, is excluded.
func (s *Store) PublishedPosts() ([]Post, error) {
	return s.ListByStatus(StatusPublished)
}

// ListByStatus returns all posts with the given status, newest first.
func (s *Store) ListByStatus(status Status) ([]Post, error) {
	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts WHERE status = ? ORDER BY publish DESC`, string(status))
	if err != nil {
		return nil, err
	}
	return s.collectPosts(rows)
}

// ListAllPosts returns every post regardless of status, newest first (admin).
func (s *Store) ListAllPosts() ([]Post, error) {
	rows, err := s.db.Query(`SELECT ` + postColumns + ` FROM posts ORDER BY publish DESC`)
	if err != nil {
		return nil, err
	}
	return s.collectPosts(rows)
}

func (s *Store) collectPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		tags, err := s.tagsForPost(posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Tags = tags
	}
	return posts, nil
}

// FindByDateAndSlug returns the unique published post at the given
// coordinates. Zero matches is ErrNotFound; a draft or trashed post at the
// same coordinates is also ErrNotFound, so the public surface leaks nothing
// about unpublished content. More than one match is ErrIntegrity.
func (s *Store) FindByDateAndSlug(year, month, day int, slug string) (Post, error) {
	date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND date(publish) = ? AND status = ?`,
		slug, date, string(StatusPublished))
	if err != nil {
		return Post{}, err
	}
	posts, err := s.collectPosts(rows)
	if err != nil {
		return Post{}, err
	}
	switch len(posts) {
	case 0:
		return Post{}, ErrNotFound
	case 1:
		return posts[0], nil
	default:
		return Post{}, ErrIntegrity
	}
}

// GetPost returns a post by id regardless of status (admin).
func (s *Store) GetPost(id int64) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row.Scan)
	if err != nil {
		return Post{}, err
	}
	p.Tags, err = s.tagsForPost(p.ID)
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

// SavePost inserts p when its ID is zero, otherwise updates the existing row.
// Created and Updated are maintained here; tag labels are upserted into the
// tags table and the post_tags join is rewritten. A missing status defaults
// to draft and an unknown status is rejected.
func (s *Store) SavePost(p *Post) error {
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !p.Status.Valid() {
		return fmt.Errorf("store: invalid post status %q", p.Status)
	}
	now := time.Now().UTC().Truncate(time.Second)
	if p.Publish.IsZero() {
		p.Publish = now
	}
	p.Updated = now

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if p.ID == 0 {
		p.Created = now
		res, err := tx.Exec(`INSERT INTO posts (title, subtitle, slug, author, body, publish, created, updated, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Subtitle, p.Slug, p.Author, p.Body,
			formatTime(p.Publish), formatTime(p.Created), formatTime(p.Updated), string(p.Status))
		if err != nil {
			return err
		}
		p.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(`UPDATE posts SET title = ?, subtitle = ?, slug = ?, author = ?, body = ?, publish = ?, updated = ?, status = ? WHERE id = ?`,
			p.Title, p.Subtitle, p.Slug, p.Author, p.Body,
			formatTime(p.Publish), formatTime(p.Updated), string(p.Status), p.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = ?`, p.ID); err != nil {
		return err
	}
	for _, name := range FilterEmpty(p.Tags) {
		slug := Slugify(name)
		if slug == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO tags (slug, name) VALUES (?, ?) ON CONFLICT(slug) DO NOTHING`, slug, name); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO post_tags (post_id, tag_id) SELECT ?, id FROM tags WHERE slug = ?`, p.ID, slug); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeletePost removes a post by id. Tag joins and image rows cascade; the
// caller is responsible for removing image files (see ImagesForPost).
func (s *Store) DeletePost(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// FindTagBySlug resolves a tag label slug; unknown slugs are ErrNotFound.
func (s *Store) FindTagBySlug(slug string) (Tag, error) {
	var t Tag
	err := s.db.QueryRow(`SELECT id, slug, name FROM tags WHERE slug = ?`, slug).Scan(&t.ID, &t.Slug, &t.Name)
	if err != nil {
		return Tag{}, err
	}
	return t, nil
}

// PostsForTag returns the tag's posts intersected with the publication
// policy, newest first.
func (s *Store) PostsForTag(tag Tag) ([]Post, error) {
	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts
		JOIN post_tags ON post_tags.post_id = posts.id
		WHERE post_tags.tag_id = ? AND status = ?
		ORDER BY publish DESC`, tag.ID, string(StatusPublished))
	if err != nil {
		return nil, err
	}
	return s.collectPosts(rows)
}

// ListTags returns tags that appear on at least one published post, sorted
// by name.
func (s *Store) ListTags() ([]Tag, error) {
	rows, err := s.db.Query(`SELECT DISTINCT tags.id, tags.slug, tags.name FROM tags
		JOIN post_tags ON post_tags.tag_id = tags.id
		JOIN posts ON posts.id = post_tags.post_id
		WHERE posts.status = ?
		ORDER BY tags.name`, string(StatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) tagsForPost(postID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT tags.name FROM tags
		JOIN post_tags ON post_tags.tag_id = tags.id
		WHERE post_tags.post_id = ?
		ORDER BY tags.name`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveImage inserts an image row for a post.
func (s *Store) SaveImage(img *PostImage) error {
	if img.Created.IsZero() {
		img.Created = time.Now().UTC().Truncate(time.Second)
	}
	res, err := s.db.Exec(`INSERT INTO post_images (post_id, filename, title, author, description, width, height, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		img.PostID, img.Filename, img.Title, img.Author, img.Description,
		img.Width, img.Height, formatTime(img.Created))
	if err != nil {
		return err
	}
	img.ID, err = res.LastInsertId()
	return err
}

// ImagesForPost returns a post's images, oldest first.
func (s *Store) ImagesForPost(postID int64) ([]PostImage, error) {
	rows, err := s.db.Query(`SELECT id, post_id, filename, title, author, description, width, height, created
		FROM post_images WHERE post_id = ? ORDER BY created, id`, postID)
	if err != nil {
		return nil, err
	}
	return collectImages(rows)
}

// DeleteImage removes an image row by id and returns the removed row so the
// caller can delete the file.
func (s *Store) DeleteImage(id int64) (PostImage, error) {
	row := s.db.QueryRow(`SELECT id, post_id, filename, title, author, description, width, height, created
		FROM post_images WHERE id = ?`, id)
	img, err := scanImage(row.Scan)
	if err != nil {
		return PostImage{}, err
	}
	if _, err := s.db.Exec(`DELETE FROM post_images WHERE id = ?`, id); err != nil {
		return PostImage{}, err
	}
	return img, nil
}

func collectImages(rows *sql.Rows) ([]PostImage, error) {
	defer rows.Close()
	var images []PostImage
	for rows.Next() {
		img, err := scanImage(rows.Scan)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func scanImage(scan func(...any) error) (PostImage, error) {
	var img PostImage
	var created string
	if err := scan(&img.ID, &img.PostID, &img.Filename, &img.Title, &img.Author,
		&img.Description, &img.Width, &img.Height, &created); err != nil {
		return PostImage{}, err
	}
	var err error
	img.Created, err = parseTime(created)
	return img, err
}
