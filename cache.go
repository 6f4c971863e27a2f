package bitebybits

import (
	"sync"
	"time"
)

// PostCache is an in-memory snapshot of the publication policy output: the
// published posts and their tags, with a TTL. All public read surfaces
// (listing, tag listing, detail, feed, sitemap) read through it, so they see
// one consistent view of what is visible.
type PostCache struct {
	mu      sync.RWMutex
	posts   []Post
	tags    []Tag
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
// Admin writes call this after every save or delete.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.PublishedPosts()
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	c.posts = posts
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and tags after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock on a reload.
func (c *PostCache) ensureLoaded() ([]Post, []Tag, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.tags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.tags, nil
}

// Posts returns all published posts, newest first.
func (c *PostCache) Posts() ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	return posts, err
}

// Tags returns the tags appearing on published posts.
func (c *PostCache) Tags() ([]Tag, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// FindTag resolves a tag slug; unknown slugs are ErrNotFound.
func (c *PostCache) FindTag(slug string) (Tag, error) {
	_, tags, err := c.ensureLoaded()
	if err != nil {
		return Tag{}, err
	}
	for _, t := range tags {
		if t.Slug == slug {
			return t, nil
		}
	}
	return Tag{}, ErrNotFound
}

// PostsForTag returns the published posts carrying the tag, in the order the
// publication policy produced them.
func (c *PostCache) PostsForTag(tag Tag) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var filtered []Post
	for _, p := range posts {
		for _, name := range p.Tags {
			if Slugify(name) == tag.Slug {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// FindByDateAndSlug returns the unique published post at the given
// coordinates from the cached snapshot. Zero matches is ErrNotFound; more
// than one is ErrIntegrity.
func (c *PostCache) FindByDateAndSlug(year, month, day int, slug string) (Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	var matches []Post
	for _, p := range posts {
		y, m, d := p.Publish.Date()
		if p.Slug == slug && y == year && int(m) == month && d == day {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return Post{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return Post{}, ErrIntegrity
	}
}
