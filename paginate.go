package bitebybits

import "strconv"

// Page is one fixed-size slice of an ordered post list.
type Page struct {
	Items     []Post
	Number    int // 1-based page number after clamping
	PageCount int // ceil(Total/Size), at least 1
	Total     int // total item count across all pages
	Size      int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.PageCount }

// Paginate splits posts into pages of the given size and returns the page
// selected by the raw query parameter. The selection degrades gracefully
// rather than erroring: a parameter that is not a positive integer resolves
// to page 1, and a page number past the end resolves to the last page.
func Paginate(posts []Post, size int, pageParam string) Page {
	if size < 1 {
		size = 1
	}
	total := len(posts)
	pageCount := (total + size - 1) / size
	if pageCount < 1 {
		pageCount = 1
	}

	number, err := strconv.Atoi(pageParam)
	if err != nil || number < 1 {
		number = 1
	}
	if number > pageCount {
		number = pageCount
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:     posts[start:end],
		Number:    number,
		PageCount: pageCount,
		Total:     total,
		Size:      size,
	}
}
