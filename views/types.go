package views

// Site holds site-wide values every page template needs.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// TagLink is a tag rendered as a filter link.
type TagLink struct {
	Name   string
	Slug   string
	Active bool
}

// PostItem is one entry on a listing page.
type PostItem struct {
	Title    string
	Subtitle string
	URL      string
	Author   string
	Date     string // display date, e.g. "May 20, 2017"
	Tags     []TagLink
	Summary  string
}

// Pagination carries page navigation state into the listing template.
type Pagination struct {
	Number    int
	PageCount int
	Total     int
	HasPrev   bool
	HasNext   bool
	PrevURL   string
	NextURL   string
}

// Image is a post image attachment ready for display.
type Image struct {
	URL         string
	Title       string
	Author      string
	Description string
}

// PostPage is a full post detail page.
type PostPage struct {
	Title    string
	Subtitle string
	Author   string
	Date     string
	Tags     []TagLink
	BodyHTML string // sanitized upstream; rendered verbatim
	Images   []Image
}

// ContactPage is the contact form with its state after a submission attempt.
type ContactPage struct {
	Name    string
	Email   string
	Subject string
	Message string

	Errors map[string]string // field name -> message
	Flash  string            // verification or delivery failure message

	CSRF             string
	RecaptchaSiteKey string
}

// AdminPostRow is one row in the admin dashboard post list.
type AdminPostRow struct {
	ID     int64
	Title  string
	Slug   string
	Status string
	Date   string
}

// AdminImage is an image row in the admin post form.
type AdminImage struct {
	ID    int64
	URL   string
	Title string
}

// AdminPostForm is the post editing form state.
type AdminPostForm struct {
	ID       int64
	Title    string
	Subtitle string
	Slug     string
	Author   string
	Date     string // YYYY-MM-DD
	Status   string
	Tags     string // comma-separated
	Body     string
	Images   []AdminImage
}
