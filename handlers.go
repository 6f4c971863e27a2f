package bitebybits

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bitebybits/bitebybits/views"
)

const displayDate = "January 2, 2006"

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func tagLinks(names []string, active string) []views.TagLink {
	links := make([]views.TagLink, 0, len(names))
	for _, name := range names {
		slug := Slugify(name)
		links = append(links, views.TagLink{
			Name:   name,
			Slug:   slug,
			Active: slug == active,
		})
	}
	return links
}

func (a *App) postItem(p Post, activeTag string) views.PostItem {
	author := p.Author
	if author == "" {
		author = a.Config.Author
	}
	return views.PostItem{
		Title:    p.Title,
		Subtitle: p.Subtitle,
		URL:      p.Link(),
		Author:   author,
		Date:     p.Publish.Format(displayDate),
		Tags:     tagLinks(p.Tags, activeTag),
		Summary:  TruncateWords(PlainBody(p.Body), feedSummaryWords),
	}
}

func pageURL(basePath string, n int) string {
	if n <= 1 {
		return basePath
	}
	return basePath + "?page=" + strconv.Itoa(n)
}

func pagination(pg Page, basePath string) views.Pagination {
	return views.Pagination{
		Number:    pg.Number,
		PageCount: pg.PageCount,
		Total:     pg.Total,
		HasPrev:   pg.HasPrev(),
		HasNext:   pg.HasNext(),
		PrevURL:   pageURL(basePath, pg.Number-1),
		NextURL:   pageURL(basePath, pg.Number+1),
	}
}

func (a *App) listingTags(active string) ([]views.TagLink, error) {
	tags, err := a.Cache.Tags()
	if err != nil {
		return nil, err
	}
	links := make([]views.TagLink, 0, len(tags))
	for _, t := range tags {
		links = append(links, views.TagLink{Name: t.Name, Slug: t.Slug, Active: t.Slug == active})
	}
	return links, nil
}

// handleHome serves the paginated listing of published posts.
func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	tags, err := a.listingTags("")
	if err != nil {
		return err
	}
	pg := Paginate(posts, a.Config.PageSize, c.QueryParam("page"))
	items := make([]views.PostItem, 0, len(pg.Items))
	for _, p := range pg.Items {
		items = append(items, a.postItem(p, ""))
	}
	return Render(c, views.Home(a.site(), items, pagination(pg, "/"), "", tags))
}

// handleTag serves the listing filtered to one tag. An unknown tag slug is a
// 404, not an empty listing.
func (a *App) handleTag(c echo.Context) error {
	slug := c.Param("slug")
	tag, err := a.Cache.FindTag(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		}
		return err
	}
	posts, err := a.Cache.PostsForTag(tag)
	if err != nil {
		return err
	}
	tags, err := a.listingTags(tag.Slug)
	if err != nil {
		return err
	}
	pg := Paginate(posts, a.Config.PageSize, c.QueryParam("page"))
	items := make([]views.PostItem, 0, len(pg.Items))
	for _, p := range pg.Items {
		items = append(items, a.postItem(p, tag.Slug))
	}
	return Render(c, views.Home(a.site(), items, pagination(pg, "/tag/"+tag.Slug+"/"), tag.Name, tags))
}

// handlePostDetail serves one published post addressed by date and slug.
// Unpublished posts at the same coordinates are indistinguishable from
// missing ones.
func (a *App) handlePostDetail(c echo.Context) error {
	year, errY := strconv.Atoi(c.Param("year"))
	month, errM := strconv.Atoi(c.Param("month"))
	day, errD := strconv.Atoi(c.Param("day"))
	slug := c.Param("slug")
	if errY != nil || errM != nil || errD != nil || slug == "" {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
	}

	post, err := a.Cache.FindByDateAndSlug(year, month, day, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		}
		// ErrIntegrity and storage failures surface as a generic 500.
		return err
	}

	images, err := a.Store.ImagesForPost(post.ID)
	if err != nil {
		return err
	}
	imgViews := make([]views.Image, 0, len(images))
	for _, img := range images {
		imgViews = append(imgViews, views.Image{
			URL:         "/public/" + uploadsSubdir + "/" + img.Filename,
			Title:       img.Title,
			Author:      img.Author,
			Description: img.Description,
		})
	}

	author := post.Author
	if author == "" {
		author = a.Config.Author
	}
	return Render(c, views.Post(a.site(), views.PostPage{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Author:   author,
		Date:     post.Publish.Format(displayDate),
		Tags:     tagLinks(post.Tags, ""),
		BodyHTML: RenderBody(post.Body),
		Images:   imgViews,
	}))
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	return a.renderFeed(c, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.About(a.site()))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) contactPage(form ContactForm, errs ValidationErrors, flash string, c echo.Context) views.ContactPage {
	return views.ContactPage{
		Name:             form.Name,
		Email:            form.Email,
		Subject:          form.Subject,
		Message:          form.Message,
		Errors:           errs,
		Flash:            flash,
		CSRF:             CsrfToken(c),
		RecaptchaSiteKey: a.Config.RecaptchaSiteKey,
	}
}

func (a *App) handleContactForm(c echo.Context) error {
	return Render(c, views.Contact(a.site(), a.contactPage(ContactForm{}, nil, "", c)))
}

// handleContactSubmit runs the contact intake and redirects to the success
// page on delivery, so a page reload cannot resubmit the message.
func (a *App) handleContactSubmit(c echo.Context) error {
	if !a.contactLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many messages. Try again later.")
	}

	form := ContactForm{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}
	token := c.FormValue("g-recaptcha-response")

	err := a.SubmitContact(form, token, c.RealIP())
	if err == nil {
		return c.Redirect(http.StatusSeeOther, "/contact/success/")
	}

	var fieldErrs ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		return RenderStatus(c, http.StatusUnprocessableEntity,
			views.Contact(a.site(), a.contactPage(form, fieldErrs, "", c)))
	case errors.Is(err, ErrVerificationRejected):
		return RenderStatus(c, http.StatusUnprocessableEntity,
			views.Contact(a.site(), a.contactPage(form, nil,
				"We could not verify that you are human. Please try again.", c)))
	case errors.Is(err, ErrBadHeader):
		return c.String(http.StatusBadRequest, "Invalid header found.")
	default:
		c.Logger().Errorf("contact dispatch failed: %v", err)
		return RenderStatus(c, http.StatusInternalServerError,
			views.Contact(a.site(), a.contactPage(form, nil,
				"Your message could not be sent. Please try again later.", c)))
	}
}

func (a *App) handleContactSuccess(c echo.Context) error {
	return Render(c, views.ContactSuccess(a.site()))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
