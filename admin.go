package bitebybits

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bitebybits/bitebybits/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, views.AdminLogin(a.site(), true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNewPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	form := views.AdminPostForm{
		Author: a.Config.Author,
		Date:   time.Now().Format("2006-01-02"),
		Status: string(StatusDraft),
	}
	return Render(c, views.AdminPost(a.site(), form, "", CsrfToken(c)))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	post, err := a.Store.GetPost(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return a.renderAdminPost(c, post, c.QueryParam("msg"))
}

func (a *App) renderAdminPost(c echo.Context, post Post, msg string) error {
	images, err := a.Store.ImagesForPost(post.ID)
	if err != nil {
		return err
	}
	imgViews := make([]views.AdminImage, 0, len(images))
	for _, img := range images {
		imgViews = append(imgViews, views.AdminImage{
			ID:    img.ID,
			URL:   "/public/" + uploadsSubdir + "/" + img.Filename,
			Title: img.Title,
		})
	}
	form := views.AdminPostForm{
		ID:       post.ID,
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Slug:     post.Slug,
		Author:   post.Author,
		Date:     post.Publish.Format("2006-01-02"),
		Status:   string(post.Status),
		Tags:     strings.Join(post.Tags, ", "),
		Body:     post.Body,
		Images:   imgViews,
	}
	return Render(c, views.AdminPost(a.site(), form, msg, CsrfToken(c)))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}

	id, _ := strconv.ParseInt(c.FormValue("id"), 10, 64)
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}

	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	publish, err := time.Parse("2006-01-02", date)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+date+format.+Use+YYYY-MM-DD.")
	}

	status := Status(c.FormValue("status"))
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Unknown+status.")
	}

	post := Post{
		ID:       id,
		Title:    title,
		Subtitle: strings.TrimSpace(c.FormValue("subtitle")),
		Slug:     slug,
		Author:   strings.TrimSpace(c.FormValue("author")),
		Body:     c.FormValue("body"),
		Publish:  publish,
		Status:   status,
		Tags:     FilterEmpty(strings.Split(c.FormValue("tags"), ",")),
	}
	if post.ID != 0 {
		existing, err := a.Store.GetPost(post.ID)
		if err == nil {
			post.Created = existing.Created
		}
	}
	if err := a.Store.SavePost(&post); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return c.Redirect(http.StatusSeeOther, "/admin/?msg=A+post+with+this+slug+already+exists+for+that+day.")
		}
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

// handleAdminDelete hard-deletes a post. Image rows cascade in the database;
// their files are removed here first.
func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	if err := a.removeImageFiles(id); err != nil {
		return err
	}
	if err := a.Store.DeletePost(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	rows := make([]views.AdminPostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, views.AdminPostRow{
			ID:     p.ID,
			Title:  p.Title,
			Slug:   p.Slug,
			Status: string(p.Status),
			Date:   p.Publish.Format("2006-01-02"),
		})
	}
	return Render(c, views.AdminDashboard(a.site(), rows, msg, CsrfToken(c)))
}
