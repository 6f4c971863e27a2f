// Package views renders the site's pages as templ components. Components are
// built directly with templ.ComponentFunc writing escaped HTML, the same
// technique the body renderer uses, so no generated template code is needed.
package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

func esc(s string) string {
	return html.EscapeString(s)
}

// component wraps a buffer-writing function as a templ.Component.
func component(fn func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		fn(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// layout writes the shared document shell around a body-writing function.
func layout(site Site, title string, body func(buf *bytes.Buffer)) templ.Component {
	return component(func(buf *bytes.Buffer) {
		buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		buf.WriteString("<meta charset=\"utf-8\"/>")
		buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		buf.WriteString("<title>" + esc(title) + "</title>")
		if site.Description != "" {
			buf.WriteString("<meta name=\"description\" content=\"" + esc(site.Description) + "\"/>")
		}
		buf.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"" + esc(site.Name) + "\" href=\"/feed.xml\"/>")
		buf.WriteString("<link rel=\"stylesheet\" href=\"/public/style.css\"/>")
		buf.WriteString("</head><body>")
		buf.WriteString("<header><nav>")
		buf.WriteString("<a class=\"brand\" href=\"/\">" + esc(site.Name) + "</a>")
		buf.WriteString("<a href=\"/about/\">About</a>")
		buf.WriteString("<a href=\"/contact/\">Contact</a>")
		buf.WriteString("<a href=\"/feed.xml\">RSS</a>")
		buf.WriteString("</nav></header><main>")
		body(buf)
		buf.WriteString("</main><footer><p>&copy; " + esc(site.Author) + "</p></footer>")
		buf.WriteString("</body></html>")
	})
}

func writeTagLinks(buf *bytes.Buffer, tags []TagLink) {
	if len(tags) == 0 {
		return
	}
	buf.WriteString("<ul class=\"tags\">")
	for _, t := range tags {
		cls := "tag"
		if t.Active {
			cls = "tag active"
		}
		buf.WriteString("<li><a class=\"" + cls + "\" href=\"/tag/" + esc(t.Slug) + "/\">" + esc(t.Name) + "</a></li>")
	}
	buf.WriteString("</ul>")
}

// Home renders the post listing page, optionally filtered by a tag.
func Home(site Site, posts []PostItem, pg Pagination, activeTag string, tags []TagLink) templ.Component {
	title := site.Name
	if activeTag != "" {
		title = activeTag + " - " + site.Name
	}
	return layout(site, title, func(buf *bytes.Buffer) {
		if activeTag != "" {
			buf.WriteString("<h1>Posts tagged &ldquo;" + esc(activeTag) + "&rdquo;</h1>")
		} else {
			buf.WriteString("<h1>" + esc(site.Name) + "</h1>")
		}
		writeTagLinks(buf, tags)
		if len(posts) == 0 {
			buf.WriteString("<p class=\"empty\">No posts yet.</p>")
		}
		buf.WriteString("<section class=\"posts\">")
		for _, p := range posts {
			buf.WriteString("<article class=\"post-card\">")
			buf.WriteString("<h2><a href=\"" + esc(p.URL) + "\">" + esc(p.Title) + "</a></h2>")
			if p.Subtitle != "" {
				buf.WriteString("<p class=\"subtitle\">" + esc(p.Subtitle) + "</p>")
			}
			buf.WriteString("<p class=\"meta\">" + esc(p.Date) + " &middot; " + esc(p.Author) + "</p>")
			if p.Summary != "" {
				buf.WriteString("<p class=\"summary\">" + esc(p.Summary) + "</p>")
			}
			writeTagLinks(buf, p.Tags)
			buf.WriteString("</article>")
		}
		buf.WriteString("</section>")
		writePagination(buf, pg)
	})
}

func writePagination(buf *bytes.Buffer, pg Pagination) {
	if pg.PageCount <= 1 {
		return
	}
	buf.WriteString("<nav class=\"pagination\">")
	if pg.HasPrev {
		buf.WriteString("<a rel=\"prev\" href=\"" + esc(pg.PrevURL) + "\">&larr; Newer</a>")
	}
	buf.WriteString("<span>Page " + strconv.Itoa(pg.Number) + " of " + strconv.Itoa(pg.PageCount) + "</span>")
	if pg.HasNext {
		buf.WriteString("<a rel=\"next\" href=\"" + esc(pg.NextURL) + "\">Older &rarr;</a>")
	}
	buf.WriteString("</nav>")
}

// Post renders a post detail page. BodyHTML must already be sanitized.
func Post(site Site, p PostPage) templ.Component {
	return layout(site, p.Title+" - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<article class=\"post\">")
		buf.WriteString("<h1>" + esc(p.Title) + "</h1>")
		if p.Subtitle != "" {
			buf.WriteString("<p class=\"subtitle\">" + esc(p.Subtitle) + "</p>")
		}
		buf.WriteString("<p class=\"meta\">" + esc(p.Date) + " &middot; " + esc(p.Author) + "</p>")
		writeTagLinks(buf, p.Tags)
		buf.WriteString("<div class=\"body\">")
		buf.WriteString(p.BodyHTML)
		buf.WriteString("</div>")
		if len(p.Images) > 0 {
			buf.WriteString("<section class=\"images\">")
			for _, img := range p.Images {
				buf.WriteString("<figure>")
				buf.WriteString("<img src=\"" + esc(img.URL) + "\" alt=\"" + esc(img.Title) + "\" loading=\"lazy\"/>")
				buf.WriteString("<figcaption>" + esc(img.Title))
				if img.Author != "" {
					buf.WriteString(" &mdash; " + esc(img.Author))
				}
				if img.Description != "" {
					buf.WriteString("<br/><small>" + esc(img.Description) + "</small>")
				}
				buf.WriteString("</figcaption></figure>")
			}
			buf.WriteString("</section>")
		}
		buf.WriteString("</article>")
	})
}

// About renders the about page.
func About(site Site) templ.Component {
	return layout(site, "About - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>About</h1>")
		buf.WriteString("<p>" + esc(site.Description) + "</p>")
		if site.Author != "" {
			buf.WriteString("<p>Written by " + esc(site.Author) + ".</p>")
		}
	})
}

func writeField(buf *bytes.Buffer, page ContactPage, field, label, typ, value string) {
	buf.WriteString("<label for=\"" + field + "\">" + label + "</label>")
	if msg, ok := page.Errors[field]; ok {
		buf.WriteString("<p class=\"field-error\">" + esc(msg) + "</p>")
	}
	if typ == "textarea" {
		buf.WriteString("<textarea id=\"" + field + "\" name=\"" + field + "\" rows=\"8\">" + esc(value) + "</textarea>")
		return
	}
	buf.WriteString("<input id=\"" + field + "\" type=\"" + typ + "\" name=\"" + field + "\" value=\"" + esc(value) + "\"/>")
}

// Contact renders the contact form, including any field errors and the
// verification/delivery flash message from a failed attempt.
func Contact(site Site, page ContactPage) templ.Component {
	return layout(site, "Contact - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Contact</h1>")
		if page.Flash != "" {
			buf.WriteString("<p class=\"flash-error\">" + esc(page.Flash) + "</p>")
		}
		buf.WriteString("<form method=\"post\" action=\"/contact/\">")
		buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + esc(page.CSRF) + "\"/>")
		writeField(buf, page, "name", "Name", "text", page.Name)
		writeField(buf, page, "email", "Email", "email", page.Email)
		writeField(buf, page, "subject", "Subject", "text", page.Subject)
		writeField(buf, page, "message", "Message", "textarea", page.Message)
		if page.RecaptchaSiteKey != "" {
			buf.WriteString("<div class=\"g-recaptcha\" data-sitekey=\"" + esc(page.RecaptchaSiteKey) + "\"></div>")
			buf.WriteString("<script src=\"https://www.google.com/recaptcha/api.js\" async defer></script>")
		}
		buf.WriteString("<button type=\"submit\">Send</button>")
		buf.WriteString("</form>")
	})
}

// ContactSuccess renders the post-submission acknowledgement page.
func ContactSuccess(site Site) templ.Component {
	return layout(site, "Message sent - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Thank you</h1>")
		buf.WriteString("<p>Your message has been sent. I will get back to you soon.</p>")
		buf.WriteString("<p><a href=\"/\">Back to the blog</a></p>")
	})
}

// NotFound renders the styled 404 page.
func NotFound(site Site) templ.Component {
	return layout(site, "Not found - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>404</h1>")
		buf.WriteString("<p>That page does not exist.</p>")
		buf.WriteString("<p><a href=\"/\">Back to the blog</a></p>")
	})
}

// ServerError renders the styled 500 page.
func ServerError(site Site) templ.Component {
	return layout(site, "Something went wrong - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>500</h1>")
		buf.WriteString("<p>Something went wrong. Please try again later.</p>")
	})
}
