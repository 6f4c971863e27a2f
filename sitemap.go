package bitebybits

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	// Posts change rarely once published; the hint and priority are static.
	sitemapChangeFreq = "monthly"
	sitemapPriority   = "0.9"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitemapEntry builds the sitemap projection of one published post. The
// last-modified timestamp is the publish timestamp.
func sitemapEntry(base string, p Post) sitemapURL {
	return sitemapURL{
		Loc:        BuildURL(base, p.Publish.Format("2006/01/02"), p.Slug),
		LastMod:    p.Publish.Format("2006-01-02"),
		ChangeFreq: sitemapChangeFreq,
		Priority:   sitemapPriority,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, p := range posts {
		urls = append(urls, sitemapEntry(base, p))
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
