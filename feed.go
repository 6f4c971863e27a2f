package bitebybits

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// feedItemCount is how many of the most recent published posts the feed
// carries.
const feedItemCount = 3

// feedSummaryWords is the word-boundary truncation length for item
// descriptions.
const feedSummaryWords = 30

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// FeedItems projects the publication policy output into the feed: the
// newest posts, in descending publish order, summaries truncated at word
// boundaries.
func FeedItems(posts []Post) []Post {
	if len(posts) > feedItemCount {
		posts = posts[:feedItemCount]
	}
	return posts
}

func feedDescription(p Post) string {
	return TruncateWords(PlainBody(p.Body), feedSummaryWords)
}

func (a *App) renderFeed(c echo.Context, posts []Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, feedItemCount)
	for _, p := range FeedItems(posts) {
		postURL := BuildURL(base, p.Publish.Format("2006/01/02"), p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: feedDescription(p),
			PubDate:     p.Publish.Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
