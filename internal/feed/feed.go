// Package feed normalizes heterogeneous feed documents into Article records.
package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"

	"github.com/deusflow/newspulse/internal/identity"
)

// Article is one normalized news item. ID is a pure function of
// (Category, Link), see identity.ArticleID.
type Article struct {
	ID          string
	Title       string
	Description string // HTML-stripped excerpt, at most 150 runes plus ellipsis
	Content     string // HTML-stripped full text
	Link        string
	Source      string
	PubDate     time.Time
	Category    string
	ImageURL    string
}

const descriptionLimit = 150

var (
	cdataRe  = regexp.MustCompile(`<!\[CDATA\[(.*?)\]\]>`)
	imgSrcRe = regexp.MustCompile(`<img[^>]+src="([^">]+)"`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// sourceTranslator wraps the stock RSS translation and carries the per-item
// <source> element through Item.Custom, which the stock translator drops.
type sourceTranslator struct {
	base gofeed.DefaultRSSTranslator
}

func (t *sourceTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	rssFeed, ok := feed.(*rss.Feed)
	if !ok {
		return nil, fmt.Errorf("feed is not an RSS feed")
	}
	fd, err := t.base.Translate(rssFeed)
	if err != nil {
		return nil, err
	}
	for i, item := range rssFeed.Items {
		if i >= len(fd.Items) || item.Source == nil {
			continue
		}
		if title := strings.TrimSpace(item.Source.Title); title != "" {
			if fd.Items[i].Custom == nil {
				fd.Items[i].Custom = make(map[string]string)
			}
			fd.Items[i].Custom["source"] = title
		}
	}
	return fd, nil
}

func newParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.RSSTranslator = &sourceTranslator{}
	return p
}

// Parse converts a fetched feed document into articles. A document the parser
// rejects as structurally broken yields an empty list, never partial records.
func Parse(document, category, sourceFallback string) []Article {
	fd, err := newParser().ParseString(document)
	if err != nil {
		log.Printf("feed parse failed for category %s: %v", category, err)
		return nil
	}

	articles := make([]Article, 0, len(fd.Items))
	for _, item := range fd.Items {
		title := strings.TrimSpace(stripCDATA(item.Title))
		if title == "" {
			title = "No Title"
		}
		link := strings.TrimSpace(item.Link)

		clean := stripHTML(stripCDATA(item.Description))

		published := time.Now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		source := sourceFallback
		if s := strings.TrimSpace(item.Custom["source"]); s != "" {
			source = s
		} else if fd.Title != "" {
			source = fd.Title
		}

		articles = append(articles, Article{
			ID:          identity.ArticleID(category, link),
			Title:       title,
			Description: excerpt(clean),
			Content:     clean,
			Link:        link,
			Source:      source,
			PubDate:     published,
			Category:    category,
			ImageURL:    findImage(item),
		})
	}
	return articles
}

// findImage checks the three known image locations in priority order:
// a media:content element, an enclosure, then an <img> inside the
// description markup. First hit wins.
func findImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc.URL != "" {
			return enc.URL
		}
	}
	if m := imgSrcRe.FindStringSubmatch(item.Description); m != nil {
		return m[1]
	}
	return ""
}

// jsonEnvelope is the response shape of the feed-to-JSON proxy service.
type jsonEnvelope struct {
	Status string `json:"status"`
	Items  []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		PubDate     string `json:"pubDate"`
		Thumbnail   string `json:"thumbnail"`
		Enclosure   struct {
			Link string `json:"link"`
		} `json:"enclosure"`
	} `json:"items"`
}

// ParseFromJSONAPI maps a feed-to-JSON service envelope onto the same Article
// shape as Parse. Used only when the primary document parse yields nothing.
func ParseFromJSONAPI(body, category string) []Article {
	var env jsonEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil || env.Status != "ok" {
		return nil
	}

	articles := make([]Article, 0, len(env.Items))
	for _, item := range env.Items {
		image := item.Thumbnail
		if image == "" {
			image = item.Enclosure.Link
		}
		clean := stripHTML(item.Description)
		articles = append(articles, Article{
			ID:          identity.ArticleID(category, item.Link),
			Title:       item.Title,
			Description: excerpt(clean),
			Content:     clean,
			Link:        item.Link,
			Source:      "RSS Feed",
			PubDate:     parsePubDate(item.PubDate),
			Category:    category,
			ImageURL:    image,
		})
	}
	return articles
}

func parsePubDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func stripCDATA(s string) string {
	return cdataRe.ReplaceAllString(s, "$1")
}

// stripHTML reduces markup to its text content.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(tagRe.ReplaceAllString(s, " "))
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}

func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:descriptionLimit]) + "..."
}
