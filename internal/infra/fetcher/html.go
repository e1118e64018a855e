package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/utils/text"
)

// Meta tags consulted for the publish date, in order of preference.
var publishDateSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[itemprop="datePublished"]`, "content"},
	{`meta[name="pubdate"]`, "content"},
	{`meta[name="publishdate"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`meta[name="DC.date.issued"]`, "content"},
	{`time[datetime]`, "datetime"},
}

func extractHTML(body []byte, pageURL *url.URL) (*entity.ExtractedArticle, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	var title, bodyText string
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		title = strings.TrimSpace(article.Title)
		bodyText = text.NormalizeSpace(article.TextContent)
	}

	// Readability gives up on short or unusual pages; the paragraph text is
	// still useful there.
	if bodyText == "" {
		bodyText = paragraphText(doc)
	}
	if title == "" {
		title = documentTitle(doc)
	}

	return &entity.ExtractedArticle{
		Title:       title,
		BodyText:    bodyText,
		PublishDate: publishDate(doc),
	}, nil
}

func paragraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := text.NormalizeSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

func documentTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if t := text.NormalizeSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return text.NormalizeSpace(doc.Find("h1").First().Text())
}

func publishDate(doc *goquery.Document) *time.Time {
	for _, sel := range publishDateSelectors {
		raw, ok := doc.Find(sel.selector).First().Attr(sel.attr)
		if !ok {
			continue
		}
		if t, ok := parseDate(raw); ok {
			return &t
		}
	}

	var found *time.Time
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if raw := findJSONString(data, "datePublished"); raw != "" {
			if t, ok := parseDate(raw); ok {
				found = &t
				return false
			}
		}
		return true
	})
	return found
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// findJSONString walks decoded JSON-LD looking for a string value under key.
func findJSONString(v any, key string) string {
	switch node := v.(type) {
	case map[string]any:
		if s, ok := node[key].(string); ok {
			return s
		}
		for _, child := range node {
			if s := findJSONString(child, key); s != "" {
				return s
			}
		}
	case []any:
		for _, child := range node {
			if s := findJSONString(child, key); s != "" {
				return s
			}
		}
	}
	return ""
}
