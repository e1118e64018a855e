package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/utils/text"
)

// extractPDF reads the plain text of every page. The pdf package panics on
// some malformed inputs, so panics are converted to ErrPDFFailed.
func extractPDF(body []byte, pageURL *url.URL) (article *entity.ExtractedArticle, err error) {
	defer func() {
		if r := recover(); r != nil {
			article = nil
			err = fmt.Errorf("%w: %v", ErrPDFFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFFailed, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString(" ")
	}

	return &entity.ExtractedArticle{
		Title:    pdfTitle(pageURL),
		BodyText: text.NormalizeSpace(b.String()),
	}, nil
}

// pdfTitle derives a headline from the last path segment of the document URL.
func pdfTitle(u *url.URL) string {
	if u == nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return u.Hostname()
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return text.NormalizeSpace(name)
}
