package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SheetRef is one stylesheet found in a document, in document order.
// Exactly one of Inline or Href is set.
type SheetRef struct {
	Inline string
	Href   string
	Media  string
}

// ExtractStylesheets parses html and returns its <style> blocks and
// <link rel="stylesheet"> references. Hrefs are resolved against base.
func ExtractStylesheets(html string, base *url.URL) ([]SheetRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if b, ok := doc.Find("base[href]").First().Attr("href"); ok && base != nil {
		if ref, err := base.Parse(b); err == nil {
			base = ref
		}
	}

	var refs []SheetRef
	doc.Find("style, link").Each(func(_ int, s *goquery.Selection) {
		media := s.AttrOr("media", "")
		if goquery.NodeName(s) == "style" {
			if text := strings.TrimSpace(s.Text()); text != "" {
				refs = append(refs, SheetRef{Inline: text, Media: media})
			}
			return
		}
		if !isStylesheetLink(s) {
			return
		}
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		if base != nil {
			if resolved, err := base.Parse(href); err == nil {
				href = resolved.String()
			}
		}
		refs = append(refs, SheetRef{Href: href, Media: media})
	})
	return refs, nil
}

func isStylesheetLink(s *goquery.Selection) bool {
	for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
		if rel == "stylesheet" {
			return true
		}
	}
	return false
}
