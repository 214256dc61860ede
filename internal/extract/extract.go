// Package extract turns raw listing pages, feeds and story pages into
// domain records.
//
// Every field is resolved by an ordered chain of strategies; the first
// non-empty result wins. Missing markup never fails an extraction, only a
// document that cannot be parsed at all does.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnparsable is returned when the input is not a document at all.
var ErrUnparsable = errors.New("document could not be parsed")

var articleIDPattern = regexp.MustCompile(`article(\d+)\.ece`)

// ArticleID returns the numeric id embedded in a story url, or the url itself
// when it carries none.
func ArticleID(url string) string {
	if m := articleIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return url
}

// TitlePolicy decides what a summary pipeline does with untitled items.
type TitlePolicy int

const (
	// DropUntitled removes items whose title resolves to "".
	DropUntitled TitlePolicy = iota
	// KeepUntitled emits every item regardless of title.
	KeepUntitled
)

func (p TitlePolicy) String() string {
	switch p {
	case DropUntitled:
		return "drop"
	case KeepUntitled:
		return "keep"
	default:
		return "unknown"
	}
}

// Strategy resolves one field from a selection, returning "" when its markup
// is absent.
type Strategy func(s *goquery.Selection) string

// firstOf evaluates the strategies left to right and returns the first
// non-empty result.
func firstOf(s *goquery.Selection, strategies ...Strategy) string {
	for _, strategy := range strategies {
		if v := strategy(s); v != "" {
			return v
		}
	}
	return ""
}

// Text returns the trimmed text of the first match of sel.
func Text(sel string) Strategy {
	return func(s *goquery.Selection) string {
		return strings.TrimSpace(s.Find(sel).First().Text())
	}
}

// Attr returns the trimmed attribute of the first match of sel.
func Attr(sel, attr string) Strategy {
	return func(s *goquery.Selection) string {
		val, _ := s.Find(sel).First().Attr(attr)
		return strings.TrimSpace(val)
	}
}

// ownAttr reads an attribute from the selection itself.
func ownAttr(attr string) Strategy {
	return func(s *goquery.Selection) string {
		val, _ := s.Attr(attr)
		return strings.TrimSpace(val)
	}
}

// stripCDATA removes literal CDATA wrapper markers and trims the result.
func stripCDATA(s string) string {
	s = strings.ReplaceAll(s, "<![CDATA[", "")
	s = strings.ReplaceAll(s, "]]>", "")
	return strings.TrimSpace(s)
}

// parseHTML builds a goquery document from raw markup.
func parseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrUnparsable, err)
	}
	return doc, nil
}
