package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/araddon/dateparse"
	"github.com/beevik/etree"
)

// shortDateLayout is the human date emitted for feed items.
const shortDateLayout = "Jan 2, 2006"

// pubDateLayouts are tried before falling back to dateparse.
var pubDateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	time.RFC822,
	time.RFC822Z,
	time.RFC3339,
}

// FeedRules knows how one XML feed convention lays out its items.
type FeedRules interface {
	Items(root *etree.Element) []*etree.Element
	Summary(item *etree.Element) domain.SummaryRecord
}

type rssFeed struct{}

// RSSFeed returns the rules for RSS 2.0 documents. RSS carries no mapped
// author, so Author is always empty.
func RSSFeed() FeedRules { return rssFeed{} }

func (rssFeed) Items(root *etree.Element) []*etree.Element {
	return root.FindElements("//item")
}

func (rssFeed) Summary(item *etree.Element) domain.SummaryRecord {
	link := plainText(item, "link")
	return domain.SummaryRecord{
		ID:    ArticleID(link),
		Title: plainText(item, "title"),
		URL:   link,
		Para:  plainText(item, "description"),
		Date:  FormatPubDate(plainText(item, "pubDate")),
		Img:   firstAttr(item, "url", "media:content", "content"),
	}
}

type atomFeed struct{}

// AtomFeed returns the rules for Atom documents.
func AtomFeed() FeedRules { return atomFeed{} }

func (atomFeed) Items(root *etree.Element) []*etree.Element {
	return root.FindElements("//entry")
}

func (atomFeed) Summary(entry *etree.Element) domain.SummaryRecord {
	link := atomLink(entry)
	author := ""
	if a := plainChild(entry, "author"); a != nil {
		author = plainText(a, "name")
	}
	return domain.SummaryRecord{
		ID:     ArticleID(link),
		Title:  plainText(entry, "title"),
		URL:    link,
		Para:   firstNonEmpty(plainText(entry, "summary"), plainText(entry, "content")),
		Date:   FormatPubDate(firstNonEmpty(plainText(entry, "published"), plainText(entry, "updated"))),
		Author: author,
		Img:    firstAttr(entry, "url", "media:content", "media:thumbnail"),
	}
}

// atomLink prefers the alternate link, then any link with an href.
func atomLink(entry *etree.Element) string {
	var fallback string
	for _, l := range entry.SelectElements("link") {
		if l.Space != "" {
			continue
		}
		href := strings.TrimSpace(l.SelectAttrValue("href", ""))
		if href == "" {
			continue
		}
		rel := l.SelectAttrValue("rel", "alternate")
		if rel == "alternate" {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

// Feed extracts summary records from XML feeds.
type Feed struct {
	rules  FeedRules
	policy TitlePolicy
}

// NewFeed builds a feed extractor. Nil rules default to RSSFeed. Untitled
// items are kept unless overridden.
func NewFeed(rules FeedRules, opts ...SummaryOption) *Feed {
	if rules == nil {
		rules = RSSFeed()
	}
	f := &Feed{rules: rules, policy: KeepUntitled}
	for _, opt := range opts {
		opt(&f.policy)
	}
	return f
}

// Extract returns the feed items in document order. A well-formed document
// without items yields an empty slice.
func (f *Feed) Extract(xml string) ([]domain.SummaryRecord, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("%w: parse xml: %v", ErrUnparsable, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: xml has no root element", ErrUnparsable)
	}

	records := []domain.SummaryRecord{}
	for _, item := range f.rules.Items(root) {
		rec := f.rules.Summary(item)
		if rec.Title == "" && f.policy == DropUntitled {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FormatPubDate renders raw as a short human date. Unparseable input is
// returned unchanged.
func FormatPubDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(shortDateLayout)
		}
	}
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return t.Format(shortDateLayout)
	}
	return raw
}

// childText returns the CDATA-stripped text of the first child named tag,
// whatever its namespace prefix.
func childText(el *etree.Element, tag string) string {
	return textOf(el.SelectElement(tag))
}

// plainChild returns the first child named tag that has no namespace prefix,
// so <media:title> never stands in for <title>.
func plainChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Space == "" && c.Tag == tag {
			return c
		}
	}
	return nil
}

// plainText is childText restricted to unprefixed children.
func plainText(el *etree.Element, tag string) string {
	return textOf(plainChild(el, tag))
}

func textOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return stripCDATA(el.Text())
}

// firstAttr returns attr of the first child, among tags in order, that has it.
func firstAttr(el *etree.Element, attr string, tags ...string) string {
	for _, tag := range tags {
		child := el.SelectElement(tag)
		if child == nil {
			continue
		}
		if v := strings.TrimSpace(child.SelectAttrValue(attr, "")); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
