package extract

import (
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/beevik/etree"
)

type googleNewsSitemap struct{}

// GoogleNewsSitemap returns the rules for Google News sitemaps, where each
// <url> carries a news:news block and optional image:image entries.
func GoogleNewsSitemap() FeedRules { return googleNewsSitemap{} }

func (googleNewsSitemap) Items(root *etree.Element) []*etree.Element {
	return root.SelectElements("url")
}

func (googleNewsSitemap) Summary(entry *etree.Element) domain.SummaryRecord {
	loc := plainText(entry, "loc")
	rec := domain.SummaryRecord{
		ID:  ArticleID(loc),
		URL: loc,
	}
	if news := entry.SelectElement("news"); news != nil {
		rec.Title = childText(news, "title")
		rec.Date = FormatPubDate(childText(news, "publication_date"))
	}
	for _, img := range entry.SelectElements("image") {
		if src := childText(img, "loc"); src != "" {
			rec.Img = src
			rec.Para = childText(img, "title")
			break
		}
	}
	return rec
}

// SitemapIndex returns the nested sitemap urls of a <sitemapindex> document,
// or nil when xml is a plain urlset.
func SitemapIndex(xml string) ([]string, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(xml); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil || root.Tag != "sitemapindex" {
		return nil, nil
	}

	var urls []string
	for _, sm := range root.SelectElements("sitemap") {
		if loc := strings.TrimSpace(plainText(sm, "loc")); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}
