package extract

import (
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// ArticleRules knows how one story page convention lays out its fields.
type ArticleRules interface {
	Article(doc *goquery.Document) domain.ArticleRecord
}

// BodyTier extracts the article body from one markup convention. ok is false
// when the tier's container is absent and the next tier should be tried.
type BodyTier func(doc *goquery.Selection) (body string, ok bool)

// HTMLArticleRules is a selector driven ArticleRules. Each field is an ordered
// fallback chain; Body tiers are tried until one finds its container.
type HTMLArticleRules struct {
	Headline      []Strategy
	Description   []Strategy
	Author        []Strategy
	DatePublished []Strategy
	Image         []Strategy
	Body          []BodyTier
}

var _ ArticleRules = (*HTMLArticleRules)(nil)

// TheHinduArticle returns the rules for The Hindu story pages. The site has
// shipped three body conventions across page revisions.
func TheHinduArticle() *HTMLArticleRules {
	return &HTMLArticleRules{
		Headline: []Strategy{
			Text("h1.title"),
			Text("h1.article-title"),
		},
		Description: []Strategy{
			Text("h2.intro"),
			Attr(`meta[name="description"]`, "content"),
		},
		Author: []Strategy{
			Text(".author-name"),
			Text(".auth-nm"),
		},
		DatePublished: []Strategy{
			Attr(`meta[property="article:published_time"]`, "content"),
			Text(".publish-time"),
			Text(".publish-time-new"),
		},
		Image: []Strategy{
			Attr(`meta[property="og:image"]`, "content"),
			Attr(".lead-img img", "src"),
		},
		Body: []BodyTier{
			Paragraphs(`[itemprop='articleBody']`),
			ParagraphsOrInner(".articlebodycontent"),
			ParagraphsOrInner(`div[id^='content-body-']`),
		},
	}
}

// Article implements ArticleRules.
func (r *HTMLArticleRules) Article(doc *goquery.Document) domain.ArticleRecord {
	root := doc.Selection
	rec := domain.ArticleRecord{
		Headline:      firstOf(root, r.Headline...),
		Description:   firstOf(root, r.Description...),
		DatePublished: firstOf(root, r.DatePublished...),
		ArticleBody:   bodyOf(root, r.Body...),
	}
	if name := firstOf(root, r.Author...); name != "" {
		rec.Author = &domain.Author{Name: name}
	}
	if src := firstOf(root, r.Image...); src != "" {
		rec.Image = &domain.Image{URL: src}
	}
	return rec
}

// bodyOf returns the body of the first tier whose container is present.
func bodyOf(root *goquery.Selection, tiers ...BodyTier) string {
	for _, tier := range tiers {
		if body, ok := tier(root); ok {
			return body
		}
	}
	return ""
}

// Paragraphs wraps every paragraph inside sel in its own <p> tag. The tier
// applies whenever sel matches, even if it holds no paragraphs.
func Paragraphs(sel string) BodyTier {
	return func(root *goquery.Selection) (string, bool) {
		container := root.Find(sel)
		if container.Length() == 0 {
			return "", false
		}
		return wrapParagraphs(container.Find("p")), true
	}
}

// ParagraphsOrInner behaves like Paragraphs but falls back to the container's
// raw inner markup when it has no paragraphs.
func ParagraphsOrInner(sel string) BodyTier {
	return func(root *goquery.Selection) (string, bool) {
		container := root.Find(sel)
		if container.Length() == 0 {
			return "", false
		}
		if paras := container.Find("p"); paras.Length() > 0 {
			return wrapParagraphs(paras), true
		}
		inner, err := container.Html()
		if err != nil {
			return "", true
		}
		return inner, true
	}
}

func wrapParagraphs(paras *goquery.Selection) string {
	var b strings.Builder
	paras.Each(func(_ int, p *goquery.Selection) {
		inner, err := p.Html()
		if err != nil {
			return
		}
		b.WriteString("<p>")
		b.WriteString(inner)
		b.WriteString("</p>")
	})
	return b.String()
}

// Article extracts a detailed record from a single story page.
type Article struct {
	rules ArticleRules
}

// NewArticle builds an article extractor. Nil rules default to
// TheHinduArticle.
func NewArticle(rules ArticleRules) *Article {
	if rules == nil {
		rules = TheHinduArticle()
	}
	return &Article{rules: rules}
}

// Extract parses the story page. sourceURL is not used for parsing; it is
// surfaced as FallbackURL when no body could be extracted.
func (a *Article) Extract(html, sourceURL string) (domain.ArticleRecord, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return domain.ArticleRecord{}, err
	}
	rec := a.rules.Article(doc)
	if rec.ArticleBody == "" {
		rec.FallbackURL = strings.TrimSpace(sourceURL)
	}
	return rec, nil
}
