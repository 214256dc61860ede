package extract

import (
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// ListingRules knows how one listing markup convention lays out its items.
type ListingRules interface {
	// Containers returns every item block in document order.
	Containers(doc *goquery.Document) *goquery.Selection
	// Summary resolves the fields of one item block.
	Summary(item *goquery.Selection) domain.SummaryRecord
}

// HTMLListingRules is a selector driven ListingRules.
type HTMLListingRules struct {
	Container string
	TitleLink string
	Image     string
	Author    string
	// ImageAttrs are tried in order; the first non-empty value is the candidate.
	ImageAttrs []string
	// CaptionAttrs are tried in order on the image element.
	CaptionAttrs []string
	// BoilerplateCaptions are captions that carry no information.
	BoilerplateCaptions []string
	// TrackingPixels disqualify any image url containing them.
	TrackingPixels []string
}

var _ ListingRules = (*HTMLListingRules)(nil)

// TheHinduListing returns the rules for The Hindu section listing pages.
func TheHinduListing() *HTMLListingRules {
	return &HTMLListingRules{
		Container:    ".element",
		TitleLink:    "h3.title a",
		Image:        "img",
		Author:       ".author-name",
		ImageAttrs:   []string{"data-src-template", "data-original", "src"},
		CaptionAttrs: []string{"title", "alt"},
		BoilerplateCaptions: []string{
			"Image used for representational purposes.",
			"For representative purposes.",
		},
		TrackingPixels: []string{"1x1_spacer.png"},
	}
}

// Containers implements ListingRules.
func (r *HTMLListingRules) Containers(doc *goquery.Document) *goquery.Selection {
	return doc.Find(r.Container)
}

// Summary implements ListingRules. Listing pages carry no reliable per-item
// date, so Date is always empty.
func (r *HTMLListingRules) Summary(item *goquery.Selection) domain.SummaryRecord {
	link := item.Find(r.TitleLink).First()
	href := ownAttr("href")(link)
	img := item.Find(r.Image).First()

	return domain.SummaryRecord{
		ID:     ArticleID(href),
		Title:  strings.TrimSpace(link.Text()),
		URL:    href,
		Img:    r.imageURL(img),
		Author: Text(r.Author)(item),
		Para:   r.caption(img),
	}
}

// imageURL picks the first non-empty candidate and disqualifies it when it is
// relative or a tracking pixel.
func (r *HTMLListingRules) imageURL(img *goquery.Selection) string {
	strategies := make([]Strategy, 0, len(r.ImageAttrs))
	for _, attr := range r.ImageAttrs {
		strategies = append(strategies, ownAttr(attr))
	}
	src := firstOf(img, strategies...)
	if !strings.HasPrefix(src, "http") {
		return ""
	}
	for _, pixel := range r.TrackingPixels {
		if strings.Contains(src, pixel) {
			return ""
		}
	}
	return src
}

func (r *HTMLListingRules) caption(img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	strategies := make([]Strategy, 0, len(r.CaptionAttrs))
	for _, attr := range r.CaptionAttrs {
		strategies = append(strategies, ownAttr(attr))
	}
	caption := firstOf(img, strategies...)
	for _, boilerplate := range r.BoilerplateCaptions {
		if caption == boilerplate {
			return ""
		}
	}
	return caption
}

// Listing extracts summary records from listing pages.
type Listing struct {
	rules  ListingRules
	policy TitlePolicy
}

// SummaryOption configures Listing and Feed extractors.
type SummaryOption func(*TitlePolicy)

// WithTitlePolicy overrides the pipeline's default untitled item handling.
func WithTitlePolicy(p TitlePolicy) SummaryOption {
	return func(policy *TitlePolicy) {
		*policy = p
	}
}

// NewListing builds a listing extractor. Nil rules default to TheHinduListing.
// Untitled items are dropped unless overridden.
func NewListing(rules ListingRules, opts ...SummaryOption) *Listing {
	if rules == nil {
		rules = TheHinduListing()
	}
	l := &Listing{rules: rules, policy: DropUntitled}
	for _, opt := range opts {
		opt(&l.policy)
	}
	return l
}

// Extract returns the items of the listing page in document order. A page
// without item blocks yields an empty slice.
func (l *Listing) Extract(html string) ([]domain.SummaryRecord, error) {
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	records := []domain.SummaryRecord{}
	l.rules.Containers(doc).Each(func(_ int, item *goquery.Selection) {
		rec := l.rules.Summary(item)
		if rec.Title == "" && l.policy == DropUntitled {
			return
		}
		records = append(records, rec)
	})
	return records, nil
}
