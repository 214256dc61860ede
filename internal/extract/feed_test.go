package extract_test

import (
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
	<title>The Hindu - Business</title>
	<item>
		<title><![CDATA[ Budget 2025: key takeaways ]]></title>
		<link>https://www.thehindu.com/business/budget/article69000001.ece</link>
		<description><![CDATA[Highlights of the Union Budget]]></description>
		<pubDate>Wed, 01 Jan 2025 10:00:00 GMT</pubDate>
		<media:content url="https://th-i.thgim.com/budget.jpg" medium="image"/>
	</item>
	<item>
		<title></title>
		<link>https://www.thehindu.com/business/markets/</link>
		<pubDate>not a date</pubDate>
	</item>
</channel>
</rss>`

func TestFeed_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts rss items in document order", func(t *testing.T) {
		t.Parallel()

		records, err := extract.NewFeed(nil).Extract(rssFixture)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, domain.SummaryRecord{
			ID:    "69000001",
			Title: "Budget 2025: key takeaways",
			Date:  "Jan 1, 2025",
			Para:  "Highlights of the Union Budget",
			Img:   "https://th-i.thgim.com/budget.jpg",
			URL:   "https://www.thehindu.com/business/budget/article69000001.ece",
		}, records[0])
	})

	t.Run("keeps untitled items and raw malformed dates", func(t *testing.T) {
		t.Parallel()

		records, err := extract.NewFeed(nil).Extract(rssFixture)
		require.NoError(t, err)
		require.Len(t, records, 2)

		rec := records[1]
		assert.Equal(t, "", rec.Title)
		assert.Equal(t, "https://www.thehindu.com/business/markets/", rec.ID)
		assert.Equal(t, "not a date", rec.Date)
		assert.Equal(t, "", rec.Img)
		assert.Equal(t, "", rec.Author)
	})

	t.Run("drops untitled items when policy says so", func(t *testing.T) {
		t.Parallel()

		records, err := extract.NewFeed(nil, extract.WithTitlePolicy(extract.DropUntitled)).Extract(rssFixture)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "69000001", records[0].ID)
	})

	t.Run("strips literal cdata markers from escaped text", func(t *testing.T) {
		t.Parallel()

		xml := `<rss><channel><item>
	<title>&lt;![CDATA[Escaped title]]&gt;</title>
	<link>https://example.com/article7.ece</link>
	<content url="https://example.com/plain.jpg"/>
</item></channel></rss>`

		records, err := extract.NewFeed(nil).Extract(xml)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Escaped title", records[0].Title)
		assert.Equal(t, "7", records[0].ID)
		assert.Equal(t, "https://example.com/plain.jpg", records[0].Img)
		assert.Equal(t, "", records[0].Date)
	})

	t.Run("namespaced siblings do not shadow item fields", func(t *testing.T) {
		t.Parallel()

		xml := `<rss xmlns:media="http://search.yahoo.com/mrss/" xmlns:atom="http://www.w3.org/2005/Atom"><channel><item>
	<media:title>Photo caption</media:title>
	<atom:link href="https://www.thehindu.com/feeds/self.xml" rel="self"/>
	<media:description>Photo description</media:description>
	<title><![CDATA[Real title]]></title>
	<link>https://www.thehindu.com/news/article808.ece</link>
	<description>Real description</description>
	<pubDate>Wed, 01 Jan 2025 10:00:00 GMT</pubDate>
	<media:content url="https://th-i.thgim.com/photo.jpg"/>
</item></channel></rss>`

		records, err := extract.NewFeed(nil).Extract(xml)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.SummaryRecord{
			ID:    "808",
			Title: "Real title",
			Date:  "Jan 1, 2025",
			Para:  "Real description",
			Img:   "https://th-i.thgim.com/photo.jpg",
			URL:   "https://www.thehindu.com/news/article808.ece",
		}, records[0])
	})

	t.Run("item without unprefixed fields stays empty", func(t *testing.T) {
		t.Parallel()

		xml := `<rss xmlns:media="http://search.yahoo.com/mrss/"><channel><item>
	<media:title>Only a caption</media:title>
</item></channel></rss>`

		records, err := extract.NewFeed(nil).Extract(xml)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "", records[0].Title)
		assert.Equal(t, "", records[0].URL)
	})

	t.Run("id follows the article pattern or the link verbatim", func(t *testing.T) {
		t.Parallel()

		xml := `<rss><channel>
<item><title>a</title><link>https://www.thehindu.com/sport/article555.ece</link></item>
<item><title>b</title><link>https://www.thehindu.com/sport/cricket/</link></item>
</channel></rss>`

		records, err := extract.NewFeed(nil).Extract(xml)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, rec := range records {
			assert.Equal(t, extract.ArticleID(rec.URL), rec.ID)
		}
		assert.Equal(t, "555", records[0].ID)
		assert.Equal(t, "https://www.thehindu.com/sport/cricket/", records[1].ID)
	})

	t.Run("returns empty slice for feed without items", func(t *testing.T) {
		t.Parallel()

		records, err := extract.NewFeed(nil).Extract(`<rss><channel><title>empty</title></channel></rss>`)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("fails on documents without xml", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "this is not xml at all"} {
			_, err := extract.NewFeed(nil).Extract(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, extract.ErrUnparsable)
		}
	})

	t.Run("atom rules map entries", func(t *testing.T) {
		t.Parallel()

		xml := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Example</title>
	<entry>
		<title>Atom story</title>
		<link rel="self" href="https://example.com/self"/>
		<link href="https://example.com/news/article314.ece"/>
		<summary>Short summary</summary>
		<updated>2025-03-04T08:30:00Z</updated>
		<author><name>Jane Reporter</name></author>
	</entry>
</feed>`

		records, err := extract.NewFeed(extract.AtomFeed()).Extract(xml)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.SummaryRecord{
			ID:     "314",
			Title:  "Atom story",
			Date:   "Mar 4, 2025",
			Para:   "Short summary",
			Author: "Jane Reporter",
			URL:    "https://example.com/news/article314.ece",
		}, records[0])
	})
}

func TestFormatPubDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Wed, 01 Jan 2025 10:00:00 GMT", want: "Jan 1, 2025"},
		{raw: "Fri, 14 Feb 2025 18:45:00 +0530", want: "Feb 14, 2025"},
		{raw: "2025-06-30T23:10:00+05:30", want: "Jun 30, 2025"},
		{raw: "  ", want: ""},
		{raw: "not a date", want: "not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.FormatPubDate(tt.raw))
		})
	}
}
