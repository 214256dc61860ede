package domain

// Domain contains core models and interfaces.

// SummaryRecord is one item of a listing page or feed.
type SummaryRecord struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Para   string `json:"para"`
	Author string `json:"author"`
	Img    string `json:"img"`
	URL    string `json:"url"`
}

// ArticleRecord is the detailed content of a single story page.
// Author and Image are nil when the page carries no such markup.
type ArticleRecord struct {
	Headline      string  `json:"headline"`
	Description   string  `json:"description"`
	ArticleBody   string  `json:"articleBody"`
	DatePublished string  `json:"datePublished"`
	Author        *Author `json:"author,omitempty"`
	Image         *Image  `json:"image,omitempty"`
	FallbackURL   string  `json:"fallbackUrl,omitempty"`
}

// Author is the byline of an article.
type Author struct {
	Name string `json:"name"`
}

// Image is the lead image of an article.
type Image struct {
	URL string `json:"url"`
}

// Story pairs a summary with the article extracted from its url.
// Article is nil when the story page was not fetched or failed.
type Story struct {
	Summary SummaryRecord  `json:"summary"`
	Article *ArticleRecord `json:"article,omitempty"`
}

// Result is the success/failure envelope handed to transport layers.
// A failed result never carries data.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: &data}
}

// Fail builds a failed envelope with the given message.
func Fail[T any](msg string) Result[T] {
	return Result[T]{Success: false, Error: msg}
}
