package types

// RenderedField is the content platform's {rendered: "..."} wrapper.
type RenderedField struct {
	Rendered string `json:"rendered"`
}

// BlogPost mirrors the content platform's post shape, including the
// optional embedded media and author records.
type BlogPost struct {
	ID            int64         `json:"id"`
	Title         RenderedField `json:"title"`
	Content       RenderedField `json:"content"`
	Excerpt       RenderedField `json:"excerpt"`
	Slug          string        `json:"slug"`
	Date          string        `json:"date"`
	Modified      string        `json:"modified"`
	FeaturedMedia int64         `json:"featured_media"`
	Author        int64         `json:"author"`
	Categories    []int64       `json:"categories"`
	Tags          []int64       `json:"tags"`
	Embedded      *BlogEmbedded `json:"_embedded,omitempty"`
}

// BlogEmbedded carries the _embed expansions the storefront renders.
type BlogEmbedded struct {
	FeaturedMedia []BlogMedia  `json:"wp:featuredmedia,omitempty"`
	Author        []BlogAuthor `json:"author,omitempty"`
}

// BlogMedia is an embedded featured image.
type BlogMedia struct {
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

// BlogAuthor is an embedded author record.
type BlogAuthor struct {
	Name       string            `json:"name"`
	AvatarURLs map[string]string `json:"avatar_urls"`
}

// BlogCategory is a content platform category.
type BlogCategory struct {
	ID          int64  `json:"id"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
}

// BlogTag is a content platform tag.
type BlogTag struct {
	ID          int64  `json:"id"`
	Count       int    `json:"count"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
}
