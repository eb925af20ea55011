package models

const (
	ContentTypeMetadata   = "metadata"
	ContentTypeParagraphs = "paragraphs"
	ContentTypeHeadings   = "headings"
	ContentTypeLinks      = "links"
)

// ContentTypes fixes the bucket iteration order used when concatenating
// vectors for indexing and when preparing documents for storage.
var ContentTypes = []string{
	ContentTypeMetadata,
	ContentTypeParagraphs,
	ContentTypeHeadings,
	ContentTypeLinks,
}

// HeadingLevels is the pooling order for heading text.
var HeadingLevels = []string{"h1", "h2", "h3"}

// BrowserUserAgent is sent with every crawl request.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// SourceTagFormat builds the synthetic provenance tag stored with each
// vector: web_scrape_{content_type}_{position}.
const SourceTagFormat = "web_scrape_%s_%d"
