package models

// Image is a single <img> extracted from a page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// TextContent groups the readable text of one page.
type TextContent struct {
	Paragraphs []string            `json:"paragraphs"`
	Headings   map[string][]string `json:"headings"`
}

// PageRecord holds everything extracted from one successfully fetched page.
// It is created once by the crawler and never mutated afterwards.
type PageRecord struct {
	URL         string            `json:"url"`
	Metadata    map[string]string `json:"metadata"`
	TextContent TextContent       `json:"text_content"`
	Links       []string          `json:"links"`
	Images      []Image           `json:"images"`
}

// CrawlResult is the output of one crawl invocation. The JSON field names
// define the website.json artifact consumed by the vectorizer.
type CrawlResult struct {
	TotalPagesScraped int                    `json:"total_pages_scraped"`
	ExtractedData     map[string]*PageRecord `json:"extracted_data"`
}

// VectorizableContent maps a content-type tag to the raw texts pooled
// across every crawled page.
type VectorizableContent map[string][]string

// EmbeddingBucket pairs cleaned texts with their vectors for one content
// type. Texts and Vectors are parallel-indexed.
type EmbeddingBucket struct {
	Texts     []string    `json:"texts"`
	Vectors   [][]float32 `json:"vectors"`
	Dimension int         `json:"dimension"`
}

// VectorizedData is the vectorizer's serialized output artifact.
type VectorizedData struct {
	VectorizableContent VectorizableContent         `json:"vectorizable_content"`
	Embeddings          map[string]*EmbeddingBucket `json:"embeddings"`
}

// VectorDocument is one embedding prepared for durable storage, carrying
// provenance metadata alongside the vector and the text itself.
type VectorDocument struct {
	ID        string
	Embedding []float32
	Metadata  map[string]string
	Document  string
}
