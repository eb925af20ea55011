package vectorizer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"webvector/internal/models"
)

// Vectorizer turns crawl output into per-content-type embedding buckets and
// answers similarity queries against a flat index built over all of them.
// The index is rebuilt from scratch by every Vectorize call.
type Vectorizer struct {
	embedder embeddings.Embedder
	index    *FlatIndex
}

func New(embedder embeddings.Embedder) *Vectorizer {
	return &Vectorizer{embedder: embedder}
}

// Flatten pools text from every page into per-content-type buckets: metadata
// entries as "key: value" lines, paragraphs, all heading levels together,
// and link URLs. Go maps carry no insertion order, so pages are walked in
// sorted URL order (and metadata keys sorted) rather than crawl order; the
// same crawl result always flattens to the same content.
func Flatten(result *models.CrawlResult) models.VectorizableContent {
	content := models.VectorizableContent{
		models.ContentTypeMetadata:   {},
		models.ContentTypeParagraphs: {},
		models.ContentTypeHeadings:   {},
		models.ContentTypeLinks:      {},
	}
	if result == nil {
		return content
	}

	urls := make([]string, 0, len(result.ExtractedData))
	for u := range result.ExtractedData {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, u := range urls {
		page := result.ExtractedData[u]

		keys := make([]string, 0, len(page.Metadata))
		for k := range page.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			content[models.ContentTypeMetadata] = append(content[models.ContentTypeMetadata],
				fmt.Sprintf("%s: %s", k, page.Metadata[k]))
		}

		content[models.ContentTypeParagraphs] = append(content[models.ContentTypeParagraphs],
			page.TextContent.Paragraphs...)

		for _, level := range models.HeadingLevels {
			content[models.ContentTypeHeadings] = append(content[models.ContentTypeHeadings],
				page.TextContent.Headings[level]...)
		}

		content[models.ContentTypeLinks] = append(content[models.ContentTypeLinks], page.Links...)
	}
	return content
}

// Clean normalizes texts for embedding. Entries of 10 characters or fewer
// are dropped; survivors are lower-cased with whitespace runs collapsed to
// single spaces.
func Clean(texts []string) []string {
	cleaned := make([]string, 0, len(texts))
	for _, t := range texts {
		if utf8.RuneCountInString(t) <= 10 {
			continue
		}
		cleaned = append(cleaned, strings.Join(strings.Fields(strings.ToLower(t)), " "))
	}
	return cleaned
}

// Embed cleans texts and obtains one fixed-dimension vector per survivor,
// in order. A nil bucket (and nil error) is returned when nothing survives
// cleaning, so empty content types are simply omitted.
func (v *Vectorizer) Embed(ctx context.Context, texts []string) (*models.EmbeddingBucket, error) {
	cleaned := Clean(texts)
	if len(cleaned) == 0 {
		return nil, nil
	}
	vectors, err := v.embedder.EmbedDocuments(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %v", err)
	}
	if len(vectors) != len(cleaned) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(cleaned))
	}
	return &models.EmbeddingBucket{
		Texts:     cleaned,
		Vectors:   vectors,
		Dimension: len(vectors[0]),
	}, nil
}

// BuildIndex concatenates every bucket's vectors in content-type order and
// builds the flat L2 index over the result. It fails when no bucket holds
// any vectors or when buckets disagree in dimension.
func (v *Vectorizer) BuildIndex(embeddingsByType map[string]*models.EmbeddingBucket) error {
	var all [][]float32
	for _, contentType := range models.ContentTypes {
		bucket, ok := embeddingsByType[contentType]
		if !ok || bucket == nil {
			continue
		}
		all = append(all, bucket.Vectors...)
	}
	index, err := NewFlatIndex(all)
	if err != nil {
		return err
	}
	v.index = index
	return nil
}

// SimilaritySearch embeds query with the same model and returns the topK
// nearest positions in the concatenated vector array, nearest first. The
// positions are opaque: callers that need the original text must keep their
// own mapping from flat position back to (content type, text).
func (v *Vectorizer) SimilaritySearch(ctx context.Context, query string, topK int) ([]int, error) {
	if v.index == nil {
		return nil, fmt.Errorf("index not built, vectorize content first")
	}
	queryVector, err := v.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %v", err)
	}
	return v.index.Search(queryVector, topK)
}

// Vectorize runs the full flatten, clean, embed pipeline over a crawl result
// and builds the similarity index over everything that was embedded.
func (v *Vectorizer) Vectorize(ctx context.Context, result *models.CrawlResult) (*models.VectorizedData, error) {
	content := Flatten(result)

	embeddingsByType := make(map[string]*models.EmbeddingBucket)
	for _, contentType := range models.ContentTypes {
		bucket, err := v.Embed(ctx, content[contentType])
		if err != nil {
			return nil, err
		}
		if bucket == nil {
			log.Debug().Str("content_type", contentType).Msg("No texts survived cleaning")
			continue
		}
		embeddingsByType[contentType] = bucket
	}

	if err := v.BuildIndex(embeddingsByType); err != nil {
		return nil, err
	}

	return &models.VectorizedData{
		VectorizableContent: content,
		Embeddings:          embeddingsByType,
	}, nil
}
