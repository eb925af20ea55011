package store

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"webvector/internal/helper"
	"webvector/internal/models"
)

// batchSize bounds the number of documents handed to a single write call.
const batchSize = 100

// collection is the slice of *chromem.Collection the store uses. Tests
// substitute a fake to observe batching.
type collection interface {
	AddDocuments(ctx context.Context, documents []chromem.Document, concurrency int) error
	QueryWithOptions(ctx context.Context, options chromem.QueryOptions) ([]chromem.Result, error)
	Delete(ctx context.Context, where, whereDocument map[string]string, ids ...string) error
	Count() int
}

// VectorStore persists embedding documents in a chromem-go collection and
// answers similarity queries against it. chromem collections rank by cosine
// similarity.
type VectorStore struct {
	db         *chromem.DB
	collection collection
}

// New opens or creates the persistent database under path and the named
// collection inside it. The embedder is used to embed query text; stored
// documents carry precomputed embeddings.
func New(path, collectionName string, embedder embeddings.Embedder) (*VectorStore, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %v", err)
	}
	return newWithDB(db, collectionName, embedder)
}

// NewInMemory is like New but keeps everything in memory. Used for dry runs
// and tests.
func NewInMemory(collectionName string, embedder embeddings.Embedder) (*VectorStore, error) {
	return newWithDB(chromem.NewDB(), collectionName, embedder)
}

func newWithDB(db *chromem.DB, collectionName string, embedder embeddings.Embedder) (*VectorStore, error) {
	c, err := db.GetOrCreateCollection(collectionName, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}
	return &VectorStore{db: db, collection: c}, nil
}

// embeddingFunc adapts a langchaingo embedder to chromem's query-time
// embedding callback.
func embeddingFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

// Prepare turns embedding buckets into storable documents: a fresh uuid per
// (content type, text) pair plus metadata carrying the content type, the
// text itself and a synthetic source tag for provenance.
func Prepare(embeddingsByType map[string]*models.EmbeddingBucket) ([]models.VectorDocument, error) {
	var docs []models.VectorDocument
	for _, contentType := range models.ContentTypes {
		bucket, ok := embeddingsByType[contentType]
		if !ok || bucket == nil {
			continue
		}
		for idx, text := range bucket.Texts {
			id, err := helper.GenerateUUID()
			if err != nil {
				return nil, err
			}
			docs = append(docs, models.VectorDocument{
				ID:        id,
				Embedding: bucket.Vectors[idx],
				Metadata: map[string]string{
					"content_type": contentType,
					"text":         text,
					"source":       fmt.Sprintf(models.SourceTagFormat, contentType, idx),
				},
				Document: text,
			})
		}
	}
	return docs, nil
}

// Store writes documents to the collection in batches of 100 and reports
// the total stored.
func (s *VectorStore) Store(ctx context.Context, docs []models.VectorDocument) error {
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := make([]chromem.Document, 0, end-start)
		for _, doc := range docs[start:end] {
			batch = append(batch, chromem.Document{
				ID:        doc.ID,
				Content:   doc.Document,
				Metadata:  doc.Metadata,
				Embedding: doc.Embedding,
			})
		}
		if err := s.collection.AddDocuments(ctx, batch, 1); err != nil {
			return fmt.Errorf("failed to add documents: %v", err)
		}
	}
	log.Info().Int("count", len(docs)).Msg("Stored vectors")
	return nil
}

// Include selects which fields Query copies into its results.
type Include struct {
	Documents bool
	Distances bool
	Metadatas bool
}

// IncludeAll requests documents, distances and metadatas, the default.
func IncludeAll() Include {
	return Include{Documents: true, Distances: true, Metadatas: true}
}

// QueryResult is one similarity hit. Distance is 1 minus cosine similarity,
// so smaller is closer.
type QueryResult struct {
	ID       string
	Document string
	Distance float32
	Metadata map[string]string
}

// Query embeds text with the configured embedder and returns the topK
// nearest persisted documents. topK is clamped to the collection size.
func (s *VectorStore) Query(ctx context.Context, text string, topK int, include Include) ([]QueryResult, error) {
	if count := s.collection.Count(); topK > count {
		topK = count
	}
	if topK <= 0 {
		return nil, nil
	}
	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryText: text,
		NResults:  topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	out := make([]QueryResult, len(results))
	for i, r := range results {
		out[i].ID = r.ID
		if include.Documents {
			out[i].Document = r.Content
		}
		if include.Distances {
			out[i].Distance = 1 - r.Similarity
		}
		if include.Metadatas {
			out[i].Metadata = r.Metadata
		}
	}
	return out, nil
}

// Delete removes documents by id when ids are given, otherwise by metadata
// filter. One of the two is required.
func (s *VectorStore) Delete(ctx context.Context, ids []string, filter map[string]string) error {
	switch {
	case len(ids) > 0:
		return s.collection.Delete(ctx, nil, nil, ids...)
	case len(filter) > 0:
		return s.collection.Delete(ctx, filter, nil)
	default:
		return fmt.Errorf("provide either ids or a metadata filter for deletion")
	}
}

// Count returns the number of persisted vectors.
func (s *VectorStore) Count() int {
	return s.collection.Count()
}
