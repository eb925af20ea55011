package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"webvector/internal/models"
)

// insertBatchSize matches the chromem backend's write batching.
const insertBatchSize = 100

// Document is one persisted embedding row.
type Document struct {
	bun.BaseModel `bun:"table:web_vectors,alias:wv"`
	ID            string    `bun:"id,pk"`
	ContentType   string    `bun:"content_type,notnull"`
	Source        string    `bun:"source,notnull"`
	Document      string    `bun:"document,notnull"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
}

func ConnectDB(dsn string) *sql.DB {
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Document)(nil)).IfNotExists().Exec(ctx)
	return err
}

// StoreDocuments inserts prepared vector documents in batches.
func StoreDocuments(ctx context.Context, db *bun.DB, docs []models.VectorDocument) error {
	for start := 0; start < len(docs); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		rows := make([]Document, 0, end-start)
		for _, d := range docs[start:end] {
			rows = append(rows, Document{
				ID:          d.ID,
				ContentType: d.Metadata["content_type"],
				Source:      d.Metadata["source"],
				Document:    d.Document,
				Embedding:   d.Embedding,
			})
		}
		if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SearchDocuments returns the limit nearest rows by the pgvector distance
// operator.
func SearchDocuments(ctx context.Context, db *bun.DB, queryEmbedding []float32, limit int) ([]Document, error) {
	var docs []Document
	err := db.NewSelect().
		Model(&docs).
		OrderExpr("embedding <-> ?", queryEmbedding).
		Limit(limit).
		Scan(ctx)
	return docs, err
}

// CountDocuments returns the number of persisted rows.
func CountDocuments(ctx context.Context, db *bun.DB) (int, error) {
	return db.NewSelect().Model((*Document)(nil)).Count(ctx)
}

// DeleteBySource removes rows matching the given source tag.
func DeleteBySource(ctx context.Context, db *bun.DB, source string) error {
	_, err := db.NewDelete().Model((*Document)(nil)).Where("source = ?", source).Exec(ctx)
	return err
}

// DropDocuments drops the table.
func DropDocuments(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx)
	return err
}
