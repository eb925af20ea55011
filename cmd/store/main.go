package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"webvector/internal/config"
	"webvector/internal/db"
	"webvector/internal/embedding"
	"webvector/internal/helper"
	"webvector/internal/models"
	"webvector/internal/store"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	inFile := flag.String("in", "vectorized_website_data.json", "Vectorized JSON to load and store")
	query := flag.String("query", "", "Query to run against the stored vectors")
	topK := flag.Int("topk", 3, "Number of query results")
	deleteSource := flag.String("delete-source", "", "Delete vectors whose source tag matches")
	dryRun := flag.Bool("dry-run", false, "Use an in-memory store, do not persist")
	flag.Parse()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg.Store).Msg("Loaded config")

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	ctx := context.Background()
	if cfg.Store.Backend == "postgres" {
		runPostgres(ctx, cfg, embedder, *inFile, *query, *topK, *deleteSource)
		return
	}
	runChromem(ctx, cfg, embedder, *inFile, *query, *topK, *deleteSource, *dryRun)
}

func loadVectorized(path string) *models.VectorizedData {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading vectorized data")
	}
	var vectorized models.VectorizedData
	if err := json.Unmarshal(data, &vectorized); err != nil {
		log.Fatal().Err(err).Msg("Error decoding vectorized data")
	}
	return &vectorized
}

func runChromem(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, inFile, query string, topK int, deleteSource string, dryRun bool) {
	var (
		s   *store.VectorStore
		err error
	)
	if dryRun {
		s, err = store.NewInMemory(cfg.Store.Collection, embedder)
	} else {
		if err := helper.CreateFolder(cfg.Store.Path); err != nil {
			log.Fatal().Err(err).Msg("Error creating store directory")
		}
		s, err = store.New(cfg.Store.Path, cfg.Store.Collection, embedder)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector store")
	}

	if inFile != "" {
		vectorized := loadVectorized(inFile)
		docs, err := store.Prepare(vectorized.Embeddings)
		if err != nil {
			log.Fatal().Err(err).Msg("Error preparing vector documents")
		}
		if err := s.Store(ctx, docs); err != nil {
			log.Fatal().Err(err).Msg("Error storing vectors")
		}
	}

	if deleteSource != "" {
		if err := s.Delete(ctx, nil, map[string]string{"source": deleteSource}); err != nil {
			log.Fatal().Err(err).Msg("Error deleting vectors")
		}
	}

	if query != "" {
		results, err := s.Query(ctx, query, topK, store.IncludeAll())
		if err != nil {
			log.Fatal().Err(err).Msg("Error querying vectors")
		}
		fmt.Println("Query Results:")
		for i, r := range results {
			fmt.Printf("%d. Distance: %f\n", i+1, r.Distance)
			fmt.Printf("   Content Type: %s\n", r.Metadata["content_type"])
			fmt.Printf("   Text: %s\n\n", r.Document)
		}
	}

	fmt.Printf("Total vectors stored: %d\n", s.Count())
}

func runPostgres(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, inFile, query string, topK int, deleteSource string) {
	sqldb := db.ConnectDB(cfg.Store.PostgresDSN)
	bunDB := db.NewDB(sqldb, cfg.Store.Debug)
	defer bunDB.Close()

	if err := db.InitDB(ctx, bunDB); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}

	if inFile != "" {
		vectorized := loadVectorized(inFile)
		docs, err := store.Prepare(vectorized.Embeddings)
		if err != nil {
			log.Fatal().Err(err).Msg("Error preparing vector documents")
		}
		if err := db.StoreDocuments(ctx, bunDB, docs); err != nil {
			log.Fatal().Err(err).Msg("Error storing vectors")
		}
	}

	if deleteSource != "" {
		if err := db.DeleteBySource(ctx, bunDB, deleteSource); err != nil {
			log.Fatal().Err(err).Msg("Error deleting vectors")
		}
	}

	if query != "" {
		queryEmbedding, err := embedder.EmbedQuery(ctx, query)
		if err != nil {
			log.Fatal().Err(err).Msg("Error embedding query")
		}
		rows, err := db.SearchDocuments(ctx, bunDB, queryEmbedding, topK)
		if err != nil {
			log.Fatal().Err(err).Msg("Error querying vectors")
		}
		fmt.Println("Query Results:")
		for i, row := range rows {
			fmt.Printf("%d. Content Type: %s\n", i+1, row.ContentType)
			fmt.Printf("   Text: %s\n\n", row.Document)
		}
	}

	count, err := db.CountDocuments(ctx, bunDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error counting vectors")
	}
	fmt.Printf("Total vectors stored: %d\n", count)
}
