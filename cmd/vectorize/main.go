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

	"webvector/internal/config"
	"webvector/internal/embedding"
	"webvector/internal/models"
	"webvector/internal/vectorizer"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	inFile := flag.String("in", "website.json", "Crawl output to vectorize")
	outFile := flag.String("out", "vectorized_website_data.json", "Path of the vectorized JSON output")
	query := flag.String("query", "", "Optional example similarity search to run after vectorizing")
	topK := flag.Int("topk", 5, "Number of results for the example query")
	flag.Parse()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	data, err := os.ReadFile(*inFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading crawl output")
	}
	var result models.CrawlResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Fatal().Err(err).Msg("Error decoding crawl output")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	ctx := context.Background()
	v := vectorizer.New(embedder)
	vectorized, err := v.Vectorize(ctx, &result)
	if err != nil {
		log.Fatal().Err(err).Msg("Error vectorizing website data")
	}

	out, err := json.MarshalIndent(vectorized, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Error encoding vectorized data")
	}
	if err := os.WriteFile(*outFile, out, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Error writing vectorized data")
	}
	log.Info().Str("file", *outFile).Msg("Vectorization complete")

	if *query != "" {
		positions, err := v.SimilaritySearch(ctx, *query, *topK)
		if err != nil {
			log.Fatal().Err(err).Msg("Error running similarity search")
		}
		fmt.Printf("Similarity search results for %q: %v\n", *query, positions)
	}
}
