package main

import (
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"webvector/internal/config"
	"webvector/internal/crawler"
	"webvector/internal/helper"
	"webvector/internal/report"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	startURL := flag.String("url", "", "URL to start crawling from (overrides config)")
	outFile := flag.String("out", "", "Path of the JSON output file (overrides config)")
	withReport := flag.Bool("report", false, "Also write an HTML crawl report next to the output")
	printResult := flag.Bool("print", false, "Pretty print the crawl result to stdout")
	flag.Parse()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg.Crawler).Msg("Loaded config")

	if *startURL == "" {
		*startURL = cfg.Crawler.StartURL
	}
	if *outFile == "" {
		*outFile = cfg.Crawler.OutputFile
	}

	delay := time.Duration(cfg.Crawler.DelaySeconds * float64(time.Second))
	c := crawler.New(cfg.Crawler.MaxDepth, cfg.Crawler.MaxPages, delay)
	if cfg.Crawler.UserAgent != "" {
		c.UserAgent = cfg.Crawler.UserAgent
	}

	result, err := c.Crawl(*startURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error crawling website")
	}
	if *printResult {
		helper.PrettyPrint(result)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Error encoding crawl result")
	}
	if err := os.WriteFile(*outFile, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("Error writing crawl result")
	}
	log.Info().Int("pages", result.TotalPagesScraped).Str("file", *outFile).Msg("Crawl complete")

	if *withReport {
		reportPath := strings.TrimSuffix(*outFile, ".json") + ".html"
		if err := report.WriteHTML(result, reportPath); err != nil {
			log.Fatal().Err(err).Msg("Error writing crawl report")
		}
		log.Info().Str("file", reportPath).Msg("Report written")
	}
}
