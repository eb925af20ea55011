package report

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"webvector/internal/models"
)

// Markdown renders a human-readable summary of a crawl result.
func Markdown(result *models.CrawlResult) string {
	var b strings.Builder
	b.WriteString("# Crawl report\n\n")
	fmt.Fprintf(&b, "Pages scraped: %d\n\n", result.TotalPagesScraped)

	urls := make([]string, 0, len(result.ExtractedData))
	for u := range result.ExtractedData {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	if len(urls) > 0 {
		b.WriteString("| Page | Title | Paragraphs | Headings | Links | Images |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, u := range urls {
			page := result.ExtractedData[u]
			headings := 0
			for _, hs := range page.TextContent.Headings {
				headings += len(hs)
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d |\n",
				u, page.Metadata["title"],
				len(page.TextContent.Paragraphs), headings, len(page.Links), len(page.Images))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteHTML renders the markdown summary to HTML at path.
func WriteHTML(result *models.CrawlResult, path string) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(htmlrenderer.WithHardWraps()),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(result)), &buf); err != nil {
		return fmt.Errorf("failed to render report: %v", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
