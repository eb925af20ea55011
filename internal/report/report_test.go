package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webvector/internal/models"
)

func sampleResult() *models.CrawlResult {
	return &models.CrawlResult{
		TotalPagesScraped: 1,
		ExtractedData: map[string]*models.PageRecord{
			"https://site.test/": {
				URL:      "https://site.test/",
				Metadata: map[string]string{"title": "Home"},
				TextContent: models.TextContent{
					Paragraphs: []string{"one", "two"},
					Headings:   map[string][]string{"h1": {"Welcome"}},
				},
				Links:  []string{"https://site.test/about"},
				Images: []models.Image{{Src: "https://site.test/logo.png"}},
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())
	for _, want := range []string{
		"# Crawl report",
		"Pages scraped: 1",
		"https://site.test/",
		"Home",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteHTML(sampleResult(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	html := string(data)
	if !strings.Contains(html, "<h1") {
		t.Errorf("report missing heading: %s", html)
	}
	if !strings.Contains(html, "<table") {
		t.Errorf("report missing page table: %s", html)
	}
}
