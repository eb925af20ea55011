package crawler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"webvector/internal/models"
)

// Crawler walks same-domain links from a start URL, depth first in document
// order, bounded by a maximum depth and a page cap. A fixed delay is slept
// before every link visit to bound the outbound request rate.
type Crawler struct {
	MaxDepth  int
	MaxPages  int
	Delay     time.Duration
	UserAgent string
	Client    *http.Client
}

func New(maxDepth, maxPages int, delay time.Duration) *Crawler {
	return &Crawler{
		MaxDepth:  maxDepth,
		MaxPages:  maxPages,
		Delay:     delay,
		UserAgent: models.BrowserUserAgent,
		Client:    http.DefaultClient,
	}
}

// crawlState is the per-invocation traversal state. Every Crawl call creates
// a fresh one, so concurrent crawls never share a visited set.
type crawlState struct {
	baseDomain string
	visited    map[string]bool
	extracted  map[string]*models.PageRecord
}

// Crawl visits startURL and every reachable same-domain link within the
// configured bounds, returning one PageRecord per successfully fetched page.
func (c *Crawler) Crawl(startURL string) (*models.CrawlResult, error) {
	parsed, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start url %q: %v", startURL, err)
	}
	state := &crawlState{
		baseDomain: parsed.Host,
		visited:    make(map[string]bool),
		extracted:  make(map[string]*models.PageRecord),
	}
	c.visit(state, startURL, 0)
	return &models.CrawlResult{
		TotalPagesScraped: len(state.extracted),
		ExtractedData:     state.extracted,
	}, nil
}

func (c *Crawler) visit(state *crawlState, pageURL string, depth int) {
	if depth > c.MaxDepth || len(state.visited) >= c.MaxPages {
		return
	}
	if state.visited[pageURL] {
		return
	}
	// mark before fetching so link cycles cannot re-enter
	state.visited[pageURL] = true

	record := c.FetchAndExtract(pageURL)
	if record == nil {
		return
	}
	state.extracted[pageURL] = record

	for _, link := range record.Links {
		if !IsValidLink(link, state.baseDomain, state.visited) {
			continue
		}
		time.Sleep(c.Delay)
		c.visit(state, link, depth+1)
	}
}

// IsValidLink reports whether rawURL should be followed: http or https
// scheme, host exactly equal to baseDomain, and not yet visited. URLs that
// fail to parse are not followed rather than surfaced as errors.
func IsValidLink(rawURL, baseDomain string, visited map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host == baseDomain && !visited[rawURL]
}

// FetchAndExtract issues one GET for pageURL and extracts its content.
// Transport failures and non-2xx responses are logged and yield nil so the
// crawl can continue past a bad page.
func (c *Crawler) FetchAndExtract(pageURL string) *models.PageRecord {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("Error building request")
		return nil
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("Error fetching page")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("url", pageURL).Msg("Skipping page")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("url", pageURL).Msg("Error parsing page")
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	return extractPage(doc, base)
}

func extractPage(doc *goquery.Document, base *url.URL) *models.PageRecord {
	record := &models.PageRecord{
		URL:      base.String(),
		Metadata: make(map[string]string),
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", s.AttrOr("property", "unnamed"))
		content := s.AttrOr("content", "")
		if name != "" && content != "" {
			record.Metadata[name] = content
		}
	})

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No Title"
	}
	record.Metadata["title"] = title

	// script and style text must not leak into paragraph extraction
	doc.Find("script, style").Remove()

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			record.TextContent.Paragraphs = append(record.TextContent.Paragraphs, text)
		}
	})

	record.TextContent.Headings = make(map[string][]string)
	for _, level := range models.HeadingLevels {
		headings := []string{}
		doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			headings = append(headings, strings.TrimSpace(s.Text()))
		})
		record.TextContent.Headings[level] = headings
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" {
			return
		}
		if abs := resolveURL(base, href); abs != "" {
			record.Links = append(record.Links, abs)
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		record.Images = append(record.Images, models.Image{
			Src: resolveURL(base, s.AttrOr("src", "")),
			Alt: s.AttrOr("alt", ""),
		})
	})

	return record
}

// resolveURL makes ref absolute against the fetched page's URL.
func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
