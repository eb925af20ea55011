package crawler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"webvector/internal/models"
)

func TestIsValidLink(t *testing.T) {
	visited := map[string]bool{"https://example.com/seen": true}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"same domain http", "http://example.com/page", true},
		{"same domain https", "https://example.com/page", true},
		{"different domain", "https://other.com/page", false},
		{"subdomain is a different host", "https://www.example.com/page", false},
		{"different port", "https://example.com:8080/page", false},
		{"mailto scheme", "mailto:someone@example.com", false},
		{"ftp scheme", "ftp://example.com/file", false},
		{"already visited", "https://example.com/seen", false},
		{"malformed url", "http://%zz/page", false},
		{"relative url", "/page", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidLink(tt.url, "example.com", visited); got != tt.want {
				t.Errorf("IsValidLink(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// testSite serves a small interlinked site and records which paths were hit.
type testSite struct {
	mu        sync.Mutex
	hits      map[string]int
	userAgent string
	pages     map[string]string
}

func newTestSite(pages map[string]string) (*testSite, *httptest.Server) {
	site := &testSite{hits: make(map[string]int), pages: pages}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.hits[r.URL.Path]++
		site.userAgent = r.Header.Get("User-Agent")
		site.mu.Unlock()

		body, ok := site.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	return site, srv
}

func (s *testSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func TestFetchAndExtract(t *testing.T) {
	site, srv := newTestSite(map[string]string{
		"/": `<html><head>
			<title> Welcome Home </title>
			<meta name="description" content="A tiny test site">
			<meta property="og:type" content="website">
			<meta name="empty" content="">
			<script>var hidden = "script text should not appear";</script>
			<style>.hidden{color:red}</style>
			</head><body>
			<h1>Main Heading</h1>
			<h2>Sub Heading</h2>
			<p>First paragraph with enough text.</p>
			<p>   </p>
			<p>Second paragraph.</p>
			<a href="/about">About</a>
			<a href="mailto:someone@example.com">Mail</a>
			<a href="">empty</a>
			<img src="/logo.png" alt="logo">
			</body></html>`,
	})
	defer srv.Close()

	c := New(2, 10, 0)
	record := c.FetchAndExtract(srv.URL + "/")
	if record == nil {
		t.Fatal("expected a page record")
	}

	if record.Metadata["title"] != "Welcome Home" {
		t.Errorf("title = %q", record.Metadata["title"])
	}
	if record.Metadata["description"] != "A tiny test site" {
		t.Errorf("description = %q", record.Metadata["description"])
	}
	if record.Metadata["og:type"] != "website" {
		t.Errorf("og:type = %q", record.Metadata["og:type"])
	}
	if _, ok := record.Metadata["empty"]; ok {
		t.Error("meta tags without content must be skipped")
	}

	if len(record.TextContent.Paragraphs) != 2 {
		t.Fatalf("paragraphs = %v", record.TextContent.Paragraphs)
	}
	for _, p := range record.TextContent.Paragraphs {
		if strings.Contains(p, "script text") {
			t.Errorf("script content leaked into paragraph %q", p)
		}
	}

	if got := record.TextContent.Headings["h1"]; len(got) != 1 || got[0] != "Main Heading" {
		t.Errorf("h1 = %v", got)
	}
	if got := record.TextContent.Headings["h2"]; len(got) != 1 || got[0] != "Sub Heading" {
		t.Errorf("h2 = %v", got)
	}
	if got := record.TextContent.Headings["h3"]; len(got) != 0 {
		t.Errorf("h3 = %v", got)
	}

	wantLinks := []string{srv.URL + "/about", "mailto:someone@example.com"}
	if len(record.Links) != len(wantLinks) {
		t.Fatalf("links = %v", record.Links)
	}
	for i, want := range wantLinks {
		if record.Links[i] != want {
			t.Errorf("links[%d] = %q, want %q", i, record.Links[i], want)
		}
	}

	if len(record.Images) != 1 || record.Images[0].Src != srv.URL+"/logo.png" || record.Images[0].Alt != "logo" {
		t.Errorf("images = %v", record.Images)
	}

	if site.userAgent != models.BrowserUserAgent {
		t.Errorf("user agent = %q", site.userAgent)
	}
}

func TestFetchAndExtractSkipsNon2xx(t *testing.T) {
	_, srv := newTestSite(map[string]string{})
	defer srv.Close()

	c := New(2, 10, 0)
	if record := c.FetchAndExtract(srv.URL + "/missing"); record != nil {
		t.Errorf("expected nil record for 404, got %+v", record)
	}
}

func TestCrawlDepthZero(t *testing.T) {
	site, srv := newTestSite(map[string]string{
		"/":      `<html><body><a href="/about">About</a><a href="/contact">Contact</a></body></html>`,
		"/about": `<html><body><p>about</p></body></html>`,
	})
	defer srv.Close()

	c := New(0, 10, 0)
	result, err := c.Crawl(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalPagesScraped != 1 {
		t.Fatalf("TotalPagesScraped = %d", result.TotalPagesScraped)
	}
	record, ok := result.ExtractedData[srv.URL+"/"]
	if !ok {
		t.Fatalf("result not keyed by start URL: %v", result.ExtractedData)
	}
	if len(record.Links) != 2 {
		t.Errorf("links = %v", record.Links)
	}
	if site.hitCount("/about") != 0 {
		t.Error("links must not be traversed at max depth 0")
	}
}

func TestCrawlPageCap(t *testing.T) {
	_, srv := newTestSite(map[string]string{
		"/":   `<html><body><a href="/p1">1</a></body></html>`,
		"/p1": `<html><body><a href="/p2">2</a></body></html>`,
		"/p2": `<html><body><a href="/p3">3</a></body></html>`,
		"/p3": `<html><body><p>deep</p></body></html>`,
	})
	defer srv.Close()

	c := New(10, 2, 0)
	result, err := c.Crawl(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalPagesScraped > 2 {
		t.Errorf("page cap exceeded: %d pages", result.TotalPagesScraped)
	}
}

func TestCrawlStaysOnDomain(t *testing.T) {
	other, otherSrv := newTestSite(map[string]string{
		"/": `<html><body><p>elsewhere</p></body></html>`,
	})
	defer otherSrv.Close()

	_, srv := newTestSite(map[string]string{
		"/": `<html><body><a href="` + otherSrv.URL + `/">external</a></body></html>`,
	})
	defer srv.Close()

	c := New(2, 10, 0)
	result, err := c.Crawl(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}

	if other.hitCount("/") != 0 {
		t.Error("crawler must not follow links to other domains")
	}
	// the external link is still recorded on the page itself
	record := result.ExtractedData[srv.URL+"/"]
	if record == nil || len(record.Links) != 1 {
		t.Fatalf("record = %+v", record)
	}
}

func TestCrawlContinuesPastFailedPages(t *testing.T) {
	_, srv := newTestSite(map[string]string{
		"/":      `<html><body><a href="/missing">gone</a><a href="/about">About</a></body></html>`,
		"/about": `<html><body><p>about</p></body></html>`,
	})
	defer srv.Close()

	c := New(2, 10, 0)
	result, err := c.Crawl(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}

	if result.TotalPagesScraped != 2 {
		t.Fatalf("TotalPagesScraped = %d, want 2", result.TotalPagesScraped)
	}
	if _, ok := result.ExtractedData[srv.URL+"/missing"]; ok {
		t.Error("failed pages must not be recorded")
	}
	if _, ok := result.ExtractedData[srv.URL+"/about"]; !ok {
		t.Error("crawl must continue past a failed page")
	}
}

func TestCrawlFreshStatePerInvocation(t *testing.T) {
	_, srv := newTestSite(map[string]string{
		"/": `<html><body><p>home</p></body></html>`,
	})
	defer srv.Close()

	c := New(2, 10, 0)
	first, err := c.Crawl(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Crawl(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalPagesScraped != 1 || second.TotalPagesScraped != 1 {
		t.Errorf("visited state leaked between crawls: %d then %d",
			first.TotalPagesScraped, second.TotalPagesScraped)
	}
}
