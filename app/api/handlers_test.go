package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedscope/feedscope/app/analyzer"
	"github.com/feedscope/feedscope/app/database"
	"github.com/feedscope/feedscope/app/feed"
	"github.com/feedscope/feedscope/app/fetcher"
	"github.com/feedscope/feedscope/app/watchlist"
)

const testFeedXML = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test</description>
    <item>
      <title>Post</title>
      <link>https://example.com/1</link>
      <description>Body text</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func setupTestServer(t *testing.T, apiAccessKey string) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	watch := watchlist.New(filepath.Join(t.TempDir(), "absent.yml"))
	if err := watch.Run(); err != nil {
		t.Fatalf("Failed to load watchlist: %v", err)
	}

	handler := NewHandler(
		fetcher.New("feedscope-test/1.0", 5*time.Second),
		analyzer.New(feed.NewParser()),
		database.NewAnalysisRepository(db),
		watch,
	)

	return NewServer(handler, apiAccessKey)
}

func postAnalyze(t *testing.T, server *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestAnalyzeFeedEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeedXML))
	}))
	defer backend.Close()

	server := setupTestServer(t, "")

	w := postAnalyze(t, server, `{"url":"`+backend.URL+`/feed.xml"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var report analyzer.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if !report.IsValid {
		t.Errorf("Expected valid report, got error: %s", report.Error)
	}
	if report.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got '%s'", report.Title)
	}
	if report.FeedType != "RSS 2.0" {
		t.Errorf("Expected feed type 'RSS 2.0', got '%s'", report.FeedType)
	}
}

func TestAnalyzeFeedBadRequests(t *testing.T) {
	server := setupTestServer(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"url":`},
		{"missing url", `{}`},
		{"relative url", `{"url":"/feed.xml"}`},
		{"no host", `{"url":"file:///etc/passwd"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postAnalyze(t, server, tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestAnalyzeFeedUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	server := setupTestServer(t, "")

	w := postAnalyze(t, server, `{"url":"`+backend.URL+`/feed.xml"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Fetch failures must still return 200, got %d", w.Code)
	}

	var report analyzer.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.IsValid {
		t.Error("Expected invalid report for unreachable feed")
	}
	if report.FeedType != "Unknown" {
		t.Errorf("Expected feed type 'Unknown', got '%s'", report.FeedType)
	}
	if report.Error == "" {
		t.Error("Expected error message")
	}
}

func TestAnalyzeFeedNotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	server := setupTestServer(t, "")

	w := postAnalyze(t, server, `{"url":"`+backend.URL+`/feed.xml"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var report analyzer.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.IsValid {
		t.Error("Expected invalid report for 404 response")
	}
	if !strings.Contains(report.Error, "404") {
		t.Errorf("Expected 404 in error message, got '%s'", report.Error)
	}
}

func TestGetHealth(t *testing.T) {
	server := setupTestServer(t, "")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if _, ok := health["timestamp"]; !ok {
		t.Error("Expected timestamp in health response")
	}
	if health["watchlist_feeds"] != float64(0) {
		t.Errorf("Expected 0 watchlist feeds, got %v", health["watchlist_feeds"])
	}
}

func TestGetStatsAfterAnalysis(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeedXML))
	}))
	defer backend.Close()

	server := setupTestServer(t, "")

	if w := postAnalyze(t, server, `{"url":"`+backend.URL+`/feed.xml"}`); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats["total_analyses"] != float64(1) {
		t.Errorf("Expected 1 total analysis, got %v", stats["total_analyses"])
	}
	if stats["valid_feeds"] != float64(1) {
		t.Errorf("Expected 1 valid feed, got %v", stats["valid_feeds"])
	}
}

func TestAPIEndpointsDisabledWithoutKey(t *testing.T) {
	server := setupTestServer(t, "")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/api/analyses", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 when API is disabled, got %d", w.Code)
	}
}

func TestAPIAuthentication(t *testing.T) {
	server := setupTestServer(t, "secret-key")

	tests := []struct {
		name     string
		header   string
		value    string
		expected int
	}{
		{"no key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "wrong", http.StatusUnauthorized},
		{"valid key", "X-API-Key", "secret-key", http.StatusOK},
		{"bearer token", "Authorization", "Bearer secret-key", http.StatusOK},
		{"wrong bearer", "Authorization", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/analyses", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestAPIListAnalyses(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeedXML))
	}))
	defer backend.Close()

	server := setupTestServer(t, "secret-key")

	if w := postAnalyze(t, server, `{"url":"`+backend.URL+`/feed.xml"}`); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/analyses", nil)
	req.Header.Set("X-API-Key", "secret-key")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["total"] != float64(1) {
		t.Errorf("Expected 1 analysis, got %v", response["total"])
	}

	reqBadLimit := httptest.NewRequest("GET", "/api/analyses?limit=0", nil)
	reqBadLimit.Header.Set("X-API-Key", "secret-key")
	w = httptest.NewRecorder()
	server.ServeHTTP(w, reqBadLimit)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for out-of-range limit, got %d", w.Code)
	}
}
