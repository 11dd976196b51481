package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const googleNewsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>"Tesla" - Google News</title>
  <item>
    <title>Tesla &amp; BYD race for EV crown - Reuters</title>
    <link>https://news.google.com/a</link>
    <pubDate>Tue, 02 Jan 2024 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Musk - the interview - Bloomberg</title>
    <link>https://news.google.com/b</link>
    <pubDate>Mon, 01 Jan 2024 21:30:00 GMT</pubDate>
  </item>
  <item>
    <title>Undated headline - CNBC</title>
    <link>https://news.google.com/c</link>
  </item>
</channel>
</rss>`

func TestGoogleNewsSearchDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query().Get("q")
		if q != "Tesla after:2024-01-01 before:2024-01-02" {
			t.Errorf("q = %q", q)
		}
		if r.URL.Query().Get("ceid") != "US:en" {
			t.Errorf("ceid = %q", r.URL.Query().Get("ceid"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, googleNewsRSS)
	}))
	defer srv.Close()

	g := NewGoogleNews(GoogleNewsConfig{BaseURL: srv.URL})
	g.client = srv.Client()

	articles, err := g.SearchDay(context.Background(), NewsQuery{Keyword: "Tesla"}, testWindow())
	if err != nil {
		t.Fatalf("SearchDay error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 dated articles, got %d", len(articles))
	}
	if articles[0].Title != "Tesla & BYD race for EV crown" || articles[0].Source != "Reuters" {
		t.Errorf("article[0] = %+v", articles[0])
	}
	if articles[0].Date != "2024-01-02" {
		t.Errorf("article[0].Date = %q", articles[0].Date)
	}
	if articles[1].Title != "Musk - the interview" || articles[1].Source != "Bloomberg" {
		t.Errorf("article[1] = %+v", articles[1])
	}
}

func TestGoogleNewsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewGoogleNews(GoogleNewsConfig{BaseURL: srv.URL})
	_, err := g.SearchDay(context.Background(), NewsQuery{Keyword: "Tesla"}, testWindow())
	if StatusCode(err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", err)
	}
}

func TestSplitPublisher(t *testing.T) {
	tests := []struct {
		in, headline, publisher string
	}{
		{"Tesla rallies - Reuters", "Tesla rallies", "Reuters"},
		{"A - B - CNBC", "A - B", "CNBC"},
		{"No publisher", "No publisher", ""},
		{" - Lead dash", " - Lead dash", ""},
	}
	for _, tt := range tests {
		h, p := splitPublisher(tt.in)
		if h != tt.headline || p != tt.publisher {
			t.Errorf("splitPublisher(%q) = (%q, %q), want (%q, %q)", tt.in, h, p, tt.headline, tt.publisher)
		}
	}
}

func TestCleanHTML(t *testing.T) {
	got := cleanHTML("<b>Tesla</b> &amp; <i>SpaceX</i>")
	if got != "Tesla & SpaceX" {
		t.Errorf("cleanHTML = %q", got)
	}
	if cleanHTML("") != "" {
		t.Error("cleanHTML(\"\") should be empty")
	}
	if !strings.Contains(cleanHTML("plain"), "plain") {
		t.Error("plain text should pass through")
	}
}
