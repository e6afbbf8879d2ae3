package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_RejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Strategy: "nope", APIKey: "k"}); err == nil {
		t.Fatal("invalid strategy accepted")
	}
	if _, err := New(Config{}); err == nil {
		t.Fatal("missing api key accepted")
	}
}

func TestMatch_EndToEndAgainstStubSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/search" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Sofa A", "url": "https://shop.example/a", "confidence_score": 0.8},
				{"title": "Sofa B", "url": "https://shop.example/b", "confidence_score": 0.4},
			},
		})
	}))
	defer srv.Close()

	a, err := New(Config{
		BaseURL:       srv.URL,
		APIKey:        "test-key",
		Strategy:      "search_only",
		SearchTimeout: 5 * time.Second,
		RetryInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	res, err := a.Match(context.Background(), "gray sectional sofa", 10)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(res.MatchedProducts) != 2 {
		t.Fatalf("matched = %d, want 2", len(res.MatchedProducts))
	}
	if res.MatchedProducts[0].Name != "Sofa A" {
		t.Fatalf("top product = %q", res.MatchedProducts[0].Name)
	}
	if res.SearchMetadata["api_used"] != "search" {
		t.Fatalf("api_used = %v", res.SearchMetadata["api_used"])
	}
}

func TestMatch_DefaultMaxResultsApplied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "A"}, {"title": "B"}, {"title": "C"},
			},
		})
	}))
	defer srv.Close()

	a, err := New(Config{
		BaseURL:           srv.URL,
		APIKey:            "test-key",
		Strategy:          "search_only",
		DefaultMaxResults: 2,
		RetryInterval:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := a.Match(context.Background(), "sofa", 0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(res.MatchedProducts) != 2 || res.TotalResults != 3 {
		t.Fatalf("got %d/%d, want 2/3", len(res.MatchedProducts), res.TotalResults)
	}
}
