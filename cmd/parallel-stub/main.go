// parallel-stub is a deterministic stand-in for the research service,
// used for local development and end-to-end exercises without network
// access or an API key. MODE selects the payload shape so the recovery
// path can be exercised: clean (default), prose, truncated or empty.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var catalog = []map[string]any{
	{
		"name":             "Sofa A",
		"price":            499.99,
		"url":              "https://shop.example/sofa-a",
		"brand":            "Acme",
		"condition":        "new",
		"source":           "shop.example",
		"confidence_score": 0.92,
	},
	{
		"name":             "Sofa B",
		"price":            899.00,
		"url":              "https://retail.example/sofa-b",
		"brand":            "Acme",
		"condition":        "refurbished",
		"source":           "retail.example",
		"confidence_score": 0.71,
	},
	{
		"name":             "Sofa C",
		"price":            1299.50,
		"url":              "https://outlet.example/sofa-c",
		"brand":            "Luxe",
		"condition":        "used",
		"source":           "outlet.example",
		"confidence_score": 0.55,
	},
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8082"
	}
	mode := os.Getenv("MODE")
	apiKey := os.Getenv("API_KEY")

	var (
		mu   sync.Mutex
		runs = map[string]string{} // run_id -> objective
	)

	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if apiKey != "" && r.Header.Get("x-api-key") != apiKey {
			http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
			return false
		}
		return true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1beta/search", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		if mode == "empty" {
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
			return
		}
		results := make([]map[string]any, 0, len(catalog))
		for _, p := range catalog {
			results = append(results, map[string]any{
				"title":            p["name"],
				"url":              p["url"],
				"excerpts":         []string{"Price: $499.99. In stock."},
				"confidence_score": p["confidence_score"],
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	})
	mux.HandleFunc("/v1/tasks/runs", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Input string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		id := uuid.NewString()
		mu.Lock()
		runs[id] = req.Input
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"run_id": id, "status": "queued"})
	})
	mux.HandleFunc("/v1/tasks/runs/", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/tasks/runs/"), "/result")
		mu.Lock()
		_, ok := runs[id]
		mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"run_id": id,
			"status": "completed",
			"output": map[string]any{"type": "text", "content": taskContent(mode)},
		})
	})

	log.Printf("parallel-stub listening on %s (mode=%s)", addr, mode)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

// taskContent renders the catalog the way a model might: clean JSON,
// JSON buried in prose, or cut off mid-stream.
func taskContent(mode string) string {
	clean, _ := json.Marshal(catalog)
	switch mode {
	case "empty":
		return ""
	case "prose":
		return "Here are the products I found:\n\n" + string(clean) + "\n\nLet me know if you need more."
	case "truncated":
		cut := len(clean) * 2 / 3
		return string(clean[:cut])
	default:
		return string(clean)
	}
}
