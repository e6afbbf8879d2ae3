package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/claimsight/gomatch/internal/product"
)

func sampleResult() product.SearchResult {
	price := 499.99
	return product.SearchResult{
		Query: "gray sofa",
		MatchedProducts: []product.Product{
			{
				Name:       "Sofa A",
				Price:      &price,
				Currency:   "USD",
				URL:        "https://shop.example/a",
				Condition:  product.ConditionNew,
				Source:     "shop.example",
				Confidence: 0.9,
			},
			{Name: "Sofa B", Currency: "USD", Condition: product.ConditionUnknown},
		},
		ProcessingTime: 1.25,
		TotalResults:   2,
		SearchMetadata: map[string]any{"strategy": "search_first"},
	}
}

func TestJSON_RoundTrips(t *testing.T) {
	data, err := JSON(sampleResult())
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var back product.SearchResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Query != "gray sofa" || len(back.MatchedProducts) != 2 {
		t.Fatalf("round trip lost data: %+v", back)
	}
	if back.MatchedProducts[0].Price == nil || *back.MatchedProducts[0].Price != 499.99 {
		t.Fatalf("price lost: %+v", back.MatchedProducts[0])
	}
	if back.MatchedProducts[1].Price != nil {
		t.Fatal("absent price must stay absent")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "name" || rows[0][9] != "confidence_score" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "Sofa A" || rows[1][1] != "499.99" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	// Missing price stays an empty cell.
	if rows[2][1] != "" {
		t.Fatalf("row 2 price = %q, want empty", rows[2][1])
	}
}

func TestWriteCSV_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, product.SearchResult{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("expected header only, got %d lines", got)
	}
}
