// Package export renders a finished SearchResult for output: indented
// JSON for programmatic consumers and a flat CSV projection of the
// matched products for spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/claimsight/gomatch/internal/product"
)

// JSON renders the full result envelope, metadata included.
func JSON(res product.SearchResult) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

var csvHeader = []string{
	"name", "price", "currency", "url", "brand", "model",
	"condition", "availability", "source", "confidence_score", "description",
}

// WriteCSV writes one row per matched product. Metadata and timing are
// JSON-only; CSV carries just the product table.
func WriteCSV(w io.Writer, res product.SearchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range res.MatchedProducts {
		price := ""
		if p.Price != nil {
			price = strconv.FormatFloat(*p.Price, 'f', 2, 64)
		}
		row := []string{
			p.Name,
			price,
			p.Currency,
			p.URL,
			p.Brand,
			p.Model,
			string(p.Condition),
			p.Availability,
			p.Source,
			strconv.FormatFloat(p.Confidence, 'f', 2, 64),
			p.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
