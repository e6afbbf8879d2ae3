package product

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

// Field-name alias chains, tried in priority order. Backends drift in
// their output schemas; the first present and usable key wins.
var (
	nameAliases       = []string{"name", "title", "product_name"}
	priceAliases      = []string{"price", "current_price", "price_usd"}
	urlAliases        = []string{"url", "link", "product_url"}
	sourceAliases     = []string{"source", "retailer", "seller"}
	confidenceAliases = []string{"confidence_score", "confidence", "match_score"}
)

// FromRecord maps one raw record to a validated Product. The second
// return value is false when the record is rejected, which happens only
// when no non-empty name can be found; every other malformed field
// degrades to its zero/default value so one bad field never sinks an
// otherwise usable match.
func FromRecord(rec map[string]any) (Product, bool) {
	name := firstString(rec, nameAliases)
	if name == "" {
		return Product{}, false
	}

	p := Product{
		Name:         name,
		Price:        parsePrice(firstValue(rec, priceAliases)),
		Currency:     normalizeCurrency(stringField(rec, "currency")),
		URL:          normalizeURL(firstString(rec, urlAliases)),
		Description:  stringField(rec, "description"),
		Brand:        stringField(rec, "brand"),
		Model:        stringField(rec, "model"),
		Condition:    normalizeCondition(stringField(rec, "condition")),
		Availability: stringField(rec, "availability"),
		Source:       firstString(rec, sourceAliases),
		Confidence:   normalizeConfidence(firstValue(rec, confidenceAliases)),
	}
	if p.Source == "" && p.URL != "" {
		if u, err := url.Parse(p.URL); err == nil {
			p.Source = u.Host
		}
	}
	return p, true
}

// FromRecords normalizes a batch, silently dropping rejected records.
func FromRecords(recs []map[string]any) []Product {
	out := make([]Product, 0, len(recs))
	for _, rec := range recs {
		if p, ok := FromRecord(rec); ok {
			out = append(out, p)
		}
	}
	return out
}

func firstValue(rec map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(rec map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return strings.TrimSpace(s)
}

// parsePrice accepts numbers and numeric-looking text such as
// "$1,299.99" or "499 USD". Unparsable values yield nil rather than a
// rejected record.
func parsePrice(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		if n < 0 {
			return nil
		}
		return &n
	case int:
		f := float64(n)
		if f < 0 {
			return nil
		}
		return &f
	case string:
		var sb strings.Builder
		neg := false
		for _, r := range n {
			switch {
			case (r >= '0' && r <= '9') || r == '.':
				sb.WriteRune(r)
			case r == '-' && sb.Len() == 0:
				// A minus ahead of the digits survives symbol
				// stripping so "-5" is rejected like -5.0.
				neg = true
			}
		}
		if sb.Len() == 0 {
			return nil
		}
		f, err := strconv.ParseFloat(sb.String(), 64)
		if err != nil || neg || f < 0 {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// normalizeConfidence clamps numeric values into [0,1] and defaults
// anything non-numeric to 0.
func normalizeConfidence(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// normalizeURL keeps only well-formed absolute http(s) URLs. A good
// match with a bad link is still useful, so invalid URLs are dropped to
// empty instead of rejecting the record.
func normalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String()
	}
	return ""
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "USD"
	}
	if _, err := currency.ParseISO(code); err != nil {
		return "USD"
	}
	return code
}

func normalizeCondition(raw string) Condition {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new":
		return ConditionNew
	case "used":
		return ConditionUsed
	case "refurbished":
		return ConditionRefurbished
	}
	return ConditionUnknown
}
