package product

// Condition describes the sale condition of a candidate product.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
	ConditionUnknown     Condition = "unknown"
)

// Product is a single candidate replacement item recovered from a backend
// payload. Instances are built exclusively by FromRecord and treated as
// immutable afterwards.
type Product struct {
	Name         string   `json:"name"`
	Price        *float64 `json:"price,omitempty"`
	Currency     string   `json:"currency"`
	URL          string   `json:"url,omitempty"`
	Description  string   `json:"description,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	Model        string   `json:"model,omitempty"`
	Condition    Condition `json:"condition"`
	Availability string   `json:"availability,omitempty"`
	Source       string   `json:"source,omitempty"`
	// Confidence is the backend-supplied match quality in [0,1]. It is
	// normalized here but never recomputed locally.
	Confidence float64 `json:"confidence_score"`
}

// SearchResult is the response envelope for one end-to-end request.
// MatchedProducts is ordered by confidence descending and already
// truncated to the requested maximum; TotalResults is the count before
// truncation.
type SearchResult struct {
	Query           string         `json:"query"`
	MatchedProducts []Product      `json:"matched_products"`
	ProcessingTime  float64        `json:"processing_time"`
	TotalResults    int            `json:"total_results"`
	SearchMetadata  map[string]any `json:"search_metadata"`
}
