// Package describe turns a free-text description of a lost or stolen
// item into a structured ItemDescription, ordered search queries, and
// the research goal text sent to the backends.
package describe

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemDescription is the parsed form of one item description. All
// fields except Text are best-effort and may be empty.
type ItemDescription struct {
	Text           string
	Category       string
	Brand          string
	Model          string
	Specifications map[string]string
	Keywords       []string
}

// Category-scoped brand vocabularies. Checking the inferred category's
// brands first avoids cross-category collisions like "gap" the retailer
// vs "gap" the word.
var brandsByCategory = map[string][]string{
	"electronics": {
		"apple", "samsung", "google", "microsoft", "sony", "lg", "dell", "hp", "lenovo",
		"asus", "acer", "nintendo", "xbox", "playstation", "canon", "nikon", "panasonic",
		"bose", "beats", "jbl", "sennheiser", "fitbit", "garmin", "gopro",
	},
	"furniture": {
		"ikea", "ashley", "wayfair", "west elm", "pottery barn", "crate and barrel",
		"restoration hardware", "cb2", "la-z-boy",
	},
	"clothing": {
		"nike", "adidas", "gucci", "prada", "louis vuitton", "chanel", "versace",
		"calvin klein", "tommy hilfiger", "ralph lauren", "gap", "zara", "h&m",
	},
	"automotive": {
		"toyota", "honda", "ford", "chevrolet", "bmw", "mercedes", "audi", "nissan",
		"hyundai", "kia", "volkswagen", "subaru", "mazda", "lexus", "acura",
	},
}

var categoryKeywords = map[string][]string{
	"electronics": {
		"phone", "iphone", "android", "smartphone", "tablet", "ipad", "laptop", "computer",
		"tv", "television", "monitor", "headphones", "earbuds", "speaker", "camera",
		"gaming", "console", "smartwatch", "fitness tracker",
	},
	"furniture": {
		"couch", "sofa", "chair", "table", "desk", "bed", "mattress", "dresser",
		"bookshelf", "cabinet", "nightstand", "ottoman", "sectional", "recliner",
	},
	"clothing": {
		"shirt", "pants", "dress", "jacket", "coat", "shoes", "sneakers", "boots",
		"jeans", "sweater", "hoodie", "suit", "skirt", "blouse",
	},
	"jewelry": {
		"ring", "necklace", "bracelet", "earrings", "watch", "chain", "pendant",
		"diamond", "jewelry",
	},
	"automotive": {
		"car", "truck", "suv", "sedan", "coupe", "convertible", "motorcycle",
		"vehicle", "wheels", "tires",
	},
	"appliances": {
		"refrigerator", "washer", "dryer", "dishwasher", "oven", "microwave",
		"vacuum", "blender", "toaster", "coffee maker", "air conditioner",
	},
}

// Deterministic iteration order for category matching; map order would
// make parsing nondeterministic across runs.
var categoryOrder = []string{"electronics", "furniture", "clothing", "jewelry", "automotive", "appliances"}

var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:model|mod)\.?\s*([A-Z0-9\-]+)`),
	regexp.MustCompile(`(?i)\b([A-Z]{1,3}[0-9]{2,}[A-Z0-9]*)\b`),
	regexp.MustCompile(`(?i)\b([0-9]{3,}[A-Z]{0,3})\b`),
	regexp.MustCompile(`(?i)(Generation\s+[0-9]+|Gen\s*[0-9]+)`),
}

var (
	sizePattern    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(inch|"|in|ft|feet|cm|mm|meter)`)
	storagePattern = regexp.MustCompile(`(?i)\b(\d+(?:GB|TB|MB))\b`)
	freqPattern    = regexp.MustCompile(`(?i)\b(\d+(?:hz|mhz|ghz))\b`)
	wordPattern    = regexp.MustCompile(`\b\w+\b`)
	prefixPattern  = regexp.MustCompile(`^(lost|stolen|missing|broken)\s+`)
	suffixPattern  = regexp.MustCompile(`\s+(was\s+)?stolen$`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

var colors = []string{
	"black", "white", "red", "blue", "green", "yellow", "orange", "purple",
	"pink", "brown", "gray", "grey", "silver", "gold", "rose gold",
}

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an the is was were been have has had do does did will would could should may might " +
			"must can and or but in on at to for of with by from up about into through during before " +
			"after above below between among this that these those my your his her its our their") {
		stopWords[w] = struct{}{}
	}
}

// Parse extracts structured components from a raw item description.
func Parse(description string) ItemDescription {
	clean := cleanDescription(description)
	category := extractCategory(clean)
	return ItemDescription{
		Text:           description,
		Category:       category,
		Brand:          extractBrand(clean, category),
		Model:          extractModel(clean),
		Specifications: extractSpecifications(clean),
		Keywords:       extractKeywords(clean),
	}
}

// Queries generates search queries ordered by specificity, most
// specific first, duplicates removed.
func (d ItemDescription) Queries() []string {
	var queries []string
	if d.Brand != "" && d.Model != "" && d.Category != "" {
		queries = append(queries, d.Brand+" "+d.Model+" "+d.Category)
	}
	if d.Brand != "" && d.Model != "" {
		queries = append(queries, d.Brand+" "+d.Model)
	}
	if d.Brand != "" && d.Category != "" {
		if spec := d.specString(2); spec != "" {
			queries = append(queries, d.Brand+" "+d.Category+" "+spec)
		} else {
			queries = append(queries, d.Brand+" "+d.Category)
		}
	}
	if d.Category != "" {
		if spec := d.specString(3); spec != "" {
			queries = append(queries, d.Category+" "+spec)
		}
	}
	if len(d.Keywords) > 0 {
		n := len(d.Keywords)
		if n > 5 {
			n = 5
		}
		queries = append(queries, strings.Join(d.Keywords[:n], " "))
	}
	original := d.Text
	if len(original) > 100 {
		original = original[:100] + "..."
	}
	queries = append(queries, original)

	seen := map[string]struct{}{}
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

// ResearchGoal builds the objective text shared by both backends:
// the item facts followed by explicit per-product output instructions.
func (d ItemDescription) ResearchGoal() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Find online products matching this item description: %q.", d.Text)
	if d.Category != "" {
		fmt.Fprintf(&sb, " The item is a %s.", d.Category)
	}
	if d.Brand != "" {
		fmt.Fprintf(&sb, " Brand: %s.", d.Brand)
	}
	if d.Model != "" {
		fmt.Fprintf(&sb, " Model: %s.", d.Model)
	}
	if len(d.Specifications) > 0 {
		fmt.Fprintf(&sb, " Specifications: %s.", d.specString(len(d.Specifications)))
	}
	sb.WriteString(" For each matching product found, provide:" +
		" 1. Product name and full description" +
		" 2. Current price in USD (if available)" +
		" 3. Direct product URL for purchase" +
		" 4. Brand and model information" +
		" 5. Product condition (new/used/refurbished)" +
		" 6. Retailer/source website name" +
		" 7. Product availability status" +
		" 8. Match confidence score (0-1)." +
		" Focus on current market prices for insurance reimbursement," +
		" products available for immediate purchase, reputable retailers," +
		" and exact or very similar matches, including refurbished options when relevant.")
	return sb.String()
}

// OutputSchema is the schema hint handed to the deep-research backend.
func OutputSchema(maxResults int) string {
	return fmt.Sprintf("A JSON array of product objects, each containing: "+
		"name (string), price (number in USD), url (string), "+
		"brand (string), model (string), condition (string: new/used/refurbished), "+
		"source (string: retailer name), confidence_score (number 0-1), "+
		"description (string). Return up to %d products.", maxResults)
}

func (d ItemDescription) specString(limit int) string {
	if len(d.Specifications) == 0 {
		return ""
	}
	// Stable ordering for deterministic queries.
	keys := []string{"size", "dimensions", "storage", "frequency", "color"}
	parts := make([]string, 0, limit)
	for _, k := range keys {
		if v, ok := d.Specifications[k]; ok {
			parts = append(parts, k+" "+v)
			if len(parts) == limit {
				break
			}
		}
	}
	return strings.Join(parts, " ")
}

func cleanDescription(description string) string {
	clean := strings.ToLower(strings.TrimSpace(description))
	clean = spacePattern.ReplaceAllString(clean, " ")
	clean = prefixPattern.ReplaceAllString(clean, "")
	clean = suffixPattern.ReplaceAllString(clean, "")
	return clean
}

func extractCategory(description string) string {
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(description, keyword) {
				return category
			}
		}
	}
	return ""
}

func extractBrand(description, category string) string {
	if brands, ok := brandsByCategory[category]; ok {
		for _, brand := range brands {
			if strings.Contains(description, brand) {
				return titleCase(brand)
			}
		}
	}
	for _, cat := range categoryOrder {
		for _, brand := range brandsByCategory[cat] {
			if strings.Contains(description, brand) {
				return titleCase(brand)
			}
		}
	}
	return ""
}

func extractModel(description string) string {
	for _, pattern := range modelPatterns {
		if m := pattern.FindStringSubmatch(description); m != nil {
			return strings.ToUpper(strings.TrimSpace(m[1]))
		}
	}
	return ""
}

func extractSpecifications(description string) map[string]string {
	specs := map[string]string{}
	if m := sizePattern.FindStringSubmatch(description); m != nil {
		specs["size"] = m[1] + m[2]
	}
	if m := storagePattern.FindStringSubmatch(description); m != nil {
		specs["storage"] = m[1]
	}
	if m := freqPattern.FindStringSubmatch(description); m != nil {
		specs["frequency"] = m[1]
	}
	for _, color := range colors {
		if strings.Contains(description, color) {
			specs["color"] = color
			break
		}
	}
	return specs
}

func extractKeywords(description string) []string {
	words := wordPattern.FindAllString(description, -1)
	seen := map[string]struct{}{}
	var out []string
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == 10 {
			break
		}
	}
	return out
}

func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
