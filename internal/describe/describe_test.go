package describe

import (
	"strings"
	"testing"
)

func TestParse_Electronics(t *testing.T) {
	d := Parse("Stolen Samsung Galaxy S21 phone, 128GB, black")
	if d.Category != "electronics" {
		t.Fatalf("category = %q, want electronics", d.Category)
	}
	if d.Brand != "Samsung" {
		t.Fatalf("brand = %q, want Samsung", d.Brand)
	}
	if d.Model != "S21" {
		t.Fatalf("model = %q, want S21", d.Model)
	}
	if d.Specifications["storage"] != "128gb" && d.Specifications["storage"] != "128GB" {
		t.Fatalf("storage = %q", d.Specifications["storage"])
	}
	if d.Specifications["color"] != "black" {
		t.Fatalf("color = %q", d.Specifications["color"])
	}
}

func TestParse_ExplicitModelNumber(t *testing.T) {
	d := Parse("Sony headphones model WH-1000XM4")
	if d.Model != "WH-1000XM4" {
		t.Fatalf("model = %q, want WH-1000XM4", d.Model)
	}
	if d.Brand != "Sony" {
		t.Fatalf("brand = %q, want Sony", d.Brand)
	}
}

func TestParse_Furniture(t *testing.T) {
	d := Parse("lost gray IKEA sectional sofa 90 inch")
	if d.Category != "furniture" {
		t.Fatalf("category = %q, want furniture", d.Category)
	}
	if d.Brand != "Ikea" {
		t.Fatalf("brand = %q, want Ikea", d.Brand)
	}
	if d.Specifications["size"] != "90inch" {
		t.Fatalf("size = %q", d.Specifications["size"])
	}
}

func TestParse_StripsIncidentPhrasing(t *testing.T) {
	d := Parse("my iphone 13 was stolen")
	if d.Category != "electronics" {
		t.Fatalf("category = %q, want electronics", d.Category)
	}
	for _, kw := range d.Keywords {
		if kw == "stolen" || kw == "was" {
			t.Fatalf("incident word %q survived as keyword", kw)
		}
	}
}

func TestParse_UnknownItem(t *testing.T) {
	d := Parse("a thing I cannot quite remember")
	if d.Category != "" || d.Brand != "" || d.Model != "" {
		t.Fatalf("expected no structure, got %+v", d)
	}
	if len(d.Keywords) == 0 {
		t.Fatal("expected at least the content words as keywords")
	}
}

func TestKeywords_FilteredAndBounded(t *testing.T) {
	d := Parse("the big red leather reclining chair that was in my living room near the tall wooden bookshelf beside the lamp")
	if len(d.Keywords) > 10 {
		t.Fatalf("keywords not capped: %d", len(d.Keywords))
	}
	for _, kw := range d.Keywords {
		if len(kw) <= 2 {
			t.Fatalf("short word kept: %q", kw)
		}
		if _, stop := stopWords[kw]; stop {
			t.Fatalf("stop word kept: %q", kw)
		}
	}
}

func TestQueries_OrderedBySpecificity(t *testing.T) {
	d := Parse("Stolen Samsung Galaxy S21 phone, black")
	qs := d.Queries()
	if len(qs) == 0 {
		t.Fatal("no queries generated")
	}
	if qs[0] != "Samsung S21 electronics" {
		t.Fatalf("most specific query = %q", qs[0])
	}
	seen := map[string]bool{}
	for _, q := range qs {
		if seen[q] {
			t.Fatalf("duplicate query %q", q)
		}
		seen[q] = true
	}
	// Raw description is the last-resort query.
	if qs[len(qs)-1] != d.Text {
		t.Fatalf("last query = %q, want original text", qs[len(qs)-1])
	}
}

func TestQueries_LongDescriptionTruncated(t *testing.T) {
	long := strings.Repeat("very old oak dining table ", 10)
	qs := Parse(long).Queries()
	last := qs[len(qs)-1]
	if !strings.HasSuffix(last, "...") || len(last) != 103 {
		t.Fatalf("long description not truncated: %d chars", len(last))
	}
}

func TestResearchGoal_MentionsAllComponents(t *testing.T) {
	d := Parse("Stolen Samsung Galaxy S21 phone")
	goal := d.ResearchGoal()
	for _, want := range []string{"Samsung", "S21", "electronics", "confidence score", "USD", "condition"} {
		if !strings.Contains(goal, want) {
			t.Fatalf("goal missing %q:\n%s", want, goal)
		}
	}
}

func TestOutputSchema(t *testing.T) {
	s := OutputSchema(7)
	for _, want := range []string{"JSON array", "confidence_score", "up to 7 products"} {
		if !strings.Contains(s, want) {
			t.Fatalf("schema missing %q: %s", want, s)
		}
	}
}
