package rank

import (
	"testing"

	"github.com/claimsight/gomatch/internal/product"
)

func mk(name string, conf float64) product.Product {
	return product.Product{Name: name, Confidence: conf}
}

func TestRank_SortsDescendingAndTruncates(t *testing.T) {
	in := []product.Product{mk("a", 0.2), mk("b", 0.9), mk("c", 0.5)}
	out, total := Rank(in, 2)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(out) != 2 || out[0].Name != "b" || out[1].Name != "c" {
		t.Fatalf("unexpected order: %v", out)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	in := []product.Product{
		mk("first-09", 0.9), mk("second-09", 0.9),
		mk("mid", 0.5), mk("low", 0.3), mk("lowest", 0.1),
	}
	out, total := Rank(in, 2)
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(out) != 2 || out[0].Name != "first-09" || out[1].Name != "second-09" {
		t.Fatalf("tie order not preserved: %v", out)
	}
}

func TestRank_InputNotMutated(t *testing.T) {
	in := []product.Product{mk("a", 0.1), mk("b", 0.9)}
	Rank(in, 10)
	if in[0].Name != "a" || in[1].Name != "b" {
		t.Fatalf("input slice was reordered: %v", in)
	}
}

func TestRank_LimitLargerThanInput(t *testing.T) {
	in := []product.Product{mk("a", 0.1)}
	out, total := Rank(in, 10)
	if len(out) != 1 || total != 1 {
		t.Fatalf("got len=%d total=%d", len(out), total)
	}
}

func TestRank_NonPositiveMax(t *testing.T) {
	out, total := Rank([]product.Product{mk("a", 0.5)}, 0)
	if len(out) != 0 || total != 1 {
		t.Fatalf("got len=%d total=%d", len(out), total)
	}
}
