package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 10}
	if got := p.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	zero := Params{}
	if got := zero.Offset(); got != 0 {
		t.Fatalf("expected offset 0 for defaults, got %d", got)
	}
}

func TestMetaFor(t *testing.T) {
	meta := MetaFor(101, Params{Page: 2, Limit: 25})
	if meta.Total != 101 {
		t.Fatalf("expected total 101, got %d", meta.Total)
	}
	if meta.Pages != 5 {
		t.Fatalf("expected 5 pages, got %d", meta.Pages)
	}
	if meta.CurrentPage != 2 {
		t.Fatalf("expected current page 2, got %d", meta.CurrentPage)
	}

	empty := MetaFor(0, Params{})
	if empty.Pages != 0 {
		t.Fatalf("expected 0 pages for empty set, got %d", empty.Pages)
	}
}
