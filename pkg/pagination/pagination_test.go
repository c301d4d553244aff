package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	params := Normalize(Params{}, 20)
	if params.Page != 1 {
		t.Fatalf("expected default page 1, got %d", params.Page)
	}
	if params.Limit != 20 {
		t.Fatalf("expected default limit 20, got %d", params.Limit)
	}
}

func TestNormalizeCapsLimit(t *testing.T) {
	params := Normalize(Params{Page: 3, Limit: 500}, 20)
	if params.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, params.Limit)
	}
	if params.Page != 3 {
		t.Fatalf("expected page preserved, got %d", params.Page)
	}
}

func TestOffset(t *testing.T) {
	params := Normalize(Params{Page: 4, Limit: 10}, 10)
	if got := params.Offset(); got != 30 {
		t.Fatalf("expected offset 30, got %d", got)
	}
}

func TestBuildMeta(t *testing.T) {
	params := Normalize(Params{Page: 2, Limit: 20}, 20)
	meta := BuildMeta(params, 45, 20)

	if meta.Current != 2 {
		t.Fatalf("expected current 2, got %d", meta.Current)
	}
	if meta.Total != 3 {
		t.Fatalf("expected 3 total pages, got %d", meta.Total)
	}
	if meta.Count != 20 {
		t.Fatalf("expected count 20, got %d", meta.Count)
	}
	if meta.TotalItems != 45 {
		t.Fatalf("expected 45 total items, got %d", meta.TotalItems)
	}
	if !meta.HasNext {
		t.Fatalf("expected hasNext on page 2 of 3")
	}
	if !meta.HasPrev {
		t.Fatalf("expected hasPrev on page 2")
	}
}

func TestBuildMetaLastPage(t *testing.T) {
	params := Normalize(Params{Page: 3, Limit: 20}, 20)
	meta := BuildMeta(params, 45, 5)

	if meta.HasNext {
		t.Fatalf("expected no next page on the final page")
	}
	if meta.Count != 5 {
		t.Fatalf("expected short final page count 5, got %d", meta.Count)
	}
}

func TestBuildMetaEmptySet(t *testing.T) {
	params := Normalize(Params{}, 20)
	meta := BuildMeta(params, 0, 0)

	if meta.Total != 0 || meta.HasNext || meta.HasPrev {
		t.Fatalf("expected empty meta, got %+v", meta)
	}
}
