package lesson

import "testing"

func TestNormalize(t *testing.T) {
	authored := "6f1d9ac0-88f7-4f33-9fe7-bb2e8a54ee21"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical passes through", raw: authored, want: authored},
		{name: "canonical is lowercased", raw: "6F1D9AC0-88F7-4F33-9FE7-BB2E8A54EE21", want: authored},
		{name: "legacy index", raw: "3", want: DeriveID(3)},
		{name: "legacy index with whitespace", raw: " 3 ", want: DeriveID(3)},
		{name: "malformed stays as-is", raw: "not-a-lesson", want: "not-a-lesson"},
		{name: "zero index stays as-is", raw: "0", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("3")
	twice := Normalize(once)
	if once != twice {
		t.Errorf("Normalize(Normalize(3)) = %q, want %q", twice, once)
	}
	if !IsCanonicalID(once) {
		t.Errorf("Normalize(3) = %q is not canonical", once)
	}
}

func TestTryExtractIndex(t *testing.T) {
	if n, ok := TryExtractIndex(Normalize("3")); !ok || n != 3 {
		t.Errorf("TryExtractIndex(Normalize(3)) = (%d, %v), want (3, true)", n, ok)
	}
	if n, ok := TryExtractIndex("6f1d9ac0-88f7-4f33-9fe7-bb2e8a54ee21"); ok {
		t.Errorf("TryExtractIndex(authored UUID) = (%d, %v), want (0, false)", n, ok)
	}
	if _, ok := TryExtractIndex("garbage"); ok {
		t.Error("TryExtractIndex(garbage) = ok, want false")
	}
}

func TestCatalogIndexOf(t *testing.T) {
	// lesson 2 carries an authored id that looks like an implausibly large
	// derived index; it must be found by identifier equality.
	oddID := DeriveID(999)
	cat := NewCatalog([]Descriptor{
		{Title: "Intro", Part: "basics"},
		{ID: oddID, Title: "Prompts", Part: "basics"},
		{ID: "6f1d9ac0-88f7-4f33-9fe7-bb2e8a54ee21", Title: "Context", Part: "practice"},
	})

	tests := []struct {
		name string
		id   string
		want int
	}{
		{name: "derived id", id: DeriveID(1), want: 1},
		{name: "legacy numeric", id: "1", want: 1},
		{name: "plausible embedded index wins", id: "3", want: 3},
		{name: "implausible index falls back to equality", id: oddID, want: 2},
		{name: "authored uuid", id: "6f1d9ac0-88f7-4f33-9fe7-bb2e8a54ee21", want: 3},
		{name: "unknown", id: "42", want: 0},
		{name: "garbage", id: "???", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.IndexOf(tt.id); got != tt.want {
				t.Errorf("IndexOf(%q) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}

func TestCatalogDerivesMissingIDs(t *testing.T) {
	cat := NewCatalog([]Descriptor{{Title: "Intro"}, {Title: "Prompts"}})
	first, ok := cat.ByIndex(1)
	if !ok || first.ID != DeriveID(1) {
		t.Errorf("ByIndex(1).ID = %q, want %q", first.ID, DeriveID(1))
	}
	if got, ok := cat.Get("2"); !ok || got.Title != "Prompts" {
		t.Errorf("Get(2) = (%+v, %v), want lesson 2", got, ok)
	}
}
