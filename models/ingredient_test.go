package models

import "testing"

func TestValidUnit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"gram", UnitGram, true},
		{"milliliter", UnitMilliliter, true},
		{"count", UnitCount, true},
		{"portion", UnitPortion, true},
		{"unknown", "cup", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidUnit(tt.value); got != tt.want {
				t.Fatalf("ValidUnit(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeUnit(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" G ":    UnitGram,
		"grams":  UnitGram,
		"ML":     UnitMilliliter,
		"q":      UnitCount,
		"pieces": UnitCount,
		"p":      UnitPortion,
		"cup":    "cup",
	}
	for input, want := range cases {
		if got := NormalizeUnit(input); got != want {
			t.Fatalf("NormalizeUnit(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestUnitsReturnsCopy(t *testing.T) {
	t.Parallel()

	list := Units()
	list[0] = "changed"
	if Units()[0] != UnitGram {
		t.Fatal("Units() must not expose the internal slice")
	}
}
