package catalog

import (
	"testing"

	"github.com/martinhensley/cardindex/internal/models"
)

func mustTable(t *testing.T, patterns []ParallelPattern) *ParallelTable {
	t.Helper()
	table, err := NewParallelTable(patterns)
	if err != nil {
		t.Fatalf("NewParallelTable() error: %v", err)
	}
	return table
}

func TestNewParallelTable(t *testing.T) {
	t.Run("rejects duplicate patterns", func(t *testing.T) {
		_, err := NewParallelTable([]ParallelPattern{
			{Pattern: "Gold", PrintRun: intPtr(10)},
			{Pattern: "gold", PrintRun: intPtr(25)},
		})
		if err == nil {
			t.Error("expected error for duplicate pattern, got nil")
		}
	})

	t.Run("rejects empty patterns", func(t *testing.T) {
		_, err := NewParallelTable([]ParallelPattern{{Pattern: "   "}})
		if err == nil {
			t.Error("expected error for empty pattern, got nil")
		}
	})

	t.Run("sorts longest first regardless of input order", func(t *testing.T) {
		table := mustTable(t, []ParallelPattern{
			{Pattern: "Diamond", PrintRun: intPtr(25)},
			{Pattern: "Pink Diamond", PrintRun: intPtr(10)},
			{Pattern: "Cubic", PrintRun: intPtr(75)},
			{Pattern: "Blue Cubic", PrintRun: intPtr(49)},
		})
		patterns := table.Patterns()
		if patterns[0].Pattern != "Pink Diamond" {
			t.Errorf("patterns[0] = %q, want %q", patterns[0].Pattern, "Pink Diamond")
		}
		if patterns[1].Pattern != "Blue Cubic" {
			t.Errorf("patterns[1] = %q, want %q", patterns[1].Pattern, "Blue Cubic")
		}
	})
}

func TestExtract(t *testing.T) {
	table := mustTable(t, []ParallelPattern{
		{Pattern: "Diamond", PrintRun: intPtr(25)},
		{Pattern: "Pink Diamond", PrintRun: intPtr(10)},
		{Pattern: "Gold", PrintRun: intPtr(10)},
		{Pattern: "Sapphire"}, // parallel but unnumbered
	})

	tests := []struct {
		name        string
		rawSetName  string
		wantBase    string
		wantVariant string
		wantRun     *int
		wantIsPar   bool
	}{
		{
			name:       "no suffix means own base",
			rawSetName: "Base",
			wantBase:   "Base",
		},
		{
			name:        "simple suffix",
			rawSetName:  "Base Gold",
			wantBase:    "Base",
			wantVariant: "Gold",
			wantRun:     intPtr(10),
			wantIsPar:   true,
		},
		{
			name:        "longest pattern wins over its substring",
			rawSetName:  "Base Pink Diamond",
			wantBase:    "Base",
			wantVariant: "Pink Diamond",
			wantRun:     intPtr(10),
			wantIsPar:   true,
		},
		{
			name:        "unnumbered parallel keeps nil print run",
			rawSetName:  "Aurora Sapphire",
			wantBase:    "Aurora",
			wantVariant: "Sapphire",
			wantIsPar:   true,
		},
		{
			name:       "suffix must be a whole trailing word",
			rawSetName: "Marigold",
			wantBase:   "Marigold",
		},
		{
			name:        "case-insensitive suffix match",
			rawSetName:  "BASE GOLD",
			wantBase:    "BASE",
			wantVariant: "Gold",
			wantRun:     intPtr(10),
			wantIsPar:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.rawSetName, table)
			if got.BaseName != tt.wantBase {
				t.Errorf("BaseName = %q, want %q", got.BaseName, tt.wantBase)
			}
			if got.VariantName != tt.wantVariant {
				t.Errorf("VariantName = %q, want %q", got.VariantName, tt.wantVariant)
			}
			if got.IsParallel != tt.wantIsPar {
				t.Errorf("IsParallel = %v, want %v", got.IsParallel, tt.wantIsPar)
			}
			switch {
			case tt.wantRun == nil && got.PrintRun != nil:
				t.Errorf("PrintRun = %d, want nil", *got.PrintRun)
			case tt.wantRun != nil && got.PrintRun == nil:
				t.Errorf("PrintRun = nil, want %d", *tt.wantRun)
			case tt.wantRun != nil && *got.PrintRun != *tt.wantRun:
				t.Errorf("PrintRun = %d, want %d", *got.PrintRun, *tt.wantRun)
			}
		})
	}
}

func TestClassifySetType(t *testing.T) {
	tests := []struct {
		name           string
		baseName       string
		want           models.SetType
		wantRecognized bool
	}{
		{name: "literal base", baseName: "Base", want: models.SetTypeBase, wantRecognized: true},
		{name: "optic prefix", baseName: "Optic", want: models.SetTypeBase, wantRecognized: true},
		{name: "rated rookies", baseName: "Rated Rookies", want: models.SetTypeBase, wantRecognized: true},
		{name: "autograph keyword", baseName: "Fresh Paint Autographs", want: models.SetTypeAutograph, wantRecognized: true},
		{name: "signature keyword", baseName: "Rookie Signatures", want: models.SetTypeAutograph, wantRecognized: true},
		{name: "jersey keyword", baseName: "Jumbo Jerseys", want: models.SetTypeMemorabilia, wantRecognized: true},
		{name: "patch keyword", baseName: "Rookie Patches", want: models.SetTypeMemorabilia, wantRecognized: true},
		{name: "material keyword", baseName: "Game Materials", want: models.SetTypeMemorabilia, wantRecognized: true},
		// Names satisfying multiple keywords resolve by the fixed priority:
		// autograph > memorabilia > base > insert.
		{name: "autograph beats memorabilia", baseName: "Autograph Memorabilia Jerseys", want: models.SetTypeAutograph, wantRecognized: true},
		{name: "unknown falls through to insert", baseName: "Kaboom!", want: models.SetTypeInsert, wantRecognized: false},
		{name: "empty name", baseName: "", want: models.SetTypeInsert, wantRecognized: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, recognized := ClassifySetType(tt.baseName)
			if got != tt.want {
				t.Errorf("ClassifySetType(%q) = %q, want %q", tt.baseName, got, tt.want)
			}
			if recognized != tt.wantRecognized {
				t.Errorf("recognized = %v, want %v", recognized, tt.wantRecognized)
			}
		})
	}
}

func TestParsePrintRun(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		want     *int
	}{
		{name: "plain integer", sequence: "99", want: intPtr(99)},
		{name: "slash prefix", sequence: "/25", want: intPtr(25)},
		{name: "whitespace trimmed", sequence: " 10 ", want: intPtr(10)},
		{name: "one of one", sequence: "1", want: intPtr(1)},
		{name: "empty means unnumbered", sequence: ""},
		{name: "date-like token", sequence: "2016-07-01"},
		{name: "text placeholder", sequence: "varies"},
		{name: "zero is not a print run", sequence: "0"},
		{name: "negative rejected", sequence: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrintRun(tt.sequence)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParsePrintRun(%q) = %d, want nil", tt.sequence, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParsePrintRun(%q) = nil, want %d", tt.sequence, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ParsePrintRun(%q) = %d, want %d", tt.sequence, *got, *tt.want)
			}
		})
	}
}

func TestFormatNumbered(t *testing.T) {
	if got := FormatNumbered(nil); got != "" {
		t.Errorf("FormatNumbered(nil) = %q, want empty", got)
	}
	if got := FormatNumbered(intPtr(1)); got != "1 of 1" {
		t.Errorf("FormatNumbered(1) = %q, want %q", got, "1 of 1")
	}
	if got := FormatNumbered(intPtr(99)); got != "/99" {
		t.Errorf("FormatNumbered(99) = %q, want %q", got, "/99")
	}
}
