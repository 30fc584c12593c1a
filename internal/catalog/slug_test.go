package catalog

import (
	"regexp"
	"testing"

	"github.com/martinhensley/cardindex/internal/models"
)

func intPtr(n int) *int { return &n }

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple name", input: "Court Kings", want: "court-kings"},
		{name: "punctuation stripped", input: "Kaboom!", want: "kaboom"},
		{name: "apostrophes and periods", input: "De'Aaron Fox Jr.", want: "deaaron-fox-jr"},
		{name: "collapsed whitespace", input: "  Fresh   Paint  ", want: "fresh-paint"},
		{name: "repeated hyphens collapse", input: "Rated--Rookies", want: "rated-rookies"},
		{name: "edge hyphens trimmed", input: "-Black-", want: "black"},
		{name: "unicode dropped", input: "Luka Dončić", want: "luka-doni"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateSetSlug(t *testing.T) {
	tests := []struct {
		name     string
		year     string
		release  string
		setName  string
		setType  models.SetType
		variant  string
		printRun *int
		want     string
	}{
		{
			name: "base set omits its own name",
			year: "2016-17", release: "Court Kings", setName: "Base",
			setType: models.SetTypeBase,
			want:    "2016-17-court-kings",
		},
		{
			name: "base parallel keeps variant and print run",
			year: "2016-17", release: "Court Kings", setName: "Base",
			setType: models.SetTypeBase, variant: "Gold", printRun: intPtr(10),
			want: "2016-17-court-kings-gold-10",
		},
		{
			name: "year prefix stripped from release name",
			year: "2016-17", release: "2016-17 Court Kings", setName: "Base",
			setType: models.SetTypeBase,
			want:    "2016-17-court-kings",
		},
		{
			name: "insert carries infix and name",
			year: "2016-17", release: "Court Kings", setName: "Kaboom!",
			setType: models.SetTypeInsert,
			want:    "2016-17-court-kings-insert-kaboom",
		},
		{
			name: "autograph infix",
			year: "2016-17", release: "Court Kings", setName: "Fresh Paint",
			setType: models.SetTypeAutograph,
			want:    "2016-17-court-kings-auto-fresh-paint",
		},
		{
			name: "memorabilia infix",
			year: "2016-17", release: "Court Kings", setName: "Jumbo Jerseys",
			setType: models.SetTypeMemorabilia,
			want:    "2016-17-court-kings-mem-jumbo-jerseys",
		},
		{
			name: "non-literal base keeps its name",
			year: "2019-20", release: "Donruss Optic", setName: "Optic",
			setType: models.SetTypeBase, variant: "Black", printRun: intPtr(5),
			want: "2019-20-donruss-optic-optic-black-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSetSlug(tt.year, tt.release, tt.setName, tt.setType, tt.variant, tt.printRun)
			if got != tt.want {
				t.Errorf("GenerateSetSlug() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateSetSlug_Deterministic(t *testing.T) {
	pr := intPtr(99)
	first := GenerateSetSlug("2016-17", "Court Kings", "Base", models.SetTypeBase, "Sapphire", pr)
	second := GenerateSetSlug("2016-17", "Court Kings", "Base", models.SetTypeBase, "Sapphire", pr)
	if first != second {
		t.Errorf("slug generation not deterministic: %q != %q", first, second)
	}
}

func TestGenerateSetSlug_NoCrossSetCollision(t *testing.T) {
	// "Base Black" and "Optic Black" live in the same release; only the
	// literal base set drops its name token, so the slugs must differ.
	pr := intPtr(5)
	baseBlack := GenerateSetSlug("2019-20", "Donruss Optic", "Base", models.SetTypeBase, "Black", pr)
	opticBlack := GenerateSetSlug("2019-20", "Donruss Optic", "Optic", models.SetTypeBase, "Black", pr)
	if baseBlack == opticBlack {
		t.Errorf("expected distinct slugs, both = %q", baseBlack)
	}
}

func TestGenerateCardSlug(t *testing.T) {
	got := GenerateCardSlug("Panini", "2016-17 Court Kings", "2016-17", "Base", "23", "LeBron James", "", nil, models.SetTypeBase)
	want := "2016-17-panini-court-kings-23-lebron-james"
	if got != want {
		t.Errorf("GenerateCardSlug() = %q, want %q", got, want)
	}

	gotParallel := GenerateCardSlug("Panini", "Court Kings", "2016-17", "Base", "23", "LeBron James", "Gold", intPtr(10), models.SetTypeBase)
	wantParallel := "2016-17-panini-court-kings-23-lebron-james-gold-10"
	if gotParallel != wantParallel {
		t.Errorf("GenerateCardSlug() parallel = %q, want %q", gotParallel, wantParallel)
	}

	if gotParallel == got {
		t.Error("parallel card slug must differ from the base card slug")
	}
}

func TestSlugAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		GenerateSetSlug("2016-17", "Court Kings!!", "Aurora & Gold", models.SetTypeInsert, "1/1 Masterpiece", intPtr(1)),
		GenerateCardSlug("Panini", "Court Kings", "2016-17", "Base", "#101", "D.J. Augustin", "Ruby (SP)", intPtr(99), models.SetTypeBase),
		GenerateReleaseSlug("2016-17", "2016-17 Court Kings Basketball"),
	}
	for _, slug := range inputs {
		if !valid.MatchString(slug) {
			t.Errorf("slug %q violates the output alphabet", slug)
		}
	}
}

func TestGenerateReleaseSlug(t *testing.T) {
	if got, want := GenerateReleaseSlug("2016-17", "2016-17 Court Kings"), "2016-17-court-kings"; got != want {
		t.Errorf("GenerateReleaseSlug() = %q, want %q", got, want)
	}
}
