package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/martinhensley/cardindex/internal/models"
)

// ParallelPattern maps a known parallel suffix to its print run. A nil
// PrintRun means the parallel exists but is unnumbered or varies per card.
type ParallelPattern struct {
	Pattern  string `json:"pattern"`
	PrintRun *int   `json:"print_run"`
}

// ParallelTable is the per-release dictionary of known parallel suffixes.
// Patterns are matched longest-first so compound names ("Pink Diamond",
// "Blue Cubic") win over their substrings regardless of the order the caller
// supplied them in.
type ParallelTable struct {
	patterns []ParallelPattern
}

// NewParallelTable validates and normalizes a pattern list. Duplicate
// patterns (case-insensitive) are rejected because they make the match
// ambiguous.
func NewParallelTable(patterns []ParallelPattern) (*ParallelTable, error) {
	seen := make(map[string]struct{}, len(patterns))
	cleaned := make([]ParallelPattern, 0, len(patterns))
	for _, p := range patterns {
		name := strings.TrimSpace(p.Pattern)
		if name == "" {
			return nil, fmt.Errorf("parallel table: empty pattern")
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("parallel table: duplicate pattern %q", name)
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, ParallelPattern{Pattern: name, PrintRun: p.PrintRun})
	}
	// Longest first, then lexicographic so equal lengths stay deterministic.
	sort.SliceStable(cleaned, func(i, j int) bool {
		if len(cleaned[i].Pattern) != len(cleaned[j].Pattern) {
			return len(cleaned[i].Pattern) > len(cleaned[j].Pattern)
		}
		return cleaned[i].Pattern < cleaned[j].Pattern
	})
	return &ParallelTable{patterns: cleaned}, nil
}

// Patterns returns the normalized patterns in match order.
func (t *ParallelTable) Patterns() []ParallelPattern {
	if t == nil {
		return nil
	}
	return t.patterns
}

// ParallelInfo is the result of splitting a raw checklist set name.
type ParallelInfo struct {
	BaseName    string `json:"base_name"`
	VariantName string `json:"variant_name"`
	PrintRun    *int   `json:"print_run"`
	IsParallel  bool   `json:"is_parallel"`
}

// Extract splits a raw set name into its base name and parallel variant by
// testing each known suffix, longest first. A set with no matching suffix is
// its own base.
func Extract(rawSetName string, table *ParallelTable) ParallelInfo {
	name := strings.TrimSpace(rawSetName)
	for _, p := range table.Patterns() {
		suffix := " " + p.Pattern
		if len(name) > len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			return ParallelInfo{
				BaseName:    strings.TrimSpace(name[:len(name)-len(suffix)]),
				VariantName: p.Pattern,
				PrintRun:    p.PrintRun,
				IsParallel:  true,
			}
		}
	}
	return ParallelInfo{BaseName: name}
}

// Ordered keyword heuristics for set classification. Names can satisfy more
// than one keyword ("Autograph Memorabilia Jerseys"); the priority here is
// autograph > memorabilia > base > insert and is applied uniformly.
var (
	autographKeywords   = []string{"autograph", "signature"}
	memorabiliaKeywords = []string{"memorabilia", "jersey", "patch", "material"}
	basePrefixes        = []string{"base", "optic", "rated rookies"}
)

// ClassifySetType classifies a set by its base name (not the full parallel
// name). The second return reports whether any keyword actually matched:
// unrecognized names silently fall through to Insert so an import is never
// blocked, and callers that want human review check the flag.
func ClassifySetType(baseName string) (models.SetType, bool) {
	name := strings.ToLower(strings.TrimSpace(baseName))
	for _, kw := range autographKeywords {
		if strings.Contains(name, kw) {
			return models.SetTypeAutograph, true
		}
	}
	for _, kw := range memorabiliaKeywords {
		if strings.Contains(name, kw) {
			return models.SetTypeMemorabilia, true
		}
	}
	for _, prefix := range basePrefixes {
		if strings.HasPrefix(name, prefix) {
			return models.SetTypeBase, true
		}
	}
	return models.SetTypeInsert, false
}

var printRunRegex = regexp.MustCompile(`^\d{1,6}$`)

// ParsePrintRun parses a checklist sequence token into a print run. Vendor
// checklists routinely put dates or placeholders in the sequence column, so
// anything that isn't a plain positive integer means "unnumbered" rather
// than an error.
func ParsePrintRun(sequence string) *int {
	s := strings.TrimSpace(sequence)
	s = strings.TrimPrefix(s, "/")
	if !printRunRegex.MatchString(s) {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// FormatNumbered renders a print run as the display string collectors use:
// "1 of 1" for true one-of-ones, "/99" otherwise. Empty for unnumbered.
func FormatNumbered(printRun *int) string {
	if printRun == nil {
		return ""
	}
	if *printRun == 1 {
		return "1 of 1"
	}
	return "/" + strconv.Itoa(*printRun)
}
