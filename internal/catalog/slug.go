// Package catalog holds the pure normalization logic for the card catalog:
// slug generation, parallel/variant extraction, set-type classification, and
// print-run parsing. Nothing in here touches the database.
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/martinhensley/cardindex/internal/models"
)

var (
	yearPrefixRegex  = regexp.MustCompile(`^\d{4}(-\d{2})?\s+`)
	invalidSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphens  = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases a string, replaces whitespace with hyphens, strips
// everything outside [a-z0-9-], collapses repeated hyphens, and trims edge
// hyphens. Deterministic: no randomness, no timestamps.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), "-")
	s = invalidSlugChars.ReplaceAllString(s, "")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// cleanReleaseName strips a leading "YYYY" or "YYYY-YY" prefix from a release
// name so the year token doesn't appear twice in a slug.
func cleanReleaseName(releaseName string) string {
	return strings.TrimSpace(yearPrefixRegex.ReplaceAllString(releaseName, ""))
}

// typeInfix returns the slug token for a set type. Base sets carry no infix.
func typeInfix(setType models.SetType) string {
	switch setType {
	case models.SetTypeAutograph:
		return "auto"
	case models.SetTypeMemorabilia:
		return "mem"
	case models.SetTypeInsert:
		return "insert"
	}
	return ""
}

// isLiteralBase reports whether a set name is the release's own base
// checklist. Only the literal "Base" set skips its name token: "Optic" and
// "Rated Rookies" classify as base-type but keep their names, which is what
// keeps "Optic Black" and "Base Black" on different slugs.
func isLiteralBase(setType models.SetType, setName string) bool {
	return setType == models.SetTypeBase && strings.EqualFold(strings.TrimSpace(setName), "base")
}

// GenerateReleaseSlug derives the canonical slug for a release: year plus the
// release name with any duplicate year prefix stripped.
func GenerateReleaseSlug(year, releaseName string) string {
	return Slugify(year + " " + cleanReleaseName(releaseName))
}

// GenerateSetSlug derives the canonical slug for a set. Token order: year,
// cleaned release name, type infix (non-base only), set name (except the
// literal base set), variant, print run.
func GenerateSetSlug(year, releaseName, setName string, setType models.SetType, variant string, printRun *int) string {
	tokens := []string{year, cleanReleaseName(releaseName)}
	if infix := typeInfix(setType); infix != "" {
		tokens = append(tokens, infix)
	}
	if !isLiteralBase(setType, setName) {
		tokens = append(tokens, setName)
	}
	if variant != "" {
		tokens = append(tokens, variant)
	}
	if printRun != nil {
		tokens = append(tokens, strconv.Itoa(*printRun))
	}
	return Slugify(strings.Join(tokens, " "))
}

// GenerateCardSlug derives the globally unique slug for a card. Same token
// rules as GenerateSetSlug with the manufacturer leading after the year and
// the card number + player name as the distinguishing tokens.
func GenerateCardSlug(manufacturer, releaseName, year, setName, cardNumber, playerName, variant string, printRun *int, setType models.SetType) string {
	tokens := []string{year, manufacturer, cleanReleaseName(releaseName)}
	if infix := typeInfix(setType); infix != "" {
		tokens = append(tokens, infix)
	}
	if !isLiteralBase(setType, setName) {
		tokens = append(tokens, setName)
	}
	tokens = append(tokens, cardNumber, playerName)
	if variant != "" {
		tokens = append(tokens, variant)
	}
	if printRun != nil {
		tokens = append(tokens, strconv.Itoa(*printRun))
	}
	return Slugify(strings.Join(tokens, " "))
}
