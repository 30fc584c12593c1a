package services

import (
	"errors"

	"github.com/martinhensley/cardindex/internal/models"
)

// ErrNotFound is returned by CatalogStore lookups when no record matches.
var ErrNotFound = errors.New("catalog: record not found")

// CatalogStore is the persistence contract the importer and matcher run
// against. Slugs are the only externally meaningful identifiers; every write
// is an upsert keyed by slug so a re-run never duplicates records. The
// database package provides the gorm implementation and MemoryStore backs
// tests and dry runs.
type CatalogStore interface {
	FindReleaseBySlug(slug string) (*models.Release, error)
	SaveRelease(release *models.Release) error
	ListReleases() ([]models.Release, error)

	FindSetBySlug(slug string) (*models.Set, error)
	SaveSet(set *models.Set) error
	SetsByRelease(releaseID string) ([]models.Set, error)

	FindCardBySlug(slug string) (*models.Card, error)
	FindCardByKey(setID, cardNumber, parallelType string) (*models.Card, error)
	SaveCard(card *models.Card) error
	CardsBySet(setID string) ([]models.Card, error)

	// DeleteSet removes a set and its cards. Cards go first: Card is owned
	// by Set and no cascading delete is assumed.
	DeleteSet(setID string) error

	// Counts reports catalog size for gauges and dry-run summaries.
	Counts() (sets, cards int, err error)
}
