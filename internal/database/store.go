package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/martinhensley/cardindex/internal/models"
	"github.com/martinhensley/cardindex/internal/services"
)

// Store is the gorm-backed CatalogStore. Lookups translate
// gorm.ErrRecordNotFound into the services sentinel so callers never import
// gorm.
type Store struct {
	db *gorm.DB
}

var _ services.CatalogStore = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindReleaseBySlug(slug string) (*models.Release, error) {
	var release models.Release
	if err := s.db.First(&release, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &release, nil
}

func (s *Store) SaveRelease(release *models.Release) error {
	return s.db.Save(release).Error
}

func (s *Store) ListReleases() ([]models.Release, error) {
	var releases []models.Release
	if err := s.db.Order("slug").Find(&releases).Error; err != nil {
		return nil, err
	}
	return releases, nil
}

func (s *Store) FindSetBySlug(slug string) (*models.Set, error) {
	var set models.Set
	if err := s.db.First(&set, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &set, nil
}

func (s *Store) SaveSet(set *models.Set) error {
	return s.db.Save(set).Error
}

func (s *Store) SetsByRelease(releaseID string) ([]models.Set, error) {
	var sets []models.Set
	if err := s.db.Where("release_id = ?", releaseID).Order("slug").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (s *Store) FindCardBySlug(slug string) (*models.Card, error) {
	var card models.Card
	if err := s.db.First(&card, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (s *Store) FindCardByKey(setID, cardNumber, parallelType string) (*models.Card, error) {
	var card models.Card
	err := s.db.Where("set_id = ? AND card_number = ? AND parallel_type = ?", setID, cardNumber, parallelType).First(&card).Error
	if err != nil {
		return nil, translate(err)
	}
	return &card, nil
}

func (s *Store) SaveCard(card *models.Card) error {
	return s.db.Save(card).Error
}

func (s *Store) CardsBySet(setID string) ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.Where("set_id = ?", setID).Order("slug").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// DeleteSet removes a set's cards and then the set itself, in that order;
// Card is owned by Set and nothing cascades.
func (s *Store) DeleteSet(setID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", setID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Set{}, "id = ?", setID).Error
	})
}

func (s *Store) Counts() (sets, cards int, err error) {
	var setCount, cardCount int64
	if err := s.db.Model(&models.Set{}).Count(&setCount).Error; err != nil {
		return 0, 0, err
	}
	if err := s.db.Model(&models.Card{}).Count(&cardCount).Error; err != nil {
		return 0, 0, err
	}
	return int(setCount), int(cardCount), nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	return err
}
