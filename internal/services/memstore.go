package services

import (
	"sort"
	"sync"

	"github.com/martinhensley/cardindex/internal/models"
)

// MemoryStore is an in-memory CatalogStore. It backs the importer's dry-run
// mode and the test suite; behavior mirrors the gorm store, including
// upsert-by-slug semantics.
type MemoryStore struct {
	mu       sync.RWMutex
	releases map[string]models.Release // keyed by ID
	sets     map[string]models.Set
	cards    map[string]models.Card
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		releases: make(map[string]models.Release),
		sets:     make(map[string]models.Set),
		cards:    make(map[string]models.Card),
	}
}

func (m *MemoryStore) FindReleaseBySlug(slug string) (*models.Release, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.releases {
		if r.Slug == slug {
			out := r
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) SaveRelease(release *models.Release) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[release.ID] = *release
	return nil
}

func (m *MemoryStore) ListReleases() ([]models.Release, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Release, 0, len(m.releases))
	for _, r := range m.releases {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *MemoryStore) FindSetBySlug(slug string) (*models.Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sets {
		if s.Slug == slug {
			out := s
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) SaveSet(set *models.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[set.ID] = *set
	return nil
}

func (m *MemoryStore) SetsByRelease(releaseID string) ([]models.Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Set
	for _, s := range m.sets {
		if s.ReleaseID == releaseID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *MemoryStore) FindCardBySlug(slug string) (*models.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.cards {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindCardByKey(setID, cardNumber, parallelType string) (*models.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.cards {
		if c.SetID == setID && c.CardNumber == cardNumber && c.ParallelType == parallelType {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) SaveCard(card *models.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = *card
	return nil
}

func (m *MemoryStore) CardsBySet(setID string) ([]models.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Card
	for _, c := range m.cards {
		if c.SetID == setID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *MemoryStore) DeleteSet(setID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Cards first; Set owns its cards.
	for id, c := range m.cards {
		if c.SetID == setID {
			delete(m.cards, id)
		}
	}
	delete(m.sets, setID)
	return nil
}

// Counts returns the number of stored sets and cards. Used for idempotency
// checks and dry-run summaries.
func (m *MemoryStore) Counts() (sets, cards int, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets), len(m.cards), nil
}
