package models

import (
	"time"
)

// SetType classifies a checklist set within a release.
type SetType string

const (
	SetTypeBase        SetType = "base"
	SetTypeInsert      SetType = "insert"
	SetTypeAutograph   SetType = "autograph"
	SetTypeMemorabilia SetType = "memorabilia"
)

// Release is one year's product from one manufacturer
// (e.g. "2016-17 Panini Court Kings Basketball").
type Release struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Manufacturer string    `json:"manufacturer" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Year         string    `json:"year"` // free-text, e.g. "2016-17"
	Slug         string    `json:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Set is a named checklist grouping of cards within a release.
// A parallel Set points back at its non-parallel sibling by slug; the
// reference is weak, not an ownership edge.
type Set struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ReleaseID   string    `json:"release_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Type        SetType   `json:"type" gorm:"not null;default:'insert'"`
	IsParallel  bool      `json:"is_parallel"`
	BaseSetSlug *string   `json:"base_set_slug" gorm:"index"`
	PrintRun    *int      `json:"print_run"`   // nil means unnumbered or varies per card
	TotalCards  *string   `json:"total_cards"` // display string, e.g. "200"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Card is one physical card entry within exactly one Set. Slug is unique
// across the whole catalog, not just within the set.
type Card struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	SetID          string    `json:"set_id" gorm:"not null;index:idx_set_number_parallel,priority:1"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;not null"`
	CardNumber     string    `json:"card_number" gorm:"index:idx_set_number_parallel,priority:2"` // free-text, some checklists are non-numeric
	PlayerName     string    `json:"player_name" gorm:"not null;index"`
	Team           string    `json:"team"`
	ParallelType   string    `json:"parallel_type" gorm:"index:idx_set_number_parallel,priority:3"` // human-readable variant label
	PrintRun       *int      `json:"print_run"`                                                     // may differ per card in a mixed parallel set
	Numbered       string    `json:"numbered"`                                                      // display string: "/99", "1 of 1"
	HasAutograph   bool      `json:"has_autograph"`
	HasMemorabilia bool      `json:"has_memorabilia"`
	IsNumbered     bool      `json:"is_numbered"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SetWithCards is the browse-endpoint payload for one set.
type SetWithCards struct {
	Set   Set    `json:"set"`
	Cards []Card `json:"cards"`
}
