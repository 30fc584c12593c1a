package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/martinhensley/cardindex/internal/catalog"
	"github.com/martinhensley/cardindex/internal/metrics"
	"github.com/martinhensley/cardindex/internal/models"
)

// Sentinel errors surfaced in the import report. These are per-entity
// failures; only a store-level failure aborts a run.
var (
	ErrSlugCollision  = errors.New("import: slug collision")
	ErrMissingBaseSet = errors.New("import: parallel has no base set")
)

// CaseMode controls how raw set names are grouped. Checklist vendors are
// inconsistent about casing; pick one policy per run.
type CaseMode string

const (
	CaseModeExact     CaseMode = "exact"
	CaseModeLowercase CaseMode = "lowercase"
)

// Row is one already-tabularized checklist row. The CSV/XLSX/AI parsing that
// produces rows is an external collaborator.
type Row struct {
	SetName    string `json:"set_name"`
	CardNumber string `json:"card_number"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Sequence   string `json:"sequence"` // print run token; empty or junk means unnumbered
}

// ImporterConfig carries the per-release knobs for an import run.
type ImporterConfig struct {
	Table       *catalog.ParallelTable
	CaseMode    CaseMode
	Concurrency int // set-family fan-out per pass; <=1 disables
}

// ImportError is one failed entity in a run.
type ImportError struct {
	Entity string `json:"entity"` // "set" or "card"
	Name   string `json:"name"`
	Slug   string `json:"slug,omitempty"`
	Reason string `json:"reason"`
}

// ImportReport is what a run hands back: the importer always finishes and
// reports what it did.
type ImportReport struct {
	SetsCreated     int           `json:"sets_created"`
	SetsUpdated     int           `json:"sets_updated"`
	CardsCreated    int           `json:"cards_created"`
	CardsUpdated    int           `json:"cards_updated"`
	CardsSkipped    int           `json:"cards_skipped"`
	ParallelsFailed int           `json:"parallels_failed"`
	Errors          []ImportError `json:"errors,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
}

// ChecklistImporter turns raw checklist rows into idempotent Set and Card
// upserts for one release. All writes are upsert-by-slug, so re-running the
// same rows never duplicates records.
type ChecklistImporter struct {
	store CatalogStore
	cfg   ImporterConfig
}

func NewChecklistImporter(store CatalogStore, cfg ImporterConfig) *ChecklistImporter {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.CaseMode == "" {
		cfg.CaseMode = CaseModeExact
	}
	return &ChecklistImporter{store: store, cfg: cfg}
}

// setGroup is one raw set name's worth of rows plus its extraction result.
type setGroup struct {
	rawName    string
	info       catalog.ParallelInfo
	setType    models.SetType
	recognized bool
	rows       []Row
}

// Run imports a checklist for one release. Row- and set-level failures are
// collected into the report; only a failure to reach the store or a cancelled
// context aborts. Cancellation takes effect between set families.
func (imp *ChecklistImporter) Run(ctx context.Context, release models.Release, rows []Row) (*ImportReport, error) {
	start := time.Now()
	metrics.ImportRunsTotal.Inc()

	report := &ImportReport{}
	if err := imp.ensureRelease(&release); err != nil {
		return nil, fmt.Errorf("ensure release %q: %w", release.Name, err)
	}

	groups := imp.groupRows(rows, report)

	// Pass 1: base (non-parallel) sets. Parallels reference bases by slug,
	// so every base must exist before any parallel is written.
	state := &runState{
		baseSlugs: make(map[string]string),
		setSlugs:  make(map[string]string),
		cardSlugs: make(map[string]string),
	}
	if err := imp.runPass(ctx, release, groups, state, report, false); err != nil {
		return nil, fmt.Errorf("import %q: %w", release.Name, err)
	}

	// Pass 2: parallels, resolving each base from the pass-1 map.
	if err := imp.runPass(ctx, release, groups, state, report, true); err != nil {
		return nil, fmt.Errorf("import %q: %w", release.Name, err)
	}

	metrics.ImportDuration.Observe(time.Since(start).Seconds())
	if sets, cards, err := imp.store.Counts(); err == nil {
		metrics.CatalogSetsTotal.Set(float64(sets))
		metrics.CatalogCardsTotal.Set(float64(cards))
	}
	log.Printf("[Importer] %s: %d sets created, %d updated, %d cards created, %d updated, %d skipped, %d failures",
		release.Name, report.SetsCreated, report.SetsUpdated,
		report.CardsCreated, report.CardsUpdated, report.CardsSkipped, len(report.Errors))
	return report, nil
}

// runState is the shared bookkeeping for one run. baseSlugs maps a base
// name's grouping key to its set slug; setSlugs/cardSlugs map each slug to
// the identity that claimed it, for in-run collision detection.
type runState struct {
	mu        sync.Mutex
	baseSlugs map[string]string
	setSlugs  map[string]string
	cardSlugs map[string]string
}

func (imp *ChecklistImporter) runPass(ctx context.Context, release models.Release, groups []setGroup, state *runState, report *ImportReport, parallels bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imp.cfg.Concurrency)

	var mu sync.Mutex // guards report
	for i := range groups {
		group := groups[i]
		if group.info.IsParallel != parallels {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			imp.importSetGroup(release, group, state, report, &mu)
			return nil
		})
	}
	return g.Wait()
}

// groupKey is the grouping identity of a raw set name under the case policy.
func (imp *ChecklistImporter) groupKey(name string) string {
	if imp.cfg.CaseMode == CaseModeLowercase {
		return strings.ToLower(strings.TrimSpace(name))
	}
	return strings.TrimSpace(name)
}

// displayName renders the stored, human-visible name. Under the lowercase
// policy vendor SHOUTING is rebuilt as title case.
func (imp *ChecklistImporter) displayName(name string) string {
	name = strings.TrimSpace(name)
	if imp.cfg.CaseMode == CaseModeLowercase {
		return cases.Title(language.AmericanEnglish).String(strings.ToLower(name))
	}
	return name
}

// groupRows groups rows by raw set name, preserving first-seen order, and
// runs extraction + classification once per group.
func (imp *ChecklistImporter) groupRows(rows []Row, report *ImportReport) []setGroup {
	index := make(map[string]int)
	var groups []setGroup
	noSetName := 0
	for _, row := range rows {
		key := imp.groupKey(row.SetName)
		if key == "" {
			noSetName++
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].rows = append(groups[i].rows, row)
			continue
		}
		info := catalog.Extract(row.SetName, imp.cfg.Table)
		setType, recognized := catalog.ClassifySetType(info.BaseName)
		if !recognized {
			metrics.UnrecognizedSetNamesTotal.Inc()
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("set %q: unrecognized name, classified as insert", row.SetName))
		}
		index[key] = len(groups)
		groups = append(groups, setGroup{
			rawName:    row.SetName,
			info:       info,
			setType:    setType,
			recognized: recognized,
			rows:       []Row{row},
		})
	}
	if noSetName > 0 {
		report.CardsSkipped += noSetName
		metrics.ImportRowsTotal.WithLabelValues("skipped").Add(float64(noSetName))
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d rows with no set name skipped", noSetName))
	}
	return groups
}

func (imp *ChecklistImporter) ensureRelease(release *models.Release) error {
	if release.Slug == "" {
		release.Slug = catalog.GenerateReleaseSlug(release.Year, release.Name)
	}
	existing, err := imp.store.FindReleaseBySlug(release.Slug)
	switch {
	case err == nil:
		release.ID = existing.ID
		release.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		if release.ID == "" {
			release.ID = uuid.New().String()
		}
		release.CreatedAt = time.Now()
	default:
		return err
	}
	release.UpdatedAt = time.Now()
	return imp.store.SaveRelease(release)
}

func (imp *ChecklistImporter) importSetGroup(release models.Release, group setGroup, state *runState, report *ImportReport, mu *sync.Mutex) {
	set, created, err := imp.upsertSet(release, group, state)
	if err != nil {
		mu.Lock()
		if group.info.IsParallel {
			report.ParallelsFailed++
		}
		report.Errors = append(report.Errors, ImportError{
			Entity: "set",
			Name:   group.rawName,
			Reason: err.Error(),
		})
		metrics.ImportSetsTotal.WithLabelValues("failed").Inc()
		mu.Unlock()
		return
	}

	mu.Lock()
	if created {
		report.SetsCreated++
	} else {
		report.SetsUpdated++
	}
	mu.Unlock()

	for _, row := range group.rows {
		outcome, err := imp.upsertCard(release, group, set, row, state)
		mu.Lock()
		switch {
		case err != nil:
			report.Errors = append(report.Errors, ImportError{
				Entity: "card",
				Name:   row.PlayerName,
				Reason: err.Error(),
			})
			metrics.ImportRowsTotal.WithLabelValues("failed").Inc()
		case outcome == outcomeCreated:
			report.CardsCreated++
			metrics.ImportRowsTotal.WithLabelValues("created").Inc()
		case outcome == outcomeUpdated:
			report.CardsUpdated++
			metrics.ImportRowsTotal.WithLabelValues("updated").Inc()
		case outcome == outcomeSkipped:
			report.CardsSkipped++
			metrics.ImportRowsTotal.WithLabelValues("skipped").Inc()
		}
		mu.Unlock()
	}
}

// upsertSet writes one set, resolving the base reference for parallels and
// detecting slug collisions against both the current run and the store.
func (imp *ChecklistImporter) upsertSet(release models.Release, group setGroup, state *runState) (*models.Set, bool, error) {
	info := group.info
	slug := catalog.GenerateSetSlug(release.Year, release.Name, info.BaseName, group.setType, info.VariantName, info.PrintRun)

	var baseSetSlug *string
	if info.IsParallel {
		state.mu.Lock()
		base, ok := state.baseSlugs[imp.groupKey(info.BaseName)]
		state.mu.Unlock()
		if !ok {
			// The base may predate this run.
			baseSlug := catalog.GenerateSetSlug(release.Year, release.Name, info.BaseName, group.setType, "", nil)
			if existing, err := imp.store.FindSetBySlug(baseSlug); err == nil && !existing.IsParallel {
				base, ok = existing.Slug, true
			}
		}
		if !ok {
			return nil, false, fmt.Errorf("%w: %q needs base %q", ErrMissingBaseSet, group.rawName, info.BaseName)
		}
		baseSetSlug = &base
	}

	// In-run collision check: two distinct raw names must never share a slug.
	state.mu.Lock()
	if claimed, ok := state.setSlugs[slug]; ok && claimed != imp.groupKey(group.rawName) {
		state.mu.Unlock()
		metrics.SlugCollisionsTotal.Inc()
		return nil, false, fmt.Errorf("%w: set %q and %q both map to %q", ErrSlugCollision, group.rawName, claimed, slug)
	}
	state.setSlugs[slug] = imp.groupKey(group.rawName)
	state.mu.Unlock()

	now := time.Now()
	set := &models.Set{
		ID:          uuid.New().String(),
		ReleaseID:   release.ID,
		Name:        imp.displayName(group.rawName),
		Slug:        slug,
		Type:        group.setType,
		IsParallel:  info.IsParallel,
		BaseSetSlug: baseSetSlug,
		PrintRun:    info.PrintRun,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := imp.store.FindSetBySlug(slug)
	switch {
	case err == nil:
		if existing.ReleaseID != release.ID {
			metrics.SlugCollisionsTotal.Inc()
			return nil, false, fmt.Errorf("%w: slug %q already belongs to another release", ErrSlugCollision, slug)
		}
		set.ID = existing.ID
		set.CreatedAt = existing.CreatedAt
		set.TotalCards = existing.TotalCards
		if err := imp.store.SaveSet(set); err != nil {
			return nil, false, err
		}
		imp.noteSetWritten(group, state, slug, false)
		return set, false, nil
	case errors.Is(err, ErrNotFound):
		if err := imp.store.SaveSet(set); err != nil {
			return nil, false, err
		}
		imp.noteSetWritten(group, state, slug, true)
		return set, true, nil
	default:
		return nil, false, err
	}
}

func (imp *ChecklistImporter) noteSetWritten(group setGroup, state *runState, slug string, created bool) {
	if !group.info.IsParallel {
		state.mu.Lock()
		state.baseSlugs[imp.groupKey(group.info.BaseName)] = slug
		state.mu.Unlock()
	}
	if created {
		metrics.ImportSetsTotal.WithLabelValues("created").Inc()
	} else {
		metrics.ImportSetsTotal.WithLabelValues("updated").Inc()
	}
}

type cardOutcome int

const (
	outcomeCreated cardOutcome = iota
	outcomeUpdated
	outcomeSkipped
)

// upsertCard writes one card. Duplicate (set, number, parallel) triples are
// skipped; a slug claimed by a different logical card fails this card with
// ErrSlugCollision rather than overwriting.
func (imp *ChecklistImporter) upsertCard(release models.Release, group setGroup, set *models.Set, row Row, state *runState) (cardOutcome, error) {
	info := group.info
	printRun := catalog.ParsePrintRun(row.Sequence)
	if printRun == nil {
		printRun = info.PrintRun
	}

	slug := catalog.GenerateCardSlug(release.Manufacturer, release.Name, release.Year,
		info.BaseName, row.CardNumber, row.PlayerName, info.VariantName, printRun, group.setType)

	identity := set.ID + "|" + row.CardNumber + "|" + info.VariantName

	state.mu.Lock()
	claimed, seen := state.cardSlugs[slug]
	if seen && claimed != identity {
		state.mu.Unlock()
		metrics.SlugCollisionsTotal.Inc()
		return 0, fmt.Errorf("%w: card %q #%s computes slug %q already taken", ErrSlugCollision, row.PlayerName, row.CardNumber, slug)
	}
	if seen {
		// Same logical card appearing twice in the input.
		state.mu.Unlock()
		return outcomeSkipped, nil
	}
	state.cardSlugs[slug] = identity
	state.mu.Unlock()

	// Duplicate triple already persisted under a different slug means two
	// checklist entries disagree about the same physical card. Skip, don't
	// overwrite.
	if existingKey, err := imp.store.FindCardByKey(set.ID, row.CardNumber, info.VariantName); err == nil && existingKey.Slug != slug {
		return outcomeSkipped, nil
	}

	now := time.Now()
	card := &models.Card{
		ID:             uuid.New().String(),
		SetID:          set.ID,
		Slug:           slug,
		CardNumber:     row.CardNumber,
		PlayerName:     imp.displayName(row.PlayerName),
		Team:           imp.displayName(row.Team),
		ParallelType:   info.VariantName,
		PrintRun:       printRun,
		Numbered:       catalog.FormatNumbered(printRun),
		HasAutograph:   group.setType == models.SetTypeAutograph,
		HasMemorabilia: group.setType == models.SetTypeMemorabilia,
		IsNumbered:     printRun != nil,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	existing, err := imp.store.FindCardBySlug(slug)
	switch {
	case err == nil:
		if existing.SetID != set.ID || existing.CardNumber != row.CardNumber {
			metrics.SlugCollisionsTotal.Inc()
			return 0, fmt.Errorf("%w: slug %q already belongs to a different card", ErrSlugCollision, slug)
		}
		card.ID = existing.ID
		card.CreatedAt = existing.CreatedAt
		if err := imp.store.SaveCard(card); err != nil {
			return 0, err
		}
		return outcomeUpdated, nil
	case errors.Is(err, ErrNotFound):
		if err := imp.store.SaveCard(card); err != nil {
			return 0, err
		}
		return outcomeCreated, nil
	default:
		return 0, err
	}
}
