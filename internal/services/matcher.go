package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/martinhensley/cardindex/internal/metrics"
	"github.com/martinhensley/cardindex/internal/models"
)

// ObservedCard is a scanned or hand-entered card to match against a set's
// checklist. Fields may be empty or noisy; scoring degrades gracefully.
type ObservedCard struct {
	PlayerName   string `json:"player_name"`
	CardNumber   string `json:"card_number"`
	Team         string `json:"team"`
	ParallelType string `json:"parallel_type"`
}

// ScoreWeights is the per-field maximum contribution. The default split is
// 100/30/20/25 for a 175 maximum.
type ScoreWeights struct {
	Player     float64 `json:"player"`
	CardNumber float64 `json:"card_number"`
	Team       float64 `json:"team"`
	Parallel   float64 `json:"parallel"`
}

// DefaultScoreWeights returns the standard weight split.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Player: 100, CardNumber: 30, Team: 20, Parallel: 25}
}

// Max returns the highest total this weight split can produce.
func (w ScoreWeights) Max() float64 {
	return w.Player + w.CardNumber + w.Team + w.Parallel
}

// ScoreBreakdown reports per-field contributions to a match score.
type ScoreBreakdown struct {
	Player     float64 `json:"player"`
	CardNumber float64 `json:"card_number"`
	Team       float64 `json:"team"`
	Parallel   float64 `json:"parallel"`
}

// MatchScore is the weighted similarity of one observed/candidate pair.
type MatchScore struct {
	Total     float64        `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// RankedMatch is one candidate in a ranked result list.
type RankedMatch struct {
	CardID     string      `json:"card_id"`
	Card       models.Card `json:"card"`
	Score      MatchScore  `json:"score"`
	Confidence string      `json:"confidence"`
}

// Confidence labels for the top-ranked candidate.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Scorer computes weighted similarity between an observed card and checklist
// candidates. Pure: no store access, no side effects.
type Scorer struct {
	weights ScoreWeights
}

// NewScorer builds a scorer. A nil weights pointer selects the defaults.
func NewScorer(weights *ScoreWeights) *Scorer {
	w := DefaultScoreWeights()
	if weights != nil {
		w = *weights
	}
	return &Scorer{weights: w}
}

// Score computes the weighted similarity for one candidate.
func (s *Scorer) Score(observed ObservedCard, candidate models.Card) MatchScore {
	b := ScoreBreakdown{
		Player:     playerSimilarity(observed.PlayerName, candidate.PlayerName) * s.weights.Player,
		CardNumber: cardNumberSimilarity(observed.CardNumber, candidate.CardNumber) * s.weights.CardNumber,
		Team:       teamSimilarity(observed.Team, candidate.Team) * s.weights.Team,
		Parallel:   parallelSimilarity(observed.ParallelType, candidate.ParallelType) * s.weights.Parallel,
	}
	return MatchScore{
		Total:     b.Player + b.CardNumber + b.Team + b.Parallel,
		Breakdown: b,
	}
}

// Rank scores every candidate and sorts descending by total. The sort is
// stable so tied candidates keep their input order; no secondary tiebreak is
// defined. Confidence is labelled on every entry from its own total: high at
// 80% of the maximum, medium at 60%.
func (s *Scorer) Rank(observed ObservedCard, candidates []models.Card) []RankedMatch {
	ranked := make([]RankedMatch, len(candidates))
	for i, c := range candidates {
		score := s.Score(observed, c)
		ranked[i] = RankedMatch{
			CardID:     c.ID,
			Card:       c,
			Score:      score,
			Confidence: s.confidence(score.Total),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Total > ranked[j].Score.Total
	})
	return ranked
}

func (s *Scorer) confidence(total float64) string {
	max := s.weights.Max()
	switch {
	case total >= 0.8*max:
		return ConfidenceHigh
	case total >= 0.6*max:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// normalizeMatchText lowercases and strips everything non-alphanumeric.
func normalizeMatchText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// playerSimilarity returns 0..1: exact normalized match 1.0, substring
// containment either direction 0.9, surname (last token) match 0.8, then an
// ordered-character-overlap ratio when it clears 0.6.
func playerSimilarity(observed, candidate string) float64 {
	a := normalizeMatchText(observed)
	b := normalizeMatchText(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}
	if lastToken(observed) != "" && lastToken(observed) == lastToken(candidate) {
		return 0.8
	}
	ratio := orderedOverlapRatio(a, b)
	switch {
	case ratio >= 0.8:
		return ratio
	case ratio >= 0.6:
		return ratio * 0.8
	}
	return 0
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return normalizeMatchText(fields[len(fields)-1])
}

// orderedOverlapRatio counts characters of the shorter-scan string matched in
// left-to-right order within the other, divided by the average length. It is
// cheap and tolerant of the dropped/garbled characters OCR produces.
func orderedOverlapRatio(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := 0
	j := 0
	for i := 0; i < len(a) && j < len(b); i++ {
		for k := j; k < len(b); k++ {
			if a[i] == b[k] {
				matched++
				j = k + 1
				break
			}
		}
	}
	avg := float64(len(a)+len(b)) / 2
	return float64(matched) / avg
}

// extractNumber pulls the first numeric substring out of a card number.
func extractNumber(s string) (int, bool) {
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			if err == nil {
				return n, true
			}
			start = -1
		}
	}
	return 0, false
}

// cardNumberSimilarity: exact normalized match 1.0, equal numeric substrings
// 25/30, numerics within 2 of each other 15/30.
func cardNumberSimilarity(observed, candidate string) float64 {
	a := normalizeMatchText(observed)
	b := normalizeMatchText(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	na, oka := extractNumber(observed)
	nb, okb := extractNumber(candidate)
	if oka && okb {
		if na == nb {
			return 25.0 / 30.0
		}
		diff := na - nb
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 {
			return 15.0 / 30.0
		}
	}
	return 0
}

// teamSimilarity: exact 1.0, substring containment 15/20, abbreviation match
// (one side at most 4 characters and contained in the other) 10/20.
func teamSimilarity(observed, candidate string) float64 {
	a := normalizeMatchText(observed)
	b := normalizeMatchText(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		if len(a) <= 4 || len(b) <= 4 {
			return 10.0 / 20.0
		}
		return 15.0 / 20.0
	}
	return 0
}

// parallelSimilarity treats an absent label and a literal "base" label as the
// same thing: an un-parallel card against a base checklist entry is a perfect
// match. One side labelled and the other not scores zero.
func parallelSimilarity(observed, candidate string) float64 {
	a := normalizeMatchText(observed)
	b := normalizeMatchText(candidate)
	if a == "base" {
		a = ""
	}
	if b == "base" {
		b = ""
	}
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 15.0 / 25.0
	}
	return 0
}

// candidateCacheSize bounds the per-set candidate pools held in memory.
const candidateCacheSize = 64

// MatcherService serves ranked matches over the catalog store, caching
// candidate pools per set slug.
type MatcherService struct {
	store  CatalogStore
	scorer *Scorer
	cache  *lru.Cache[string, []models.Card]
}

// NewMatcherService builds a matcher over the given store. A nil weights
// pointer selects the default split.
func NewMatcherService(store CatalogStore, weights *ScoreWeights) (*MatcherService, error) {
	cache, err := lru.New[string, []models.Card](candidateCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create candidate cache: %w", err)
	}
	return &MatcherService{
		store:  store,
		scorer: NewScorer(weights),
		cache:  cache,
	}, nil
}

// MatchAgainstSet ranks a set's checklist against an observed card.
func (m *MatcherService) MatchAgainstSet(setSlug string, observed ObservedCard) ([]RankedMatch, error) {
	candidates, ok := m.cache.Get(setSlug)
	if ok {
		metrics.MatchCandidateCacheHits.Inc()
	} else {
		metrics.MatchCandidateCacheMisses.Inc()
		set, err := m.store.FindSetBySlug(setSlug)
		if err != nil {
			return nil, fmt.Errorf("find set %q: %w", setSlug, err)
		}
		candidates, err = m.store.CardsBySet(set.ID)
		if err != nil {
			return nil, fmt.Errorf("load candidates for %q: %w", setSlug, err)
		}
		m.cache.Add(setSlug, candidates)
	}

	ranked := m.scorer.Rank(observed, candidates)
	if len(ranked) == 0 {
		metrics.MatchRequestsTotal.WithLabelValues("none").Inc()
		return ranked, nil
	}
	metrics.MatchRequestsTotal.WithLabelValues(ranked[0].Confidence).Inc()
	metrics.MatchScoreHistogram.Observe(ranked[0].Score.Total)
	return ranked, nil
}

// InvalidateSet drops a set's cached candidate pool. The importer calls this
// after writing cards so match results never lag an import.
func (m *MatcherService) InvalidateSet(setSlug string) {
	m.cache.Remove(setSlug)
}
