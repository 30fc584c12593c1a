package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/martinhensley/cardindex/internal/models"
	"github.com/martinhensley/cardindex/internal/services"
)

func TestDeleteSetHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := services.NewMemoryStore()
	set := models.Set{ID: "set-1", ReleaseID: "rel-1", Name: "Base", Slug: "2016-17-court-kings"}
	if err := store.SaveSet(&set); err != nil {
		t.Fatalf("SaveSet() error: %v", err)
	}
	card := models.Card{ID: "c1", SetID: "set-1", Slug: "a", CardNumber: "23", PlayerName: "LeBron James"}
	if err := store.SaveCard(&card); err != nil {
		t.Fatalf("SaveCard() error: %v", err)
	}

	matcher, err := services.NewMatcherService(store, nil)
	if err != nil {
		t.Fatalf("NewMatcherService() error: %v", err)
	}

	// Warm the matcher's candidate cache so the delete has a pool to drop.
	if _, err := matcher.MatchAgainstSet("2016-17-court-kings", services.ObservedCard{PlayerName: "LeBron James"}); err != nil {
		t.Fatalf("MatchAgainstSet() error: %v", err)
	}

	router := gin.New()
	router.DELETE("/api/sets/:slug", NewCatalogHandler(store, matcher).DeleteSet)

	req := httptest.NewRequest(http.MethodDelete, "/api/sets/2016-17-court-kings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	cards, err := store.CardsBySet("set-1")
	if err != nil {
		t.Fatalf("CardsBySet() error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("deleted set still has %d cards", len(cards))
	}

	// The cached candidate pool is gone with the set: a fresh match must miss
	// the cache and fail the set lookup.
	if _, err := matcher.MatchAgainstSet("2016-17-court-kings", services.ObservedCard{}); err == nil {
		t.Error("expected error matching against deleted set, got nil")
	}

	// Deleting an unknown slug is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/api/sets/no-such-set", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
