package services_test

import (
	"errors"
	"testing"

	"github.com/localnerve/elementdb/internal/models"
	"github.com/localnerve/elementdb/internal/services"
)

func TestIsRegulationNumber(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"003901C", true},
		{"003502", true},
		{"  003901c  ", true},
		{"00390", false},
		{"0039011", false},
		{"003901CC", false},
		{"Vorsatzschale", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := services.IsRegulationNumber(tc.query); got != tc.want {
			t.Errorf("IsRegulationNumber(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestFindRegulationsByNumber(t *testing.T) {
	db := setupTestDB(t)

	seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")

	exact, err := services.FindRegulationsByNumber(db, "003901C")
	if err != nil {
		t.Fatalf("FindRegulationsByNumber failed: %v", err)
	}
	if len(exact) != 1 {
		t.Errorf("expected exact match, got %d rows", len(exact))
	}

	if _, err := services.FindRegulationsByNumber(db, "not-a-number"); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for malformed number, got %v", err)
	}
}

func TestFindRegulationsByNumberStrippedAlternative(t *testing.T) {
	db := setupTestDB(t)

	// Stored without leading zeros; the query carries them.
	seedRegulation(t, db, "Folgeposition", "0391C", "Vorsatzschale")

	results, err := services.FindRegulationsByNumber(db, "003901C")
	if err != nil {
		t.Fatalf("FindRegulationsByNumber failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected fallback to stripped number, got %d rows", len(results))
	}
	if results[0].FullNr == nil || *results[0].FullNr != "0391C" {
		t.Errorf("expected stripped full_nr, got %v", results[0].FullNr)
	}
}

func TestParseRegulationNumber(t *testing.T) {
	db := setupTestDB(t)

	regulation := models.Regulation{
		EntityType:     "Folgeposition",
		LgNr:           strPtr("00"),
		UlgNr:          strPtr("39"),
		GrundtextNr:    strPtr("01"),
		PositionNr:     strPtr("C"),
		FullNr:         strPtr("003901C"),
		SearchableText: "Vorsatzschale",
	}
	if err := db.Create(&regulation).Error; err != nil {
		t.Fatalf("Failed to seed regulation: %v", err)
	}

	parts, err := services.ParseRegulationNumber(db, "003901C")
	if err != nil {
		t.Fatalf("ParseRegulationNumber failed: %v", err)
	}
	if parts.LgNr == nil || *parts.LgNr != "00" || parts.PositionNr == nil || *parts.PositionNr != "C" {
		t.Errorf("unexpected parts: %+v", parts)
	}

	// Unknown and malformed numbers yield empty parts, not errors.
	empty, err := services.ParseRegulationNumber(db, "999999Z")
	if err != nil || empty.LgNr != nil {
		t.Errorf("expected empty parts for unknown number, got (%+v, %v)", empty, err)
	}
	empty, err = services.ParseRegulationNumber(db, "free text")
	if err != nil || empty.LgNr != nil {
		t.Errorf("expected empty parts for malformed number, got (%+v, %v)", empty, err)
	}
}

func TestUnifiedSearchDispatch(t *testing.T) {
	db := setupTestDB(t)

	seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale GKB 12,5mm")
	seedRegulation(t, db, "Grundtext", "003901", "Vorsatzschale Grundtext")

	byNumber, err := services.UnifiedSearch(db, "003901C", 20)
	if err != nil {
		t.Fatalf("UnifiedSearch number failed: %v", err)
	}
	if byNumber.SearchType != services.SearchTypeNumber {
		t.Errorf("expected number search, got %q", byNumber.SearchType)
	}
	if byNumber.TotalResults != 1 {
		t.Errorf("expected 1 number result, got %d", byNumber.TotalResults)
	}
	if byNumber.ParsedComponents == nil {
		t.Error("expected parsed components on number search")
	}

	byText, err := services.UnifiedSearch(db, "vorsatzschale", 20)
	if err != nil {
		t.Fatalf("UnifiedSearch text failed: %v", err)
	}
	if byText.SearchType != services.SearchTypeText {
		t.Errorf("expected text search, got %q", byText.SearchType)
	}
	if byText.TotalResults != 2 {
		t.Errorf("expected 2 text results, got %d", byText.TotalResults)
	}
	if byText.ParsedComponents != nil {
		t.Error("expected no parsed components on text search")
	}

	if _, err := services.UnifiedSearch(db, "   ", 20); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank query, got %v", err)
	}
}

func TestGetRegulationsByEntityType(t *testing.T) {
	db := setupTestDB(t)

	seedRegulation(t, db, models.EntityTypeLG, "00", "Allgemeines")
	seedRegulation(t, db, models.EntityTypeFolgeposition, "003901C", "Vorsatzschale")

	lgs, err := services.GetRegulationsByEntityType(db, models.EntityTypeLG, 20)
	if err != nil {
		t.Fatalf("GetRegulationsByEntityType failed: %v", err)
	}
	if len(lgs) != 1 || lgs[0].EntityType != models.EntityTypeLG {
		t.Errorf("expected 1 LG row, got %v", lgs)
	}
}
