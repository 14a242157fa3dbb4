package services_test

import (
	"errors"
	"testing"

	"github.com/localnerve/elementdb/internal/services"
)

func TestCreateLink(t *testing.T) {
	db := setupTestDB(t)

	element := seedElement(t, db, "Wand A", "wall", "user-1")
	regulation := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")

	link, err := services.CreateLink(db, element.ID, regulation.ID)
	if err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}
	if link.ElementID != element.ID || link.RegulationID != regulation.ID {
		t.Errorf("unexpected link: %+v", link)
	}

	if _, err := services.CreateLink(db, element.ID, regulation.ID); !errors.Is(err, services.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate on repeated pair, got %v", err)
	}
	if _, err := services.CreateLink(db, "missing", regulation.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown element, got %v", err)
	}
	if _, err := services.CreateLink(db, element.ID, 99999); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown regulation, got %v", err)
	}
	if _, err := services.CreateLink(db, element.ID, 0); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for non-positive regulation id, got %v", err)
	}
}

func TestCreateLinksDeduplicatesAndIsolatesFailures(t *testing.T) {
	db := setupTestDB(t)

	element := seedElement(t, db, "Wand A", "wall", "user-1")
	first := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")
	second := seedRegulation(t, db, "Folgeposition", "003902A", "Abgehängte Decke")

	// Duplicate ids collapse, one unknown id fails without blocking the rest.
	result, err := services.CreateLinks(db, element.ID, []int64{first.ID, first.ID, second.ID, 99999})
	if err != nil {
		t.Fatalf("CreateLinks failed: %v", err)
	}
	if result.RequestedCount != 3 {
		t.Errorf("expected 3 unique requests, got %d", result.RequestedCount)
	}
	if result.CreatedCount != 2 {
		t.Errorf("expected 2 created links, got %d", result.CreatedCount)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error for unknown regulation, got %v", result.Errors)
	}
}

func TestCreateElementWithRegulations(t *testing.T) {
	db := setupTestDB(t)

	first := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")
	second := seedRegulation(t, db, "Folgeposition", "003902A", "Abgehängte Decke")

	result, err := services.CreateElementWithRegulations(db, "Wand A", "wall", "user-1", nil, nil, []int64{first.ID, second.ID})
	if err != nil {
		t.Fatalf("CreateElementWithRegulations failed: %v", err)
	}
	if result.Element == nil || result.Element.Name != "Wand A" {
		t.Fatalf("expected created element, got %+v", result.Element)
	}
	if len(result.Links) != 2 || result.LinkWarning != "" {
		t.Errorf("expected 2 clean links, got %d links, warning %q", len(result.Links), result.LinkWarning)
	}
}

func TestCreateElementWithRegulationsPartialFailure(t *testing.T) {
	db := setupTestDB(t)

	regulation := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")

	result, err := services.CreateElementWithRegulations(db, "Wand B", "wall", "user-1", nil, nil, []int64{regulation.ID, 99999})
	if err != nil {
		t.Fatalf("CreateElementWithRegulations failed: %v", err)
	}
	if result.LinkWarning == "" {
		t.Error("expected a link warning for the failed regulation")
	}
	if len(result.Links) != 1 {
		t.Errorf("expected 1 successful link, got %d", len(result.Links))
	}

	// The element itself must survive the partial link failure.
	if _, err := services.GetElementByID(db, result.Element.ID); err != nil {
		t.Errorf("expected element to exist after partial failure, got %v", err)
	}
}

func TestGetRegulationsForElement(t *testing.T) {
	db := setupTestDB(t)

	element := seedElement(t, db, "Wand A", "wall", "user-1")
	regulation := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")

	if _, err := services.CreateLink(db, element.ID, regulation.ID); err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	linked, err := services.GetRegulationsForElement(db, element.ID)
	if err != nil {
		t.Fatalf("GetRegulationsForElement failed: %v", err)
	}
	if len(linked) != 1 {
		t.Fatalf("expected 1 linked regulation, got %d", len(linked))
	}
	if linked[0].Regulation.ID != regulation.ID {
		t.Errorf("expected regulation %d, got %d", regulation.ID, linked[0].Regulation.ID)
	}

	if _, err := services.GetRegulationsForElement(db, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown element, got %v", err)
	}
}

func TestDeleteLinkByPair(t *testing.T) {
	db := setupTestDB(t)

	element := seedElement(t, db, "Wand A", "wall", "user-1")
	regulation := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")

	if _, err := services.CreateLink(db, element.ID, regulation.ID); err != nil {
		t.Fatalf("CreateLink failed: %v", err)
	}

	if err := services.DeleteLinkByPair(db, element.ID, regulation.ID); err != nil {
		t.Fatalf("DeleteLinkByPair failed: %v", err)
	}
	if err := services.DeleteLinkByPair(db, element.ID, regulation.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteLinksPartialFailure(t *testing.T) {
	db := setupTestDB(t)

	element := seedElement(t, db, "Wand A", "wall", "user-1")
	first := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")
	second := seedRegulation(t, db, "Folgeposition", "003902A", "Abgehängte Decke")

	for _, id := range []int64{first.ID, second.ID} {
		if _, err := services.CreateLink(db, element.ID, id); err != nil {
			t.Fatalf("CreateLink failed: %v", err)
		}
	}

	deleted, errs := services.DeleteLinks(db, element.ID, []int64{first.ID, 99999, second.ID})
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error for unknown pair, got %v", errs)
	}
}

func TestMostLinkedRegulations(t *testing.T) {
	db := setupTestDB(t)

	popular := seedRegulation(t, db, "Folgeposition", "003901C", "Vorsatzschale")
	rare := seedRegulation(t, db, "Folgeposition", "003902A", "Abgehängte Decke")

	for _, name := range []string{"Wand A", "Wand B", "Wand C"} {
		element := seedElement(t, db, name, "wall", "user-1")
		if _, err := services.CreateLink(db, element.ID, popular.ID); err != nil {
			t.Fatalf("CreateLink failed: %v", err)
		}
		if name == "Wand A" {
			if _, err := services.CreateLink(db, element.ID, rare.ID); err != nil {
				t.Fatalf("CreateLink failed: %v", err)
			}
		}
	}

	top, err := services.MostLinkedRegulations(db, 10)
	if err != nil {
		t.Fatalf("MostLinkedRegulations failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 ranked regulations, got %d", len(top))
	}
	if top[0].Count != 3 || top[1].Count != 1 {
		t.Errorf("expected counts [3 1], got [%d %d]", top[0].Count, top[1].Count)
	}
}
