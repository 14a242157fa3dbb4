package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/localnerve/elementdb/internal/services"
)

func TestBuildEmptyOnlvDefaults(t *testing.T) {
	db := setupTestDB(t)

	doc, err := services.BuildEmptyOnlv(db, "", "")
	if err != nil {
		t.Fatalf("BuildEmptyOnlv failed: %v", err)
	}

	md := doc.Onlv.Metadaten
	if md.Erstelltmit != "elementdb" {
		t.Errorf("expected template tool name, got %q", md.Erstelltmit)
	}
	if md.Dateiname != "Generated Onlv" {
		t.Errorf("expected default filename, got %q", md.Dateiname)
	}
	if !strings.HasSuffix(md.Erstelltam, "Z") {
		t.Errorf("expected Z-suffixed timestamp, got %q", md.Erstelltam)
	}
	if _, err := time.Parse("2006-01-02T15:04:05Z", md.Erstelltam); err != nil {
		t.Errorf("unparseable erstelltam %q: %v", md.Erstelltam, err)
	}

	kd := doc.Onlv.AusschreibungsLv.Kenndaten
	if kd.Lvbezeichnung != "Trockenbauarbeiten" {
		t.Errorf("expected default designation, got %q", kd.Lvbezeichnung)
	}
	if kd.Waehrung != "EUR" {
		t.Errorf("expected template currency, got %q", kd.Waehrung)
	}
	today := time.Now().Format("2006-01-02")
	if kd.Bearbeitungsstand != today || kd.Preisbasis != today {
		t.Errorf("expected today's date stamps, got %q / %q", kd.Bearbeitungsstand, kd.Preisbasis)
	}
	if len(doc.Onlv.AusschreibungsLv.GliederungLg.LgListe.Lg) != 0 {
		t.Error("expected empty lg list in the template")
	}
}

func TestBuildEmptyOnlvFromProject(t *testing.T) {
	db := setupTestDB(t)

	project, err := services.CreateProject(db, "user-1", "Bürogebäude Nord", services.ProjectInput{
		Nr:            strPtr("2024-017"),
		LvBezeichnung: strPtr("Innenausbau"),
		Auftraggeber:  strPtr("Bau GmbH"),
		Dateiname:     strPtr("projekt.onlv"),
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	doc, err := services.BuildEmptyOnlv(db, project.ID, "")
	if err != nil {
		t.Fatalf("BuildEmptyOnlv failed: %v", err)
	}

	kd := doc.Onlv.AusschreibungsLv.Kenndaten
	if kd.Lvcode != "2024-017" {
		t.Errorf("expected project nr as lvcode, got %q", kd.Lvcode)
	}
	if kd.Vorhaben != "Bürogebäude Nord" {
		t.Errorf("expected project name as vorhaben, got %q", kd.Vorhaben)
	}
	if kd.Lvbezeichnung != "Innenausbau" {
		t.Errorf("expected project designation, got %q", kd.Lvbezeichnung)
	}
	if kd.Auftraggeber.Firma.Name != "Bau GmbH" {
		t.Errorf("expected project client, got %q", kd.Auftraggeber.Firma.Name)
	}
	if doc.Onlv.Metadaten.Dateiname != "projekt.onlv" {
		t.Errorf("expected project filename, got %q", doc.Onlv.Metadaten.Dateiname)
	}
}

func TestBuildEmptyOnlvBoqOverridesProject(t *testing.T) {
	db := setupTestDB(t)

	project, err := services.CreateProject(db, "user-1", "Bürogebäude Nord", services.ProjectInput{
		Nr:            strPtr("2024-017"),
		LvBezeichnung: strPtr("Innenausbau"),
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	boq, err := services.CreateBoq(db, project.ID, "LV Trockenbau", services.BoqInput{
		LvCode:           strPtr("LV-01"),
		LvBezeichnung:    strPtr("Trockenbau EG"),
		OriginalFilename: strPtr("trockenbau.onlv"),
	})
	if err != nil {
		t.Fatalf("CreateBoq failed: %v", err)
	}

	// Only the BOQ id is given; the owning project is resolved from it.
	doc, err := services.BuildEmptyOnlv(db, "", boq.ID)
	if err != nil {
		t.Fatalf("BuildEmptyOnlv failed: %v", err)
	}

	kd := doc.Onlv.AusschreibungsLv.Kenndaten
	if kd.Lvcode != "LV-01" {
		t.Errorf("expected boq lv code to win, got %q", kd.Lvcode)
	}
	if kd.Lvbezeichnung != "Trockenbau EG" {
		t.Errorf("expected boq designation to win, got %q", kd.Lvbezeichnung)
	}
	if kd.Vorhaben != "Bürogebäude Nord" {
		t.Errorf("expected project name resolved through boq, got %q", kd.Vorhaben)
	}
	if doc.Onlv.Metadaten.Dateiname != "trockenbau.onlv" {
		t.Errorf("expected boq filename to win, got %q", doc.Onlv.Metadaten.Dateiname)
	}
}

func TestBuildEmptyOnlvUnknownIDsSkipped(t *testing.T) {
	db := setupTestDB(t)

	doc, err := services.BuildEmptyOnlv(db, "missing-project", "missing-boq")
	if err != nil {
		t.Fatalf("expected unknown ids to be skipped, got %v", err)
	}
	if doc.Onlv.AusschreibungsLv.Kenndaten.Vorhaben != "" {
		t.Errorf("expected empty vorhaben, got %q", doc.Onlv.AusschreibungsLv.Kenndaten.Vorhaben)
	}
}
