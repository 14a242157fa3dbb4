package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/elementdb/data"
	"github.com/localnerve/elementdb/internal/models"
	"gorm.io/gorm"
)

// defaultLvBezeichnung fills the kenndaten when neither the BOQ nor the
// project carries a designation.
const defaultLvBezeichnung = "Trockenbauarbeiten"

// OnlvMetadaten is the metadata block at onlv.metadaten.
type OnlvMetadaten struct {
	Erstelltam  string `json:"erstelltam"`
	Erstelltmit string `json:"erstelltmit"`
	Dateiname   string `json:"dateiname"`
}

// OnlvFirma is a company record inside kenndaten.
type OnlvFirma struct {
	Name string `json:"name"`
}

// OnlvAuftraggeber is the client block inside kenndaten.
type OnlvAuftraggeber struct {
	Firma OnlvFirma `json:"firma"`
}

// OnlvKenndaten is the tender key data at onlv.ausschreibungs-lv.kenndaten.
type OnlvKenndaten struct {
	Lvcode            string           `json:"lvcode"`
	Vorhaben          string           `json:"vorhaben"`
	Lvbezeichnung     string           `json:"lvbezeichnung"`
	Bearbeitungsstand string           `json:"bearbeitungsstand"`
	Preisbasis        string           `json:"preisbasis"`
	Waehrung          string           `json:"waehrung"`
	Auftraggeber      OnlvAuftraggeber `json:"auftraggeber"`
}

// OnlvLgListe holds the LG sequence. Entries are opaque regulation objects.
type OnlvLgListe struct {
	Lg []json.RawMessage `json:"lg"`
}

// OnlvGliederungLg is the structure block at onlv.ausschreibungs-lv.gliederung-lg.
type OnlvGliederungLg struct {
	LgListe OnlvLgListe `json:"lg-liste"`
}

// OnlvAusschreibungsLv is the tender document at onlv.ausschreibungs-lv.
type OnlvAusschreibungsLv struct {
	Kenndaten    OnlvKenndaten    `json:"kenndaten"`
	GliederungLg OnlvGliederungLg `json:"gliederung-lg"`
}

// OnlvRoot is the inner onlv object.
type OnlvRoot struct {
	Metadaten        OnlvMetadaten        `json:"metadaten"`
	AusschreibungsLv OnlvAusschreibungsLv `json:"ausschreibungs-lv"`
}

// OnlvDocument is the full template document.
type OnlvDocument struct {
	Onlv OnlvRoot `json:"onlv"`
}

// BuildEmptyOnlv returns the embedded ONLV template populated with current
// timestamps and, when ids are given, project and BOQ data. Field priority is
// BOQ over project over the template default. A BOQ id without a project id
// pulls the BOQ's own project. Unknown ids are skipped, not errors.
func BuildEmptyOnlv(db *gorm.DB, projectID, boqID string) (*OnlvDocument, error) {
	doc, err := loadOnlvTemplate()
	if err != nil {
		return nil, err
	}

	project, boq, err := resolveOnlvContext(db, projectID, boqID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	doc.Onlv.Metadaten.Erstelltam = now.Format("2006-01-02T15:04:05") + "Z"

	switch {
	case boq != nil && boq.OriginalFilename != nil && *boq.OriginalFilename != "":
		doc.Onlv.Metadaten.Dateiname = *boq.OriginalFilename
	case project != nil && project.Dateiname != nil && *project.Dateiname != "":
		doc.Onlv.Metadaten.Dateiname = *project.Dateiname
	default:
		doc.Onlv.Metadaten.Dateiname = "Generated Onlv"
	}

	kd := &doc.Onlv.AusschreibungsLv.Kenndaten

	switch {
	case boq != nil && boq.LvCode != nil && *boq.LvCode != "":
		kd.Lvcode = *boq.LvCode
	case project != nil && project.Nr != nil && *project.Nr != "":
		kd.Lvcode = *project.Nr
	}

	if project != nil {
		kd.Vorhaben = project.Name
		if project.Auftraggeber != nil && *project.Auftraggeber != "" {
			kd.Auftraggeber.Firma.Name = *project.Auftraggeber
		}
	}

	switch {
	case boq != nil && boq.LvBezeichnung != nil && *boq.LvBezeichnung != "":
		kd.Lvbezeichnung = *boq.LvBezeichnung
	case project != nil && project.LvBezeichnung != nil && *project.LvBezeichnung != "":
		kd.Lvbezeichnung = *project.LvBezeichnung
	}
	if kd.Lvbezeichnung == "" {
		kd.Lvbezeichnung = defaultLvBezeichnung
	}

	today := now.Format("2006-01-02")
	kd.Bearbeitungsstand = today
	kd.Preisbasis = today

	return doc, nil
}

func loadOnlvTemplate() (*OnlvDocument, error) {
	var doc OnlvDocument
	if err := json.Unmarshal(data.OnlvEmptyTemplate, &doc); err != nil {
		return nil, fmt.Errorf("embedded onlv template is invalid: %w", err)
	}
	return &doc, nil
}

// resolveOnlvContext loads the requested project and BOQ. When only a BOQ id
// is given, the BOQ's project is loaded too.
func resolveOnlvContext(db *gorm.DB, projectID, boqID string) (*models.Project, *models.Boq, error) {
	var project *models.Project
	var boq *models.Boq

	if boqID != "" {
		b, err := GetBoqByID(db, boqID)
		switch {
		case err == nil:
			boq = b
			if projectID == "" {
				projectID = b.ProjectID
			}
		case !errors.Is(err, ErrNotFound):
			return nil, nil, err
		}
	}

	if projectID != "" {
		p, err := GetProjectByID(db, projectID)
		switch {
		case err == nil:
			project = p
		case !errors.Is(err, ErrNotFound):
			return nil, nil, err
		}
	}
	return project, boq, nil
}
