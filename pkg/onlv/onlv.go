// onlv.go
//
// A data service and client toolkit for construction element and regulation management
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of elementdb.
// elementdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// elementdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with elementdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package onlv merges regulation content into the external ONLV JSON
// template. The template's shape is a fixed contract: insertion walks the
// path onlv -> "ausschreibungs-lv" -> "gliederung-lg" -> "lg-liste" -> "lg"
// and fails closed when any segment is missing.
package onlv

import (
	"encoding/json"
	"fmt"
)

// MissingPathError reports which segment of the fixed template path was
// absent. Nothing is written when any segment is missing.
type MissingPathError struct {
	Segment string
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("onlv: template path segment %q is missing", e.Segment)
}

// Document is the typed view of an ONLV template. Sections this package
// never touches stay as raw JSON so their content and key layout survive a
// round trip.
type Document struct {
	Onlv *Root `json:"onlv"`
}

// Root is the top-level ONLV object.
type Root struct {
	Metadaten        json.RawMessage   `json:"metadaten,omitempty"`
	AusschreibungsLv *AusschreibungsLv `json:"ausschreibungs-lv,omitempty"`
}

// AusschreibungsLv is the tender bill-of-quantities section.
type AusschreibungsLv struct {
	Kenndaten    json.RawMessage `json:"kenndaten,omitempty"`
	GliederungLg *GliederungLg   `json:"gliederung-lg,omitempty"`
}

// GliederungLg holds the LG structure listing.
type GliederungLg struct {
	LgListe *LgListe `json:"lg-liste,omitempty"`
}

// LgListe is the ordered sequence of LG entries.
type LgListe struct {
	Lg []json.RawMessage `json:"lg"`
}

// Parse decodes a server-supplied ONLV document.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("onlv: decode document: %w", err)
	}
	return &doc, nil
}

// lgList walks the fixed insertion path and returns the lg list, or a
// *MissingPathError naming the first absent segment.
func (d *Document) lgList() (*LgListe, error) {
	if d.Onlv == nil {
		return nil, &MissingPathError{Segment: "onlv"}
	}
	if d.Onlv.AusschreibungsLv == nil {
		return nil, &MissingPathError{Segment: "ausschreibungs-lv"}
	}
	if d.Onlv.AusschreibungsLv.GliederungLg == nil {
		return nil, &MissingPathError{Segment: "gliederung-lg"}
	}
	if d.Onlv.AusschreibungsLv.GliederungLg.LgListe == nil {
		return nil, &MissingPathError{Segment: "lg-liste"}
	}
	if d.Onlv.AusschreibungsLv.GliederungLg.LgListe.Lg == nil {
		return nil, &MissingPathError{Segment: "lg"}
	}
	return d.Onlv.AusschreibungsLv.GliederungLg.LgListe, nil
}

// lgNr extracts the "nr" discriminator of an LG entry as a string; entries
// without one yield "".
func lgNr(entry json.RawMessage) string {
	var head struct {
		Nr any `json:"nr"`
	}
	if err := json.Unmarshal(entry, &head); err != nil || head.Nr == nil {
		return ""
	}
	return fmt.Sprint(head.Nr)
}

// InsertRegulations appends LG entries to the document's lg list. The whole
// operation fails with *MissingPathError when the path is incomplete, before
// anything is written. Entries whose nr is already present are skipped;
// it returns how many entries were actually inserted.
func InsertRegulations(doc *Document, entries []json.RawMessage) (int, error) {
	list, err := doc.lgList()
	if err != nil {
		return 0, err
	}

	present := make(map[string]bool, len(list.Lg))
	for _, existing := range list.Lg {
		if nr := lgNr(existing); nr != "" {
			present[nr] = true
		}
	}

	inserted := 0
	for _, entry := range entries {
		nr := lgNr(entry)
		if nr != "" && present[nr] {
			continue
		}
		if nr != "" {
			present[nr] = true
		}
		list.Lg = append(list.Lg, entry)
		inserted++
	}
	return inserted, nil
}

// ExportJSON renders the document with 2-space indentation, the format used
// for file download and clipboard hand-off.
func ExportJSON(doc *Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("onlv: encode document: %w", err)
	}
	return out, nil
}
