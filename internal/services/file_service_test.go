package services_test

import (
	"errors"
	"testing"

	"github.com/localnerve/elementdb/internal/models"
	"github.com/localnerve/elementdb/internal/services"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"angebot.pdf", "angebot.pdf"},
		{"  LV Trockenbau 2024.onlv  ", "LV Trockenbau 2024.onlv"},
		{"../../etc/passwd", "passwd"},
		{"lv/unter/pfad.pdf", "pfad.pdf"},
		{"böse<datei>.pdf", "b_se_datei_.pdf"},
		{"", "unnamed"},
		{"..", "unnamed"},
	}

	for _, tc := range cases {
		if got := services.SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClassifyFileType(t *testing.T) {
	if got, err := services.ClassifyFileType("angebot.PDF"); err != nil || got != models.FileTypePDF {
		t.Errorf("expected pdf, got (%q, %v)", got, err)
	}
	if got, err := services.ClassifyFileType("lv.onlv"); err != nil || got != models.FileTypeONLV {
		t.Errorf("expected onlv, got (%q, %v)", got, err)
	}
	if _, err := services.ClassifyFileType("notizen.txt"); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for .txt, got %v", err)
	}
}

func TestCreateFile(t *testing.T) {
	db := setupTestDB(t)

	project := seedProject(t, db, "user-1", "Bürogebäude Nord")

	file, err := services.CreateFile(db, project.ID, "angebot.pdf", services.FileInput{})
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if file.FileType != models.FileTypePDF {
		t.Errorf("expected type derived from extension, got %q", file.FileType)
	}
	if !file.Active {
		t.Error("expected new file to be active")
	}

	if _, err := services.CreateFile(db, "missing", "angebot.pdf", services.FileInput{}); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown project, got %v", err)
	}
	if _, err := services.CreateFile(db, project.ID, "notizen.txt", services.FileInput{}); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unsupported extension, got %v", err)
	}
	if _, err := services.CreateFile(db, project.ID, "lv.onlv", services.FileInput{BoqID: strPtr("missing")}); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown boq, got %v", err)
	}
	if _, err := services.CreateFile(db, project.ID, "lv.onlv", services.FileInput{SizeBytes: func() *int64 { n := int64(-1); return &n }()}); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative size, got %v", err)
	}
}

func TestDeactivateAndReactivateFile(t *testing.T) {
	db := setupTestDB(t)

	project := seedProject(t, db, "user-1", "Bürogebäude Nord")
	file, err := services.CreateFile(db, project.ID, "angebot.pdf", services.FileInput{})
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	if err := services.DeactivateFile(db, file.ID); err != nil {
		t.Fatalf("DeactivateFile failed: %v", err)
	}

	// Inactive files drop out of the default listing but stay reachable.
	active, err := services.GetFilesByProject(db, project.ID, false, 20, 0)
	if err != nil {
		t.Fatalf("GetFilesByProject failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active files, got %d", len(active))
	}
	all, err := services.GetFilesByProject(db, project.ID, true, 20, 0)
	if err != nil {
		t.Fatalf("GetFilesByProject include-inactive failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 file with inactive included, got %d", len(all))
	}

	if err := services.ReactivateFile(db, file.ID); err != nil {
		t.Fatalf("ReactivateFile failed: %v", err)
	}
	reactivated, err := services.GetFileByID(db, file.ID)
	if err != nil {
		t.Fatalf("GetFileByID failed: %v", err)
	}
	if !reactivated.Active {
		t.Error("expected file active again")
	}
}

func TestBulkDeactivateFilesPartialFailure(t *testing.T) {
	db := setupTestDB(t)

	project := seedProject(t, db, "user-1", "Bürogebäude Nord")
	first, err := services.CreateFile(db, project.ID, "a.pdf", services.FileInput{})
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	second, err := services.CreateFile(db, project.ID, "b.pdf", services.FileInput{})
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	deactivated, errs := services.BulkDeactivateFiles(db, []string{first.ID, "missing", second.ID})
	if deactivated != 2 {
		t.Errorf("expected 2 deactivated, got %d", deactivated)
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error for unknown id, got %v", errs)
	}
}

func TestGetFileStatistics(t *testing.T) {
	db := setupTestDB(t)

	project := seedProject(t, db, "user-1", "Bürogebäude Nord")
	size := int64(1024)
	if _, err := services.CreateFile(db, project.ID, "a.pdf", services.FileInput{SizeBytes: &size}); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if _, err := services.CreateFile(db, project.ID, "lv.onlv", services.FileInput{SizeBytes: &size}); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	gone, err := services.CreateFile(db, project.ID, "alt.pdf", services.FileInput{SizeBytes: &size})
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if err := services.DeactivateFile(db, gone.ID); err != nil {
		t.Fatalf("DeactivateFile failed: %v", err)
	}

	stats, err := services.GetFileStatistics(db, project.ID)
	if err != nil {
		t.Fatalf("GetFileStatistics failed: %v", err)
	}
	if stats.Total != 3 || stats.Active != 2 || stats.Inactive != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.TotalBytes != 2048 {
		t.Errorf("expected 2048 active bytes, got %d", stats.TotalBytes)
	}
	if stats.ByType[models.FileTypePDF] != 1 || stats.ByType[models.FileTypeONLV] != 1 {
		t.Errorf("unexpected by-type counts: %v", stats.ByType)
	}
}

func TestBoqAttachFileCounts(t *testing.T) {
	db := setupTestDB(t)

	project := seedProject(t, db, "user-1", "Bürogebäude Nord")
	boq, err := services.CreateBoq(db, project.ID, "LV Trockenbau", services.BoqInput{})
	if err != nil {
		t.Fatalf("CreateBoq failed: %v", err)
	}
	empty, err := services.CreateBoq(db, project.ID, "LV Estrich", services.BoqInput{})
	if err != nil {
		t.Fatalf("CreateBoq failed: %v", err)
	}

	for _, name := range []string{"a.pdf", "b.onlv"} {
		if _, err := services.CreateFile(db, project.ID, name, services.FileInput{BoqID: &boq.ID}); err != nil {
			t.Fatalf("CreateFile failed: %v", err)
		}
	}

	boqs, err := services.GetBoqsByProject(db, project.ID, 20, 0)
	if err != nil {
		t.Fatalf("GetBoqsByProject failed: %v", err)
	}
	if err := services.AttachFileCounts(db, boqs); err != nil {
		t.Fatalf("AttachFileCounts failed: %v", err)
	}

	counts := map[string]int64{}
	for _, b := range boqs {
		counts[b.ID] = b.FileCount
	}
	if counts[boq.ID] != 2 {
		t.Errorf("expected 2 files on boq, got %d", counts[boq.ID])
	}
	if counts[empty.ID] != 0 {
		t.Errorf("expected 0 files on empty boq, got %d", counts[empty.ID])
	}
}

func TestDeleteBoqDetachesFiles(t *testing.T) {
	db := setupTestDB(t)

	project := seedProject(t, db, "user-1", "Bürogebäude Nord")
	boq, err := services.CreateBoq(db, project.ID, "LV Trockenbau", services.BoqInput{})
	if err != nil {
		t.Fatalf("CreateBoq failed: %v", err)
	}
	file, err := services.CreateFile(db, project.ID, "a.pdf", services.FileInput{BoqID: &boq.ID})
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	if err := services.DeleteBoq(db, boq.ID); err != nil {
		t.Fatalf("DeleteBoq failed: %v", err)
	}

	detached, err := services.GetFileByID(db, file.ID)
	if err != nil {
		t.Fatalf("GetFileByID failed: %v", err)
	}
	if detached.BoqID != nil {
		t.Errorf("expected boq reference cleared, got %v", *detached.BoqID)
	}
}
