package state

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/knowbite/pkg/models"
)

func TestCreateRun_FillsDefaults(t *testing.T) {
	db := setupTestDB(t)

	r := &models.Run{Mode: "youtube", FileType: models.FileTypeYouTube, Source: "https://youtu.be/abc"}
	if err := db.CreateRun(r); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("expected generated UUID, got %q", r.ID)
	}
	if r.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if r.Outcome != models.RunOutcomePending {
		t.Errorf("Outcome = %q, want pending", r.Outcome)
	}

	got, err := db.GetRun(r.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil")
	}
	if got.Source != r.Source || got.Mode != "youtube" || got.FileType != models.FileTypeYouTube {
		t.Errorf("GetRun = %+v, want source/mode/file_type of %+v", got, r)
	}
	if got.FinishedAt != nil {
		t.Error("pending run should have no FinishedAt")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetRun("missing")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestFinishRun(t *testing.T) {
	db := setupTestDB(t)

	r := &models.Run{Mode: "upload", FileType: models.FileTypePDF, Source: "notes.pdf"}
	if err := db.CreateRun(r); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	if err := db.FinishRun(r.ID, models.RunOutcomeNavigated, 87, "/summary/12/", ""); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	got, err := db.GetRun(r.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Outcome != models.RunOutcomeNavigated {
		t.Errorf("Outcome = %q, want navigated", got.Outcome)
	}
	if got.LastPercent != 87 {
		t.Errorf("LastPercent = %d, want 87", got.LastPercent)
	}
	if got.Location != "/summary/12/" {
		t.Errorf("Location = %q, want /summary/12/", got.Location)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
	if got.FinishedAt == nil {
		t.Error("expected FinishedAt to be set")
	}
}

func TestFinishRun_Errors(t *testing.T) {
	db := setupTestDB(t)

	if err := db.FinishRun("missing", models.RunOutcomeFailed, 0, "", "boom"); err == nil {
		t.Error("expected error for unknown run")
	}

	r := &models.Run{Mode: "upload", FileType: models.FileTypeAudio, Source: "talk.mp3"}
	if err := db.CreateRun(r); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := db.FinishRun(r.ID, models.RunOutcomePending, 0, "", ""); err == nil {
		t.Error("expected error for non-terminal outcome")
	}

	if err := db.FinishRun(r.ID, models.RunOutcomeFailed, 12, "", "server returned 500"); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if err := db.FinishRun(r.ID, models.RunOutcomeNavigated, 99, "/summary/3/", ""); err == nil {
		t.Error("expected error for finishing a run twice")
	}
	got, err := db.GetRun(r.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Outcome != models.RunOutcomeFailed || got.LastPercent != 12 {
		t.Errorf("second finish overwrote the run: outcome=%q last_percent=%d", got.Outcome, got.LastPercent)
	}
}

func TestListRuns_OrderAndLimit(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, src := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		r := &models.Run{
			Mode:      "upload",
			FileType:  models.FileTypePDF,
			Source:    src,
			StartedAt: base.Add(time.Duration(i) * 500 * time.Millisecond),
		}
		if err := db.CreateRun(r); err != nil {
			t.Fatalf("CreateRun(%s) failed: %v", src, err)
		}
	}

	all, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	want := []string{"c.pdf", "b.pdf", "a.pdf"}
	for i, r := range all {
		if r.Source != want[i] {
			t.Errorf("runs[%d].Source = %q, want %q", i, r.Source, want[i])
		}
	}

	limited, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) failed: %v", err)
	}
	if len(limited) != 2 || limited[0].Source != "c.pdf" {
		t.Errorf("ListRuns(2) = %+v", limited)
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := setupTestDB(t)

	old := &models.Run{Mode: "upload", FileType: models.FileTypePDF, Source: "old.pdf", StartedAt: time.Now().Add(-48 * time.Hour)}
	stillRunning := &models.Run{Mode: "upload", FileType: models.FileTypeAudio, Source: "long.mp3", StartedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &models.Run{Mode: "upload", FileType: models.FileTypePDF, Source: "new.pdf"}
	for _, r := range []*models.Run{old, stillRunning, fresh} {
		if err := db.CreateRun(r); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}
	for _, r := range []*models.Run{old, fresh} {
		if err := db.FinishRun(r.ID, models.RunOutcomeNavigated, 90, "/summary/1/", ""); err != nil {
			t.Fatalf("FinishRun failed: %v", err)
		}
	}

	n, err := db.PurgeOldRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldRuns failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d runs, want 1", n)
	}
	if got, _ := db.GetRun(old.ID); got != nil {
		t.Error("old finished run was not purged")
	}
	if got, _ := db.GetRun(fresh.ID); got == nil {
		t.Error("fresh run was purged")
	}
	if got, _ := db.GetRun(stillRunning.ID); got == nil {
		t.Fatal("old pending run was purged")
	}

	// The pending run can still be finished after the purge.
	if err := db.FinishRun(stillRunning.ID, models.RunOutcomeNavigated, 95, "/summary/2/", ""); err != nil {
		t.Errorf("FinishRun after purge: %v", err)
	}
}
