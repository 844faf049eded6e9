package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

func newTestRepo(t *testing.T) (*FileRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}
	return repo, dir
}

func TestFileLoadMissingSelfHeals(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	defaults := models.DefaultMatchRecord()
	if !reflect.DeepEqual(*rec, defaults) {
		t.Errorf("missing record should load as defaults, got %+v", rec)
	}

	// Self-healing persists the defaults.
	if _, err := os.Stat(filepath.Join(dir, "match-current.json")); err != nil {
		t.Errorf("defaults were not written back: %v", err)
	}
}

func TestFileSaveLoadRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	rec := models.DefaultMatchRecord()
	rec.TeamAName = "Lions"
	rec.FinalScoreTeamA = 78
	rec.RunningScoreEvents = []models.ScoreEvent{{Point: 2, Team: "A", Type: "2", Jersey: "7"}}
	rec.PlayerScoringOverrides.A["7"] = models.PeriodPoints{P1: 2}

	if err := repo.Save(ctx, "current", &rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(*got, rec) {
		t.Errorf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", rec, *got)
	}
}

func TestFileLoadEmptyFileSelfHeals(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	path := filepath.Join(dir, "match-current.json")
	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defaults := models.DefaultMatchRecord()
	if !reflect.DeepEqual(*rec, defaults) {
		t.Errorf("empty file should load as defaults, got %+v", rec)
	}
}

func TestFileLoadSchemaDocumentSelfHeals(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	schema := `{"$schema":"http://json-schema.org/draft-07/schema#","type":"object","properties":{"teamAName":{"type":"string"}}}`
	path := filepath.Join(dir, "match-current.json")
	if err := os.WriteFile(path, []byte(schema), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.TeamAName != "" {
		t.Errorf("schema document should not be treated as data: %+v", rec)
	}
}

func TestFileLoadCorruptFileSelfHeals(t *testing.T) {
	repo, dir := newTestRepo(t)
	ctx := context.Background()

	path := filepath.Join(dir, "match-current.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defaults := models.DefaultMatchRecord()
	if !reflect.DeepEqual(*rec, defaults) {
		t.Errorf("corrupt file should load as defaults, got %+v", rec)
	}
}

func TestFileRecordsAreKeyedByMatchID(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	recA := models.DefaultMatchRecord()
	recA.TeamAName = "Lions"
	if err := repo.Save(ctx, "m1", &recA); err != nil {
		t.Fatal(err)
	}

	recB := models.DefaultMatchRecord()
	recB.TeamAName = "Tigers"
	if err := repo.Save(ctx, "m2", &recB); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Load(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TeamAName != "Lions" {
		t.Errorf("m1 = %q, want Lions", got.TeamAName)
	}
}
