package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/vivantaneja/Scoresheet-Analyser/internal/extract"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/store"
	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

type scriptedClient struct {
	response string
	err      error
}

func (c *scriptedClient) Extract(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newTestHandler(t *testing.T, client extract.VisionClient) (*Handler, store.MatchRepository) {
	t.Helper()

	repo, err := store.NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRepository: %v", err)
	}

	extractor := extract.New(client, extract.LoadPrompts("", ""), extract.RetryPolicy{MaxAttempts: 1}, nil)
	return NewHandler(repo, extractor, nil, "current", t.TempDir()), repo
}

func TestGetMatchReturnsDefaultsOnFirstRead(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/api/v1/match", nil)
	w := httptest.NewRecorder()
	h.GetMatch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var rec models.MatchRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	defaults := models.DefaultMatchRecord()
	if !reflect.DeepEqual(rec, defaults) {
		t.Errorf("first read should return defaults, got %+v", rec)
	}
}

func TestUpdateMatchNormalizesAndPersists(t *testing.T) {
	h, repo := newTestHandler(t, nil)

	body := `{
		"team_a_name": "Lions",
		"teamAName": "teamAName",
		"finalScoreTeamA": "78 ",
		"foulsPeriod1TeamB": -3,
		"pointsPerColumn": 45
	}`
	req := httptest.NewRequest("PUT", "/api/v1/match", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.UpdateMatch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	rec, err := repo.Load(context.Background(), "current")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.TeamAName != "Lions" {
		t.Errorf("TeamAName = %q, want Lions (echoed camelCase alias skipped)", rec.TeamAName)
	}
	if rec.FinalScoreTeamA != 78 {
		t.Errorf("FinalScoreTeamA = %d, want 78", rec.FinalScoreTeamA)
	}
	if rec.FoulsPeriod1TeamB != 0 {
		t.Errorf("FoulsPeriod1TeamB = %d, want 0", rec.FoulsPeriod1TeamB)
	}
	if rec.PointsPerColumn != 40 {
		t.Errorf("PointsPerColumn = %d, want 40", rec.PointsPerColumn)
	}
}

func TestUpdateMatchOmittedFieldsRevertToDefaults(t *testing.T) {
	h, repo := newTestHandler(t, nil)
	ctx := context.Background()

	seeded := models.DefaultMatchRecord()
	seeded.TeamBName = "Tigers"
	if err := repo.Save(ctx, "current", &seeded); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("PUT", "/api/v1/match", strings.NewReader(`{"teamAName":"Lions"}`))
	w := httptest.NewRecorder()
	h.UpdateMatch(w, req)

	rec, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatal(err)
	}
	// PUT is a full replace: the body is merged against defaults, not
	// the stored record.
	if rec.TeamBName != "" {
		t.Errorf("TeamBName = %q, want reset to default", rec.TeamBName)
	}
	if rec.TeamAName != "Lions" {
		t.Errorf("TeamAName = %q, want Lions", rec.TeamAName)
	}
}

func TestUpdateMatchRejectsMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest("PUT", "/api/v1/match", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.UpdateMatch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/match/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000000000000000")

func TestUploadScoresheetSuccess(t *testing.T) {
	client := &scriptedClient{response: `{"teamAName":"Lions","finalScoreTeamA":78}`}
	h, repo := newTestHandler(t, client)

	w := httptest.NewRecorder()
	h.UploadScoresheet(w, uploadRequest(t, "sheet.png", pngHeader))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["uploaded"] != true || resp["extracted"] != true {
		t.Errorf("response flags = %v", resp)
	}
	if resp["filename"] == "" {
		t.Error("response should include the stored filename")
	}

	rec, err := repo.Load(context.Background(), "current")
	if err != nil {
		t.Fatal(err)
	}
	if rec.TeamAName != "Lions" || rec.FinalScoreTeamA != 78 {
		t.Errorf("record not replaced by extraction: %+v", rec)
	}
}

func TestUploadScoresheetExtractionFailureKeepsRecord(t *testing.T) {
	client := &scriptedClient{err: errors.New("backend unavailable")}
	h, repo := newTestHandler(t, client)
	ctx := context.Background()

	seeded := models.DefaultMatchRecord()
	seeded.TeamAName = "Lions"
	if err := repo.Save(ctx, "current", &seeded); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	h.UploadScoresheet(w, uploadRequest(t, "sheet.png", pngHeader))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// The file itself was stored; only extraction failed.
	if resp["uploaded"] != true || resp["extracted"] != false {
		t.Errorf("response flags = %v", resp)
	}

	rec, err := repo.Load(ctx, "current")
	if err != nil {
		t.Fatal(err)
	}
	if rec.TeamAName != "Lions" {
		t.Errorf("record must be untouched on extraction failure, got %+v", rec)
	}
}

func TestUploadScoresheetUnreadableOutputYieldsDefaults(t *testing.T) {
	client := &scriptedClient{response: "I cannot read this sheet."}
	h, repo := newTestHandler(t, client)

	w := httptest.NewRecorder()
	h.UploadScoresheet(w, uploadRequest(t, "sheet.png", pngHeader))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	rec, err := repo.Load(context.Background(), "current")
	if err != nil {
		t.Fatal(err)
	}
	defaults := models.DefaultMatchRecord()
	if !reflect.DeepEqual(*rec, defaults) {
		t.Errorf("unreadable output should store the default record, got %+v", rec)
	}
}

func TestUploadScoresheetRequiresFile(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	req := httptest.NewRequest("POST", "/api/v1/match/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	h.UploadScoresheet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	w := httptest.NewRecorder()
	h.HealthCheck(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
