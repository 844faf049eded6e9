package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vivantaneja/Scoresheet-Analyser/internal/extract"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/hub"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/store"
	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
	"github.com/vivantaneja/Scoresheet-Analyser/pkg/normalize"
)

const maxUploadBytes = 32 << 20

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	repo      store.MatchRepository
	extractor *extract.Extractor
	hub       *hub.Hub
	matchID   string
	uploadDir string
}

// NewHandler creates a new handler with dependencies. hub may be nil
// when live updates are disabled.
func NewHandler(repo store.MatchRepository, extractor *extract.Extractor, h *hub.Hub, matchID, uploadDir string) *Handler {
	return &Handler{
		repo:      repo,
		extractor: extractor,
		hub:       h,
		matchID:   matchID,
		uploadDir: uploadDir,
	}
}

// HealthCheck returns the health status of the service.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "scoresheet-service",
	})
}

// GetMatch returns the current match record, creating the default record
// on first read.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.repo.Load(ctx, h.matchID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load match record", err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// UpdateMatch replaces the current record with the normalized request
// body. The body is normalized against the global defaults, not the
// stored record: omitting a field resets it, so clients must send the
// whole record.
func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var raw interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rec := normalize.Normalize(raw)
	if err := h.repo.Save(ctx, h.matchID, &rec); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save match record", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(&rec)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "updated",
		"record": rec,
	})
}

// UploadScoresheet stores the uploaded file, runs extraction and
// replaces the current record with the normalized result. When
// extraction fails the response still reports the upload as stored so
// clients can tell "file saved but not understood" from a rejected
// request; the record is left untouched.
func (h *Handler) UploadScoresheet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read upload", err)
		return
	}

	storedName := uuid.New().String() + "_" + filepath.Base(header.Filename)
	if err := os.WriteFile(filepath.Join(h.uploadDir, storedName), data, 0o644); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store upload", err)
		return
	}

	// Extraction may sit through one rate-limit cooldown, so this
	// deadline is generous.
	ctx, cancel := context.WithTimeout(r.Context(), 110*time.Second)
	defer cancel()

	raw, err := h.extractor.Extract(ctx, data)
	if err != nil {
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"uploaded":  true,
			"filename":  storedName,
			"extracted": false,
			"error":     "extraction failed",
			"message":   err.Error(),
		})
		return
	}

	rec := normalize.Normalize(raw)
	if err := h.repo.Save(ctx, h.matchID, &rec); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save match record", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(&rec)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uploaded":  true,
		"filename":  storedName,
		"extracted": true,
		"record":    rec,
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the router
	},
}

// ServeWS upgrades the connection and subscribes it to record updates.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "live updates disabled", nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("websocket upgrade failed: %v\n", err)
		return
	}

	c := hub.NewClient(h.hub, conn, uuid.New().String())
	h.hub.Register(c)

	go c.WritePump()
	go c.ReadPump()
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
