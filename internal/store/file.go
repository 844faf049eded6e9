package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

// FileRepository stores each match record as a pretty-printed JSON
// document under a data directory.
type FileRepository struct {
	dir string
}

// NewFileRepository creates the data directory if needed.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) path(matchID string) string {
	return filepath.Join(r.dir, "match-"+matchID+".json")
}

// Load reads the stored record. A missing, empty, schema-looking or
// otherwise undecodable file self-heals to the persisted default record;
// only real I/O failures (permissions and the like) surface as errors.
func (r *FileRepository) Load(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	data, err := os.ReadFile(r.path(matchID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r.heal(ctx, matchID)
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" || looksLikeSchema(data) {
		return r.heal(ctx, matchID)
	}

	var rec models.MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return r.heal(ctx, matchID)
	}
	return &rec, nil
}

// Save writes the whole record, replacing any previous content.
func (r *FileRepository) Save(ctx context.Context, matchID string, rec *models.MatchRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if err := os.WriteFile(r.path(matchID), data, 0o644); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Ping verifies the data directory is still there.
func (r *FileRepository) Ping(ctx context.Context) error {
	_, err := os.Stat(r.dir)
	return err
}

// Close is a no-op for the file backend.
func (r *FileRepository) Close() error {
	return nil
}

func (r *FileRepository) heal(ctx context.Context, matchID string) (*models.MatchRecord, error) {
	rec := models.DefaultMatchRecord()
	if err := r.Save(ctx, matchID, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// looksLikeSchema detects a JSON Schema document accidentally written
// where record data belongs (a failure mode of earlier deployments where
// the schema description file and the record shared a directory).
func looksLikeSchema(data []byte) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return false
	}
	if _, ok := m["$schema"]; ok {
		return true
	}
	_, hasProps := m["properties"]
	_, hasType := m["type"]
	return hasProps && hasType
}
