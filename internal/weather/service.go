package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/i474232898/weather-archive-storage/internal/common"
	"github.com/i474232898/weather-archive-storage/internal/metrics"
)

// Service orchestrates archive fetches and persists per-variable series.
type Service struct {
	archive  ArchiveClient
	store    ObjectStore
	folder   string
	localDir string
}

// NewService creates a new Service. Series are staged under localDir and
// stored under folder in the object store.
func NewService(archive ArchiveClient, store ObjectStore, folder, localDir string) *Service {
	return &Service{
		archive:  archive,
		store:    store,
		folder:   folder,
		localDir: localDir,
	}
}

// Ingest fetches daily data for q, writes one JSON file per variable and
// uploads each to the store. It returns the created file names in variable
// order.
func (s *Service) Ingest(ctx context.Context, q Query) (created []string, err error) {
	defer func() {
		metrics.IngestionsTotal.WithLabelValues(outcome(err)).Inc()
	}()

	log.Printf("DEBUG: Ingest called for %s:%s from %s to %s", q.Latitude, q.Longitude, q.StartDate, q.EndDate)

	resp, err := s.archive.FetchDaily(ctx, q, DailyVariables)
	if err != nil {
		return nil, err
	}

	series, err := BuildSeries(resp, DailyVariables)
	if err != nil {
		return nil, err
	}

	// Each request stages files in its own directory so concurrent
	// ingestions never share a temporary path.
	dir := filepath.Join(s.localDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			log.Printf("ERROR: cleanup of %s failed: %v", dir, rmErr)
		}
	}()

	localPaths := make([]string, 0, len(series))
	for _, sr := range series {
		p, err := writeSeries(dir, sr)
		if err != nil {
			return nil, err
		}
		localPaths = append(localPaths, p)
		created = append(created, sr.FileName())
	}

	for i, name := range created {
		if err := s.store.Upload(ctx, localPaths[i], common.ObjectPath(s.folder, name)); err != nil {
			return nil, err
		}
		metrics.FilesUploadedTotal.Inc()
	}

	return created, nil
}

// ListFiles returns stored file names with the folder prefix stripped.
func (s *Service) ListFiles(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx, common.FolderPrefix(s.folder))
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(names))
	for _, n := range names {
		if base := common.BaseName(s.folder, n); base != "" {
			files = append(files, base)
		}
	}
	return files, nil
}

// ReadFile returns the parsed JSON content of a stored file.
func (s *Service) ReadFile(ctx context.Context, name string) (any, error) {
	remote := common.ObjectPath(s.folder, name)

	ok, err := s.store.Exists(ctx, remote)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	return s.store.ReadJSON(ctx, remote)
}

func writeSeries(dir string, sr Series) (string, error) {
	data, err := json.MarshalIndent(sr.Values, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", sr.Variable, err)
	}

	p := filepath.Join(dir, sr.FileName())
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}

func outcome(err error) string {
	var (
		upstream *UpstreamError
		schema   *SchemaError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &upstream):
		return "upstream_error"
	case errors.As(err, &schema):
		return "schema_error"
	default:
		return "error"
	}
}
