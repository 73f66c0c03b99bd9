package weather

import (
	"context"
)

// ArchiveClient abstracts the historical weather source (Open-Meteo archive).
type ArchiveClient interface {
	FetchDaily(ctx context.Context, q Query, variables []string) (ArchiveResponse, error)
}

// ObjectStore is the contract the GCS adapter (and the in-memory store) must satisfy.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, remotePath string) error
	Download(ctx context.Context, remotePath, localPath string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, remotePath string) (bool, error)
	ReadJSON(ctx context.Context, remotePath string) (any, error)
}
