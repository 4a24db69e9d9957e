package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service walks folders and builds paged listings.
type Service struct {
	repo   Repository
	clock  func() time.Time
	logger *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for expiry judgments.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a listing service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, clock: time.Now, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type folderRef struct {
	id   string
	name string
	root bool
}

// folders returns the root followed by its subfolders, or only folderID
// when given.
func (s *Service) folders(ctx context.Context, token, folderID string) ([]folderRef, error) {
	resp, err := s.repo.GetFolders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("getting folders: %w", err)
	}
	all := make([]folderRef, 0, len(resp.Folders)+1)
	all = append(all, folderRef{id: resp.ID, name: resp.Name, root: true})
	for _, f := range resp.Folders {
		all = append(all, folderRef{id: f.ID, name: f.Name})
	}
	if folderID == "" {
		return all, nil
	}
	for _, f := range all {
		if f.id == folderID {
			return []folderRef{f}, nil
		}
	}
	// Folders nested deeper than the root's children are still addressable.
	return []folderRef{{id: folderID, name: folderID}}, nil
}

func report(ctx context.Context, progress ProgressFunc, done, total float64, message string) {
	if progress != nil {
		progress(ctx, done, total, message)
	}
}

func folderMessage(f folderRef) string {
	if f.root {
		return "Processing root folder"
	}
	return "Processing subfolder " + f.name
}
