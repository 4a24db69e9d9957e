package listing

import (
	"context"

	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Repository provides the folder and template group reads behind listings.
type Repository interface {
	GetFolders(ctx context.Context, token string) (*signnow.Folders, error)
	GetFolderByID(ctx context.Context, token, folderID string, q signnow.FolderQuery) (*signnow.FolderContents, error)
	GetDocumentTemplateGroups(ctx context.Context, token string, limit, offset int) (*signnow.TemplateGroups, error)
}

// ProgressFunc receives incremental progress of a folder walk.
type ProgressFunc func(ctx context.Context, progress, total float64, message string)
