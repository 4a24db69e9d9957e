package entity

import (
	"context"

	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Fetcher fetches the payloads used to identify an entity.
type Fetcher interface {
	GetDocument(ctx context.Context, token, documentID string) (*signnow.Document, error)
	GetDocumentGroup(ctx context.Context, token, groupID string) (*signnow.DocumentGroup, error)
	GetDocumentGroupV2(ctx context.Context, token, groupID string) (*signnow.DocumentGroupV2, error)
}

// Repository provides the upstream reads and writes behind entity operations.
type Repository interface {
	Fetcher
	GetGroupInvite(ctx context.Context, token, groupID, inviteID string) (*signnow.GroupInvite, error)
	GetDocumentDownloadLink(ctx context.Context, token, documentID string) (string, error)
	MergeDocuments(ctx context.Context, token string, req signnow.MergeRequest) (string, error)
	PrefillTextFields(ctx context.Context, token, documentID string, fields []signnow.PrefillField) error
}
