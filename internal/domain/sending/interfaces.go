package sending

import (
	"context"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Repository provides the upstream writes behind invites, embedded flows and
// template instantiation.
type Repository interface {
	entity.Fetcher
	GetUser(ctx context.Context, token string) (*signnow.User, error)
	GetDocumentTemplateGroups(ctx context.Context, token string, limit, offset int) (*signnow.TemplateGroups, error)

	CreateDocumentInvite(ctx context.Context, token, documentID string, req signnow.DocumentInviteRequest) (*signnow.DocumentInviteResponse, error)
	CreateGroupInvite(ctx context.Context, token, groupID string, req signnow.GroupInviteRequest) (string, error)

	CreateDocumentEmbeddedInvite(ctx context.Context, token, documentID string, req signnow.DocumentEmbeddedInviteRequest) ([]signnow.DocumentEmbeddedInvite, error)
	CreateDocumentEmbeddedInviteLink(ctx context.Context, token, documentID, fieldInviteID string, req signnow.EmbeddedLinkRequest) (string, error)
	CreateGroupEmbeddedInvite(ctx context.Context, token, groupID string, req signnow.GroupEmbeddedInviteRequest) (string, error)
	CreateGroupEmbeddedInviteLink(ctx context.Context, token, groupID, inviteID string, req signnow.EmbeddedLinkRequest) (string, error)

	CreateDocumentEmbeddedEditor(ctx context.Context, token, documentID string, req signnow.EmbeddedEditorRequest) (string, error)
	CreateGroupEmbeddedEditor(ctx context.Context, token, groupID string, req signnow.EmbeddedEditorRequest) (string, error)
	CreateDocumentEmbeddedSending(ctx context.Context, token, documentID string, req signnow.EmbeddedSendingRequest) (string, error)
	CreateGroupEmbeddedSending(ctx context.Context, token, groupID string, req signnow.EmbeddedSendingRequest) (string, error)

	CopyTemplate(ctx context.Context, token, templateID, documentName string) (string, string, error)
	CreateDocumentGroupFromTemplate(ctx context.Context, token, templateGroupID, groupName, folderID string) (string, error)
}

// ProgressFunc receives the steps of a multi-call workflow.
type ProgressFunc func(ctx context.Context, progress, total float64, message string)
