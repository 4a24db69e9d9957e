package mocks

import (
	"context"

	"github.com/rpggio/sn-mcp/internal/signnow"
	"github.com/stretchr/testify/mock"
)

// SignNow is a mock of the upstream SignNow client.
type SignNow struct {
	mock.Mock
}

func (m *SignNow) GetDocument(ctx context.Context, token, documentID string) (*signnow.Document, error) {
	args := m.Called(ctx, token, documentID)
	if v, ok := args.Get(0).(*signnow.Document); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetDocumentGroup(ctx context.Context, token, groupID string) (*signnow.DocumentGroup, error) {
	args := m.Called(ctx, token, groupID)
	if v, ok := args.Get(0).(*signnow.DocumentGroup); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetDocumentGroupV2(ctx context.Context, token, groupID string) (*signnow.DocumentGroupV2, error) {
	args := m.Called(ctx, token, groupID)
	if v, ok := args.Get(0).(*signnow.DocumentGroupV2); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetGroupInvite(ctx context.Context, token, groupID, inviteID string) (*signnow.GroupInvite, error) {
	args := m.Called(ctx, token, groupID, inviteID)
	if v, ok := args.Get(0).(*signnow.GroupInvite); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetDocumentDownloadLink(ctx context.Context, token, documentID string) (string, error) {
	args := m.Called(ctx, token, documentID)
	return args.String(0), args.Error(1)
}

func (m *SignNow) MergeDocuments(ctx context.Context, token string, req signnow.MergeRequest) (string, error) {
	args := m.Called(ctx, token, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) PrefillTextFields(ctx context.Context, token, documentID string, fields []signnow.PrefillField) error {
	args := m.Called(ctx, token, documentID, fields)
	return args.Error(0)
}

func (m *SignNow) GetFolders(ctx context.Context, token string) (*signnow.Folders, error) {
	args := m.Called(ctx, token)
	if v, ok := args.Get(0).(*signnow.Folders); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetFolderByID(ctx context.Context, token, folderID string, q signnow.FolderQuery) (*signnow.FolderContents, error) {
	args := m.Called(ctx, token, folderID, q)
	if v, ok := args.Get(0).(*signnow.FolderContents); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetDocumentTemplateGroups(ctx context.Context, token string, limit, offset int) (*signnow.TemplateGroups, error) {
	args := m.Called(ctx, token, limit, offset)
	if v, ok := args.Get(0).(*signnow.TemplateGroups); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) GetUser(ctx context.Context, token string) (*signnow.User, error) {
	args := m.Called(ctx, token)
	if v, ok := args.Get(0).(*signnow.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) CreateDocumentGroupFromTemplate(ctx context.Context, token, templateGroupID, groupName, folderID string) (string, error) {
	args := m.Called(ctx, token, templateGroupID, groupName, folderID)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateDocumentInvite(ctx context.Context, token, documentID string, req signnow.DocumentInviteRequest) (*signnow.DocumentInviteResponse, error) {
	args := m.Called(ctx, token, documentID, req)
	if v, ok := args.Get(0).(*signnow.DocumentInviteResponse); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) CreateGroupInvite(ctx context.Context, token, groupID string, req signnow.GroupInviteRequest) (string, error) {
	args := m.Called(ctx, token, groupID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateDocumentEmbeddedInvite(ctx context.Context, token, documentID string, req signnow.DocumentEmbeddedInviteRequest) ([]signnow.DocumentEmbeddedInvite, error) {
	args := m.Called(ctx, token, documentID, req)
	if v, ok := args.Get(0).([]signnow.DocumentEmbeddedInvite); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SignNow) CreateDocumentEmbeddedInviteLink(ctx context.Context, token, documentID, fieldInviteID string, req signnow.EmbeddedLinkRequest) (string, error) {
	args := m.Called(ctx, token, documentID, fieldInviteID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateGroupEmbeddedInvite(ctx context.Context, token, groupID string, req signnow.GroupEmbeddedInviteRequest) (string, error) {
	args := m.Called(ctx, token, groupID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateGroupEmbeddedInviteLink(ctx context.Context, token, groupID, inviteID string, req signnow.EmbeddedLinkRequest) (string, error) {
	args := m.Called(ctx, token, groupID, inviteID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateDocumentEmbeddedEditor(ctx context.Context, token, documentID string, req signnow.EmbeddedEditorRequest) (string, error) {
	args := m.Called(ctx, token, documentID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateGroupEmbeddedEditor(ctx context.Context, token, groupID string, req signnow.EmbeddedEditorRequest) (string, error) {
	args := m.Called(ctx, token, groupID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateDocumentEmbeddedSending(ctx context.Context, token, documentID string, req signnow.EmbeddedSendingRequest) (string, error) {
	args := m.Called(ctx, token, documentID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CreateGroupEmbeddedSending(ctx context.Context, token, groupID string, req signnow.EmbeddedSendingRequest) (string, error) {
	args := m.Called(ctx, token, groupID, req)
	return args.String(0), args.Error(1)
}

func (m *SignNow) CopyTemplate(ctx context.Context, token, templateID, documentName string) (string, string, error) {
	args := m.Called(ctx, token, templateID, documentName)
	return args.String(0), args.String(1), args.Error(2)
}
