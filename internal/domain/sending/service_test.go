package sending_test

import (
	"context"
	"testing"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
	"github.com/rpggio/sn-mcp/internal/repository"
	"github.com/rpggio/sn-mcp/internal/repository/mocks"
	"github.com/rpggio/sn-mcp/internal/signnow"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const token = "tok"

func sampleGroup() *signnow.DocumentGroup {
	return &signnow.DocumentGroup{
		ID:        "g1",
		GroupName: "Onboarding",
		Documents: []signnow.GroupMember{
			{ID: "d1", Roles: signnow.RoleNames{"Employee", "HR"}},
			{ID: "d2", Roles: signnow.RoleNames{"HR"}},
		},
	}
}

func sampleDocument() *signnow.Document {
	return &signnow.Document{
		ID:    "doc1",
		Roles: []signnow.DocumentRole{{UniqueID: "r-emp", Name: "Employee"}, {UniqueID: "r-hr", Name: "HR"}},
	}
}

func TestSendInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("group invite binds recipients to matching documents", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentGroup", ctx, token, "g1").Return(sampleGroup(), nil).Once()
		repo.On("CreateGroupInvite", ctx, token, "g1", mock.MatchedBy(func(req signnow.GroupInviteRequest) bool {
			if len(req.InviteSteps) != 1 || req.CC == nil {
				return false
			}
			step := req.InviteSteps[0]
			if len(step.InviteEmails) != 1 || len(step.InviteActions) != 1 {
				return false
			}
			a := step.InviteActions[0]
			return a.DocumentID == "d1" && a.Action == "sign" && a.RedirectTarget == ""
		})).Return("inv1", nil).Once()

		out, err := sending.NewService(repo, nil).SendInvite(ctx, token, "g1", "", []sending.Order{{
			Order:      1,
			Recipients: []sending.Recipient{{Email: "e@x.io", RoleName: "Employee", RedirectTarget: "self"}},
		}})
		require.NoError(t, err)
		require.Equal(t, "inv1", out.InviteID)
		require.Equal(t, entity.KindDocumentGroup, out.InviteEntity)
		repo.AssertExpectations(t)
	})

	t.Run("document invite sends from the primary email", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentGroup", ctx, token, "doc1").Return(nil, repository.ErrNotFound).Once()
		repo.On("GetDocument", ctx, token, "doc1").Return(sampleDocument(), nil).Once()
		repo.On("GetUser", ctx, token).Return(&signnow.User{PrimaryEmail: "owner@x.io"}, nil).Once()
		repo.On("CreateDocumentInvite", ctx, token, "doc1", mock.MatchedBy(func(req signnow.DocumentInviteRequest) bool {
			return req.From == "owner@x.io" &&
				len(req.To) == 1 &&
				req.To[0].RoleID == "r-hr" &&
				req.To[0].Order == 2 &&
				req.To[0].RedirectTarget == "blank"
		})).Return(&signnow.DocumentInviteResponse{Status: "success"}, nil).Once()

		out, err := sending.NewService(repo, nil).SendInvite(ctx, token, "doc1", "", []sending.Order{{
			Order:      2,
			Recipients: []sending.Recipient{{Email: "hr@x.io", RoleName: "HR", RedirectURI: "https://example.com/done"}},
		}})
		require.NoError(t, err)
		require.Equal(t, "success", out.InviteID)
		require.Equal(t, entity.KindDocument, out.InviteEntity)
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty orders before any fetch", func(t *testing.T) {
		repo := &mocks.SignNow{}

		_, err := sending.NewService(repo, nil).SendInvite(ctx, token, "g1", "", nil)
		require.ErrorIs(t, err, sending.ErrInvalidInput)
		repo.AssertNotCalled(t, "GetDocumentGroup", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		repo := &mocks.SignNow{}

		_, err := sending.NewService(repo, nil).SendInvite(ctx, token, "g1", "", []sending.Order{{
			Order:      1,
			Recipients: []sending.Recipient{{Email: "e@x.io", RoleName: "Employee", Action: "stamp"}},
		}})
		require.ErrorIs(t, err, sending.ErrInvalidInput)
	})

	t.Run("unresolvable id", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentGroup", ctx, token, "nope").Return(nil, repository.ErrNotFound)
		repo.On("GetDocument", ctx, token, "nope").Return(nil, repository.ErrNotFound)

		_, err := sending.NewService(repo, nil).SendInvite(ctx, token, "nope", "", []sending.Order{{
			Order:      1,
			Recipients: []sending.Recipient{{Email: "e@x.io", RoleName: "Employee"}},
		}})
		require.ErrorIs(t, err, entity.ErrEntityNotFound)
	})
}

func TestCreateEmbeddedInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("group invite returns links for link delivery", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentGroup", ctx, token, "g1").Return(sampleGroup(), nil).Once()
		repo.On("CreateGroupEmbeddedInvite", ctx, token, "g1", mock.MatchedBy(func(req signnow.GroupEmbeddedInviteRequest) bool {
			return req.SignAsMerged && len(req.Invites) == 1 && len(req.Invites[0].Signers) == 2 &&
				len(req.Invites[0].Signers[1].Documents) == 2
		})).Return("emb1", nil).Once()
		repo.On("CreateGroupEmbeddedInviteLink", ctx, token, "g1", "emb1", signnow.EmbeddedLinkRequest{Email: "e@x.io", AuthMethod: "none"}).
			Return("https://sign/e", nil).Once()

		out, err := sending.NewService(repo, nil).CreateEmbeddedInvite(ctx, token, "g1", entity.KindDocumentGroup, []sending.EmbeddedOrder{{
			Order: 1,
			Recipients: []sending.EmbeddedRecipient{
				{Email: "e@x.io", RoleName: "Employee"},
				{Email: "hr@x.io", RoleName: "HR", DeliveryType: "email"},
			},
		}})
		require.NoError(t, err)
		require.Equal(t, "emb1", out.InviteID)
		require.Equal(t, []sending.RecipientLink{{Role: "Employee", Link: "https://sign/e"}}, out.RecipientLinks)
		repo.AssertExpectations(t)
	})

	t.Run("document invite maps roles to ids and links by email", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocument", ctx, token, "doc1").Return(sampleDocument(), nil).Once()
		repo.On("CreateDocumentEmbeddedInvite", ctx, token, "doc1", mock.MatchedBy(func(req signnow.DocumentEmbeddedInviteRequest) bool {
			return len(req.Invites) == 1 && req.Invites[0].RoleID == "r-emp" && req.Invites[0].Order == 1
		})).Return([]signnow.DocumentEmbeddedInvite{{ID: "fi1", Email: "E@x.io"}}, nil).Once()
		repo.On("CreateDocumentEmbeddedInviteLink", ctx, token, "doc1", "fi1", signnow.EmbeddedLinkRequest{AuthMethod: "email"}).
			Return("https://sign/doc", nil).Once()

		out, err := sending.NewService(repo, nil).CreateEmbeddedInvite(ctx, token, "doc1", entity.KindDocument, []sending.EmbeddedOrder{{
			Order:      1,
			Recipients: []sending.EmbeddedRecipient{{Email: "e@x.io", RoleName: "Employee", AuthMethod: "email"}},
		}})
		require.NoError(t, err)
		require.Equal(t, "fi1", out.InviteID)
		require.Len(t, out.RecipientLinks, 1)
		repo.AssertExpectations(t)
	})

	t.Run("unknown document role", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocument", ctx, token, "doc1").Return(sampleDocument(), nil).Once()

		_, err := sending.NewService(repo, nil).CreateEmbeddedInvite(ctx, token, "doc1", entity.KindDocument, []sending.EmbeddedOrder{{
			Order:      1,
			Recipients: []sending.EmbeddedRecipient{{Email: "e@x.io", RoleName: "Witness"}},
		}})
		require.ErrorIs(t, err, sending.ErrInvalidInput)
	})

	t.Run("bad delivery type", func(t *testing.T) {
		repo := &mocks.SignNow{}

		_, err := sending.NewService(repo, nil).CreateEmbeddedInvite(ctx, token, "doc1", "", []sending.EmbeddedOrder{{
			Order:      1,
			Recipients: []sending.EmbeddedRecipient{{Email: "e@x.io", RoleName: "Employee", DeliveryType: "fax"}},
		}})
		require.ErrorIs(t, err, sending.ErrInvalidInput)
	})
}

func TestEmbeddedEditorAndSending(t *testing.T) {
	ctx := context.Background()

	t.Run("editor link expiration bounds", func(t *testing.T) {
		repo := &mocks.SignNow{}

		_, err := sending.NewService(repo, nil).CreateEmbeddedEditor(ctx, token, "doc1", "", sending.EditorOptions{LinkExpiration: 10})
		require.ErrorIs(t, err, sending.ErrInvalidInput)
	})

	t.Run("editor drops redirect target without redirect uri", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentGroup", ctx, token, "g1").Return(sampleGroup(), nil).Once()
		repo.On("CreateGroupEmbeddedEditor", ctx, token, "g1", signnow.EmbeddedEditorRequest{LinkExpiration: 30}).
			Return("https://edit/g1", nil).Once()

		out, err := sending.NewService(repo, nil).CreateEmbeddedEditor(ctx, token, "g1", "", sending.EditorOptions{RedirectTarget: "blank", LinkExpiration: 30})
		require.NoError(t, err)
		require.Equal(t, entity.KindDocumentGroup, out.EditorEntity)
		require.Equal(t, "https://edit/g1", out.EditorURL)
	})

	t.Run("document sending maps the step", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocument", ctx, token, "doc1").Return(sampleDocument(), nil).Twice()
		repo.On("CreateDocumentEmbeddedSending", ctx, token, "doc1", signnow.EmbeddedSendingRequest{Type: "invite"}).
			Return("https://send/invite", nil).Once()
		repo.On("CreateDocumentEmbeddedSending", ctx, token, "doc1", signnow.EmbeddedSendingRequest{Type: "document"}).
			Return("https://send/doc", nil).Once()

		svc := sending.NewService(repo, nil)
		out, err := svc.CreateEmbeddedSending(ctx, token, "doc1", entity.KindDocument, sending.SendingOptions{Type: "send-invite"})
		require.NoError(t, err)
		require.Equal(t, "https://send/invite", out.SendingURL)

		out, err = svc.CreateEmbeddedSending(ctx, token, "doc1", entity.KindDocument, sending.SendingOptions{Type: "edit"})
		require.NoError(t, err)
		require.Equal(t, "https://send/doc", out.SendingURL)
		repo.AssertExpectations(t)
	})

	t.Run("group sending keeps the step", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentGroup", ctx, token, "g1").Return(sampleGroup(), nil).Once()
		repo.On("CreateGroupEmbeddedSending", ctx, token, "g1", signnow.EmbeddedSendingRequest{Type: "manage", LinkExpiration: 14}).
			Return("https://send/g1", nil).Once()

		out, err := sending.NewService(repo, nil).CreateEmbeddedSending(ctx, token, "g1", "", sending.SendingOptions{LinkExpiration: 14})
		require.NoError(t, err)
		require.Equal(t, entity.KindDocumentGroup, out.SendingEntity)
	})

	t.Run("sending rejects unknown step", func(t *testing.T) {
		repo := &mocks.SignNow{}

		_, err := sending.NewService(repo, nil).CreateEmbeddedSending(ctx, token, "g1", "", sending.SendingOptions{Type: "publish"})
		require.ErrorIs(t, err, sending.ErrInvalidInput)
	})
}

func TestCreateFromTemplate(t *testing.T) {
	ctx := context.Background()
	groups := &signnow.TemplateGroups{DocumentGroupTemplates: []signnow.TemplateGroup{{TemplateGroupID: "tg1"}}}

	t.Run("undeclared id found among template groups", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentTemplateGroups", ctx, token, 50, 0).Return(groups, nil).Once()
		repo.On("CreateDocumentGroupFromTemplate", ctx, token, "tg1", "Hiring", "").Return("g9", nil).Once()

		out, err := sending.NewService(repo, nil).CreateFromTemplate(ctx, token, sending.TemplateSource{ID: "tg1", Name: "Hiring"})
		require.NoError(t, err)
		require.Equal(t, &sending.Created{EntityID: "g9", EntityType: entity.KindDocumentGroup, Name: "Hiring"}, out)
	})

	t.Run("template group requires a name", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentTemplateGroups", ctx, token, 50, 0).Return(groups, nil).Once()

		_, err := sending.NewService(repo, nil).CreateFromTemplate(ctx, token, sending.TemplateSource{ID: "tg1"})
		require.ErrorIs(t, err, sending.ErrNameRequired)
		repo.AssertNotCalled(t, "CreateDocumentGroupFromTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("declared template group without name fails before any call", func(t *testing.T) {
		repo := &mocks.SignNow{}

		_, err := sending.NewService(repo, nil).CreateFromTemplate(ctx, token, sending.TemplateSource{ID: "tg1", Kind: sending.KindTemplateGroup})
		require.ErrorIs(t, err, sending.ErrNameRequired)
		repo.AssertNotCalled(t, "GetDocumentTemplateGroups", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("document name falls back to the id prefix", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("CopyTemplate", ctx, token, "t1", "").Return("abcdef0123456789", "", nil).Once()

		out, err := sending.NewService(repo, nil).CreateFromTemplate(ctx, token, sending.TemplateSource{ID: "t1", Kind: sending.KindTemplate})
		require.NoError(t, err)
		require.Equal(t, "Document_abcdef01", out.Name)
		require.Equal(t, entity.KindDocument, out.EntityType)
	})

	t.Run("document name prefers the response name", func(t *testing.T) {
		repo := &mocks.SignNow{}
		repo.On("GetDocumentTemplateGroups", ctx, token, 50, 0).Return(groups, nil).Once()
		repo.On("CopyTemplate", ctx, token, "t1", "").Return("d1", "Lease copy", nil).Once()

		out, err := sending.NewService(repo, nil).CreateFromTemplate(ctx, token, sending.TemplateSource{ID: "t1"})
		require.NoError(t, err)
		require.Equal(t, "Lease copy", out.Name)
	})
}

func TestSendInviteFromTemplate(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.SignNow{}
	repo.On("CopyTemplate", ctx, token, "t1", "Offer").Return("doc1", "Offer", nil).Once()
	repo.On("GetDocument", ctx, token, "doc1").Return(sampleDocument(), nil).Once()
	repo.On("GetUser", ctx, token).Return(&signnow.User{PrimaryEmail: "owner@x.io"}, nil).Once()
	repo.On("CreateDocumentInvite", ctx, token, "doc1", mock.Anything).Return(&signnow.DocumentInviteResponse{ID: "inv"}, nil).Once()

	var steps []float64
	progress := func(_ context.Context, done, total float64, _ string) {
		require.Equal(t, float64(3), total)
		steps = append(steps, done)
	}
	out, err := sending.NewService(repo, nil).SendInviteFromTemplate(ctx, token,
		sending.TemplateSource{ID: "t1", Kind: sending.KindTemplate, Name: "Offer"},
		[]sending.Order{{Order: 1, Recipients: []sending.Recipient{{Email: "e@x.io", RoleName: "Employee"}}}},
		progress)
	require.NoError(t, err)
	require.Equal(t, "doc1", out.CreatedEntityID)
	require.Equal(t, "inv", out.Result.InviteID)
	require.Equal(t, []float64{1, 2, 3}, steps)
	repo.AssertNotCalled(t, "GetDocumentGroup", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
