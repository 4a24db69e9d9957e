package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/listing"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
)

type handler struct {
	services Services
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, h *handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_document_groups",
		Description: "List documents and document groups across all folders with their invite status. Filtering by expired_filter happens before paging, so total counts are exact.",
	}, h.listDocumentGroups)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_all_templates",
		Description: "List templates from every folder plus the user's template groups.",
	}, h.listAllTemplates)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_document",
		Description: "Get a document or document group with its documents, roles, text field values and invite status.",
	}, h.getDocument)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_invite_status",
		Description: "Get the invite status of a document or document group, including group invite steps.",
	}, h.getInviteStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_document_download_link",
		Description: "Get a download link for a document. Multi-document groups are merged into one PDF first.",
	}, h.getDownloadLink)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_signing_link",
		Description: "Get a web app signing link for a document or document group that already has an invite.",
	}, h.getSigningLink)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_document_fields",
		Description: "Prefill text fields in one or more documents. Each document reports its own outcome.",
	}, h.updateDocumentFields)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_invite",
		Description: "Email a signing invite for a document or document group.",
	}, h.sendInvite)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_embedded_invite",
		Description: "Create an embedded signing invite and return signing links for recipients with delivery_type link.",
	}, h.createEmbeddedInvite)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_embedded_editor",
		Description: "Create a link that opens a document or document group in the embedded editor.",
	}, h.createEmbeddedEditor)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_embedded_sending",
		Description: "Create a link that opens the embedded sending flow for a document or document group.",
	}, h.createEmbeddedSending)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_from_template",
		Description: "Create a document from a template, or a document group from a template group.",
	}, h.createFromTemplate)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_invite_from_template",
		Description: "Create a document or group from a template and email a signing invite for it.",
	}, h.sendInviteFromTemplate)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_embedded_invite_from_template",
		Description: "Create a document or group from a template and create an embedded signing invite for it.",
	}, h.createEmbeddedInviteFromTemplate)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_embedded_editor_from_template",
		Description: "Create a document or group from a template and open it in the embedded editor.",
	}, h.createEmbeddedEditorFromTemplate)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_embedded_sending_from_template",
		Description: "Create a document or group from a template and open the embedded sending flow for it.",
	}, h.createEmbeddedSendingFromTemplate)
}

// progressReporter forwards progress to the caller when the request carries
// a progress token.
func progressReporter(req *sdkmcp.CallToolRequest) func(context.Context, float64, float64, string) {
	if req == nil || req.Params == nil || req.Session == nil {
		return nil
	}
	progressToken := req.Params.GetProgressToken()
	if progressToken == nil {
		return nil
	}
	return func(ctx context.Context, progress, total float64, message string) {
		_ = req.Session.NotifyProgress(ctx, &sdkmcp.ProgressNotificationParams{
			ProgressToken: progressToken,
			Progress:      progress,
			Total:         total,
			Message:       message,
		})
	}
}

// entityArgs resolves the token and validates the target of an entity tool.
func entityArgs(ctx context.Context, id, kind string) (string, entity.Kind, error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", "", fmt.Errorf("%w: entity_id is required", entity.ErrInvalidInput)
	}
	k, err := entity.ParseKind(kind)
	if err != nil {
		return "", "", err
	}
	return token, k, nil
}

func (h *handler) listDocumentGroups(ctx context.Context, req *sdkmcp.CallToolRequest, in ListDocumentGroupsParams) (*sdkmcp.CallToolResult, *listing.DocumentPage, error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	page, err := h.services.Listings.ListDocuments(ctx, token, listing.DocumentQuery{
		FolderID:      in.FolderID,
		Filters:       in.Filter,
		FilterValues:  in.FilterValue,
		SortBy:        in.SortBy,
		Order:         in.Order,
		ExpiredFilter: in.ExpiredFilter,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}, progressReporter(req))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, page, nil
}

func (h *handler) listAllTemplates(ctx context.Context, req *sdkmcp.CallToolRequest, in ListAllTemplatesParams) (*sdkmcp.CallToolResult, *listing.TemplatePage, error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	page, err := h.services.Listings.ListTemplates(ctx, token, listing.TemplateQuery{
		FolderID: in.FolderID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	}, progressReporter(req))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, page, nil
}

func (h *handler) getDocument(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntityParams) (*sdkmcp.CallToolResult, *entity.View, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	view, err := h.services.Entities.GetDocument(ctx, token, in.EntityID, kind)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, view, nil
}

func (h *handler) getInviteStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntityParams) (*sdkmcp.CallToolResult, *entity.InviteStatus, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	status, err := h.services.Entities.GetInviteStatus(ctx, token, in.EntityID, kind)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, status, nil
}

func (h *handler) getDownloadLink(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntityParams) (*sdkmcp.CallToolResult, *entity.DownloadLink, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	link, err := h.services.Entities.GetDownloadLink(ctx, token, in.EntityID, kind)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, link, nil
}

func (h *handler) getSigningLink(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntityParams) (*sdkmcp.CallToolResult, *entity.SigningLink, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	link, err := h.services.Entities.GetSigningLink(ctx, token, in.EntityID, kind)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, link, nil
}

func (h *handler) updateDocumentFields(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateDocumentFieldsParams) (*sdkmcp.CallToolResult, *UpdateDocumentFieldsResponse, error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	results, err := h.services.Entities.UpdateFields(ctx, token, in.UpdateRequests)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, &UpdateDocumentFieldsResponse{Results: results}, nil
}

func (h *handler) sendInvite(ctx context.Context, _ *sdkmcp.CallToolRequest, in SendInviteParams) (*sdkmcp.CallToolResult, *sending.InviteResult, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	res, err := h.services.Sending.SendInvite(ctx, token, in.EntityID, kind, in.Orders)
	if err != nil {
		return nil, nil, mapError(err)
	}
	h.logger.Info("invite sent", "entity_id", in.EntityID, "invite_entity", res.InviteEntity)
	return nil, res, nil
}

func (h *handler) createEmbeddedInvite(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateEmbeddedInviteParams) (*sdkmcp.CallToolResult, *sending.EmbeddedInviteResult, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	res, err := h.services.Sending.CreateEmbeddedInvite(ctx, token, in.EntityID, kind, in.Orders)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}

func (h *handler) createEmbeddedEditor(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateEmbeddedEditorParams) (*sdkmcp.CallToolResult, *sending.EditorResult, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	res, err := h.services.Sending.CreateEmbeddedEditor(ctx, token, in.EntityID, kind, in.options())
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}

func (h *handler) createEmbeddedSending(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateEmbeddedSendingParams) (*sdkmcp.CallToolResult, *sending.SendingResult, error) {
	token, kind, err := entityArgs(ctx, in.EntityID, in.EntityType)
	if err != nil {
		return nil, nil, mapError(err)
	}
	res, err := h.services.Sending.CreateEmbeddedSending(ctx, token, in.EntityID, kind, in.options())
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}

func (h *handler) createFromTemplate(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateFromTemplateParams) (*sdkmcp.CallToolResult, *sending.Created, error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	src, err := templateSource(in.EntityID, in.EntityType, in.Name, in.FolderID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	created, err := h.services.Sending.CreateFromTemplate(ctx, token, src)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, created, nil
}

func (h *handler) sendInviteFromTemplate(ctx context.Context, req *sdkmcp.CallToolRequest, in SendInviteFromTemplateParams) (*sdkmcp.CallToolResult, *sending.FromTemplate[sending.InviteResult], error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	src, err := templateSource(in.EntityID, in.EntityType, in.Name, in.FolderID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	res, err := h.services.Sending.SendInviteFromTemplate(ctx, token, src, in.Orders, progressReporter(req))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}

func (h *handler) createEmbeddedInviteFromTemplate(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateEmbeddedInviteFromTemplateParams) (*sdkmcp.CallToolResult, *sending.FromTemplate[sending.EmbeddedInviteResult], error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	src, err := templateSource(in.EntityID, in.EntityType, in.Name, in.FolderID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	res, err := h.services.Sending.CreateEmbeddedInviteFromTemplate(ctx, token, src, in.Orders, progressReporter(req))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}

func (h *handler) createEmbeddedEditorFromTemplate(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateEmbeddedEditorFromTemplateParams) (*sdkmcp.CallToolResult, *sending.FromTemplate[sending.EditorResult], error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	src, err := templateSource(in.EntityID, in.EntityType, in.Name, in.FolderID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	opts := sending.EditorOptions{RedirectURI: in.RedirectURI, RedirectTarget: in.RedirectTarget, LinkExpiration: in.LinkExpiration}
	res, err := h.services.Sending.CreateEmbeddedEditorFromTemplate(ctx, token, src, opts, progressReporter(req))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}

func (h *handler) createEmbeddedSendingFromTemplate(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateEmbeddedSendingFromTemplateParams) (*sdkmcp.CallToolResult, *sending.FromTemplate[sending.SendingResult], error) {
	token, err := tokenFromContext(ctx)
	if err != nil {
		return nil, nil, mapError(err)
	}
	src, err := templateSource(in.EntityID, in.EntityType, in.Name, in.FolderID)
	if err != nil {
		return nil, nil, mapError(err)
	}
	opts := sending.SendingOptions{RedirectURI: in.RedirectURI, RedirectTarget: in.RedirectTarget, LinkExpiration: in.LinkExpiration, Type: in.Type}
	res, err := h.services.Sending.CreateEmbeddedSendingFromTemplate(ctx, token, src, opts, progressReporter(req))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return nil, res, nil
}
