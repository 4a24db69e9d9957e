package mcp

import (
	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
)

type ListDocumentGroupsParams struct {
	Filter        string `json:"filter,omitempty" jsonschema:"upstream filter name, such as document-updated or signing-status"`
	FilterValue   string `json:"filter_value,omitempty" jsonschema:"value for filter"`
	SortBy        string `json:"sortby,omitempty" jsonschema:"updated, created or document-name"`
	Order         string `json:"order,omitempty" jsonschema:"asc or desc; defaults to desc"`
	FolderID      string `json:"folder_id,omitempty" jsonschema:"list only this folder"`
	ExpiredFilter string `json:"expired_filter,omitempty" jsonschema:"all, expired or not-expired; defaults to all"`
	Limit         int    `json:"limit,omitempty" jsonschema:"page size; defaults to 50"`
	Offset        int    `json:"offset,omitempty" jsonschema:"number of items to skip"`
}

type ListAllTemplatesParams struct {
	FolderID string `json:"folder_id,omitempty" jsonschema:"list only templates in this folder"`
	Limit    int    `json:"limit,omitempty" jsonschema:"page size; defaults to 50"`
	Offset   int    `json:"offset,omitempty" jsonschema:"number of templates to skip"`
}

type EntityParams struct {
	EntityID   string `json:"entity_id" jsonschema:"document or document group id"`
	EntityType string `json:"entity_type,omitempty" jsonschema:"document or document_group; detected when omitted"`
}

type UpdateDocumentFieldsParams struct {
	UpdateRequests []entity.FieldUpdate `json:"update_requests" jsonschema:"documents and the text field values to set"`
}

type UpdateDocumentFieldsResponse struct {
	Results []entity.FieldUpdateResult `json:"results"`
}

type SendInviteParams struct {
	EntityID   string          `json:"entity_id" jsonschema:"document or document group id"`
	EntityType string          `json:"entity_type,omitempty" jsonschema:"document or document_group; detected when omitted"`
	Orders     []sending.Order `json:"orders" jsonschema:"signing steps with their recipients"`
}

type CreateEmbeddedInviteParams struct {
	EntityID   string                  `json:"entity_id" jsonschema:"document or document group id"`
	EntityType string                  `json:"entity_type,omitempty" jsonschema:"document or document_group; detected when omitted"`
	Orders     []sending.EmbeddedOrder `json:"orders" jsonschema:"signing steps with their recipients"`
}

type CreateEmbeddedEditorParams struct {
	EntityID       string `json:"entity_id" jsonschema:"document or document group id"`
	EntityType     string `json:"entity_type,omitempty" jsonschema:"document or document_group; detected when omitted"`
	RedirectURI    string `json:"redirect_uri,omitempty" jsonschema:"URL opened after editing"`
	RedirectTarget string `json:"redirect_target,omitempty" jsonschema:"self for the same tab, blank for a new tab"`
	LinkExpiration int    `json:"link_expiration,omitempty" jsonschema:"link lifetime in minutes, 15 to 43200"`
}

func (p CreateEmbeddedEditorParams) options() sending.EditorOptions {
	return sending.EditorOptions{RedirectURI: p.RedirectURI, RedirectTarget: p.RedirectTarget, LinkExpiration: p.LinkExpiration}
}

type CreateEmbeddedSendingParams struct {
	EntityID       string `json:"entity_id" jsonschema:"document or document group id"`
	EntityType     string `json:"entity_type,omitempty" jsonschema:"document or document_group; detected when omitted"`
	RedirectURI    string `json:"redirect_uri,omitempty" jsonschema:"URL opened after sending"`
	RedirectTarget string `json:"redirect_target,omitempty" jsonschema:"self for the same tab, blank for a new tab"`
	LinkExpiration int    `json:"link_expiration,omitempty" jsonschema:"link lifetime in days, 14 to 45"`
	Type           string `json:"type,omitempty" jsonschema:"manage, edit or send-invite; defaults to manage"`
}

func (p CreateEmbeddedSendingParams) options() sending.SendingOptions {
	return sending.SendingOptions{RedirectURI: p.RedirectURI, RedirectTarget: p.RedirectTarget, LinkExpiration: p.LinkExpiration, Type: p.Type}
}

type CreateFromTemplateParams struct {
	EntityID   string `json:"entity_id" jsonschema:"template or template group id"`
	EntityType string `json:"entity_type,omitempty" jsonschema:"template or template_group; detected when omitted"`
	Name       string `json:"name,omitempty" jsonschema:"name of the new document or group; required for template groups"`
	FolderID   string `json:"folder_id,omitempty" jsonschema:"destination folder for a template group copy"`
}

type SendInviteFromTemplateParams struct {
	EntityID   string          `json:"entity_id" jsonschema:"template or template group id"`
	EntityType string          `json:"entity_type,omitempty" jsonschema:"template or template_group; detected when omitted"`
	Name       string          `json:"name,omitempty" jsonschema:"name of the new document or group; required for template groups"`
	FolderID   string          `json:"folder_id,omitempty" jsonschema:"destination folder for a template group copy"`
	Orders     []sending.Order `json:"orders" jsonschema:"signing steps with their recipients"`
}

type CreateEmbeddedInviteFromTemplateParams struct {
	EntityID   string                  `json:"entity_id" jsonschema:"template or template group id"`
	EntityType string                  `json:"entity_type,omitempty" jsonschema:"template or template_group; detected when omitted"`
	Name       string                  `json:"name,omitempty" jsonschema:"name of the new document or group; required for template groups"`
	FolderID   string                  `json:"folder_id,omitempty" jsonschema:"destination folder for a template group copy"`
	Orders     []sending.EmbeddedOrder `json:"orders" jsonschema:"signing steps with their recipients"`
}

type CreateEmbeddedEditorFromTemplateParams struct {
	EntityID       string `json:"entity_id" jsonschema:"template or template group id"`
	EntityType     string `json:"entity_type,omitempty" jsonschema:"template or template_group; detected when omitted"`
	Name           string `json:"name,omitempty" jsonschema:"name of the new document or group; required for template groups"`
	FolderID       string `json:"folder_id,omitempty" jsonschema:"destination folder for a template group copy"`
	RedirectURI    string `json:"redirect_uri,omitempty" jsonschema:"URL opened after editing"`
	RedirectTarget string `json:"redirect_target,omitempty" jsonschema:"self for the same tab, blank for a new tab"`
	LinkExpiration int    `json:"link_expiration,omitempty" jsonschema:"link lifetime in minutes, 15 to 43200"`
}

type CreateEmbeddedSendingFromTemplateParams struct {
	EntityID       string `json:"entity_id" jsonschema:"template or template group id"`
	EntityType     string `json:"entity_type,omitempty" jsonschema:"template or template_group; detected when omitted"`
	Name           string `json:"name,omitempty" jsonschema:"name of the new document or group; required for template groups"`
	FolderID       string `json:"folder_id,omitempty" jsonschema:"destination folder for a template group copy"`
	RedirectURI    string `json:"redirect_uri,omitempty" jsonschema:"URL opened after sending"`
	RedirectTarget string `json:"redirect_target,omitempty" jsonschema:"self for the same tab, blank for a new tab"`
	LinkExpiration int    `json:"link_expiration,omitempty" jsonschema:"link lifetime in days, 14 to 45"`
	Type           string `json:"type,omitempty" jsonschema:"manage, edit or send-invite; defaults to manage"`
}

func templateSource(id, kind, name, folderID string) (sending.TemplateSource, error) {
	k, err := sending.ParseTemplateKind(kind)
	if err != nil {
		return sending.TemplateSource{}, err
	}
	return sending.TemplateSource{ID: id, Kind: k, Name: name, FolderID: folderID}, nil
}
