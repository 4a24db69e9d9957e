package signnow

import (
	"context"
	"net/http"
	"net/url"
)

// DocumentRole is a signer role declared on a document.
type DocumentRole struct {
	UniqueID     string  `json:"unique_id"`
	SigningOrder FlexInt `json:"signing_order"`
	Name         string  `json:"name"`
}

// FieldAttributes carries the JSON attributes of a document field.
type FieldAttributes struct {
	Name          string   `json:"name"`
	PrefilledText *string  `json:"prefilled_text"`
	Required      FlexBool `json:"required"`
	Label         string   `json:"label"`
}

// DocumentField is a fillable field on a document.
type DocumentField struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	RoleID         string          `json:"role_id"`
	Role           string          `json:"role"`
	Originator     string          `json:"originator"`
	Fulfiller      string          `json:"fulfiller"`
	JSONAttributes FieldAttributes `json:"json_attributes"`
}

// DocumentFieldInvite is a field invite row as returned by GET /document/{id}.
type DocumentFieldInvite struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	RoleID         string  `json:"role_id"`
	Reminder       FlexInt `json:"reminder"`
	Created        FlexInt `json:"created"`
	Updated        FlexInt `json:"updated"`
	ExpirationTime FlexInt `json:"expiration_time"`
}

// Document is the GET /document/{id} response.
type Document struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	DocumentName string                `json:"document_name"`
	PageCount    FlexInt               `json:"page_count"`
	Owner        string                `json:"owner"`
	Template     FlexBool              `json:"template"`
	Created      FlexInt               `json:"created"`
	Updated      FlexInt               `json:"updated"`
	Roles        []DocumentRole        `json:"roles"`
	Fields       []DocumentField       `json:"fields"`
	FieldInvites []DocumentFieldInvite `json:"field_invites"`
}

// RoleNames returns the declared role names in signing order.
func (d *Document) RoleNames() []string {
	names := make([]string, 0, len(d.Roles))
	for _, r := range d.Roles {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names
}

// RoleID returns the unique id of the named role.
func (d *Document) RoleID(name string) (string, bool) {
	for _, r := range d.Roles {
		if r.Name == name {
			return r.UniqueID, true
		}
	}
	return "", false
}

// MergeRequest is the POST /document/merge body.
type MergeRequest struct {
	Name           string   `json:"name"`
	DocumentIDs    []string `json:"document_ids"`
	UploadDocument bool     `json:"upload_document"`
}

// PrefillField sets the prefilled text of a named text field.
type PrefillField struct {
	FieldName     string `json:"field_name"`
	PrefilledText string `json:"prefilled_text"`
}

// InviteRecipient is one entry of a document field invite.
type InviteRecipient struct {
	Email              string `json:"email"`
	Role               string `json:"role"`
	RoleID             string `json:"role_id,omitempty"`
	Order              int    `json:"order"`
	Subject            string `json:"subject,omitempty"`
	Message            string `json:"message,omitempty"`
	RedirectURI        string `json:"redirect_uri,omitempty"`
	RedirectTarget     string `json:"redirect_target,omitempty"`
	DeclineRedirectURI string `json:"decline_redirect_uri,omitempty"`
	CloseRedirectURI   string `json:"close_redirect_uri,omitempty"`
	DeclineBySignature bool   `json:"decline_by_signature"`
}

// DocumentInviteRequest is the POST /document/{id}/invite body.
type DocumentInviteRequest struct {
	To      []InviteRecipient `json:"to"`
	From    string            `json:"from"`
	Subject string            `json:"subject,omitempty"`
	Message string            `json:"message,omitempty"`
}

// DocumentInviteResponse is the document invite result.
type DocumentInviteResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DocumentEmbeddedSigner is one embedded signer of a document.
type DocumentEmbeddedSigner struct {
	Email              string `json:"email"`
	RoleID             string `json:"role_id"`
	Order              int    `json:"order"`
	AuthMethod         string `json:"auth_method"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	RedirectURI        string `json:"redirect_uri,omitempty"`
	DeclineRedirectURI string `json:"decline_redirect_uri,omitempty"`
	CloseRedirectURI   string `json:"close_redirect_uri,omitempty"`
	RedirectTarget     string `json:"redirect_target,omitempty"`
}

// DocumentEmbeddedInviteRequest is the v2 document embedded invite body.
type DocumentEmbeddedInviteRequest struct {
	Invites []DocumentEmbeddedSigner `json:"invites"`
}

// DocumentEmbeddedInvite is one created embedded field invite.
type DocumentEmbeddedInvite struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	RoleID string  `json:"role_id"`
	Order  FlexInt `json:"order"`
	Status string  `json:"status"`
}

// EmbeddedLinkRequest asks for a signing link of an embedded invite.
type EmbeddedLinkRequest struct {
	Email          string `json:"email,omitempty"`
	AuthMethod     string `json:"auth_method"`
	LinkExpiration int    `json:"link_expiration,omitempty"`
}

// EmbeddedEditorRequest asks for an embedded editor link.
type EmbeddedEditorRequest struct {
	RedirectURI    string `json:"redirect_uri,omitempty"`
	RedirectTarget string `json:"redirect_target,omitempty"`
	LinkExpiration int    `json:"link_expiration,omitempty"`
}

// EmbeddedSendingRequest asks for an embedded sending link.
type EmbeddedSendingRequest struct {
	Type           string `json:"type"`
	RedirectURI    string `json:"redirect_uri,omitempty"`
	RedirectTarget string `json:"redirect_target,omitempty"`
	LinkExpiration int    `json:"link_expiration,omitempty"`
}

type linkData struct {
	Data struct {
		Link string `json:"link"`
		URL  string `json:"url"`
	} `json:"data"`
}

// GetDocument fetches a document with its roles, fields and field invites.
func (c *Client) GetDocument(ctx context.Context, token, documentID string) (*Document, error) {
	var out Document
	err := c.do(ctx, request{method: http.MethodGet, path: "/document/" + url.PathEscape(documentID), token: token, op: "get_document"}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocumentDownloadLink returns a short-lived download link.
func (c *Client) GetDocumentDownloadLink(ctx context.Context, token, documentID string) (string, error) {
	var out struct {
		Link string `json:"link"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/document/" + url.PathEscape(documentID) + "/download/link",
		token:  token,
		op:     "get_document_download_link",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Link, nil
}

// MergeDocuments merges documents into a new uploaded document and returns its id.
func (c *Client) MergeDocuments(ctx context.Context, token string, req MergeRequest) (string, error) {
	var out struct {
		DocumentID string `json:"document_id"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: "/document/merge", token: token, body: req, op: "merge_documents"}, &out)
	if err != nil {
		return "", err
	}
	return out.DocumentID, nil
}

// PrefillTextFields sets prefilled text on named text fields.
func (c *Client) PrefillTextFields(ctx context.Context, token, documentID string, fields []PrefillField) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/v2/documents/" + url.PathEscape(documentID) + "/prefill-texts",
		token:  token,
		body:   map[string]any{"fields": fields},
		op:     "prefill_text_fields",
	}, nil)
}

// CopyTemplate creates a document from a template and returns the new document id and name.
func (c *Client) CopyTemplate(ctx context.Context, token, templateID, documentName string) (string, string, error) {
	body := map[string]any{}
	if documentName != "" {
		body["document_name"] = documentName
	}
	var out struct {
		ID           string `json:"id"`
		DocumentName string `json:"document_name"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/template/" + url.PathEscape(templateID) + "/copy",
		token:  token,
		body:   body,
		op:     "copy_template",
	}, &out)
	if err != nil {
		return "", "", err
	}
	return out.ID, out.DocumentName, nil
}

// CreateDocumentInvite sends a field invite for a document.
func (c *Client) CreateDocumentInvite(ctx context.Context, token, documentID string, req DocumentInviteRequest) (*DocumentInviteResponse, error) {
	var out DocumentInviteResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/document/" + url.PathEscape(documentID) + "/invite",
		token:  token,
		body:   req,
		op:     "create_document_invite",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDocumentEmbeddedInvite creates embedded field invites for a document.
func (c *Client) CreateDocumentEmbeddedInvite(ctx context.Context, token, documentID string, req DocumentEmbeddedInviteRequest) ([]DocumentEmbeddedInvite, error) {
	var out struct {
		Data []DocumentEmbeddedInvite `json:"data"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/documents/" + url.PathEscape(documentID) + "/embedded-invites",
		token:  token,
		body:   req,
		op:     "create_document_embedded_invite",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateDocumentEmbeddedInviteLink returns the signing link for one embedded field invite.
func (c *Client) CreateDocumentEmbeddedInviteLink(ctx context.Context, token, documentID, fieldInviteID string, req EmbeddedLinkRequest) (string, error) {
	var out linkData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/documents/" + url.PathEscape(documentID) + "/embedded-invites/" + url.PathEscape(fieldInviteID) + "/link",
		token:  token,
		body:   req,
		op:     "create_document_embedded_invite_link",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.Link, nil
}

// CreateDocumentEmbeddedEditor returns an embedded editor link for a document.
func (c *Client) CreateDocumentEmbeddedEditor(ctx context.Context, token, documentID string, req EmbeddedEditorRequest) (string, error) {
	var out linkData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/documents/" + url.PathEscape(documentID) + "/embedded-editor",
		token:  token,
		body:   req,
		op:     "create_document_embedded_editor",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.URL, nil
}

// CreateDocumentEmbeddedSending returns an embedded sending link for a document.
func (c *Client) CreateDocumentEmbeddedSending(ctx context.Context, token, documentID string, req EmbeddedSendingRequest) (string, error) {
	var out linkData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/documents/" + url.PathEscape(documentID) + "/embedded-sending",
		token:  token,
		body:   req,
		op:     "create_document_embedded_sending",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.URL, nil
}
