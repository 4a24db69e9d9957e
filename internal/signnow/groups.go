package signnow

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// EmailGroup names a group-delivery target of a v2 field invite.
type EmailGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmailStatus is a delivery status entry of a v2 field invite.
type EmailStatus struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// GroupFieldInvite is a field invite of a child document in the v2 group view.
type GroupFieldInvite struct {
	ID                string        `json:"id"`
	Status            string        `json:"status"`
	SignerEmail       string        `json:"signer_email"`
	Created           FlexInt       `json:"created"`
	Updated           FlexInt       `json:"updated"`
	ExpirationTime    FlexInt       `json:"expiration_time"`
	ExpirationDays    FlexInt       `json:"expiration_days"`
	PasswordProtected string        `json:"password_protected"`
	EmailGroup        *EmailGroup   `json:"email_group"`
	EmailStatuses     []EmailStatus `json:"email_statuses"`
}

// GroupDocument is a child document in the v2 group view.
type GroupDocument struct {
	ID           string             `json:"id"`
	DocumentName string             `json:"document_name"`
	Updated      FlexInt            `json:"updated"`
	Roles        RoleNames          `json:"roles"`
	FieldInvites []GroupFieldInvite `json:"field_invites"`
}

// DocumentGroupV2 is the data of GET /v2/document-groups/{id}.
type DocumentGroupV2 struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Created       FlexInt         `json:"created"`
	Updated       FlexInt         `json:"updated"`
	InviteID      string          `json:"invite_id"`
	PendingStepID string          `json:"pending_step_id"`
	State         string          `json:"state"`
	LastInviteID  string          `json:"last_invite_id"`
	Documents     []GroupDocument `json:"documents"`
}

// DocumentIDs returns the child document ids in group order.
func (g *DocumentGroupV2) DocumentIDs() []string {
	ids := make([]string, 0, len(g.Documents))
	for _, d := range g.Documents {
		ids = append(ids, d.ID)
	}
	return ids
}

// GroupMember is a child document of the v1 group view.
type GroupMember struct {
	ID           string    `json:"id"`
	DocumentName string    `json:"document_name"`
	PageCount    FlexInt   `json:"page_count"`
	Roles        RoleNames `json:"roles"`
}

// DocumentGroup is the GET /documentgroup/{id} response.
type DocumentGroup struct {
	ID        string        `json:"id"`
	GroupName string        `json:"group_name"`
	InviteID  string        `json:"invite_id"`
	Created   FlexInt       `json:"created"`
	Updated   FlexInt       `json:"updated"`
	Documents []GroupMember `json:"documents"`
}

// DocumentIDs returns the child document ids in group order.
func (g *DocumentGroup) DocumentIDs() []string {
	ids := make([]string, 0, len(g.Documents))
	for _, d := range g.Documents {
		ids = append(ids, d.ID)
	}
	return ids
}

// GroupInviteAction is one action of a group invite step.
type GroupInviteAction struct {
	Action     string      `json:"action"`
	Email      string      `json:"email"`
	EmailGroup *EmailGroup `json:"email_group"`
	DocumentID string      `json:"document_id"`
	Status     string      `json:"status"`
	RoleName   string      `json:"role_name"`
}

// GroupInviteStep is one signing step of a group invite.
type GroupInviteStep struct {
	ID      string              `json:"id"`
	Status  string              `json:"status"`
	Order   FlexInt             `json:"order"`
	Actions []GroupInviteAction `json:"actions"`
}

// GroupInvite is the invite object of GET /documentgroup/{id}/groupinvite/{iid}.
type GroupInvite struct {
	ID     string            `json:"id"`
	Status string            `json:"status"`
	Steps  []GroupInviteStep `json:"steps"`
}

// TemplateGroupTemplate is a template inside a document group template.
type TemplateGroupTemplate struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Roles RoleNames `json:"roles"`
}

// TemplateGroup is a document group template.
type TemplateGroup struct {
	FolderID          *string                 `json:"folder_id"`
	LastUpdated       FlexInt                 `json:"last_updated"`
	TemplateGroupID   string                  `json:"template_group_id"`
	TemplateGroupName string                  `json:"template_group_name"`
	OwnerEmail        string                  `json:"owner_email"`
	Templates         []TemplateGroupTemplate `json:"templates"`
	IsPrepared        FlexBool                `json:"is_prepared"`
}

// TemplateGroups is the GET /user/documentgroup/templates response.
type TemplateGroups struct {
	DocumentGroupTemplates []TemplateGroup `json:"document_group_templates"`
	TotalCount             FlexInt         `json:"document_group_template_total_count"`
}

// GroupInviteEmail is an invite email of a group invite step.
type GroupInviteEmail struct {
	Email          string `json:"email"`
	Subject        string `json:"subject,omitempty"`
	Message        string `json:"message,omitempty"`
	ExpirationDays int    `json:"expiration_days,omitempty"`
}

// GroupInviteActionRequest binds a signer to a role of one child document.
type GroupInviteActionRequest struct {
	Email              string `json:"email"`
	RoleName           string `json:"role_name"`
	Action             string `json:"action"`
	DocumentID         string `json:"document_id"`
	RedirectURI        string `json:"redirect_uri,omitempty"`
	RedirectTarget     string `json:"redirect_target,omitempty"`
	DeclineRedirectURI string `json:"decline_redirect_uri,omitempty"`
	CloseRedirectURI   string `json:"close_redirect_uri,omitempty"`
}

// GroupInviteStepRequest is one ordered step of a group invite.
type GroupInviteStepRequest struct {
	Order         int                        `json:"order"`
	InviteEmails  []GroupInviteEmail         `json:"invite_emails"`
	InviteActions []GroupInviteActionRequest `json:"invite_actions"`
}

// GroupInviteRequest is the POST /documentgroup/{id}/groupinvite body.
type GroupInviteRequest struct {
	InviteSteps []GroupInviteStepRequest `json:"invite_steps"`
	CC          []string                 `json:"cc"`
}

// GroupEmbeddedDocument binds an embedded signer to a child document role.
type GroupEmbeddedDocument struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Action string `json:"action"`
}

// GroupEmbeddedSigner is a signer of a group embedded invite step.
type GroupEmbeddedSigner struct {
	Email              string                  `json:"email"`
	AuthMethod         string                  `json:"auth_method"`
	FirstName          string                  `json:"first_name,omitempty"`
	LastName           string                  `json:"last_name,omitempty"`
	RedirectURI        string                  `json:"redirect_uri,omitempty"`
	DeclineRedirectURI string                  `json:"decline_redirect_uri,omitempty"`
	CloseRedirectURI   string                  `json:"close_redirect_uri,omitempty"`
	RedirectTarget     string                  `json:"redirect_target,omitempty"`
	DeliveryType       string                  `json:"delivery_type,omitempty"`
	Subject            string                  `json:"subject,omitempty"`
	Message            string                  `json:"message,omitempty"`
	Documents          []GroupEmbeddedDocument `json:"documents"`
}

// GroupEmbeddedStep is an ordered step of a group embedded invite.
type GroupEmbeddedStep struct {
	Order   int                   `json:"order"`
	Signers []GroupEmbeddedSigner `json:"signers"`
}

// GroupEmbeddedInviteRequest is the v2 group embedded invite body.
type GroupEmbeddedInviteRequest struct {
	Invites      []GroupEmbeddedStep `json:"invites"`
	SignAsMerged bool                `json:"sign_as_merged"`
}

// GetDocumentGroup fetches a document group with its documents and roles.
func (c *Client) GetDocumentGroup(ctx context.Context, token, groupID string) (*DocumentGroup, error) {
	var out DocumentGroup
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/documentgroup/" + url.PathEscape(groupID),
		token:  token,
		op:     "get_document_group",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocumentGroupV2 fetches the v2 view of a document group, which carries
// per-document field invites and the group state.
func (c *Client) GetDocumentGroupV2(ctx context.Context, token, groupID string) (*DocumentGroupV2, error) {
	var out struct {
		Data DocumentGroupV2 `json:"data"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/v2/document-groups/" + url.PathEscape(groupID),
		token:  token,
		op:     "get_document_group_v2",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetGroupInvite fetches the step breakdown of a group invite.
func (c *Client) GetGroupInvite(ctx context.Context, token, groupID, inviteID string) (*GroupInvite, error) {
	var out struct {
		Invite GroupInvite `json:"invite"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/documentgroup/" + url.PathEscape(groupID) + "/groupinvite/" + url.PathEscape(inviteID),
		token:  token,
		op:     "get_group_invite",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Invite, nil
}

// GetDocumentTemplateGroups lists document group templates.
func (c *Client) GetDocumentTemplateGroups(ctx context.Context, token string, limit, offset int) (*TemplateGroups, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var out TemplateGroups
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user/documentgroup/templates",
		token:  token,
		query:  q,
		op:     "get_document_template_groups",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDocumentGroupFromTemplate instantiates a group template and returns the new group id.
func (c *Client) CreateDocumentGroupFromTemplate(ctx context.Context, token, templateGroupID, groupName, folderID string) (string, error) {
	body := map[string]any{"group_name": groupName}
	if folderID != "" {
		body["folder_id"] = folderID
	}
	var out struct {
		Data struct {
			UniqueID string `json:"unique_id"`
			ID       string `json:"id"`
			GroupID  string `json:"group_id"`
		} `json:"data"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/document-group-templates/" + url.PathEscape(templateGroupID) + "/document-group",
		token:  token,
		body:   body,
		op:     "create_document_group_from_template",
	}, &out)
	if err != nil {
		return "", err
	}
	switch {
	case out.Data.UniqueID != "":
		return out.Data.UniqueID, nil
	case out.Data.ID != "":
		return out.Data.ID, nil
	default:
		return out.Data.GroupID, nil
	}
}

// CreateGroupInvite sends a stepped invite for a document group.
func (c *Client) CreateGroupInvite(ctx context.Context, token, groupID string, req GroupInviteRequest) (string, error) {
	if req.CC == nil {
		req.CC = []string{}
	}
	var out struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/documentgroup/" + url.PathEscape(groupID) + "/groupinvite",
		token:  token,
		body:   req,
		op:     "create_group_invite",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

// CreateGroupEmbeddedInvite creates an embedded invite for a document group.
func (c *Client) CreateGroupEmbeddedInvite(ctx context.Context, token, groupID string, req GroupEmbeddedInviteRequest) (string, error) {
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/document-groups/" + url.PathEscape(groupID) + "/embedded-invites",
		token:  token,
		body:   req,
		op:     "create_group_embedded_invite",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

// CreateGroupEmbeddedInviteLink returns the signing link of a group embedded invite for one signer.
func (c *Client) CreateGroupEmbeddedInviteLink(ctx context.Context, token, groupID, inviteID string, req EmbeddedLinkRequest) (string, error) {
	var out linkData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/document-groups/" + url.PathEscape(groupID) + "/embedded-invites/" + url.PathEscape(inviteID) + "/link",
		token:  token,
		body:   req,
		op:     "create_group_embedded_invite_link",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.Link, nil
}

// CreateGroupEmbeddedEditor returns an embedded editor link for a document group.
func (c *Client) CreateGroupEmbeddedEditor(ctx context.Context, token, groupID string, req EmbeddedEditorRequest) (string, error) {
	var out linkData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/document-groups/" + url.PathEscape(groupID) + "/embedded-editor",
		token:  token,
		body:   req,
		op:     "create_group_embedded_editor",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.URL, nil
}

// CreateGroupEmbeddedSending returns an embedded sending link for a document group.
func (c *Client) CreateGroupEmbeddedSending(ctx context.Context, token, groupID string, req EmbeddedSendingRequest) (string, error) {
	var out linkData
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v2/document-groups/" + url.PathEscape(groupID) + "/embedded-sending",
		token:  token,
		body:   req,
		op:     "create_group_embedded_sending",
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Data.URL, nil
}
