package sending

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/signnow"
)

const (
	deliveryLink  = "link"
	deliveryEmail = "email"

	editorMinMinutes = 15
	editorMaxMinutes = 43200
	sendingMinDays   = 14
	sendingMaxDays   = 45
)

var authMethods = []string{"password", "email", "mfa", "biometric", "social", "other", "none"}

// EmbeddedRecipient is one signer of an embedded invite.
type EmbeddedRecipient struct {
	Email              string `json:"email" jsonschema:"recipient email address"`
	RoleName           string `json:"role_name" jsonschema:"role name in the document"`
	Action             string `json:"action,omitempty" jsonschema:"view, sign or approve; defaults to sign"`
	AuthMethod         string `json:"auth_method,omitempty" jsonschema:"password, email, mfa, biometric, social, other or none; defaults to none"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	RedirectURI        string `json:"redirect_uri,omitempty" jsonschema:"link opened after completion"`
	RedirectTarget     string `json:"redirect_target,omitempty" jsonschema:"blank for a new tab, self for the same tab"`
	DeclineRedirectURI string `json:"decline_redirect_uri,omitempty"`
	CloseRedirectURI   string `json:"close_redirect_uri,omitempty"`
	Subject            string `json:"subject,omitempty"`
	Message            string `json:"message,omitempty"`
	DeliveryType       string `json:"delivery_type,omitempty" jsonschema:"link to receive a signing link, email to send an email; defaults to link"`
}

func (r EmbeddedRecipient) authMethod() string {
	if r.AuthMethod == "" {
		return "none"
	}
	return r.AuthMethod
}

func (r EmbeddedRecipient) deliveryType() string {
	if r.DeliveryType == "" {
		return deliveryLink
	}
	return r.DeliveryType
}

// EmbeddedOrder is one signing step of an embedded invite.
type EmbeddedOrder struct {
	Order      int                 `json:"order" jsonschema:"signing order of this step, starting at 1"`
	Recipients []EmbeddedRecipient `json:"recipients"`
}

// RecipientLink is the signing link handed to a link-delivery recipient.
type RecipientLink struct {
	Role string `json:"role"`
	Link string `json:"link"`
}

// EmbeddedInviteResult identifies an embedded invite and its signing links.
type EmbeddedInviteResult struct {
	InviteID       string          `json:"invite_id"`
	InviteEntity   entity.Kind     `json:"invite_entity"`
	RecipientLinks []RecipientLink `json:"recipient_links"`
}

func validateEmbeddedOrders(orders []EmbeddedOrder) error {
	if len(orders) == 0 {
		return fmt.Errorf("%w: at least one order with recipients is required", ErrInvalidInput)
	}
	for _, o := range orders {
		if len(o.Recipients) == 0 {
			return fmt.Errorf("%w: order %d has no recipients", ErrInvalidInput, o.Order)
		}
		for _, r := range o.Recipients {
			if strings.TrimSpace(r.Email) == "" || strings.TrimSpace(r.RoleName) == "" {
				return fmt.Errorf("%w: every recipient needs email and role_name", ErrInvalidInput)
			}
			if _, err := normalizeAction(r.Action); err != nil {
				return err
			}
			if !slices.Contains(authMethods, r.authMethod()) {
				return fmt.Errorf("%w: unsupported auth_method %q", ErrInvalidInput, r.AuthMethod)
			}
			if d := r.deliveryType(); d != deliveryLink && d != deliveryEmail {
				return fmt.Errorf("%w: delivery_type must be link or email", ErrInvalidInput)
			}
			if _, err := redirectTarget(r.RedirectURI, r.RedirectTarget, targetSelf); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateEmbeddedInvite creates an embedded signing invite and returns links
// for recipients whose delivery type is link.
func (s *Service) CreateEmbeddedInvite(ctx context.Context, token, id string, kind entity.Kind, orders []EmbeddedOrder) (*EmbeddedInviteResult, error) {
	if err := validateEmbeddedOrders(orders); err != nil {
		return nil, err
	}
	res, err := s.resolve(ctx, token, id, kind)
	if err != nil {
		return nil, err
	}
	if res.Kind == entity.KindDocumentGroup {
		return s.groupEmbeddedInvite(ctx, token, res.ID, res.Group, orders)
	}
	return s.documentEmbeddedInvite(ctx, token, res.Document, orders)
}

func (s *Service) groupEmbeddedInvite(ctx context.Context, token, groupID string, group *signnow.DocumentGroup, orders []EmbeddedOrder) (*EmbeddedInviteResult, error) {
	req := signnow.GroupEmbeddedInviteRequest{SignAsMerged: true}
	for _, o := range orders {
		step := signnow.GroupEmbeddedStep{Order: o.Order}
		for _, r := range o.Recipients {
			action, _ := normalizeAction(r.Action)
			target, _ := redirectTarget(r.RedirectURI, r.RedirectTarget, targetSelf)
			docs := []signnow.GroupEmbeddedDocument{}
			for _, doc := range group.Documents {
				if slices.Contains(doc.Roles, r.RoleName) {
					docs = append(docs, signnow.GroupEmbeddedDocument{ID: doc.ID, Role: r.RoleName, Action: action})
				}
			}
			step.Signers = append(step.Signers, signnow.GroupEmbeddedSigner{
				Email:              r.Email,
				AuthMethod:         r.authMethod(),
				FirstName:          r.FirstName,
				LastName:           r.LastName,
				RedirectURI:        r.RedirectURI,
				DeclineRedirectURI: r.DeclineRedirectURI,
				CloseRedirectURI:   r.CloseRedirectURI,
				RedirectTarget:     target,
				DeliveryType:       r.deliveryType(),
				Subject:            r.Subject,
				Message:            r.Message,
				Documents:          docs,
			})
		}
		req.Invites = append(req.Invites, step)
	}

	inviteID, err := s.repo.CreateGroupEmbeddedInvite(ctx, token, groupID, req)
	if err != nil {
		return nil, fmt.Errorf("creating group embedded invite: %w", err)
	}

	out := &EmbeddedInviteResult{InviteID: inviteID, InviteEntity: entity.KindDocumentGroup, RecipientLinks: []RecipientLink{}}
	for _, o := range orders {
		for _, r := range o.Recipients {
			if r.deliveryType() != deliveryLink {
				continue
			}
			link, err := s.repo.CreateGroupEmbeddedInviteLink(ctx, token, groupID, inviteID, signnow.EmbeddedLinkRequest{
				Email:      r.Email,
				AuthMethod: r.authMethod(),
			})
			if err != nil {
				return nil, fmt.Errorf("creating signing link for %s: %w", r.Email, err)
			}
			out.RecipientLinks = append(out.RecipientLinks, RecipientLink{Role: r.RoleName, Link: link})
		}
	}
	return out, nil
}

// documentEmbeddedInvite maps role names onto the document's role ids and
// matches created field invites back to recipients by email.
func (s *Service) documentEmbeddedInvite(ctx context.Context, token string, doc *signnow.Document, orders []EmbeddedOrder) (*EmbeddedInviteResult, error) {
	var req signnow.DocumentEmbeddedInviteRequest
	for _, o := range orders {
		for _, r := range o.Recipients {
			roleID, ok := doc.RoleID(r.RoleName)
			if !ok {
				return nil, fmt.Errorf("%w: document %s has no role %q", ErrInvalidInput, doc.ID, r.RoleName)
			}
			target, _ := redirectTarget(r.RedirectURI, r.RedirectTarget, targetSelf)
			req.Invites = append(req.Invites, signnow.DocumentEmbeddedSigner{
				Email:              r.Email,
				RoleID:             roleID,
				Order:              o.Order,
				AuthMethod:         r.authMethod(),
				FirstName:          r.FirstName,
				LastName:           r.LastName,
				RedirectURI:        r.RedirectURI,
				DeclineRedirectURI: r.DeclineRedirectURI,
				CloseRedirectURI:   r.CloseRedirectURI,
				RedirectTarget:     target,
			})
		}
	}

	created, err := s.repo.CreateDocumentEmbeddedInvite(ctx, token, doc.ID, req)
	if err != nil {
		return nil, fmt.Errorf("creating document embedded invite: %w", err)
	}

	out := &EmbeddedInviteResult{InviteEntity: entity.KindDocument, RecipientLinks: []RecipientLink{}}
	if len(created) > 0 {
		out.InviteID = created[0].ID
	}
	for _, o := range orders {
		for _, r := range o.Recipients {
			if r.deliveryType() != deliveryLink {
				continue
			}
			idx := slices.IndexFunc(created, func(inv signnow.DocumentEmbeddedInvite) bool {
				return strings.EqualFold(inv.Email, r.Email)
			})
			if idx < 0 {
				s.logger.Warn("no embedded invite for recipient", "document_id", doc.ID, "email", r.Email)
				continue
			}
			link, err := s.repo.CreateDocumentEmbeddedInviteLink(ctx, token, doc.ID, created[idx].ID, signnow.EmbeddedLinkRequest{
				AuthMethod: r.authMethod(),
			})
			if err != nil {
				return nil, fmt.Errorf("creating signing link for %s: %w", r.Email, err)
			}
			out.RecipientLinks = append(out.RecipientLinks, RecipientLink{Role: r.RoleName, Link: link})
		}
	}
	return out, nil
}

// EditorOptions configures an embedded editor link.
type EditorOptions struct {
	RedirectURI    string `json:"redirect_uri,omitempty" jsonschema:"URL opened after editing"`
	RedirectTarget string `json:"redirect_target,omitempty" jsonschema:"self for the same tab, blank for a new tab"`
	LinkExpiration int    `json:"link_expiration,omitempty" jsonschema:"link lifetime in minutes, 15 to 43200"`
}

func (o EditorOptions) request() (signnow.EmbeddedEditorRequest, error) {
	if o.LinkExpiration != 0 && (o.LinkExpiration < editorMinMinutes || o.LinkExpiration > editorMaxMinutes) {
		return signnow.EmbeddedEditorRequest{}, fmt.Errorf("%w: link_expiration must be between %d and %d minutes", ErrInvalidInput, editorMinMinutes, editorMaxMinutes)
	}
	target, err := redirectTarget(o.RedirectURI, o.RedirectTarget, targetSelf)
	if err != nil {
		return signnow.EmbeddedEditorRequest{}, err
	}
	return signnow.EmbeddedEditorRequest{RedirectURI: o.RedirectURI, RedirectTarget: target, LinkExpiration: o.LinkExpiration}, nil
}

// EditorResult is an embedded editor link.
type EditorResult struct {
	EditorEntity entity.Kind `json:"editor_entity"`
	EditorURL    string      `json:"editor_url"`
}

// CreateEmbeddedEditor returns a link that opens the entity in the editor.
func (s *Service) CreateEmbeddedEditor(ctx context.Context, token, id string, kind entity.Kind, opts EditorOptions) (*EditorResult, error) {
	req, err := opts.request()
	if err != nil {
		return nil, err
	}
	res, err := s.resolve(ctx, token, id, kind)
	if err != nil {
		return nil, err
	}

	var url string
	if res.Kind == entity.KindDocumentGroup {
		url, err = s.repo.CreateGroupEmbeddedEditor(ctx, token, res.ID, req)
	} else {
		url, err = s.repo.CreateDocumentEmbeddedEditor(ctx, token, res.ID, req)
	}
	if err != nil {
		return nil, fmt.Errorf("creating embedded editor: %w", err)
	}
	return &EditorResult{EditorEntity: res.Kind, EditorURL: url}, nil
}

// SendingOptions configures an embedded sending link.
type SendingOptions struct {
	RedirectURI    string `json:"redirect_uri,omitempty" jsonschema:"URL opened after sending"`
	RedirectTarget string `json:"redirect_target,omitempty" jsonschema:"self for the same tab, blank for a new tab"`
	LinkExpiration int    `json:"link_expiration,omitempty" jsonschema:"link lifetime in days, 14 to 45"`
	Type           string `json:"type,omitempty" jsonschema:"manage, edit or send-invite; defaults to manage"`
}

func (o SendingOptions) request(kind entity.Kind) (signnow.EmbeddedSendingRequest, error) {
	if o.LinkExpiration != 0 && (o.LinkExpiration < sendingMinDays || o.LinkExpiration > sendingMaxDays) {
		return signnow.EmbeddedSendingRequest{}, fmt.Errorf("%w: link_expiration must be between %d and %d days", ErrInvalidInput, sendingMinDays, sendingMaxDays)
	}
	step := o.Type
	switch step {
	case "":
		step = "manage"
	case "manage", "edit", "send-invite":
	default:
		return signnow.EmbeddedSendingRequest{}, fmt.Errorf("%w: type must be one of manage, edit, send-invite", ErrInvalidInput)
	}
	target, err := redirectTarget(o.RedirectURI, o.RedirectTarget, targetSelf)
	if err != nil {
		return signnow.EmbeddedSendingRequest{}, err
	}
	// Documents name the sending step by the entity it opens on.
	if kind == entity.KindDocument {
		if step == "send-invite" {
			step = "invite"
		} else {
			step = "document"
		}
	}
	return signnow.EmbeddedSendingRequest{Type: step, RedirectURI: o.RedirectURI, RedirectTarget: target, LinkExpiration: o.LinkExpiration}, nil
}

// SendingResult is an embedded sending link.
type SendingResult struct {
	SendingEntity entity.Kind `json:"sending_entity"`
	SendingURL    string      `json:"sending_url"`
}

// CreateEmbeddedSending returns a link that opens the sending flow.
func (s *Service) CreateEmbeddedSending(ctx context.Context, token, id string, kind entity.Kind, opts SendingOptions) (*SendingResult, error) {
	if _, err := opts.request(entity.KindDocumentGroup); err != nil {
		return nil, err
	}
	res, err := s.resolve(ctx, token, id, kind)
	if err != nil {
		return nil, err
	}
	req, _ := opts.request(res.Kind)

	var url string
	if res.Kind == entity.KindDocumentGroup {
		url, err = s.repo.CreateGroupEmbeddedSending(ctx, token, res.ID, req)
	} else {
		url, err = s.repo.CreateDocumentEmbeddedSending(ctx, token, res.ID, req)
	}
	if err != nil {
		return nil, fmt.Errorf("creating embedded sending: %w", err)
	}
	return &SendingResult{SendingEntity: res.Kind, SendingURL: url}, nil
}
