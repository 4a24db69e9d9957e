package sending

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Recipient is one signer of an email invite.
type Recipient struct {
	Email              string `json:"email" jsonschema:"recipient email address"`
	RoleName           string `json:"role_name" jsonschema:"role name in the document"`
	Action             string `json:"action,omitempty" jsonschema:"view, sign or approve; defaults to sign"`
	Subject            string `json:"subject,omitempty" jsonschema:"custom email subject"`
	Message            string `json:"message,omitempty" jsonschema:"custom email message"`
	RedirectURI        string `json:"redirect_uri,omitempty" jsonschema:"link opened after completion"`
	RedirectTarget     string `json:"redirect_target,omitempty" jsonschema:"blank for a new tab, self for the same tab"`
	DeclineRedirectURI string `json:"decline_redirect_uri,omitempty" jsonschema:"link opened after decline"`
	CloseRedirectURI   string `json:"close_redirect_uri,omitempty" jsonschema:"link opened by the Close button"`
}

// Order is one signing step of an email invite.
type Order struct {
	Order      int         `json:"order" jsonschema:"signing order of this step, starting at 1"`
	Recipients []Recipient `json:"recipients"`
}

// InviteResult identifies a sent invite.
type InviteResult struct {
	InviteID     string      `json:"invite_id"`
	InviteEntity entity.Kind `json:"invite_entity"`
}

func validateOrders(orders []Order) error {
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
			if _, err := redirectTarget(r.RedirectURI, r.RedirectTarget, targetBlank); err != nil {
				return err
			}
		}
	}
	return nil
}

// SendInvite emails a signing invite for a document or document group.
func (s *Service) SendInvite(ctx context.Context, token, id string, kind entity.Kind, orders []Order) (*InviteResult, error) {
	if err := validateOrders(orders); err != nil {
		return nil, err
	}
	res, err := s.resolve(ctx, token, id, kind)
	if err != nil {
		return nil, err
	}
	if res.Kind == entity.KindDocumentGroup {
		return s.sendGroupInvite(ctx, token, res.ID, res.Group, orders)
	}
	return s.sendDocumentInvite(ctx, token, res.Document, orders)
}

// sendGroupInvite binds each recipient to every child document that
// declares the recipient's role.
func (s *Service) sendGroupInvite(ctx context.Context, token, groupID string, group *signnow.DocumentGroup, orders []Order) (*InviteResult, error) {
	req := signnow.GroupInviteRequest{CC: []string{}}
	for _, o := range orders {
		step := signnow.GroupInviteStepRequest{
			Order:         o.Order,
			InviteEmails:  make([]signnow.GroupInviteEmail, 0, len(o.Recipients)),
			InviteActions: []signnow.GroupInviteActionRequest{},
		}
		for _, r := range o.Recipients {
			step.InviteEmails = append(step.InviteEmails, signnow.GroupInviteEmail{
				Email:   r.Email,
				Subject: r.Subject,
				Message: r.Message,
			})
			action, _ := normalizeAction(r.Action)
			target, _ := redirectTarget(r.RedirectURI, r.RedirectTarget, targetBlank)
			for _, doc := range group.Documents {
				if !slices.Contains(doc.Roles, r.RoleName) {
					continue
				}
				step.InviteActions = append(step.InviteActions, signnow.GroupInviteActionRequest{
					Email:              r.Email,
					RoleName:           r.RoleName,
					Action:             action,
					DocumentID:         doc.ID,
					RedirectURI:        r.RedirectURI,
					RedirectTarget:     target,
					DeclineRedirectURI: r.DeclineRedirectURI,
					CloseRedirectURI:   r.CloseRedirectURI,
				})
			}
		}
		if len(step.InviteActions) == 0 {
			s.logger.Warn("invite step matches no document roles", "group_id", groupID, "order", o.Order)
		}
		req.InviteSteps = append(req.InviteSteps, step)
	}

	inviteID, err := s.repo.CreateGroupInvite(ctx, token, groupID, req)
	if err != nil {
		return nil, fmt.Errorf("creating group invite: %w", err)
	}
	return &InviteResult{InviteID: inviteID, InviteEntity: entity.KindDocumentGroup}, nil
}

// sendDocumentInvite sends from the account's primary email.
func (s *Service) sendDocumentInvite(ctx context.Context, token string, doc *signnow.Document, orders []Order) (*InviteResult, error) {
	user, err := s.repo.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	req := signnow.DocumentInviteRequest{From: user.PrimaryEmail}
	for _, o := range orders {
		for _, r := range o.Recipients {
			target, _ := redirectTarget(r.RedirectURI, r.RedirectTarget, targetBlank)
			roleID, _ := doc.RoleID(r.RoleName)
			req.To = append(req.To, signnow.InviteRecipient{
				Email:              r.Email,
				Role:               r.RoleName,
				RoleID:             roleID,
				Order:              o.Order,
				Subject:            r.Subject,
				Message:            r.Message,
				RedirectURI:        r.RedirectURI,
				RedirectTarget:     target,
				DeclineRedirectURI: r.DeclineRedirectURI,
				CloseRedirectURI:   r.CloseRedirectURI,
				DeclineBySignature: r.DeclineRedirectURI != "",
			})
		}
	}

	resp, err := s.repo.CreateDocumentInvite(ctx, token, doc.ID, req)
	if err != nil {
		return nil, fmt.Errorf("creating document invite: %w", err)
	}
	// Document invites answer with a status rather than an id.
	inviteID := resp.ID
	if inviteID == "" {
		inviteID = resp.Status
	}
	return &InviteResult{InviteID: inviteID, InviteEntity: entity.KindDocument}, nil
}
