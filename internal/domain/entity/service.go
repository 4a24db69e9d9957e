package entity

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rpggio/sn-mcp/internal/domain/invite"
	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Service resolves entities and builds their aggregate views.
type Service struct {
	repo     Repository
	resolver *Resolver
	appBase  string
	clock    func() time.Time
	logger   *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source used for expiry judgments.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates an entity service. appBase is the web app root used
// for signing links.
func NewService(repo Repository, appBase string, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:     repo,
		resolver: NewResolver(repo, logger),
		appBase:  strings.TrimRight(appBase, "/"),
		clock:    time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDocument returns the aggregate view of a document or document group.
// Undeclared ids are tried as a document first.
func (s *Service) GetDocument(ctx context.Context, token, id string, kind Kind) (*View, error) {
	now := s.clock().Unix()
	res, err := s.resolver.Resolve(ctx, token, id, kind, DocumentFirst, GroupDetail)
	if err != nil {
		return nil, err
	}
	if res.Kind == KindDocument {
		return documentView(res.Document, now), nil
	}
	view, err := s.groupView(ctx, token, res.GroupV2, now)
	if err != nil {
		return nil, err
	}
	if view.ID == "" {
		view.ID = res.ID
	}
	return view, nil
}

// InviteStatus is the invite state of an entity, with group invite steps
// when the entity is a group with an active invite.
type InviteStatus struct {
	EntityID   string         `json:"entity_id"`
	EntityType Kind           `json:"entity_type"`
	Invite     *invite.Invite `json:"invite"`
	Steps      []Step         `json:"steps"`
}

// Step is one ordered step of a group invite.
type Step struct {
	Order     *int64        `json:"order"`
	Status    invite.Status `json:"status"`
	RawStatus string        `json:"raw_status"`
	Actions   []StepAction  `json:"actions"`
}

// StepAction is one signer action within a group invite step.
type StepAction struct {
	Action     string        `json:"action"`
	Email      string        `json:"email"`
	DocumentID string        `json:"document_id"`
	RoleName   string        `json:"role_name"`
	Status     invite.Status `json:"status"`
	RawStatus  string        `json:"raw_status"`
}

// GetInviteStatus returns the normalized invite of an entity. Undeclared
// ids are tried as a document group first.
func (s *Service) GetInviteStatus(ctx context.Context, token, id string, kind Kind) (*InviteStatus, error) {
	now := s.clock().Unix()
	res, err := s.resolver.Resolve(ctx, token, id, kind, GroupFirst, GroupDetail)
	if err != nil {
		return nil, err
	}

	out := &InviteStatus{EntityID: res.ID, EntityType: res.Kind, Steps: []Step{}}
	if res.Kind == KindDocument {
		out.Invite = documentInvite(res.Document, now)
		return out, nil
	}

	out.Invite = groupInvite(res.GroupV2, now)
	if res.GroupV2.InviteID == "" {
		return out, nil
	}
	gi, err := s.repo.GetGroupInvite(ctx, token, res.ID, res.GroupV2.InviteID)
	if err != nil {
		return nil, fmt.Errorf("getting group invite: %w", err)
	}
	for _, step := range gi.Steps {
		st := Step{
			Order:     step.Order.Ptr(),
			Status:    invite.Classify(step.Status),
			RawStatus: step.Status,
			Actions:   make([]StepAction, 0, len(step.Actions)),
		}
		for _, a := range step.Actions {
			email := a.Email
			if email == "" && a.EmailGroup != nil {
				email = a.EmailGroup.Name
			}
			st.Actions = append(st.Actions, StepAction{
				Action:     a.Action,
				Email:      email,
				DocumentID: a.DocumentID,
				RoleName:   a.RoleName,
				Status:     invite.Classify(a.Status),
				RawStatus:  a.Status,
			})
		}
		out.Steps = append(out.Steps, st)
	}
	return out, nil
}

// DownloadLink is a download link for an entity. Groups with several
// documents are merged first.
type DownloadLink struct {
	EntityID   string `json:"entity_id"`
	EntityType Kind   `json:"entity_type"`
	Link       string `json:"link"`
	Merged     bool   `json:"merged"`
	DocumentID string `json:"document_id"`
}

// GetDownloadLink returns a download link for a document or document group.
func (s *Service) GetDownloadLink(ctx context.Context, token, id string, kind Kind) (*DownloadLink, error) {
	res, err := s.resolver.Resolve(ctx, token, id, kind, GroupFirst, GroupSummary)
	if err != nil {
		return nil, err
	}
	out := &DownloadLink{EntityID: res.ID, EntityType: res.Kind}

	documentID := res.ID
	if res.Kind == KindDocumentGroup {
		ids := res.Group.DocumentIDs()
		switch len(ids) {
		case 0:
			return nil, fmt.Errorf("%w: %s", ErrEmptyGroup, res.ID)
		case 1:
			documentID = ids[0]
		default:
			name := res.Group.GroupName
			if name == "" {
				name = res.ID
			}
			merged, err := s.repo.MergeDocuments(ctx, token, signnow.MergeRequest{Name: name, DocumentIDs: ids, UploadDocument: true})
			if err != nil {
				return nil, fmt.Errorf("merging group documents: %w", err)
			}
			documentID = merged
			out.Merged = true
		}
	}

	link, err := s.repo.GetDocumentDownloadLink(ctx, token, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting download link: %w", err)
	}
	out.Link = link
	out.DocumentID = documentID
	return out, nil
}

// SigningLink is a web app link for signing an entity.
type SigningLink struct {
	EntityID   string `json:"entity_id"`
	EntityType Kind   `json:"entity_type"`
	Link       string `json:"link"`
}

// GetSigningLink returns a web app signing link. The entity must already
// have an invite.
func (s *Service) GetSigningLink(ctx context.Context, token, id string, kind Kind) (*SigningLink, error) {
	view, err := s.GetDocument(ctx, token, id, kind)
	if err != nil {
		return nil, err
	}
	if view.Invite == nil {
		return nil, fmt.Errorf("%w: to sign, an invite must exist for %s with ID %s", ErrNoInvite, view.Kind, view.ID)
	}

	var link string
	if view.Kind == KindDocumentGroup {
		q := url.Values{}
		q.Set("document_group_id", view.ID)
		q.Set("access_token", token)
		link = s.appBase + "/webapp/documentgroup/signing?" + q.Encode() + "&unwrap"
	} else {
		link = s.appBase + "/webapp/document/" + url.PathEscape(view.ID) + "?access_token=" + url.QueryEscape(token)
	}
	return &SigningLink{EntityID: view.ID, EntityType: view.Kind, Link: link}, nil
}

// FieldValue is a new value for a named text field.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldUpdate targets the text fields of one document.
type FieldUpdate struct {
	DocumentID string       `json:"document_id"`
	Fields     []FieldValue `json:"fields"`
}

// FieldUpdateResult reports the outcome for one document.
type FieldUpdateResult struct {
	DocumentID string `json:"document_id"`
	Updated    bool   `json:"updated"`
	Reason     string `json:"reason,omitempty"`
}

// UpdateFields prefills text fields document by document. A failing
// document is reported and does not stop the others.
func (s *Service) UpdateFields(ctx context.Context, token string, updates []FieldUpdate) ([]FieldUpdateResult, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: at least one document update is required", ErrInvalidInput)
	}
	results := make([]FieldUpdateResult, 0, len(updates))
	for _, u := range updates {
		if strings.TrimSpace(u.DocumentID) == "" {
			results = append(results, FieldUpdateResult{Reason: "document_id is required"})
			continue
		}
		fields := make([]signnow.PrefillField, 0, len(u.Fields))
		for _, f := range u.Fields {
			fields = append(fields, signnow.PrefillField{FieldName: f.Name, PrefilledText: f.Value})
		}
		if err := s.repo.PrefillTextFields(ctx, token, u.DocumentID, fields); err != nil {
			s.logger.Warn("prefill failed", "document_id", u.DocumentID, "error", err)
			results = append(results, FieldUpdateResult{DocumentID: u.DocumentID, Reason: err.Error()})
			continue
		}
		results = append(results, FieldUpdateResult{DocumentID: u.DocumentID, Updated: true})
	}
	return results, nil
}
