package sending

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
)

// TemplateKind is the kind of a template source.
type TemplateKind string

const (
	KindTemplate      TemplateKind = "template"
	KindTemplateGroup TemplateKind = "template_group"

	templateGroupLookupLimit = 50
)

// ParseTemplateKind validates a caller-declared template type. Empty means
// undeclared.
func ParseTemplateKind(raw string) (TemplateKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "template":
		return KindTemplate, nil
	case "template_group", "template-group":
		return KindTemplateGroup, nil
	default:
		return "", fmt.Errorf("%w: entity_type must be one of template, template_group", ErrInvalidInput)
	}
}

// TemplateSource names the template to instantiate.
type TemplateSource struct {
	ID       string
	Kind     TemplateKind
	Name     string
	FolderID string
}

// Created is the document or group instantiated from a template.
type Created struct {
	EntityID   string      `json:"entity_id"`
	EntityType entity.Kind `json:"entity_type"`
	Name       string      `json:"name"`
}

// CreateFromTemplate instantiates a template as a document, or a template
// group as a document group. An undeclared kind is a template group when
// the id appears in the user's template groups.
func (s *Service) CreateFromTemplate(ctx context.Context, token string, src TemplateSource) (*Created, error) {
	if strings.TrimSpace(src.ID) == "" {
		return nil, fmt.Errorf("%w: entity_id is required", ErrInvalidInput)
	}
	if src.Kind == KindTemplateGroup && src.Name == "" {
		return nil, ErrNameRequired
	}

	kind := src.Kind
	if kind == "" {
		isGroup, err := s.isTemplateGroup(ctx, token, src.ID)
		if err != nil {
			return nil, err
		}
		kind = KindTemplate
		if isGroup {
			kind = KindTemplateGroup
		}
	}

	if kind == KindTemplateGroup {
		if src.Name == "" {
			return nil, ErrNameRequired
		}
		id, err := s.repo.CreateDocumentGroupFromTemplate(ctx, token, src.ID, src.Name, src.FolderID)
		if err != nil {
			return nil, fmt.Errorf("creating document group from template group: %w", err)
		}
		return &Created{EntityID: id, EntityType: entity.KindDocumentGroup, Name: src.Name}, nil
	}

	id, name, err := s.repo.CopyTemplate(ctx, token, src.ID, src.Name)
	if err != nil {
		return nil, fmt.Errorf("creating document from template: %w", err)
	}
	switch {
	case src.Name != "":
		name = src.Name
	case name == "":
		name = "Document_" + prefix(id, 8)
	}
	return &Created{EntityID: id, EntityType: entity.KindDocument, Name: name}, nil
}

func (s *Service) isTemplateGroup(ctx context.Context, token, id string) (bool, error) {
	groups, err := s.repo.GetDocumentTemplateGroups(ctx, token, templateGroupLookupLimit, 0)
	if err != nil {
		return false, fmt.Errorf("listing template groups: %w", err)
	}
	for _, g := range groups.DocumentGroupTemplates {
		if g.TemplateGroupID == id {
			return true, nil
		}
	}
	return false, nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// FromTemplate is the created entity plus the result of the follow-up action.
type FromTemplate[T any] struct {
	CreatedEntityID   string      `json:"created_entity_id"`
	CreatedEntityType entity.Kind `json:"created_entity_type"`
	CreatedEntityName string      `json:"created_entity_name"`
	Result            *T          `json:"result"`
}

// fromTemplate instantiates src and then runs act on the created entity,
// reporting three progress steps.
func fromTemplate[T any](ctx context.Context, s *Service, token string, src TemplateSource, progress ProgressFunc, act func(created *Created) (*T, error)) (*FromTemplate[T], error) {
	report(ctx, progress, 1, 3, "Creating from template")
	created, err := s.CreateFromTemplate(ctx, token, src)
	if err != nil {
		return nil, err
	}
	report(ctx, progress, 2, 3, "Created "+string(created.EntityType)+" "+created.EntityID)
	result, err := act(created)
	if err != nil {
		return nil, err
	}
	report(ctx, progress, 3, 3, "Done")
	return &FromTemplate[T]{
		CreatedEntityID:   created.EntityID,
		CreatedEntityType: created.EntityType,
		CreatedEntityName: created.Name,
		Result:            result,
	}, nil
}

// SendInviteFromTemplate instantiates a template and emails an invite for it.
func (s *Service) SendInviteFromTemplate(ctx context.Context, token string, src TemplateSource, orders []Order, progress ProgressFunc) (*FromTemplate[InviteResult], error) {
	if err := validateOrders(orders); err != nil {
		return nil, err
	}
	return fromTemplate(ctx, s, token, src, progress, func(c *Created) (*InviteResult, error) {
		return s.SendInvite(ctx, token, c.EntityID, c.EntityType, orders)
	})
}

// CreateEmbeddedInviteFromTemplate instantiates a template and creates an
// embedded invite for it.
func (s *Service) CreateEmbeddedInviteFromTemplate(ctx context.Context, token string, src TemplateSource, orders []EmbeddedOrder, progress ProgressFunc) (*FromTemplate[EmbeddedInviteResult], error) {
	if err := validateEmbeddedOrders(orders); err != nil {
		return nil, err
	}
	return fromTemplate(ctx, s, token, src, progress, func(c *Created) (*EmbeddedInviteResult, error) {
		return s.CreateEmbeddedInvite(ctx, token, c.EntityID, c.EntityType, orders)
	})
}

// CreateEmbeddedEditorFromTemplate instantiates a template and opens it in
// the embedded editor.
func (s *Service) CreateEmbeddedEditorFromTemplate(ctx context.Context, token string, src TemplateSource, opts EditorOptions, progress ProgressFunc) (*FromTemplate[EditorResult], error) {
	if _, err := opts.request(); err != nil {
		return nil, err
	}
	return fromTemplate(ctx, s, token, src, progress, func(c *Created) (*EditorResult, error) {
		return s.CreateEmbeddedEditor(ctx, token, c.EntityID, c.EntityType, opts)
	})
}

// CreateEmbeddedSendingFromTemplate instantiates a template and opens its
// embedded sending flow.
func (s *Service) CreateEmbeddedSendingFromTemplate(ctx context.Context, token string, src TemplateSource, opts SendingOptions, progress ProgressFunc) (*FromTemplate[SendingResult], error) {
	if _, err := opts.request(entity.KindDocumentGroup); err != nil {
		return nil, err
	}
	return fromTemplate(ctx, s, token, src, progress, func(c *Created) (*SendingResult, error) {
		return s.CreateEmbeddedSending(ctx, token, c.EntityID, c.EntityType, opts)
	})
}
