package entity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Kind is the concrete kind of a signable entity.
type Kind string

const (
	KindDocument      Kind = "document"
	KindDocumentGroup Kind = "document_group"
)

// ParseKind validates a caller-declared entity type. Empty means undeclared.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "document":
		return KindDocument, nil
	case "document_group", "document-group":
		return KindDocumentGroup, nil
	default:
		return "", fmt.Errorf("%w: entity_type must be one of document, document_group", ErrInvalidInput)
	}
}

// LookupOrder is the order kinds are tried when the kind is undeclared.
type LookupOrder int

const (
	GroupFirst LookupOrder = iota
	DocumentFirst
)

// GroupView selects which upstream representation of a group is fetched.
type GroupView int

const (
	// GroupSummary is the group with its documents and role names.
	GroupSummary GroupView = iota
	// GroupDetail adds per-document field invites and the group state.
	GroupDetail
)

// Resolved is an identified entity together with the payload fetched while
// identifying it.
type Resolved struct {
	ID       string
	Kind     Kind
	Document *signnow.Document
	Group    *signnow.DocumentGroup
	GroupV2  *signnow.DocumentGroupV2
}

// Resolver identifies entities by probing upstream endpoints.
type Resolver struct {
	repo   Fetcher
	logger *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver(repo Fetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{repo: repo, logger: logger}
}

// Resolve identifies id. A declared kind is fetched directly and its
// failure returned unchanged; otherwise both kinds are tried in order.
func (r *Resolver) Resolve(ctx context.Context, token, id string, declared Kind, order LookupOrder, view GroupView) (*Resolved, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: entity_id is required", ErrInvalidInput)
	}

	fetchDocument := func() (*Resolved, error) {
		doc, err := r.repo.GetDocument(ctx, token, id)
		if err != nil {
			return nil, err
		}
		return &Resolved{ID: id, Kind: KindDocument, Document: doc}, nil
	}
	fetchGroup := func() (*Resolved, error) {
		if view == GroupDetail {
			group, err := r.repo.GetDocumentGroupV2(ctx, token, id)
			if err != nil {
				return nil, err
			}
			return &Resolved{ID: id, Kind: KindDocumentGroup, GroupV2: group}, nil
		}
		group, err := r.repo.GetDocumentGroup(ctx, token, id)
		if err != nil {
			return nil, err
		}
		return &Resolved{ID: id, Kind: KindDocumentGroup, Group: group}, nil
	}

	switch declared {
	case KindDocument:
		return fetchDocument()
	case KindDocumentGroup:
		return fetchGroup()
	case "":
	default:
		return nil, fmt.Errorf("%w: unsupported entity type %q", ErrInvalidInput, declared)
	}

	attempts := []func() (*Resolved, error){fetchGroup, fetchDocument}
	if order == DocumentFirst {
		attempts = []func() (*Resolved, error){fetchDocument, fetchGroup}
	}
	for i, fetch := range attempts {
		res, err := fetch()
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Debug("entity lookup failed", "entity_id", id, "attempt", i, "error", err)
	}
	return nil, &ResolutionError{ID: id, Order: order}
}
