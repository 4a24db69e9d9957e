package entity

import (
	"context"
	"fmt"

	"github.com/rpggio/sn-mcp/internal/domain/invite"
	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Field is a text field value of a document.
type Field struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	RoleID string `json:"role_id"`
	Value  string `json:"value"`
	Name   string `json:"name"`
}

// Document is one child document of a view.
type Document struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	Fields []Field  `json:"fields"`
}

// View is the group-shaped representation of a document or document group.
// A bare document is a group of one.
type View struct {
	ID          string         `json:"entity_id"`
	Name        string         `json:"name"`
	Kind        Kind           `json:"entity_type"`
	LastUpdated int64          `json:"last_updated"`
	Invite      *invite.Invite `json:"invite"`
	Documents   []Document     `json:"documents"`
}

const textFieldType = "text"

func documentFromPayload(doc *signnow.Document) Document {
	fields := make([]Field, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		if f.Type != textFieldType {
			continue
		}
		role := f.Role
		if role == "" {
			role = f.RoleID
		}
		var value string
		if f.JSONAttributes.PrefilledText != nil {
			value = *f.JSONAttributes.PrefilledText
		}
		fields = append(fields, Field{
			ID:     f.ID,
			Type:   f.Type,
			RoleID: role,
			Value:  value,
			Name:   f.JSONAttributes.Name,
		})
	}
	return Document{
		ID:     doc.ID,
		Name:   doc.DocumentName,
		Roles:  doc.RoleNames(),
		Fields: fields,
	}
}

func documentInvite(doc *signnow.Document, now int64) *invite.Invite {
	records := make([]invite.Record, 0, len(doc.FieldInvites))
	for _, fi := range doc.FieldInvites {
		records = append(records, invite.FromDocumentFieldInvite(fi))
	}
	return invite.Build("", "", invite.NormalizeAll(records, now))
}

func groupInvite(group *signnow.DocumentGroupV2, now int64) *invite.Invite {
	var records []invite.Record
	for _, d := range group.Documents {
		for _, fi := range d.FieldInvites {
			records = append(records, invite.FromGroupFieldInvite(fi))
		}
	}
	return invite.Build(group.InviteID, group.State, invite.NormalizeAll(records, now))
}

func documentView(doc *signnow.Document, now int64) *View {
	return &View{
		ID:          doc.ID,
		Name:        doc.DocumentName,
		Kind:        KindDocument,
		LastUpdated: doc.Updated.Or(doc.Created.Or(0)),
		Invite:      documentInvite(doc, now),
		Documents:   []Document{documentFromPayload(doc)},
	}
}

// groupView fetches every child document; a failing child fails the view.
func (s *Service) groupView(ctx context.Context, token string, group *signnow.DocumentGroupV2, now int64) (*View, error) {
	lastUpdated := group.Updated.Or(group.Created.Or(0))
	docs := make([]Document, 0, len(group.Documents))
	for _, child := range group.Documents {
		doc, err := s.repo.GetDocument(ctx, token, child.ID)
		if err != nil {
			return nil, fmt.Errorf("getting group document %s: %w", child.ID, err)
		}
		docs = append(docs, documentFromPayload(doc))
		if u := doc.Updated.Or(child.Updated.Or(0)); u > lastUpdated {
			lastUpdated = u
		}
	}
	return &View{
		ID:          group.ID,
		Name:        group.Name,
		Kind:        KindDocumentGroup,
		LastUpdated: lastUpdated,
		Invite:      groupInvite(group, now),
		Documents:   docs,
	}, nil
}
