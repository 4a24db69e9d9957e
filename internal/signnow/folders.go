package signnow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ItemKind is the closed set of entities a folder listing can hold.
type ItemKind string

const (
	KindDocument              ItemKind = "document"
	KindTemplate              ItemKind = "template"
	KindDocumentGroup         ItemKind = "document-group"
	KindDocumentGroupTemplate ItemKind = "dgt"
	KindUnknown               ItemKind = "unknown"
)

// ParseItemKind maps an upstream entity type onto an ItemKind.
func ParseItemKind(raw string) ItemKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "document":
		return KindDocument
	case "template":
		return KindTemplate
	case "document-group", "document_group":
		return KindDocumentGroup
	case "dgt", "document-group-template", "document_group_template":
		return KindDocumentGroupTemplate
	default:
		return KindUnknown
	}
}

// Folder is a folder header as listed under the user's root.
type Folder struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	UserID         string   `json:"user_id"`
	ParentID       string   `json:"parent_id"`
	SystemFolder   FlexBool `json:"system_folder"`
	Shared         FlexBool `json:"shared"`
	DocumentCount  FlexInt  `json:"document_count"`
	TemplateCount  FlexInt  `json:"template_count"`
	Created        FlexInt  `json:"created"`
	SubFolderCount FlexInt  `json:"sub_folders"`
}

// Folders is the GET /user/folder response: the root and its subfolders.
type Folders struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	UserID         string   `json:"user_id"`
	ParentID       string   `json:"parent_id"`
	SystemFolder   FlexBool `json:"system_folder"`
	Folders        []Folder `json:"folders"`
	TotalDocuments FlexInt  `json:"total_documents"`
}

// FolderQuery carries the optional GET /folder/{id} parameters.
type FolderQuery struct {
	EntityType   string
	Filters      string
	FilterValues string
	SortBy       string
	Order        string
	Limit        int
	Offset       int

	// Nil leaves the upstream default in place.
	IncludeDocumentsSubfolders *bool
	WithTeamDocuments          *bool
	OnlyFavorites              bool
}

func (q FolderQuery) values() url.Values {
	v := url.Values{}
	entityType := q.EntityType
	if entityType == "" {
		entityType = "document-all"
	}
	v.Set("entity_type", entityType)
	if q.Filters != "" {
		v.Set("filters", q.Filters)
		if q.FilterValues != "" {
			v.Set("filter-values", q.FilterValues)
		}
	}
	if q.SortBy != "" {
		v.Set("sortby", q.SortBy)
		order := q.Order
		if order == "" {
			order = "desc"
		}
		v.Set("order", order)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.IncludeDocumentsSubfolders != nil {
		sub := "0"
		if *q.IncludeDocumentsSubfolders {
			sub = "1"
		}
		v.Set("include_documents_subfolders", sub)
	}
	if q.WithTeamDocuments != nil {
		v.Set("with_team_documents", strconv.FormatBool(*q.WithTeamDocuments))
	}
	if q.OnlyFavorites {
		v.Set("only_favorites", "true")
	}
	return v
}

// FolderContents is the GET /folder/{id} response.
type FolderContents struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	UserID         string       `json:"user_id"`
	ParentID       string       `json:"parent_id"`
	SystemFolder   FlexBool     `json:"system_folder"`
	Folders        []Folder     `json:"folders"`
	TotalDocuments FlexInt      `json:"total_documents"`
	Documents      []FolderItem `json:"documents"`
}

// FieldInviteLite is a per-field invite row attached to a folder document.
type FieldInviteLite struct {
	ID             string  `json:"id"`
	SignerUserID   string  `json:"signer_user_id"`
	Status         string  `json:"status"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	RoleID         string  `json:"role_id"`
	Created        FlexInt `json:"created"`
	Updated        FlexInt `json:"updated"`
	ExpirationTime FlexInt `json:"expiration_time"`
}

// GroupInviteLite is a per-signer row attached to a folder document group.
type GroupInviteLite struct {
	ID             string   `json:"id"`
	Email          string   `json:"email"`
	DocumentID     string   `json:"document_id"`
	DocumentName   string   `json:"document_name"`
	Status         string   `json:"status"`
	IsFullDeclined FlexBool `json:"is_full_declined"`
	Action         string   `json:"action"`
	Order          FlexInt  `json:"order"`
	Created        FlexInt  `json:"created"`
	Updated        FlexInt  `json:"updated"`
	ExpirationTime FlexInt  `json:"expiration_time"`
}

// GroupDocumentLite is a child document summary inside a folder group item.
type GroupDocumentLite struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Updated   FlexInt   `json:"updated"`
	PageCount FlexInt   `json:"page_count"`
	Roles     RoleNames `json:"roles"`
}

// FolderItem is one entry of a folder listing. Kind says which of the
// variant fields are meaningful.
type FolderItem struct {
	Kind ItemKind `json:"-"`

	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Owner     string  `json:"owner"`
	Created   FlexInt `json:"created"`
	Updated   FlexInt `json:"updated"`
	PageCount FlexInt `json:"page_count"`

	// document and template
	DocumentName string            `json:"document_name"`
	Name         string            `json:"name"`
	Template     FlexBool          `json:"template"`
	Roles        RoleNames         `json:"roles"`
	FieldInvites []FieldInviteLite `json:"field_invites"`

	// document-group
	DocumentGroupName string              `json:"document_group_name"`
	InviteID          string              `json:"invite_id"`
	State             string              `json:"state"`
	Status            string              `json:"status"`
	Invites           []GroupInviteLite   `json:"invites"`
	Documents         []GroupDocumentLite `json:"documents"`
}

func (i *FolderItem) UnmarshalJSON(data []byte) error {
	type plain FolderItem
	var aux struct {
		plain
		EntityType string `json:"entity_type"`
		Type       string `json:"type"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = FolderItem(aux.plain)
	kind := aux.EntityType
	if kind == "" {
		kind = aux.Type
	}
	i.Kind = ParseItemKind(kind)
	return nil
}

func (i FolderItem) MarshalJSON() ([]byte, error) {
	type plain FolderItem
	return json.Marshal(struct {
		plain
		EntityType ItemKind `json:"entity_type"`
	}{plain(i), i.Kind})
}

// IsTemplate reports whether the item is a template, either by kind or by a
// document carrying the template flag.
func (i FolderItem) IsTemplate() bool {
	return i.Kind == KindTemplate || (i.Kind == KindDocument && bool(i.Template))
}

// GetFolders returns the user's root folder with its direct subfolders.
func (c *Client) GetFolders(ctx context.Context, token string) (*Folders, error) {
	var out Folders
	err := c.do(ctx, request{method: http.MethodGet, path: "/user/folder", token: token, op: "get_folders"}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFolderByID returns a folder's entries.
func (c *Client) GetFolderByID(ctx context.Context, token, folderID string, q FolderQuery) (*FolderContents, error) {
	var out FolderContents
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/folder/" + url.PathEscape(folderID),
		token:  token,
		query:  q.values(),
		op:     "get_folder_by_id",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
