package listing

import (
	"context"
	"sort"
	"strings"

	"github.com/rpggio/sn-mcp/internal/domain/invite"
	"github.com/rpggio/sn-mcp/internal/signnow"
)

const (
	EntityDocument      = "document"
	EntityDocumentGroup = "document_group"
)

// DocumentQuery selects the documents and groups to list. Filters, SortBy
// and Order are passed through to the folder reads.
type DocumentQuery struct {
	FolderID      string
	Filters       string
	FilterValues  string
	SortBy        string
	Order         string
	ExpiredFilter string
	Limit         int
	Offset        int
}

// DocumentSummary is a child document of a listed item.
type DocumentSummary struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// Item is one listed document or document group.
type Item struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	EntityType  string            `json:"entity_type"`
	FolderID    string            `json:"folder_id"`
	Created     int64             `json:"created"`
	LastUpdated int64             `json:"last_updated"`
	Invite      *invite.Invite    `json:"invite"`
	Documents   []DocumentSummary `json:"documents"`
}

// DocumentPage is one page of the filtered listing.
type DocumentPage struct {
	Items      []Item `json:"document_groups"`
	TotalCount int    `json:"document_group_total_count"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"has_more"`
}

// ListDocuments walks every folder, normalizes each document and group,
// filters the full sequence and pages the result.
func (s *Service) ListDocuments(ctx context.Context, token string, q DocumentQuery, progress ProgressFunc) (*DocumentPage, error) {
	filter, err := ParseExpiredFilter(q.ExpiredFilter)
	if err != nil {
		return nil, err
	}
	limit, offset, err := normalizePaging(q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	now := s.clock().Unix()

	report(ctx, progress, 0, 0, "Selecting all folders")
	folders, err := s.folders(ctx, token, q.FolderID)
	if err != nil {
		return nil, err
	}

	total := float64(len(folders) + 1)
	query := signnow.FolderQuery{
		EntityType:   "document-all",
		Filters:      q.Filters,
		FilterValues: q.FilterValues,
		SortBy:       q.SortBy,
		Order:        q.Order,
	}

	var items []Item
	for i, f := range folders {
		report(ctx, progress, float64(i+1), total, folderMessage(f))
		contents, err := s.repo.GetFolderByID(ctx, token, f.id, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping folder", "folder_id", f.id, "error", err)
			continue
		}
		for _, entry := range contents.Documents {
			switch entry.Kind {
			case signnow.KindDocument:
				items = append(items, documentItem(entry, f.id, now))
			case signnow.KindDocumentGroup:
				items = append(items, groupItem(entry, f.id, now))
			}
		}
	}
	report(ctx, progress, total, total, "Filtering results")

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if filter.Matches(item.Invite) {
			filtered = append(filtered, item)
		}
	}
	sortItems(filtered, q.SortBy, q.Order)

	page, hasMore := paginate(filtered, limit, offset)
	return &DocumentPage{
		Items:      page,
		TotalCount: len(filtered),
		Offset:     offset,
		Limit:      limit,
		HasMore:    hasMore,
	}, nil
}

func documentItem(entry signnow.FolderItem, folderID string, now int64) Item {
	records := make([]invite.Record, 0, len(entry.FieldInvites))
	for _, fi := range entry.FieldInvites {
		records = append(records, invite.FromFieldInvite(fi))
	}
	name := entry.DocumentName
	if name == "" {
		name = entry.Name
	}
	roles := []string(entry.Roles)
	if roles == nil {
		roles = []string{}
	}
	return Item{
		ID:          entry.ID,
		Name:        name,
		EntityType:  EntityDocument,
		FolderID:    folderID,
		Created:     entry.Created.Or(0),
		LastUpdated: entry.Updated.Or(0),
		Invite:      invite.Build("", "", invite.NormalizeAll(records, now)),
		Documents:   []DocumentSummary{{ID: entry.ID, Name: name, Roles: roles}},
	}
}

func groupItem(entry signnow.FolderItem, folderID string, now int64) Item {
	records := make([]invite.Record, 0, len(entry.Invites))
	for _, gi := range entry.Invites {
		records = append(records, invite.FromGroupInvite(gi))
	}
	raw := entry.Status
	if raw == "" {
		raw = entry.State
	}

	lastUpdated := entry.Updated.Or(0)
	docs := make([]DocumentSummary, 0, len(entry.Documents))
	for _, d := range entry.Documents {
		if u := d.Updated.Or(0); u > lastUpdated {
			lastUpdated = u
		}
		roles := []string(d.Roles)
		if roles == nil {
			roles = []string{}
		}
		docs = append(docs, DocumentSummary{ID: d.ID, Name: d.Name, Roles: roles})
	}

	name := entry.DocumentGroupName
	if name == "" {
		name = entry.Name
	}
	return Item{
		ID:          entry.ID,
		Name:        name,
		EntityType:  EntityDocumentGroup,
		FolderID:    folderID,
		Created:     entry.Created.Or(0),
		LastUpdated: lastUpdated,
		Invite:      invite.Build(entry.InviteID, raw, invite.NormalizeAll(records, now)),
		Documents:   docs,
	}
}

// sortItems orders the merged folders consistently with the per-folder
// sort. Unknown keys keep folder order.
func sortItems(items []Item, sortBy, order string) {
	var less func(a, b Item) bool
	switch sortBy {
	case "updated":
		less = func(a, b Item) bool { return a.LastUpdated < b.LastUpdated }
	case "created":
		less = func(a, b Item) bool { return a.Created < b.Created }
	case "document-name":
		less = func(a, b Item) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		return
	}
	desc := !strings.EqualFold(order, "asc")
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
