package listing

import (
	"context"

	"github.com/rpggio/sn-mcp/internal/signnow"
)

const (
	EntityTemplate      = "template"
	EntityTemplateGroup = "template_group"

	templateGroupFetchLimit = 50
)

// TemplateQuery narrows a template listing.
type TemplateQuery struct {
	FolderID string
	Limit    int
	Offset   int
}

// Template summarizes an individual template or a template group.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	EntityType  string   `json:"entity_type"`
	FolderID    *string  `json:"folder_id"`
	LastUpdated int64    `json:"last_updated"`
	IsPrepared  bool     `json:"is_prepared"`
	Roles       []string `json:"roles"`
}

// TemplatePage is one page of the template listing.
type TemplatePage struct {
	Templates  []Template `json:"templates"`
	TotalCount int        `json:"total_count"`
	Offset     int        `json:"offset"`
	Limit      int        `json:"limit"`
	HasMore    bool       `json:"has_more"`
}

// ListTemplates collects templates from every folder followed by the user's
// template groups.
func (s *Service) ListTemplates(ctx context.Context, token string, q TemplateQuery, progress ProgressFunc) (*TemplatePage, error) {
	limit, offset, err := normalizePaging(q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	report(ctx, progress, 0, 0, "Selecting all folders")
	folders, err := s.folders(ctx, token, q.FolderID)
	if err != nil {
		return nil, err
	}
	total := float64(len(folders) + 2)

	var items []Template
	for i, f := range folders {
		report(ctx, progress, float64(i+1), total, folderMessage(f))
		contents, err := s.repo.GetFolderByID(ctx, token, f.id, signnow.FolderQuery{EntityType: "template"})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping folder", "folder_id", f.id, "error", err)
			continue
		}
		for _, entry := range contents.Documents {
			if !entry.IsTemplate() {
				continue
			}
			items = append(items, templateFromItem(entry, f.id))
		}
	}

	report(ctx, progress, total-1, total, "Processing template groups")
	groups, err := s.repo.GetDocumentTemplateGroups(ctx, token, templateGroupFetchLimit, 0)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		s.logger.Warn("skipping template groups", "error", err)
	default:
		for _, g := range groups.DocumentGroupTemplates {
			if q.FolderID != "" && (g.FolderID == nil || *g.FolderID != q.FolderID) {
				continue
			}
			items = append(items, templateFromGroup(g))
		}
	}
	report(ctx, progress, total, total, "Done")

	if items == nil {
		items = []Template{}
	}
	page, hasMore := paginate(items, limit, offset)
	return &TemplatePage{
		Templates:  page,
		TotalCount: len(items),
		Offset:     offset,
		Limit:      limit,
		HasMore:    hasMore,
	}, nil
}

func templateFromItem(entry signnow.FolderItem, folderID string) Template {
	name := entry.DocumentName
	if name == "" {
		name = entry.Name
	}
	roles := []string(entry.Roles)
	if roles == nil {
		roles = []string{}
	}
	folder := folderID
	return Template{
		ID:          entry.ID,
		Name:        name,
		EntityType:  EntityTemplate,
		FolderID:    &folder,
		LastUpdated: entry.Updated.Or(entry.Created.Or(0)),
		IsPrepared:  true,
		Roles:       roles,
	}
}

// templateFromGroup unions the roles of every template in first-seen order.
func templateFromGroup(g signnow.TemplateGroup) Template {
	seen := make(map[string]struct{})
	roles := []string{}
	for _, t := range g.Templates {
		for _, r := range t.Roles {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			roles = append(roles, r)
		}
	}
	return Template{
		ID:          g.TemplateGroupID,
		Name:        g.TemplateGroupName,
		EntityType:  EntityTemplateGroup,
		FolderID:    g.FolderID,
		LastUpdated: g.LastUpdated.Or(0),
		IsPrepared:  bool(g.IsPrepared),
		Roles:       roles,
	}
}
