package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `sn-mcp-server works with SignNow documents, document groups and templates.

Entity model:
- Document: a single signable file with roles and fields.
- Document group: several documents signed together under one invite.
- Template / template group: reusable sources for new documents and groups.

Most tools take entity_id and an optional entity_type. When entity_type is omitted
the server detects it; pass it when known to save an upstream call.

Invite statuses are normalized to: created, pending, completed, declined, expired, unknown.
An invite is expired when a pending participant passed its expiry time.

Typical workflow:
1) Find: list_document_groups (filter with expired_filter) or list_all_templates.
2) Inspect: get_document, get_invite_status.
3) Prepare: create_from_template, update_document_fields.
4) Send: send_invite, or create_embedded_invite for in-app signing links.
5) Collect: get_document_download_link once completed.

Docs:
- signnow://docs/index
- signnow://docs/statuses
- signnow://docs/workflows
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "signnow://docs/index",
		Name:        "docs_index",
		Title:       "sn-mcp-server docs index",
		Description: "Entry point: what the tools do and which doc to read next.",
		Content: `# sn-mcp-server docs

## Tools by task

| Task | Tools |
|---|---|
| Browse | list_document_groups, list_all_templates |
| Inspect | get_document, get_invite_status |
| Prepare | create_from_template, update_document_fields |
| Send by email | send_invite, send_invite_from_template |
| Embed in an app | create_embedded_invite, create_embedded_editor, create_embedded_sending and their *_from_template forms |
| Collect | get_document_download_link, get_signing_link |

## Identifiers

Document ids and document group ids share one namespace from the caller's point of view.
Pass entity_type (document or document_group) when you know it. Without it the server
tries one kind and then the other.

## Paging

Listings return total counts computed after filtering, with has_more for the next page.
The default page size is 50.

Read next:
- signnow://docs/statuses
- signnow://docs/workflows
`,
	},
	{
		URI:         "signnow://docs/statuses",
		Name:        "docs_statuses",
		Title:       "Invite status taxonomy",
		Description: "How upstream invite statuses are normalized and when an invite counts as expired.",
		Content: `# Invite statuses

| Status | Upstream values |
|---|---|
| created | created, new |
| pending | pending, sent, waiting |
| completed | fulfilled, signed, completed, done |
| declined | declined, rejected, canceled, cancelled |
| expired | expired |
| unknown | anything else |

## Participants

Each participant carries its own status, order and expiry. A pending or unknown
participant whose expires_at is in the past is expired. Completed and declined
participants never expire.

## Invite

The invite status is the upstream status when it is recognized. Otherwise it is
derived from the participants: any declined wins, then any expired, then all
completed, then pending, then created. An invite is expired when any participant
is expired, and an expired invite that is neither completed nor declined reads as
expired.
`,
	},
	{
		URI:         "signnow://docs/workflows",
		Name:        "docs_workflows",
		Title:       "Common workflows",
		Description: "Step-by-step recipes for sending, embedding and collecting documents.",
		Content: `# Workflows

## Send a template for signature

1. list_all_templates to find the template id.
2. send_invite_from_template with entity_id, a name and the orders.
   Template groups require a name.

## Embedded signing

1. create_embedded_invite with delivery_type link for each in-app signer.
2. Hand recipient_links to your application.

## Follow up on expired invites

1. list_document_groups with expired_filter=expired.
2. get_invite_status for the steps that lapsed.
3. send_invite again when needed.

## Collect signed files

get_document_download_link returns a link for a document. Groups with several
documents are merged into one PDF first.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
