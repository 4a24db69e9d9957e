package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// AccessToken is the only bearer token the fake upstream accepts.
const AccessToken = "upstream-access-token"

// Canned upstream ids.
const (
	RootFolderID    = "root-folder"
	DocumentID      = "doc-1"
	GroupID         = "group-1"
	GroupDocumentID = "doc-2"
	TemplateID      = "tmpl-1"
)

// FakeSignNow is an in-process stand-in for the SignNow REST API serving
// canned payloads.
type FakeSignNow struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls []string
}

// NewFakeSignNow starts the fake upstream and closes it on test cleanup.
func NewFakeSignNow(t *testing.T) *FakeSignNow {
	t.Helper()
	f := &FakeSignNow{}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base of the fake.
func (f *FakeSignNow) URL() string {
	return f.Server.URL
}

// Calls returns "METHOD path" for every request served so far.
func (f *FakeSignNow) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeSignNow) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record)

	r.Post("/oauth2/token", handleToken)

	r.Group(func(r chi.Router) {
		r.Use(requireBearer)
		r.Get("/user", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"id":            "user-1",
				"first_name":    "Dana",
				"last_name":     "Signer",
				"primary_email": "dana@example.com",
				"emails":        []string{"dana@example.com"},
				"active":        "1",
			})
		})
		r.Post("/oauth2/terminate", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
		})
		r.Get("/user/folder", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"id":      RootFolderID,
				"name":    "My Documents",
				"folders": []any{},
			})
		})
		r.Get("/folder/{folderID}", handleFolder)
		r.Get("/user/documentgroup/templates", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"document_group_templates":            []any{},
				"document_group_template_total_count": 0,
			})
		})
		r.Get("/document/{documentID}", handleDocument)
		r.Post("/document/{documentID}/download/link", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "documentID") != DocumentID {
				writeNotFound(w)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"link": "https://files.example.com/" + DocumentID + ".pdf"})
		})
		r.Post("/template/{templateID}/copy", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "templateID") != TemplateID {
				writeNotFound(w)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "doc-from-" + TemplateID, "document_name": "NDA Copy"})
		})
		r.Get("/documentgroup/{groupID}", handleGroupV1)
		r.Get("/v2/document-groups/{groupID}", handleGroupV2)
	})
	return r
}

func (f *FakeSignNow) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != AccessToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"errors": []map[string]any{{"code": 1537, "message": "invalid_token"}},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	switch r.PostForm.Get("grant_type") {
	case "password", "authorization_code", "refresh_token":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	if r.PostForm.Get("grant_type") == "authorization_code" && r.PostForm.Get("code") != "good-code" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  AccessToken,
		"refresh_token": "upstream-refresh-token",
		"token_type":    "bearer",
		"expires_in":    3600,
		"scope":         "*",
	})
}

func handleFolder(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "folderID") != RootFolderID {
		writeNotFound(w)
		return
	}
	if r.URL.Query().Get("entity_type") == "template" {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":   RootFolderID,
			"name": "My Documents",
			"documents": []map[string]any{{
				"id":            TemplateID,
				"entity_type":   "template",
				"document_name": "NDA Template",
				"template":      true,
				"updated":       "1700000000",
				"roles":         []string{"Signer 1"},
			}},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   RootFolderID,
		"name": "My Documents",
		"documents": []map[string]any{
			{
				"id":            DocumentID,
				"entity_type":   "document",
				"document_name": "Lease Agreement",
				"created":       "1700000000",
				"updated":       "1700000500",
				"roles":         []string{"Tenant"},
				"field_invites": []map[string]any{{
					"id":              "fi-1",
					"status":          "pending",
					"email":           "tenant@example.com",
					"role":            "Tenant",
					"created":         "1700000100",
					"updated":         "1700000100",
					"expiration_time": "4102444800",
				}},
			},
			{
				"id":                  GroupID,
				"entity_type":         "document-group",
				"document_group_name": "Onboarding",
				"created":             1700000200,
				"updated":             1700000300,
				"documents": []map[string]any{
					{"id": GroupDocumentID, "name": "W-4", "roles": []string{"Employee"}},
				},
			},
		},
	})
}

var documents = map[string]map[string]any{
	DocumentID: {
		"id":            DocumentID,
		"document_name": "Lease Agreement",
		"created":       "1700000000",
		"updated":       "1700000500",
		"roles":         []map[string]any{{"unique_id": "role-1", "signing_order": "1", "name": "Tenant"}},
		"fields": []map[string]any{{
			"id":      "field-1",
			"type":    "text",
			"role_id": "role-1",
			"json_attributes": map[string]any{
				"name":           "tenant_name",
				"prefilled_text": "Jordan",
			},
		}},
		"field_invites": []map[string]any{},
	},
	GroupDocumentID: {
		"id":            GroupDocumentID,
		"document_name": "W-4",
		"created":       1700000200,
		"updated":       1700000250,
		"roles":         []map[string]any{{"unique_id": "role-2", "signing_order": 1, "name": "Employee"}},
		"fields":        []map[string]any{},
		"field_invites": []map[string]any{},
	},
}

func handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := documents[chi.URLParam(r, "documentID")]
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func handleGroupV1(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "groupID") != GroupID {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         GroupID,
		"group_name": "Onboarding",
		"documents":  []map[string]any{{"id": GroupDocumentID, "document_name": "W-4", "roles": []string{"Employee"}}},
	})
}

func handleGroupV2(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "groupID") != GroupID {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"id":      GroupID,
		"name":    "Onboarding",
		"created": 1700000200,
		"updated": 1700000300,
		"state":   "created",
		"documents": []map[string]any{{
			"id":            GroupDocumentID,
			"document_name": "W-4",
			"roles":         []string{"Employee"},
			"field_invites": []any{},
		}},
	}})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"errors": []map[string]any{{"code": 65582, "message": "Unable to find a route to match the URI"}},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
