package signnow_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rpggio/sn-mcp/internal/repository"
	"github.com/rpggio/sn-mcp/internal/signnow"
	"github.com/stretchr/testify/require"
)

func TestFlexInt_Decode(t *testing.T) {
	cases := map[string]struct {
		raw   string
		valid bool
		value int64
	}{
		"number":        {raw: `1700000000`, valid: true, value: 1700000000},
		"numericString": {raw: `"1700000000"`, valid: true, value: 1700000000},
		"float":         {raw: `12.9`, valid: true, value: 12},
		"null":          {raw: `null`},
		"garbage":       {raw: `"soon"`},
		"empty":         {raw: `""`},
		"overflow":      {raw: `1e30`},
		"overflowText":  {raw: `"1e30"`},
		"underflow":     {raw: `-1e30`},
		"nan":           {raw: `"NaN"`},
		"inf":           {raw: `"Inf"`},
		"negativeInf":   {raw: `"-Infinity"`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var f signnow.FlexInt
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &f))
			require.Equal(t, tc.valid, f.Valid)
			require.Equal(t, tc.value, f.Value)
		})
	}
}

func TestFlexBool_Decode(t *testing.T) {
	cases := map[string]bool{
		`true`:    true,
		`false`:   false,
		`1`:       true,
		`0`:       false,
		`"1"`:     true,
		`"0"`:     false,
		`"true"`:  true,
		`"false"`: false,
		`""`:      false,
		`null`:    false,
		`"maybe"`: false,
	}
	for raw, want := range cases {
		var b signnow.FlexBool
		require.NoError(t, json.Unmarshal([]byte(raw), &b), raw)
		require.Equal(t, want, bool(b), raw)
	}
}

func TestRoleNames_Decode(t *testing.T) {
	var roles signnow.RoleNames
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"Signer 1"},"Signer 2",{"unique_id":"x"}]`), &roles))
	require.Equal(t, signnow.RoleNames{"Signer 1", "Signer 2"}, roles)

	require.NoError(t, json.Unmarshal([]byte(`null`), &roles))
	require.Empty(t, roles)
}

func TestFolderItem_Kind(t *testing.T) {
	var items []signnow.FolderItem
	payload := `[
		{"id":"d1","entity_type":"document","document_name":"NDA"},
		{"id":"g1","type":"document_group","document_group_name":"Pack"},
		{"id":"t1","entity_type":"template"},
		{"id":"x1","entity_type":"dgt"},
		{"id":"u1"},
		{"id":"d2","entity_type":"document","template":true},
		{"id":"d3","entity_type":"document","template":"1"},
		{"id":"g2","entity_type":"document-group","invites":[{"email":"a@x.io","is_full_declined":0}]}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &items))
	require.Len(t, items, 8)
	require.Equal(t, signnow.KindDocument, items[0].Kind)
	require.Equal(t, signnow.KindDocumentGroup, items[1].Kind)
	require.Equal(t, "Pack", items[1].DocumentGroupName)
	require.Equal(t, signnow.KindTemplate, items[2].Kind)
	require.Equal(t, signnow.KindDocumentGroupTemplate, items[3].Kind)
	require.Equal(t, signnow.KindUnknown, items[4].Kind)
	require.True(t, items[5].IsTemplate())
	require.False(t, items[0].IsTemplate())
	require.True(t, items[6].IsTemplate())
	require.Len(t, items[7].Invites, 1)
	require.False(t, bool(items[7].Invites[0].IsFullDeclined))
}

func TestClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		status   int
		body     string
		sentinel error
		message  string
	}{
		{status: http.StatusUnauthorized, body: `{"error":"invalid token"}`, sentinel: repository.ErrUnauthorized, message: "invalid token"},
		{status: http.StatusForbidden, body: `{"message":"forbidden"}`, sentinel: repository.ErrUnauthorized, message: "forbidden"},
		{status: http.StatusNotFound, body: `{"errors":[{"code":65582,"message":"Document not found"}]}`, sentinel: repository.ErrNotFound, message: "Document not found"},
		{status: http.StatusTooManyRequests, body: ``, sentinel: repository.ErrRateLimited, message: "Too Many Requests"},
		{status: http.StatusBadGateway, body: `oops`, sentinel: repository.ErrUpstream, message: "Bad Gateway"},
		{status: http.StatusBadRequest, body: `{"error":"bad field"}`, sentinel: repository.ErrInvalidInput, message: "bad field"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))
		client := signnow.NewClient(srv.URL)
		_, err := client.GetDocument(context.Background(), "tok", "d1")
		srv.Close()

		require.ErrorIs(t, err, tc.sentinel)
		var apiErr *signnow.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, tc.status, apiErr.StatusCode)
		require.Equal(t, tc.message, apiErr.Message)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := signnow.NewClient(srv.URL, signnow.WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := client.GetUser(context.Background(), "tok")
	require.ErrorIs(t, err, repository.ErrTimeout)
}

func TestClient_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotAgent string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &gotBody)
			}
		}
		_, _ = w.Write([]byte(`{"id":"f1","documents":[{"id":"d1","entity_type":"document","updated":"1700000000"}]}`))
	}))
	defer srv.Close()

	client := signnow.NewClient(srv.URL + "/")
	contents, err := client.GetFolderByID(context.Background(), "tok", "f1", signnow.FolderQuery{SortBy: "updated"})
	require.NoError(t, err)
	require.Equal(t, "/folder/f1", gotPath)
	require.Contains(t, gotQuery, "entity_type=document-all")
	require.Contains(t, gotQuery, "order=desc")
	require.NotContains(t, gotQuery, "include_documents_subfolders")
	require.NotContains(t, gotQuery, "with_team_documents")
	require.NotContains(t, gotQuery, "only_favorites")
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "sn-mcp-server/0.1", gotAgent)
	require.Len(t, contents.Documents, 1)
	require.Equal(t, int64(1700000000), contents.Documents[0].Updated.Value)

	subfolders, team := false, true
	_, err = client.GetFolderByID(context.Background(), "tok", "f1", signnow.FolderQuery{
		IncludeDocumentsSubfolders: &subfolders,
		WithTeamDocuments:          &team,
		OnlyFavorites:              true,
	})
	require.NoError(t, err)
	query, err := url.ParseQuery(gotQuery)
	require.NoError(t, err)
	require.Equal(t, "0", query.Get("include_documents_subfolders"))
	require.Equal(t, "true", query.Get("with_team_documents"))
	require.Equal(t, "true", query.Get("only_favorites"))

	_, err = client.MergeDocuments(context.Background(), "tok", signnow.MergeRequest{Name: "Pack", DocumentIDs: []string{"a", "b"}, UploadDocument: true})
	require.NoError(t, err)
	require.Equal(t, "/document/merge", gotPath)
	require.Equal(t, "Pack", gotBody["name"])
	require.Equal(t, true, gotBody["upload_document"])
}

func TestClient_CreateDocumentGroupFromTemplate_IDFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"group_id":"g-42"}}`))
	}))
	defer srv.Close()

	id, err := signnow.NewClient(srv.URL).CreateDocumentGroupFromTemplate(context.Background(), "tok", "tg1", "Pack", "")
	require.NoError(t, err)
	require.Equal(t, "g-42", id)
}
