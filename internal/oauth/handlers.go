package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redirectURI := q.Get("redirect_uri")
	if redirectURI == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "redirect_uri is required")
		return
	}
	allowed, err := s.redirectAllowed(r, q.Get("client_id"), redirectURI)
	if err != nil {
		s.logger.Error("client lookup failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "client lookup failed")
		return
	}
	if !allowed {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "redirect_uri is not allowed")
		return
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.config.ClientID)
	params.Set("redirect_uri", redirectURI)
	if state := q.Get("state"); state != "" {
		params.Set("state", state)
	}
	target := strings.TrimRight(s.config.AppBase, "/") + "/authorize?" + params.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}

// redirectAllowed checks a registered client's redirect URIs first, then
// the configured allow list. With neither, any redirect is accepted.
func (s *Server) redirectAllowed(r *http.Request, clientID, redirectURI string) (bool, error) {
	if clientID != "" {
		client, err := s.store.GetClient(r.Context(), clientID)
		switch {
		case err == nil:
			return slices.Contains(client.RedirectURIs, redirectURI), nil
		case !errors.Is(err, ErrClientNotFound):
			return false, err
		}
	}
	if len(s.config.AllowedRedirects) == 0 {
		return true, nil
	}
	return slices.Contains(s.config.AllowedRedirects, redirectURI), nil
}

type tokenResponse struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid form data")
		return
	}
	if clientID := r.PostForm.Get("client_id"); clientID != "" {
		client, err := s.store.GetClient(r.Context(), clientID)
		switch {
		case err == nil:
			if err := validateTokenClientAuth(client, r.PostForm.Get("client_secret")); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid_client", err.Error())
				return
			}
		case !errors.Is(err, ErrClientNotFound):
			s.logger.Error("client lookup failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "server_error", "client lookup failed")
			return
		}
	}

	ctx := s.upstreamContext(r.Context())
	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		code := r.PostForm.Get("code")
		if code == "" {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "code parameter required")
			return
		}
		opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("scope", "*")}
		if redirectURI := r.PostForm.Get("redirect_uri"); redirectURI != "" {
			opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
		}
		tok, err := s.exchange.Exchange(ctx, code, opts...)
		if err != nil {
			s.logger.Warn("upstream code exchange failed", "error", err)
			var re *oauth2.RetrieveError
			if errors.As(err, &re) {
				writeJSONError(w, http.StatusBadRequest, "invalid_grant", re.ErrorDescription)
				return
			}
			writeJSONError(w, http.StatusInternalServerError, "external_token_error", "")
			return
		}
		writeJSON(w, http.StatusOK, s.tokenResponse(tok, "*"))

	case "refresh_token":
		refresh := r.PostForm.Get("refresh_token")
		if refresh == "" {
			writeJSONError(w, http.StatusBadRequest, "invalid_grant", "refresh_token parameter required")
			return
		}
		tok, err := s.exchange.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
		if err != nil {
			s.logger.Warn("upstream refresh failed", "error", err)
			writeJSONError(w, http.StatusBadRequest, "invalid_grant", "")
			return
		}
		scope, _ := tok.Extra("scope").(string)
		if scope == "" {
			scope = "*"
		}
		writeJSON(w, http.StatusOK, s.tokenResponse(tok, scope))

	default:
		writeJSONError(w, http.StatusBadRequest, "unsupported_grant_type", "")
	}
}

func (s *Server) tokenResponse(tok *oauth2.Token, scope string) tokenResponse {
	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 {
		expiresIn = int64(s.config.AccessTTL.Seconds())
	}
	return tokenResponse{
		TokenType:    tokenType,
		AccessToken:  tok.AccessToken,
		ExpiresIn:    expiresIn,
		RefreshToken: tok.RefreshToken,
		Scope:        scope,
	}
}

type introspectResponse struct {
	Active    bool     `json:"active"`
	Issuer    string   `json:"iss,omitempty"`
	Subject   string   `json:"sub,omitempty"`
	Audience  []string `json:"aud,omitempty"`
	ClientID  string   `json:"client_id,omitempty"`
	Scope     string   `json:"scope,omitempty"`
	Username  string   `json:"username,omitempty"`
	TokenType string   `json:"token_type,omitempty"`
	Exp       int64    `json:"exp,omitempty"`
	Iat       int64    `json:"iat,omitempty"`
}

// handleIntrospect reports locally issued tokens from their claims and
// upstream tokens by whether the upstream still accepts them.
func (s *Server) handleIntrospect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid form data")
		return
	}
	token := r.PostForm.Get("token")
	if token == "" {
		writeJSON(w, http.StatusOK, introspectResponse{Active: false})
		return
	}

	if claims, err := s.signer.Verify(token); err == nil {
		writeJSON(w, http.StatusOK, introspectResponse{
			Active:    true,
			Issuer:    claims.Issuer,
			Subject:   claims.Subject,
			Audience:  claims.Audience,
			ClientID:  claims.ClientID,
			Scope:     claims.Scope,
			TokenType: "Bearer",
			Exp:       claims.ExpiresAt.Unix(),
			Iat:       claims.IssuedAt.Unix(),
		})
		return
	}

	user, err := s.upstream.GetUser(r.Context(), token)
	if err != nil {
		s.logger.Debug("upstream rejected token", "error", err)
		writeJSON(w, http.StatusOK, introspectResponse{Active: false})
		return
	}
	writeJSON(w, http.StatusOK, introspectResponse{
		Active:    true,
		Subject:   user.ID,
		Username:  user.PrimaryEmail,
		Scope:     "*",
		TokenType: "Bearer",
	})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "invalid form data")
		return
	}
	token := r.PostForm.Get("token")
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "token parameter required")
		return
	}
	if err := s.upstream.RevokeToken(r.Context(), token); err != nil {
		s.logger.Warn("upstream revoke failed", "error", err)
	}
	w.WriteHeader(http.StatusOK)
}

type registrationRequest struct {
	RedirectURIs            []string `json:"redirect_uris"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`
	ClientName              string   `json:"client_name"`
}

type registrationResponse struct {
	Client
	ClientIDIssuedAt        int64  `json:"client_id_issued_at"`
	ClientSecretExpiresAt   int64  `json:"client_secret_expires_at"`
	RegistrationClientURI   string `json:"registration_client_uri"`
	RegistrationAccessToken string `json:"registration_access_token,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_client_metadata", "invalid JSON body")
		return
	}
	method := strings.ToLower(strings.TrimSpace(req.TokenEndpointAuthMethod))
	switch method {
	case "":
		method = "none"
	case "none", "client_secret_post":
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid_client_metadata", "unsupported token_endpoint_auth_method")
		return
	}
	for _, uri := range req.RedirectURIs {
		if u, err := url.Parse(uri); err != nil || u.Scheme == "" {
			writeJSONError(w, http.StatusBadRequest, "invalid_redirect_uri", "redirect_uris must be absolute URLs")
			return
		}
	}
	redirects := req.RedirectURIs
	if redirects == nil {
		redirects = []string{}
	}

	client := Client{
		ID:                      randomToken(24),
		Name:                    req.ClientName,
		RedirectURIs:            redirects,
		TokenEndpointAuthMethod: method,
		GrantTypes:              []string{"authorization_code", "refresh_token"},
		ResponseTypes:           []string{"code"},
		IssuedAt:                s.clock().UTC(),
	}
	resp := registrationResponse{
		ClientIDIssuedAt:      client.IssuedAt.Unix(),
		RegistrationClientURI: s.issuer(r) + "/oauth2/register/" + client.ID,
	}
	if method == "client_secret_post" {
		client.Secret = randomToken(32)
		token, err := s.signer.Issue(client.ID, client.ID, "registration", s.config.RefreshTTL)
		if err != nil {
			s.logger.Error("issue registration token failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "server_error", "")
			return
		}
		resp.RegistrationAccessToken = token
	}
	if err := s.store.SaveClient(r.Context(), client); err != nil {
		s.logger.Error("save client failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	resp.Client = client
	s.logger.Info("registered oauth client", "client_id", client.ID, "auth_method", method)
	writeJSON(w, http.StatusCreated, resp)
}

// handleGetRegistration returns a client's metadata to the holder of its
// registration access token.
func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	bearer := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	claims, err := s.signer.Verify(bearer)
	if err != nil || claims.Subject != clientID || claims.Scope != "registration" {
		writeJSONError(w, http.StatusUnauthorized, "invalid_token", "")
		return
	}
	client, err := s.store.GetClient(r.Context(), clientID)
	if errors.Is(err, ErrClientNotFound) {
		writeJSONError(w, http.StatusNotFound, "invalid_client", "")
		return
	}
	if err != nil {
		s.logger.Error("client lookup failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	writeJSON(w, http.StatusOK, registrationResponse{
		Client:                *client,
		ClientIDIssuedAt:      client.IssuedAt.Unix(),
		RegistrationClientURI: s.issuer(r) + "/oauth2/register/" + client.ID,
	})
}

func validateTokenClientAuth(client *Client, clientSecret string) error {
	if client.TokenEndpointAuthMethod != "client_secret_post" {
		return nil
	}
	if client.Secret == "" || subtle.ConstantTimeCompare([]byte(clientSecret), []byte(client.Secret)) != 1 {
		return errors.New("invalid client authentication")
	}
	return nil
}

func randomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
