package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/hora-obra/internal/storage"
)

type oauthServer struct {
	*httptest.Server
	deviceCalls atomic.Int32
	tokenCalls  atomic.Int32
}

func newOAuthServer(t *testing.T) *oauthServer {
	t.Helper()
	s := &oauthServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /device", func(w http.ResponseWriter, r *http.Request) {
		s.deviceCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"device_code":"dev-1","user_code":"ABCD-EFGH",` +
			`"verification_uri":"https://www.google.com/device","expires_in":1800,"interval":1}`))
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		s.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		access := "from-device"
		if r.PostForm.Get("grant_type") == "refresh_token" {
			access = "refreshed"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + access + `","token_type":"Bearer",` +
			`"refresh_token":"refresh-2","expires_in":3600}`))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *oauthServer) authenticator(t *testing.T, out *strings.Builder) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(AuthOptions{
		ClientID:  "client",
		Scopes:    []string{"scope"},
		TokenPath: filepath.Join(t.TempDir(), "auth", "google_tokens.json"),
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: s.URL + "/device",
			TokenURL:      s.URL + "/token",
			AuthStyle:     oauth2.AuthStyleInParams,
		},
		Out: out,
	})
	require.NoError(t, err)
	return a
}

func TestNewAuthenticator_RequiresClientID(t *testing.T) {
	_, err := NewAuthenticator(AuthOptions{})
	assert.ErrorIs(t, err, ErrNoClientID)
}

func TestToken_UsesCachedToken(t *testing.T) {
	srv := newOAuthServer(t)
	a := srv.authenticator(t, &strings.Builder{})
	require.NoError(t, storage.WriteJSON(a.tokenPath, &oauth2.Token{
		AccessToken: "cached",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	tok, err := a.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", tok.AccessToken)
	assert.Zero(t, srv.tokenCalls.Load())
	assert.Zero(t, srv.deviceCalls.Load())
}

func TestToken_RefreshesExpiredToken(t *testing.T) {
	srv := newOAuthServer(t)
	a := srv.authenticator(t, &strings.Builder{})
	require.NoError(t, storage.WriteJSON(a.tokenPath, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	tok, err := a.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed", tok.AccessToken)
	assert.Zero(t, srv.deviceCalls.Load())

	var saved oauth2.Token
	require.NoError(t, storage.ReadJSON(a.tokenPath, &saved))
	assert.Equal(t, "refreshed", saved.AccessToken)
}

func TestLogin_DeviceFlow(t *testing.T) {
	srv := newOAuthServer(t)
	var out strings.Builder
	a := srv.authenticator(t, &out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tok, err := a.Token(ctx)
	require.NoError(t, err)

	assert.Equal(t, "from-device", tok.AccessToken)
	assert.Contains(t, out.String(), "https://www.google.com/device")
	assert.Contains(t, out.String(), "ABCD-EFGH")
	assert.EqualValues(t, 1, srv.deviceCalls.Load())

	var saved oauth2.Token
	require.NoError(t, storage.ReadJSON(a.tokenPath, &saved))
	assert.Equal(t, "refresh-2", saved.RefreshToken)
}
