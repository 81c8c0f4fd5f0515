package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/hora-obra/internal/storage"
)

// GoogleEndpoint is Google's OAuth2 endpoint with device authorization.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:       "https://accounts.google.com/o/oauth2/auth",
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	TokenURL:      "https://oauth2.googleapis.com/token",
	AuthStyle:     oauth2.AuthStyleInParams,
}

var ErrNoClientID = errors.New("sheets.client_id is not configured")

// TokenFilePath returns ~/.hora-obra/auth/google_tokens.json.
func TokenFilePath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "auth", "google_tokens.json"), nil
}

// AuthOptions configures an Authenticator.
type AuthOptions struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	// TokenPath defaults to TokenFilePath.
	TokenPath string
	// Endpoint defaults to GoogleEndpoint.
	Endpoint oauth2.Endpoint
	// Out receives the sign-in instructions of the device flow.
	Out    io.Writer
	Logger *slog.Logger
}

// Authenticator obtains and caches Google OAuth2 tokens using the device
// authorization flow.
type Authenticator struct {
	config    *oauth2.Config
	tokenPath string
	out       io.Writer
	logger    *slog.Logger
}

func NewAuthenticator(opts AuthOptions) (*Authenticator, error) {
	if opts.ClientID == "" {
		return nil, ErrNoClientID
	}
	endpoint := opts.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = GoogleEndpoint
	}
	tokenPath := opts.TokenPath
	if tokenPath == "" {
		p, err := TokenFilePath()
		if err != nil {
			return nil, err
		}
		tokenPath = p
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       opts.Scopes,
			Endpoint:     endpoint,
		},
		tokenPath: tokenPath,
		out:       out,
		logger:    logger,
	}, nil
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := storage.ReadJSON(a.tokenPath, &tok); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("token file (delete %s to re-authenticate): %w", a.tokenPath, err)
	}
	return &tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	return storage.WriteJSON(a.tokenPath, tok)
}

// Login runs the device authorization flow and stores the new token.
func (a *Authenticator) Login(ctx context.Context) (*oauth2.Token, error) {
	resp, err := a.config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(a.out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(a.out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(a.out)

	tok, err := a.config.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := a.saveToken(tok); err != nil {
		a.logger.Warn("could not save token", slog.Any("error", err))
	}
	return tok, nil
}

// Token returns a usable token: the cached one, a refreshed one, or a new one
// from the device flow.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.loadToken()
	if err != nil {
		a.logger.Warn("ignoring stored token", slog.Any("error", err))
		tok = nil
	}
	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := a.config.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := a.saveToken(refreshed); err != nil {
				a.logger.Warn("could not save refreshed token", slog.Any("error", err))
			}
			return refreshed, nil
		}
		a.logger.Info("token refresh failed, re-authenticating", slog.Any("error", err))
	}
	return a.Login(ctx)
}

// HTTPClient returns a client that authorizes requests and persists tokens
// refreshed while it is in use.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	ts := &savingTokenSource{ts: a.config.TokenSource(ctx, tok), auth: a, last: tok.AccessToken}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// savingTokenSource persists tokens whenever the access token changes.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	auth *Authenticator
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.auth.saveToken(tok); err != nil {
			s.auth.logger.Warn("could not save refreshed token", slog.Any("error", err))
		}
	}
	return tok, nil
}
