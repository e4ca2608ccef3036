package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// OAuth2Refresher renews tokens with an OAuth2 refresh_token grant
type OAuth2Refresher struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuth2Refresher creates a refresher for a public client at the given token endpoint
func NewOAuth2Refresher(tokenURL, clientID string) *OAuth2Refresher {
	return &OAuth2Refresher{
		config: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Refresh implements Refresher. A rejected grant means the user must sign in again.
func (r *OAuth2Refresher) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	tok, err := r.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return Tokens{}, fmt.Errorf("%w: refresh token rejected", ErrTokenExpired)
		}
		return Tokens{}, fmt.Errorf("refresh request failed: %w", err)
	}
	return Tokens{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}
