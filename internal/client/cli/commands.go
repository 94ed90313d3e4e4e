package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/dmitrijs2005/crowdops/internal/authtoken"
	"github.com/dmitrijs2005/crowdops/internal/client/apiclient"
	"github.com/dmitrijs2005/crowdops/internal/client/session"
	"github.com/dmitrijs2005/crowdops/internal/common"
)

var ErrEmptyToken = errors.New("access token is required")

func newAPIClient(store *session.Store) *http.Client {
	c := apiclient.NewHTTPClient(store, nil)
	c.Timeout = 10 * time.Second
	return c
}

// Login prompts for an access token and the user's identity, then caches
// both in the session store. For a JWT, the user id defaults to its subject.
func (a *App) Login(ctx context.Context) error {
	token, err := GetSecret(a.reader, "Enter access token", a.out)
	if err != nil {
		a.logger.Error(ctx, "error reading token", "err", err)
		return err
	}
	defer common.WipeByteArray(token)

	if len(token) == 0 {
		a.printf("Login unsuccessful: %v\n", ErrEmptyToken)
		return ErrEmptyToken
	}

	claims, claimsErr := authtoken.Inspect(string(token))
	if claimsErr == nil && claims.Expired(a.now()) {
		a.printf("Login unsuccessful: %v\n", common.ErrSessionExpired)
		return common.ErrSessionExpired
	}

	userID, err := GetSimpleText(a.reader, "Enter user id", a.out)
	if err != nil {
		a.logger.Error(ctx, "error reading user id", "err", err)
		return err
	}
	if userID == "" && claimsErr == nil {
		userID = claims.Subject
	}

	fullName, err := GetSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		a.logger.Error(ctx, "error reading full name", "err", err)
		return err
	}

	a.store.StoreToken(ctx, string(token))
	a.store.StoreUserInfo(ctx, session.UserInfo{"id": userID, "fullName": fullName})

	a.logger.Info(ctx, "login stored", "user", userID)
	a.printf("Login successful\n")
	return nil
}

// Whoami prints the cached profile and, for JWTs, the token expiry.
func (a *App) Whoami(ctx context.Context) error {
	info, ok := a.store.LookupUserInfo(ctx)
	if !ok {
		a.printf("Not logged in\n")
		return common.ErrNoSession
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.printf("%s: %v\n", k, info[k])
	}

	if token, ok := a.store.RetrieveToken(ctx); ok {
		if claims, err := authtoken.Inspect(token); err == nil && !claims.ExpiresAt.IsZero() {
			a.printf("token expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
		}
	}
	return nil
}

// Token reports whether a usable access token is cached.
func (a *App) Token(ctx context.Context) error {
	_, err := authtoken.Guard(ctx, a.store, a.now)
	switch {
	case err == nil:
		a.printf("token: valid\n")
	case errors.Is(err, common.ErrSessionExpired):
		a.printf("token: expired\n")
	default:
		a.printf("token: none\n")
	}
	return err
}

// Call issues a GET to url with the cached token attached and prints the
// response status.
func (a *App) Call(ctx context.Context, url string) error {
	if _, err := authtoken.Guard(ctx, a.store, a.now); err != nil {
		a.printf("Cannot call %s: %v\n", url, err)
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		a.printf("Invalid url: %v\n", err)
		return err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error(ctx, "request failed", "url", url, "err", err)
		a.printf("Request failed: %v\n", err)
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	a.printf("%s\n", resp.Status)
	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrorUnauthorized
	}
	return nil
}

// Logout removes every slot cached for this session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "error clearing session", "err", err)
		a.printf("Logout failed: %v\n", err)
		return err
	}
	a.printf("Logged out\n")
	return nil
}

var _ execIface = (*App)(nil)
