package handlers

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	oauthStateTTL   = 5 * time.Minute
)

var errStateMismatch = errors.New("oauth state mismatch")

// StateStore keeps PKCE verifiers server-side, keyed by state. Satisfied by
// *redis.StateStore.
type StateStore interface {
	Put(ctx context.Context, state, value string, ttl time.Duration) error
	Take(ctx context.Context, state string) (string, error)
}

// OAuthStateKeeper binds an authorization round trip to the browser that
// started it. The state always rides in a cookie; the PKCE verifier goes to
// the store when one is configured and to a second cookie otherwise.
type OAuthStateKeeper struct {
	store  StateStore
	secure bool
}

func NewOAuthStateKeeper(store StateStore, secureCookies bool) *OAuthStateKeeper {
	return &OAuthStateKeeper{store: store, secure: secureCookies}
}

func (k *OAuthStateKeeper) Begin(c *gin.Context, verifier string) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}
	if k.store != nil {
		if err := k.store.Put(c.Request.Context(), state, verifier, oauthStateTTL); err != nil {
			return "", err
		}
	} else {
		k.setCookie(c, pkceCookieName, verifier, int(oauthStateTTL.Seconds()))
	}
	k.setCookie(c, stateCookieName, state, int(oauthStateTTL.Seconds()))
	return state, nil
}

// Finish validates the returned state and hands back the verifier. The
// cookies are cleared whatever the outcome.
func (k *OAuthStateKeeper) Finish(c *gin.Context, state string) (string, error) {
	defer func() {
		k.setCookie(c, stateCookieName, "", -1)
		k.setCookie(c, pkceCookieName, "", -1)
	}()
	if state == "" {
		return "", errStateMismatch
	}
	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return "", errStateMismatch
	}
	if k.store != nil {
		return k.store.Take(c.Request.Context(), state)
	}
	pkce, err := c.Request.Cookie(pkceCookieName)
	if err != nil || pkce.Value == "" {
		return "", errStateMismatch
	}
	return pkce.Value, nil
}

func (k *OAuthStateKeeper) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   k.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
