package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/campusshare-backend/internal/domain"
	"github.com/yungbote/campusshare-backend/internal/platform/apierr"
	"github.com/yungbote/campusshare-backend/internal/platform/google"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
	"github.com/yungbote/campusshare-backend/internal/platform/redis"
	"github.com/yungbote/campusshare-backend/internal/services"
)

type fakeProvider struct {
	identity    *google.Identity
	exchangeErr error
	gotVerifier string
}

func (p *fakeProvider) AuthCodeURL(state, verifier string) string {
	return "https://accounts.test/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code, verifier string) (*google.Identity, error) {
	p.gotVerifier = verifier
	if p.exchangeErr != nil {
		return nil, p.exchangeErr
	}
	return p.identity, nil
}

type federatedAuth struct {
	services.AuthService
	err     error
	profile services.FederatedProfile
}

func (a *federatedAuth) FederatedLogin(ctx context.Context, p services.FederatedProfile) (*services.Session, error) {
	a.profile = p
	if a.err != nil {
		return nil, a.err
	}
	return &services.Session{
		User:  &types.User{ID: uuid.New(), Email: p.Email, Role: types.RoleStudent},
		Token: "signed-token",
	}, nil
}

func newOAuthRouter(h *OAuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/google", h.GoogleStart)
	r.GET("/google/callback", h.GoogleCallback)
	r.GET("/google/status", h.GoogleStatus)
	return r
}

func get(r *gin.Engine, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// startFlow runs the start leg and returns the state and the cookies to echo.
func startFlow(t *testing.T, r *gin.Engine) (string, []*http.Cookie) {
	t.Helper()
	rec := get(r, "/google", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("start: expected 302, got %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("start: no state in %s", loc)
	}
	var keep []*http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge > 0 {
			keep = append(keep, ck)
		}
	}
	return state, keep
}

func TestGoogleRoutesWhenNotConfigured(t *testing.T) {
	h := NewOAuthHandler(logger.NewNop(), &federatedAuth{}, nil, nil, "http://app.test")
	r := newOAuthRouter(h)

	if rec := get(r, "/google/status", nil); rec.Code != http.StatusServiceUnavailable ||
		!strings.Contains(rec.Body.String(), `"enabled":false`) {
		t.Fatalf("status: got %d %s", rec.Code, rec.Body.String())
	}
	if rec := get(r, "/google", nil); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("start: expected 503, got %d", rec.Code)
	}
	rec := get(r, "/google/callback?code=x&state=y", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "http://app.test/login?error=auth_failed" {
		t.Fatalf("callback: got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGoogleStatusWhenConfigured(t *testing.T) {
	h := NewOAuthHandler(logger.NewNop(), &federatedAuth{}, &fakeProvider{}, nil, "")
	rec := get(newOAuthRouter(h), "/google/status", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"enabled":true`) {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestGoogleFlowWithCookieState(t *testing.T) {
	provider := &fakeProvider{identity: &google.Identity{
		Provider: "google", Subject: "sub-1", Email: "ana@college.edu", EmailVerified: true, Name: "Ana",
	}}
	auth := &federatedAuth{}
	r := newOAuthRouter(NewOAuthHandler(logger.NewNop(), auth, provider, nil, "http://app.test/"))

	state, cookies := startFlow(t, r)
	if len(cookies) != 2 {
		t.Fatalf("expected state and pkce cookies, got %d", len(cookies))
	}

	rec := get(r, "/google/callback?code=abc&state="+url.QueryEscape(state), cookies)
	if rec.Code != http.StatusFound {
		t.Fatalf("callback: expected 302, got %d", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Path != "/auth/callback" || loc.Query().Get("token") != "signed-token" || loc.Query().Get("profileCompleted") != "false" {
		t.Fatalf("unexpected redirect %s", loc)
	}
	if provider.gotVerifier == "" {
		t.Fatalf("verifier was not passed to the exchange")
	}
	if auth.profile.Subject != "sub-1" || !auth.profile.EmailVerified {
		t.Fatalf("profile not forwarded: %+v", auth.profile)
	}
}

func TestGoogleCallbackRejectsStateMismatch(t *testing.T) {
	provider := &fakeProvider{identity: &google.Identity{Subject: "s", Email: "a@b.c", EmailVerified: true}}
	r := newOAuthRouter(NewOAuthHandler(logger.NewNop(), &federatedAuth{}, provider, nil, "http://app.test"))

	_, cookies := startFlow(t, r)
	rec := get(r, "/google/callback?code=abc&state=forged", cookies)
	if rec.Header().Get("Location") != "http://app.test/login?error=auth_failed" {
		t.Fatalf("expected auth_failed, got %s", rec.Header().Get("Location"))
	}
	if provider.gotVerifier != "" {
		t.Fatalf("exchange must not run on a bad state")
	}

	rec = get(r, "/google/callback?code=abc&state=whatever", nil)
	if rec.Header().Get("Location") != "http://app.test/login?error=auth_failed" {
		t.Fatalf("missing cookie: got %s", rec.Header().Get("Location"))
	}
}

func TestGoogleCallbackErrorMapping(t *testing.T) {
	cases := []struct {
		name        string
		exchangeErr error
		loginErr    error
		want        string
	}{
		{"exchange fails", errors.New("bad code"), nil, "auth_failed"},
		{"unverified email", nil, apierr.Wrap(services.ErrUnauthenticated, "Email not verified", nil), "auth_failed"},
		{"store failure", nil, errors.New("db down"), "server_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &fakeProvider{
				identity:    &google.Identity{Subject: "s", Email: "a@b.c"},
				exchangeErr: tc.exchangeErr,
			}
			r := newOAuthRouter(NewOAuthHandler(logger.NewNop(), &federatedAuth{err: tc.loginErr}, provider, nil, "http://app.test"))
			state, cookies := startFlow(t, r)
			rec := get(r, "/google/callback?code=abc&state="+url.QueryEscape(state), cookies)
			if got := rec.Header().Get("Location"); got != "http://app.test/login?error="+tc.want {
				t.Fatalf("got %s", got)
			}
		})
	}
}

func TestGoogleFlowWithRedisState(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	provider := &fakeProvider{identity: &google.Identity{Subject: "s", Email: "a@b.c", EmailVerified: true}}
	keeper := NewOAuthStateKeeper(redis.NewStateStore(rdb, "oauth:"), true)
	r := newOAuthRouter(NewOAuthHandler(logger.NewNop(), &federatedAuth{}, provider, keeper, "http://app.test"))

	state, cookies := startFlow(t, r)
	if len(cookies) != 1 || cookies[0].Name != stateCookieName {
		t.Fatalf("expected only the state cookie, got %v", cookies)
	}
	if !mr.Exists("oauth:" + state) {
		t.Fatalf("verifier not stored under state")
	}

	rec := get(r, "/google/callback?code=abc&state="+url.QueryEscape(state), cookies)
	if !strings.HasPrefix(rec.Header().Get("Location"), "http://app.test/auth/callback?") {
		t.Fatalf("callback: got %s", rec.Header().Get("Location"))
	}
	if mr.Exists("oauth:" + state) {
		t.Fatalf("state must be single use")
	}

	// Replaying the same callback fails because the verifier is gone.
	rec = get(r, "/google/callback?code=abc&state="+url.QueryEscape(state), cookies)
	if rec.Header().Get("Location") != "http://app.test/login?error=auth_failed" {
		t.Fatalf("replay: got %s", rec.Header().Get("Location"))
	}
}
