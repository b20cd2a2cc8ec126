package google

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

func testProvider(tokenURL string) *Provider {
	return &Provider{
		log: logger.NewNop(),
		oauthConfig: &oauth2.Config{
			ClientID:     "client-123",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost:5000/api/auth/google/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.test/o/oauth2/auth",
				TokenURL: tokenURL,
			},
			Scopes: []string{"openid", "profile", "email"},
		},
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{ClientID: "id"}).Enabled() {
		t.Fatalf("client id alone must not enable the provider")
	}
	if !(Config{ClientID: "id", ClientSecret: "s"}).Enabled() {
		t.Fatalf("id and secret should enable the provider")
	}
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	if _, err := New(context.Background(), logger.NewNop(), Config{ClientID: "id"}); err == nil {
		t.Fatalf("expected an error for missing secret")
	}
}

func TestAuthCodeURLCarriesStateAndChallenge(t *testing.T) {
	p := testProvider("https://accounts.test/token")
	verifier := GenerateVerifier()

	u, err := url.Parse(p.AuthCodeURL("state-xyz", verifier))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	sum := sha256.Sum256([]byte(verifier))
	wantChallenge := base64.RawURLEncoding.EncodeToString(sum[:])

	if q.Get("state") != "state-xyz" || q.Get("client_id") != "client-123" {
		t.Fatalf("unexpected query %v", q)
	}
	if q.Get("code_challenge") != wantChallenge || q.Get("code_challenge_method") != "S256" {
		t.Fatalf("pkce challenge mismatch: %v", q)
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Fatalf("email scope missing: %q", q.Get("scope"))
	}
}

func TestExchangeCodeRequiresIDToken(t *testing.T) {
	verifiers := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		verifiers <- r.PostForm.Get("code_verifier")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	_, err := p.ExchangeCode(context.Background(), "auth-code", "the-verifier")
	if err == nil || !strings.Contains(err.Error(), "id_token") {
		t.Fatalf("expected missing id_token error, got %v", err)
	}
	if got := <-verifiers; got != "the-verifier" {
		t.Fatalf("verifier not sent to token endpoint: %q", got)
	}
}
