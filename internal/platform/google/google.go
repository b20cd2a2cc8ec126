package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

const ProviderName = "google"

type Config struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`
	IssuerURL    string `env:"ISSUER_URL" envDefault:"https://accounts.google.com"`
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// Identity holds the facts Google asserts about the signed-in account.
type Identity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type Provider struct {
	log         *logger.Logger
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New runs OIDC discovery against the issuer, so it needs network access.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*Provider, error) {
	if !cfg.Enabled() || strings.TrimSpace(cfg.RedirectURL) == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	issuer := strings.TrimSpace(cfg.IssuerURL)
	if issuer == "" {
		issuer = "https://accounts.google.com"
	}
	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	return &Provider{
		log:      log.With("provider", ProviderName),
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

// AuthCodeURL builds the consent URL with an S256 PKCE challenge for verifier.
func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

func (p *Provider) ExchangeCode(ctx context.Context, code, verifier string) (*Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google did not return id_token")
	}
	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("google id_token missing required claims")
	}

	p.log.Debug("google oidc verified",
		"issuer", idToken.Issuer,
		"email_verified", claims.EmailVerified,
		"expiry_unix", idToken.Expiry.Unix(),
	)
	return &Identity{
		Provider:      ProviderName,
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

// GenerateVerifier returns a fresh PKCE code verifier.
func GenerateVerifier() string { return oauth2.GenerateVerifier() }
