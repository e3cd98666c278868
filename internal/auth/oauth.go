package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kraft/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var naverEndpoint = oauth2.Endpoint{
	AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
	TokenURL: "https://nid.naver.com/oauth2.0/token",
}

// UserInfo is the normalized identity a provider reports after login.
type UserInfo struct {
	Name    string
	Email   string
	Picture string
	// Attributes is the normalized map handed to the identity resolver.
	Attributes map[string]any
}

// Provider is one configured OAuth2 client registration.
type Provider struct {
	ID          string
	Config      *oauth2.Config
	userInfoURL string
	extract     func(raw map[string]any) (*UserInfo, error)
}

// AuthCodeURL builds the provider redirect carrying the signed state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

// FetchUserInfo exchanges nothing; it calls the provider's userinfo endpoint
// with the token obtained from the code exchange and normalizes the payload.
func (p *Provider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	client := p.Config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint for %s returned status %d", p.ID, resp.StatusCode)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return p.extract(raw)
}

// Registry holds the provider registrations configured at startup. An empty
// registry switches the security policy to form login.
type Registry struct {
	providers []*Provider
}

// NewRegistry builds registrations from configured client credentials and
// logs a masked diagnostic line per provider, so a missing env var is obvious
// at startup rather than at first login.
func NewRegistry(cfg config.OAuthConfig, baseURL string, log *zap.Logger) *Registry {
	reg := &Registry{}

	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		reg.providers = append(reg.providers, googleProvider(cfg.Google, baseURL))
		log.Info("google OAuth2 client registered", zap.String("client_id", mask(cfg.Google.ClientID)))
	} else {
		log.Warn("google OAuth2 credentials not configured")
	}

	if cfg.Naver.ClientID != "" && cfg.Naver.ClientSecret != "" {
		reg.providers = append(reg.providers, naverProvider(cfg.Naver, baseURL))
		log.Info("naver OAuth2 client registered", zap.String("client_id", mask(cfg.Naver.ClientID)))
	} else {
		log.Warn("naver OAuth2 credentials not configured")
	}

	if len(reg.providers) == 0 {
		log.Warn("no OAuth2 clients registered, provider login disabled")
	}
	return reg
}

// Empty reports whether no provider is registered.
func (r *Registry) Empty() bool {
	return len(r.providers) == 0
}

// Get returns the registration for an ID, or nil.
func (r *Registry) Get(id string) *Provider {
	for _, p := range r.providers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IDs lists the registered provider IDs in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		ids = append(ids, p.ID)
	}
	return ids
}

func googleProvider(client config.OAuthClient, baseURL string) *Provider {
	return &Provider{
		ID: "google",
		Config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  baseURL + "/login/oauth2/code/google",
			Scopes:       []string{"profile", "email"},
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
		extract: func(raw map[string]any) (*UserInfo, error) {
			info := &UserInfo{
				Name:    str(raw["name"]),
				Email:   str(raw["email"]),
				Picture: str(raw["picture"]),
			}
			if info.Email == "" {
				return nil, fmt.Errorf("google userinfo payload has no email")
			}
			info.Attributes = attributesOf(info)
			return info, nil
		},
	}
}

func naverProvider(client config.OAuthClient, baseURL string) *Provider {
	return &Provider{
		ID: "naver",
		Config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			Endpoint:     naverEndpoint,
			RedirectURL:  baseURL + "/login/oauth2/code/naver",
			Scopes:       []string{"name", "email", "profile_image"},
		},
		userInfoURL: "https://openapi.naver.com/v1/nid/me",
		extract: func(raw map[string]any) (*UserInfo, error) {
			// Naver nests the profile under "response".
			nested, _ := raw["response"].(map[string]any)
			if nested == nil {
				return nil, fmt.Errorf("naver userinfo payload has no response object")
			}
			name := str(nested["name"])
			if name == "" {
				name = str(nested["nickname"])
			}
			info := &UserInfo{
				Name:    name,
				Email:   str(nested["email"]),
				Picture: str(nested["profile_image"]),
			}
			if info.Email == "" {
				return nil, fmt.Errorf("naver userinfo payload has no email")
			}
			info.Attributes = attributesOf(info)
			return info, nil
		},
	}
}

func attributesOf(info *UserInfo) map[string]any {
	return map[string]any{
		"name":    info.Name,
		"email":   info.Email,
		"picture": info.Picture,
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
