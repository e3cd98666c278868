// Package security selects the login method at startup and mounts the
// matching routes: provider login when any OAuth2 client is registered,
// local form login otherwise.
package security

import (
	"net/http"
	"time"

	"kraft/internal/auth"
	"kraft/internal/metrics"
	"kraft/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginMode names the active login method.
type LoginMode string

const (
	ModeOAuth LoginMode = "oauth"
	ModeForm  LoginMode = "form"
)

// Policy is the login-method decision plus the handlers that implement it.
type Policy struct {
	mode        LoginMode
	providers   *auth.Registry
	sessions    *auth.SessionManager
	users       *service.UserService
	resolver    *auth.Resolver
	stateSecret []byte
	sessionTTL  time.Duration
	log         *zap.Logger
}

func NewPolicy(
	providers *auth.Registry,
	sessions *auth.SessionManager,
	users *service.UserService,
	resolver *auth.Resolver,
	stateSecret []byte,
	sessionTTL time.Duration,
	log *zap.Logger,
) *Policy {
	p := &Policy{
		mode:        ModeForm,
		providers:   providers,
		sessions:    sessions,
		users:       users,
		resolver:    resolver,
		stateSecret: stateSecret,
		sessionTTL:  sessionTTL,
		log:         log,
	}
	if !providers.Empty() {
		p.mode = ModeOAuth
		log.Info("OAuth2 login enabled", zap.Strings("providers", providers.IDs()))
	} else {
		log.Info("no OAuth2 clients registered, form login enabled")
	}
	return p
}

// Mode returns the selected login method.
func (p *Policy) Mode() LoginMode {
	return p.mode
}

// OAuthEnabled reports whether provider login is active (used by pages).
func (p *Policy) OAuthEnabled() bool {
	return p.mode == ModeOAuth
}

// LoginURL is where anonymous page requests are redirected.
func (p *Policy) LoginURL() string {
	if p.mode == ModeOAuth {
		return "/oauth2/authorization/" + p.providers.IDs()[0]
	}
	return "/login"
}

// MountLoginRoutes registers the routes of the selected login method plus
// logout. loginLimiter is applied to the credential-bearing form POST only.
func (p *Policy) MountLoginRoutes(r *gin.Engine, loginLimiter gin.HandlerFunc) {
	if p.mode == ModeOAuth {
		r.GET("/oauth2/authorization/:provider", p.oauthAuthorize)
		r.GET("/login/oauth2/code/:provider", p.oauthCallback)
	} else {
		r.GET("/login", p.loginPage)
		r.POST("/login", loginLimiter, p.formLogin)
	}
	r.GET("/logout", p.logout)
}

// oauthAuthorize redirects to the provider's consent page with a signed
// state token binding the redirect to our coming callback.
func (p *Policy) oauthAuthorize(c *gin.Context) {
	provider := p.providers.Get(c.Param("provider"))
	if provider == nil {
		c.Redirect(http.StatusFound, "/?error=oauth")
		return
	}
	state, err := auth.NewStateToken(p.stateSecret, provider.ID)
	if err != nil {
		p.log.Error("state token issue failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/?error=oauth")
		return
	}
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// oauthCallback completes the code flow: state check, code exchange,
// userinfo fetch, save-or-update of the user record, then session creation
// with the resolved snapshot cached for later requests.
func (p *Policy) oauthCallback(c *gin.Context) {
	providerID := c.Param("provider")
	provider := p.providers.Get(providerID)
	if provider == nil {
		p.failLogin(c, "oauth", "unknown provider", nil)
		return
	}

	claims, err := auth.ParseStateToken(p.stateSecret, c.Query("state"))
	if err != nil || claims.Provider != providerID {
		p.failLogin(c, "oauth", "state check failed", err)
		return
	}

	ctx := c.Request.Context()
	token, err := provider.Config.Exchange(ctx, c.Query("code"))
	if err != nil {
		p.failLogin(c, "oauth", "code exchange failed", err)
		return
	}
	info, err := provider.FetchUserInfo(ctx, token)
	if err != nil {
		p.failLogin(c, "oauth", "userinfo fetch failed", err)
		return
	}

	if _, err := p.users.SaveOrUpdate(info.Name, info.Email, info.Picture); err != nil {
		p.failLogin(c, "oauth", "user save failed", err)
		return
	}

	snap := p.resolver.Resolve(ctx, "", auth.OAuthPrincipal{Attributes: info.Attributes})
	if snap == nil {
		p.failLogin(c, "oauth", "identity resolution failed", nil)
		return
	}
	p.startSession(c, snap, "oauth")
}

func (p *Policy) loginPage(c *gin.Context) {
	errParam := c.Query("error")
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": errParam})
}

// formLogin authenticates email/password and opens a session.
func (p *Policy) formLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := p.users.Authenticate(email, password)
	if err != nil {
		metrics.IncLogin("form", "unauthorized")
		c.Redirect(http.StatusFound, "/?error=login")
		return
	}
	p.startSession(c, auth.SnapshotOf(user), "form")
}

// logout revokes the session and clears the cookie.
func (p *Policy) logout(c *gin.Context) {
	if sessionID, err := c.Cookie(auth.CookieName); err == nil && sessionID != "" {
		if err := p.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			p.log.Warn("session delete failed", zap.Error(err))
		}
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (p *Policy) startSession(c *gin.Context, snap *auth.Snapshot, method string) {
	sessionID, err := p.sessions.Create(c.Request.Context(), snap)
	if err != nil {
		p.failLogin(c, method, "session create failed", err)
		return
	}
	c.SetCookie(auth.CookieName, sessionID, int(p.sessionTTL.Seconds()), "/", "", false, true)
	metrics.IncLogin(method, "success")
	c.Redirect(http.StatusFound, "/")
}

func (p *Policy) failLogin(c *gin.Context, method, reason string, err error) {
	metrics.IncLogin(method, "failed")
	p.log.Warn("login failed", zap.String("method", method), zap.String("reason", reason), zap.Error(err))
	param := "login"
	if method == "oauth" {
		param = "oauth"
	}
	c.Redirect(http.StatusFound, "/?error="+param)
}
