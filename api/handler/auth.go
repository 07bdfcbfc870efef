package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/timetracker/api/transport"
	"github.com/fastygo/timetracker/pkg/httpcontext"
	authUC "github.com/fastygo/timetracker/usecase/auth"
	profileUC "github.com/fastygo/timetracker/usecase/profile"
)

// CookieConfig controls the session cookie attributes.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	baseHandler
	uc      *authUC.UseCase
	profile *profileUC.UseCase
	cookie  CookieConfig
}

func NewAuthHandler(uc *authUC.UseCase, profile *profileUC.UseCase, cookie CookieConfig, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "auth_token"
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		profile:     profile,
		cookie:      cookie,
	}
}

// @Summary Create an account and open a session
// @Tags auth
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if !h.decode(ctx, &req, false) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Signup(stdCtx, authUC.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.setSessionCookie(ctx, session.Token, session.ExpiresAt)
	h.respondJSON(ctx, http.StatusCreated, transport.UserResponse{User: session.User})
}

// @Summary Open a session
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req, false) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.setSessionCookie(ctx, session.Token, session.ExpiresAt)
	h.respondJSON(ctx, http.StatusOK, transport.UserResponse{User: session.User})
}

// @Summary Close the session
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	token := string(ctx.Request.Header.Cookie(h.cookie.Name))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, token); err != nil {
		h.logger.Warn("session revocation failed",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.Error(err))
	}
	h.clearSessionCookie(ctx)
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: "Logged out successfully"})
}

// @Summary Current user
// @Tags auth
// @Router /auth/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.profile.GetProfile(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.UserResponse{User: *user})
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, token string, expiresAt time.Time) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	c.SetKey(h.cookie.Name)
	c.SetValue(token)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSecure(h.cookie.Secure)
	c.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	if maxAge := int(time.Until(expiresAt).Seconds()); maxAge > 0 {
		c.SetMaxAge(maxAge)
	}
	ctx.Response.Header.SetCookie(c)
}

func (h *AuthHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	c.SetKey(h.cookie.Name)
	c.SetValue("")
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSecure(h.cookie.Secure)
	c.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	c.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(c)
}
