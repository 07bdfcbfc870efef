package httpcontext

import "github.com/valyala/fasthttp"

const (
	userValueUserID  = "httpcontext.user_id"
	userValueEmail   = "httpcontext.email"
	userValueTokenID = "httpcontext.token_id"
)

// SetCaller records the authenticated caller on the request.
func SetCaller(ctx *fasthttp.RequestCtx, userID, email, tokenID string) {
	ctx.SetUserValue(userValueUserID, userID)
	ctx.SetUserValue(userValueEmail, email)
	ctx.SetUserValue(userValueTokenID, tokenID)
}

// UserID returns the authenticated caller, or "" when the request is anonymous.
func UserID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(userValueUserID).(string)
	return id
}

// Email returns the authenticated caller's email.
func Email(ctx *fasthttp.RequestCtx) string {
	email, _ := ctx.UserValue(userValueEmail).(string)
	return email
}
