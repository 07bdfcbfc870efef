package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/pkg/httpcontext"
)

type tokenTable map[string]*domain.Identity

func (t tokenTable) Authenticate(_ context.Context, token string) (*domain.Identity, error) {
	if token == "outage" {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "unauthorized", errors.New("redis down"))
	}
	identity, ok := t[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

func run(t *testing.T, setup func(*fasthttp.Request)) (*fasthttp.RequestCtx, string) {
	t.Helper()
	auth := tokenTable{"good": {UserID: "u1", Email: "ana@example.com", TokenID: "t1"}}

	var seen string
	h := SessionAuth(auth, "auth_token", nil, nil)(func(ctx *fasthttp.RequestCtx) {
		seen = httpcontext.UserID(ctx)
		ctx.SetStatusCode(http.StatusNoContent)
	})

	var req fasthttp.Request
	req.SetRequestURI("/tasks")
	setup(&req)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	SecureHeaders(h)(ctx)
	return ctx, seen
}

func TestSessionAuth(t *testing.T) {
	cases := []struct {
		name     string
		setup    func(*fasthttp.Request)
		wantCode int
		wantUser string
	}{
		{"cookie", func(r *fasthttp.Request) { r.Header.SetCookie("auth_token", "good") }, http.StatusNoContent, "u1"},
		{"bearer", func(r *fasthttp.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusNoContent, "u1"},
		{"missing", func(*fasthttp.Request) {}, http.StatusUnauthorized, ""},
		{"unknown", func(r *fasthttp.Request) { r.Header.SetCookie("auth_token", "forged") }, http.StatusUnauthorized, ""},
		{"store outage", func(r *fasthttp.Request) { r.Header.SetCookie("auth_token", "outage") }, http.StatusUnauthorized, ""},
		{"other scheme", func(r *fasthttp.Request) { r.Header.Set("Authorization", "Basic Z29vZA==") }, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		ctx, user := run(t, tc.setup)
		if ctx.Response.StatusCode() != tc.wantCode || user != tc.wantUser {
			t.Errorf("%s: got (%d, %q), want (%d, %q)", tc.name, ctx.Response.StatusCode(), user, tc.wantCode, tc.wantUser)
		}
		if got := string(ctx.Response.Header.Peek("X-Content-Type-Options")); got != "nosniff" {
			t.Errorf("%s: nosniff header = %q", tc.name, got)
		}
	}
}
