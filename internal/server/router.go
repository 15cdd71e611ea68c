package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ava/internal/handlers"
	applog "ava/internal/log"
)

// RequestIDHeader carries the request correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

type route struct {
	pattern   string
	handler   http.HandlerFunc
	protected bool
}

var routes = []route{
	{pattern: "GET /healthz", handler: handlers.Health},
	{pattern: "POST /api/auth/register", handler: handlers.Register},
	{pattern: "POST /api/auth/login", handler: handlers.Login},
	{pattern: "POST /api/auth/logout", handler: handlers.Logout},
	{pattern: "GET /api/user/profile", handler: handlers.Profile, protected: true},
	{pattern: "PUT /api/user/profile", handler: handlers.UpdateProfile, protected: true},
	{pattern: "POST /api/scan/analyze", handler: handlers.AnalyzeText, protected: true},
	{pattern: "POST /api/scan/label", handler: handlers.ScanLabel, protected: true},
	{pattern: "GET /api/ingredients", handler: handlers.ListIngredients, protected: true},
	{pattern: "GET /api/ingredients/{id}", handler: handlers.GetIngredient, protected: true},
	{pattern: "GET /api/products/{id}", handler: handlers.GetProduct, protected: true},
	{pattern: "POST /api/chat", handler: handlers.Chat, protected: true},
	{pattern: "GET /api/chat/conversations", handler: handlers.ListConversations, protected: true},
	{pattern: "POST /api/chat/conversations", handler: handlers.CreateConversation, protected: true},
	{pattern: "GET /api/chat/conversations/{id}", handler: handlers.GetConversation, protected: true},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.protected {
			h = handlers.RequireAuthentication(h)
		}
		mux.Handle(rt.pattern, h)
		applog.Debug(context.Background(), "route registered", "pattern", rt.pattern, "protected", rt.protected)
	}
	return mux
}

// withRequestID tags every request with an id, reusing a well-formed one
// sent by the client.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := applog.WithRequestID(r.Context(), id)
		applog.Debug(ctx, "request received", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
