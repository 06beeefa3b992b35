package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/protomem/shift-tracker/internal/ctxstore"
	"github.com/protomem/shift-tracker/internal/model"
	"github.com/protomem/shift-tracker/internal/response"
	"github.com/rs/cors"

	"github.com/tomasen/realip"
)

const (
	_traceIDKey   = ctxstore.Key("traceId")
	_actorIDKey   = ctxstore.Key("actorId")
	_actorRoleKey = ctxstore.Key("actorRole")
)

const _adminRole = "admin"

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), _traceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("repsonse", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

// authenticate trusts the upstream gateway's identity headers: the
// actual authentication happens before requests reach this core.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get("X-User-Id")

		id, err := strconv.Atoi(rawID)
		if rawID == "" || err != nil || id <= 0 {
			app.errorMessage(w, r, http.StatusUnauthorized, model.NewError("actor", model.ErrUnauthorized).Error(), nil)
			return
		}

		role := r.Header.Get("X-User-Role")
		if role == "" {
			role = "user"
		}

		ctx := ctxstore.With(r.Context(), _actorIDKey, model.ID(id))
		ctx = ctxstore.With(ctx, _actorRoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := ctxstore.MustFrom[string](r.Context(), _actorRoleKey)
		if role != _adminRole {
			app.errorMessage(w, r, http.StatusForbidden, model.NewError("actor", model.ErrForbidden).Error(), nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func actorFromRequest(r *http.Request) model.ID {
	return ctxstore.MustFrom[model.ID](r.Context(), _actorIDKey)
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
