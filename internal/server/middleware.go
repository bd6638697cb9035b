package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sydneyquest/questapi/internal/quest"
)

type ctxKey int

const (
	ctxKeyDevice ctxKey = iota
	ctxKeyQuest
)

// deviceMiddleware resolves the caller's device identity from the
// X-Device-ID header. The id is client-generated and trusted as-is;
// there is no account system.
func deviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get("X-Device-ID")
		if deviceID == "" {
			writeError(w, http.StatusBadRequest, "X-Device-ID header is required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyDevice, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// questMiddleware resolves {questID} against the catalog.
func questMiddleware(catalog *quest.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q, ok := catalog.ByID(chi.URLParam(r, "questID"))
			if !ok {
				writeError(w, http.StatusNotFound, "quest not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyQuest, q)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deviceFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyDevice).(string)
}

func questFrom(r *http.Request) *quest.Quest {
	return r.Context().Value(ctxKeyQuest).(*quest.Quest)
}
